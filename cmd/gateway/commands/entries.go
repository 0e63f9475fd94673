package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c0pper/data-driven-blog/internal/journiv"
	"github.com/c0pper/data-driven-blog/internal/upstream"
)

func NewEntriesCommand() *cobra.Command {
	var journalID, date string
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Print every entry of a journal as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if journalID == "" {
				journalID = cfg.Journiv.JournalID
			}
			if journalID == "" {
				return errors.New("--journal-id or JOURNIV_JOURNAL_ID is required")
			}
			if date != "" {
				if _, err := upstream.ParseDate("date", date); err != nil {
					return err
				}
			}
			st, logger, err := newState(cfg, false)
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx := cmd.Context()
			if err := st.Journal.EnsureSession(ctx); err != nil {
				return fmt.Errorf("journiv login: %w", err)
			}
			entries, err := st.Journal.AllJournalEntries(ctx, journalID)
			if err != nil {
				return err
			}
			if date != "" {
				entries = journiv.EntriesByDate(entries, date)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
	cmd.Flags().StringVar(&journalID, "journal-id", "", "journal to dump (default $JOURNIV_JOURNAL_ID)")
	cmd.Flags().StringVar(&date, "date", "", "only entries dated YYYY-MM-DD")
	return cmd
}
