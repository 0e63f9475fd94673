package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c0pper/data-driven-blog/internal/immich"
)

func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Log in to Journiv and probe Immich with the current configuration",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	st, logger, err := newState(cfg, false)
	if err != nil {
		return err
	}
	defer logger.Close()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var failed []error
	if ok, err := st.Journal.Login(ctx); err != nil || !ok {
		if err == nil {
			err = errors.New("credentials rejected")
		}
		failed = append(failed, fmt.Errorf("journiv: %w", err))
		fmt.Fprintf(out, "journiv  %s  FAIL  %v\n", st.Journal.BaseURL(), err)
	} else {
		fmt.Fprintf(out, "journiv  %s  ok\n", st.Journal.BaseURL())
	}

	size := 1
	if resp, err := st.Photos.SearchTyped(ctx, immich.SearchAssetsRequest{Size: &size}); err != nil {
		failed = append(failed, fmt.Errorf("immich: %w", err))
		fmt.Fprintf(out, "immich   %s  FAIL  %v\n", st.Photos.BaseURL(), err)
	} else {
		fmt.Fprintf(out, "immich   %s  ok  (%d assets)\n", st.Photos.BaseURL(), resp.Assets.Total)
	}
	return errors.Join(failed...)
}
