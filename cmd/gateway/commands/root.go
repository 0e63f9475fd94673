package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c0pper/data-driven-blog/internal/clients"
	"github.com/c0pper/data-driven-blog/internal/config"
	"github.com/c0pper/data-driven-blog/internal/logging"
	"github.com/c0pper/data-driven-blog/internal/state"
)

var (
	envFile  string
	logLevel string
)

// NewRootCommand creates the root command. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gateway",
		Short:         "Personal-data gateway for Immich and Journiv",
		Long:          `gateway exposes Immich photo search and Journiv journal data behind one local HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env, or $ENV_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewEntriesCommand())

	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	if envFile != "" {
		_ = os.Setenv("ENV_FILE", envFile)
	}
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

// newState wires the shared HTTP client and both backend clients. The
// returned logger must be closed by the caller.
func newState(cfg config.Config, withFile bool) (*state.AppState, *logging.Logger, error) {
	var logger *logging.Logger
	if withFile {
		var err error
		if logger, err = logging.NewWithDir(cfg.LogLevel, cfg.LogDir); err != nil {
			return nil, nil, err
		}
	} else {
		logger = logging.New(cfg.LogLevel)
	}
	return state.NewAppState(cfg, logger, clients.NewHTTPClient(cfg)), logger, nil
}
