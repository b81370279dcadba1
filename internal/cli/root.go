package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tokensim/internal/config"
	"tokensim/internal/logging"
	"tokensim/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.RunStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize the run journal if enabled
	if cfg.Journal.Enabled {
		runStore, err := store.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize run journal, history will be unavailable")
		} else {
			app.Store = runStore
			logger.Debug().Str("path", cfg.Journal.Path).Msg("Run journal initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "tokensim",
		Short: "Tokensim - tokenomics simulation CLI",
		Long: `Tokensim projects the economic evolution of a token-based project:
price, circulating supply, trading volume, and user adoption across
discrete time intervals, under configurable supply, burn, fee, and
airdrop policies.

Use 'tokensim run' to run a simulation and print its report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd(app))
	addHistoryCommands(rootCmd, app)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
				return
			}
			output.Printf("tokensim %s\n", Version)
		},
	}
}
