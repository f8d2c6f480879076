// Package cli provides the command-line interface for the analysis engine.
package cli

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cryptoradar/internal/analysis/scoring"
	"cryptoradar/internal/config"
	"cryptoradar/internal/marketdata"
	"cryptoradar/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Provider marketdata.Provider
	Store    store.Store
	Analyzer *scoring.Analyzer
	Ranker   *scoring.Ranker
}

// ConfigDir resolves the configuration directory from the raw argument list.
// Config has to load before cobra parses anything, so the --config flag is
// scanned by hand here; it wins over CRYPTORADAR_CONFIG_DIR.
func ConfigDir(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return os.Getenv("CRYPTORADAR_CONFIG_DIR")
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Provider = marketdata.NewCSVProvider(cfg.Data.CandleDir, cfg.Data.SnapshotFile)
	app.Analyzer = scoring.NewAnalyzer(app.Provider, cfg.Scoring.MaxPredictedMove, logger)
	app.Ranker = scoring.NewRanker(app.Analyzer, scoring.BatchPolicy{
		Size:        cfg.Ranker.BatchSize,
		Delay:       cfg.Ranker.BatchDelay,
		Concurrency: cfg.Ranker.Concurrency,
	}, cfg.Ranker.TopN, logger)

	dataStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize store, history will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "cryptoradar",
		Short: "Crypto technical analysis and recommendation engine",
		Long: `Cryptoradar scores crypto assets with a deterministic technical analysis
pipeline: indicators, support/resistance, patterns, and multi-timeframe trend
fusion, combined with fundamental and sentiment scoring into ranked
recommendations.

Use 'cryptoradar help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Parsed ahead of cobra by ConfigDir; declared here so cobra accepts it
	rootCmd.PersistentFlags().String("config", "", "config directory (overrides CRYPTORADAR_CONFIG_DIR)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newRankCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("cryptoradar %s\n", Version)
		},
	}
}
