package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github/itish2003/deepsearch/config"
	"github/itish2003/deepsearch/services"
)

var (
	// Global flags
	debug     bool
	dataDir   string
	rulesFile string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deepsearch",
	Short: "Search exported records across CSV, document and SQLite sources",
	Long: `deepsearch loads every CSV export in the data directory, builds missing
derived datasets (structured notes, consolidated schedules) and searches
across all of them with exact, fuzzy and date range matching.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("rules") {
			cfg.RulesFile = rulesFile
			if err := cfg.LoadRules(); err != nil {
				return err
			}
		}
		cfg.Debug = cfg.Debug || debug

		zcfg := zap.NewProductionConfig()
		if cfg.Debug {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := services.ConfigurePDFLicense(cfg.PDFLicenseKey); err != nil {
			logger.Warn("PDF documents will be skipped", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", ".", "Data directory holding the CSV exports")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "extraction_rules.yaml", "Extraction rules file")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(quickbooksCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generators returns the derived dataset builders the loader bootstraps.
func generators() []services.DerivedGenerator {
	return []services.DerivedGenerator{
		services.NewNotesStructurer(cfg, logger),
		services.NewScheduleProcessor(cfg, logger),
	}
}

// newSearchService loads the catalog and wraps it in a search service.
func newSearchService(ctx context.Context) (services.SearchService, *services.DatasetLoader, error) {
	loader := services.NewDatasetLoader(cfg, logger, generators()...)
	catalog, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	ws, err := services.NewWorkspace(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return services.NewSearchService(catalog, ws, logger), loader, nil
}
