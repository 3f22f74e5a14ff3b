package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terraplan/blendopt/internal/config"
	"github.com/terraplan/blendopt/pkg/logger"
)

var (
	// Global flags
	envFile string
	dataDir string
	outDir  string
	verbose bool

	cfg     *config.Config
	baseLog *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "blendopt",
	Short: "Minimum-cost fertilizer blend optimizer",
	Long: `blendopt computes the cheapest fertilizer blend per field that still
meets each crop's N/P2O5/K2O requirements within a tolerance, respecting
per-product dose bounds and optional mix and nitrogen caps.

It reads three tables (potreros, requerimientos, productos), prechecks
feasibility, solves one linear program per scenario and writes a dose table
plus a cost summary per scenario tag.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}

		if dataDir != "" {
			cfg.Data.Dir = dataDir
			cfg.Data.FieldsPath = filepath.Join(dataDir, "potreros.csv")
			cfg.Data.RequirementsPath = filepath.Join(dataDir, "requerimientos.csv")
			cfg.Data.ProductsPath = filepath.Join(dataDir, "productos.csv")
			if outDir == "" {
				cfg.Data.OutDir = dataDir
			}
		}
		if outDir != "" {
			cfg.Data.OutDir = outDir
		}

		if cmd.Name() == "serve" {
			baseLog, err = logger.New()
		} else {
			baseLog, err = logger.NewCLI(verbose)
		}
		if err != nil {
			return err
		}

		zap.ReplaceGlobals(baseLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if baseLog != nil {
			_ = baseLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file to load configuration from")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the three input tables (overrides BLENDOPT_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "", "directory for output files (defaults to the data directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
