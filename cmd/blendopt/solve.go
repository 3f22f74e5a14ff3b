package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/terraplan/blendopt/internal/domain/models"
	"github.com/terraplan/blendopt/internal/repository/tables"
	"github.com/terraplan/blendopt/internal/service/blend"
	"github.com/terraplan/blendopt/internal/service/report"
	"github.com/terraplan/blendopt/pkg/logger"
)

// scenarioFlags groups the per-scenario tunables shared by solve, compare
// and serve.
type scenarioFlags struct {
	nmax    float64
	mixmax  float64
	tol     float64
	appCost float64
}

func registerScenarioFlags(cmd *cobra.Command, suffix string) *scenarioFlags {
	name := func(base string) string {
		if suffix == "" {
			return base
		}
		return base + "-" + suffix
	}

	sf := &scenarioFlags{}
	cmd.Flags().Float64Var(&sf.nmax, name("nmax"), 0, "nitrogen cap in kg/ha (0 = disabled)")
	cmd.Flags().Float64Var(&sf.mixmax, name("mixmax"), 0, "total mix cap in kg/ha (0 = disabled)")
	cmd.Flags().Float64Var(&sf.tol, name("tol"), 0.02, "fraction of each requirement that may be left unmet")
	cmd.Flags().Float64Var(&sf.appCost, name("app-cost"), 0, "application cost in CLP per tonne spread")
	return sf
}

func (sf *scenarioFlags) params(tag string) models.ScenarioParams {
	return models.ScenarioParams{
		NMaxKgHa:      sf.nmax,
		MixMaxKgHa:    sf.mixmax,
		Tolerance:     sf.tol,
		AppCostCLPTon: sf.appCost,
		Tag:           tag,
	}
}

var (
	solveFlags   *scenarioFlags
	solveTag     string
	solveReqPath string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one scenario and write its dose table and cost summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		writer := report.NewWriter(cfg.Data.OutDir, logger.Named(baseLog, "report"))
		params := solveFlags.params(solveTag)

		result, err := runScenario(cmd.Context(), params, solveReqPath)
		if err != nil {
			writer.Cleanup(params.Tag)
			return err
		}

		if err := writer.Write(result); err != nil {
			writer.Cleanup(params.Tag)
			return err
		}

		fmt.Printf("OK -> %s | %s\n",
			filepath.Base(writer.DoseCSVPath(params.Tag)),
			filepath.Base(writer.SummaryPath(params.Tag)))
		return nil
	},
}

func init() {
	solveFlags = registerScenarioFlags(solveCmd, "")
	solveCmd.Flags().StringVar(&solveTag, "tag", "", "scenario tag used to namespace output files")
	solveCmd.Flags().StringVar(&solveReqPath, "req-path", "", "alternate requirements table (adjusted-requirement variant)")
}

// runScenario is one full, self-contained pipeline invocation: it loads its
// own tables, so concurrent or sequential runs share nothing.
func runScenario(ctx context.Context, params models.ScenarioParams, reqPath string) (models.ScenarioResult, error) {
	repo, err := tables.FromConfig(ctx, cfg, reqPath, logger.Named(baseLog, "tables"))
	if err != nil {
		return models.ScenarioResult{}, err
	}

	tabs, err := repo.Load(ctx)
	if err != nil {
		return models.ScenarioResult{}, err
	}

	solveCtx := ctx
	if cfg.Solver.Timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, cfg.Solver.Timeout)
		defer cancel()
	}

	pipeline := blend.NewPipeline(logger.Named(baseLog, "blend"))
	return pipeline.Run(solveCtx, tabs, params)
}
