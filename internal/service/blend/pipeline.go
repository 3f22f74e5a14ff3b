package blend

import (
	"context"

	"go.uber.org/zap"

	"github.com/terraplan/blendopt/internal/domain/models"
)

// Pipeline runs the precheck-solve-extract sequence for one scenario. It
// holds no mutable state, so two scenario runs never interact; any
// concurrency between them is the caller's business.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline wires a pipeline instance.
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Run maps normalized tables and one parameter set to a result or a typed
// error. No retries: the computation is deterministic, so re-running an
// identical input changes nothing.
func (p *Pipeline) Run(ctx context.Context, tabs models.Tables, params models.ScenarioParams) (models.ScenarioResult, error) {
	if msgs := Precheck(tabs, params); len(msgs) > 0 {
		for _, msg := range msgs {
			p.logger.Warn("precheck diagnostic", zap.String("tag", params.Tag), zap.String("diagnostic", msg))
		}
		return models.ScenarioResult{}, &models.PrecheckInfeasibleError{Diagnostics: msgs}
	}

	sol, err := Solve(ctx, tabs, params)
	if err != nil {
		return models.ScenarioResult{}, err
	}

	result := Extract(tabs, params, sol)
	p.logger.Info("scenario solved",
		zap.String("tag", params.Tag),
		zap.Int("doses", len(result.Rows)),
		zap.Int64("total_cost_clp", result.TotalCostCLP))

	return result, nil
}
