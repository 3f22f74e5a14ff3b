package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/terraplan/blendopt/internal/domain/models"
	"github.com/terraplan/blendopt/internal/service/report"
)

// TableLoader loads the normalized input tables.
type TableLoader interface {
	Load(ctx context.Context) (models.Tables, error)
}

// ScenarioRunner runs one scenario pipeline.
type ScenarioRunner interface {
	Run(ctx context.Context, tabs models.Tables, params models.ScenarioParams) (models.ScenarioResult, error)
}

// SolveHandler exposes the blend pipeline over HTTP for the dashboard layer.
type SolveHandler struct {
	loader  TableLoader
	runner  ScenarioRunner
	timeout func(context.Context) (context.Context, context.CancelFunc)
	logger  *zap.Logger
}

// NewSolveHandler constructs the HTTP handler adapter. The timeout function
// derives the per-solve context (nil means no deadline).
func NewSolveHandler(loader TableLoader, runner ScenarioRunner, timeout func(context.Context) (context.Context, context.CancelFunc), logger *zap.Logger) *SolveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout == nil {
		timeout = func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithCancel(ctx)
		}
	}
	return &SolveHandler{loader: loader, runner: runner, timeout: timeout, logger: logger}
}

// SolveRequest carries one scenario's parameters.
type SolveRequest struct {
	NMaxKgHa      float64 `json:"nmax_kg_ha"`
	MixMaxKgHa    float64 `json:"mixmax_kg_ha"`
	Tolerance     float64 `json:"tolerance"`
	AppCostCLPTon float64 `json:"app_cost_clp_ton"`
	Tag           string  `json:"tag"`
}

// SolveResponse is the JSON rendering of a scenario result.
type SolveResponse struct {
	Tag          string    `json:"tag"`
	Rows         []doseRow `json:"doses"`
	TotalCostCLP int64     `json:"total_cost_clp"`
	TotalCostFmt string    `json:"total_cost_formatted"`
}

type doseRow struct {
	Field   string  `json:"potrero"`
	Product string  `json:"producto"`
	KgHa    float64 `json:"kg_ha"`
}

// Solve runs one scenario against the configured input tables and returns
// the dose table plus total cost.
func (h *SolveHandler) Solve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid solve payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tabs, err := h.loader.Load(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	params := models.ScenarioParams{
		NMaxKgHa:      req.NMaxKgHa,
		MixMaxKgHa:    req.MixMaxKgHa,
		Tolerance:     req.Tolerance,
		AppCostCLPTon: req.AppCostCLPTon,
		Tag:           req.Tag,
	}

	ctx, cancel := h.timeout(c.Request.Context())
	defer cancel()

	result, err := h.runner.Run(ctx, tabs, params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := SolveResponse{
		Tag:          result.Tag,
		Rows:         make([]doseRow, 0, len(result.Rows)),
		TotalCostCLP: result.TotalCostCLP,
		TotalCostFmt: report.FormatCLP(result.TotalCostCLP),
	}
	for _, row := range result.Rows {
		resp.Rows = append(resp.Rows, doseRow{Field: row.Field, Product: row.Product, KgHa: row.KgHa})
	}

	c.JSON(http.StatusOK, resp)
}

// respondError maps the error taxonomy onto HTTP statuses: input and
// feasibility problems are the client's data (422), everything else is ours.
func (h *SolveHandler) respondError(c *gin.Context, err error) {
	var missingCol *models.MissingColumnError
	var unknownCrop *models.UnknownCropError
	var precheck *models.PrecheckInfeasibleError
	var nonOptimal *models.SolverNonOptimalError
	var timeout *models.SolverTimeoutError

	switch {
	case errors.As(err, &missingCol), errors.As(err, &unknownCrop):
		h.logger.Warn("rejected solve input", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &precheck):
		h.logger.Warn("precheck infeasible", zap.Strings("diagnostics", precheck.Diagnostics))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "infeasible before solve", "diagnostics": precheck.Diagnostics})
	case errors.As(err, &nonOptimal):
		h.logger.Warn("solver non-optimal", zap.String("status", nonOptimal.Status))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "status": nonOptimal.Status})
	case errors.As(err, &timeout):
		h.logger.Error("solver timed out", zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		h.logger.Error("solve failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to solve scenario"})
	}
}
