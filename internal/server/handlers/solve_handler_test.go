package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraplan/blendopt/internal/domain/models"
)

type stubLoader struct {
	tabs models.Tables
	err  error
}

func (s stubLoader) Load(context.Context) (models.Tables, error) { return s.tabs, s.err }

type stubRunner struct {
	result models.ScenarioResult
	err    error
	params models.ScenarioParams
}

func (s *stubRunner) Run(_ context.Context, _ models.Tables, params models.ScenarioParams) (models.ScenarioResult, error) {
	s.params = params
	return s.result, s.err
}

func newTestRouter(loader TableLoader, runner ScenarioRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewSolveHandler(loader, runner, nil, nil)

	r := gin.New()
	r.POST("/api/solve", handler.Solve)
	return r
}

func TestSolveHandler(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		runner := &stubRunner{
			result: models.ScenarioResult{
				Tag:          "A",
				Rows:         []models.DoseRow{{Field: "P1", Product: "urea", KgHa: 300}},
				TotalCostCLP: 2409642,
			},
		}
		r := newTestRouter(stubLoader{}, runner)

		body := `{"nmax_kg_ha":300,"mixmax_kg_ha":600,"tolerance":0.02,"tag":"A"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp SolveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "A", resp.Tag)
		assert.Equal(t, int64(2409642), resp.TotalCostCLP)
		assert.Equal(t, "$2.409.642", resp.TotalCostFmt)
		require.Len(t, resp.Rows, 1)

		// Parameters travel by value into the pipeline.
		assert.Equal(t, 300.0, runner.params.NMaxKgHa)
		assert.Equal(t, 600.0, runner.params.MixMaxKgHa)
		assert.Equal(t, 0.02, runner.params.Tolerance)
	})

	t.Run("invalid body", func(t *testing.T) {
		r := newTestRouter(stubLoader{}, &stubRunner{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("precheck diagnostics surface as 422", func(t *testing.T) {
		runner := &stubRunner{
			err: &models.PrecheckInfeasibleError{Diagnostics: []string{"field P1: required N 100.0 > reachable N 46.0 (nmax/mixmax/dose caps)"}},
		}
		r := newTestRouter(stubLoader{}, runner)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(`{"tag":"A"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "diagnostics")
	})

	t.Run("missing column surfaces as 422", func(t *testing.T) {
		loader := stubLoader{err: &models.MissingColumnError{Table: "productos.csv", Column: "precio_CLP_ton"}}
		r := newTestRouter(loader, &stubRunner{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(`{"tag":"A"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "precio_CLP_ton")
	})

	t.Run("solver timeout surfaces as 504", func(t *testing.T) {
		runner := &stubRunner{err: &models.SolverTimeoutError{}}
		r := newTestRouter(stubLoader{}, runner)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(`{"tag":"A"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}
