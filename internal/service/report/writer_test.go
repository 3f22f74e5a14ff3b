package report

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraplan/blendopt/internal/domain/models"
)

func sampleResult() models.ScenarioResult {
	return models.ScenarioResult{
		Tag: "A",
		Rows: []models.DoseRow{
			{Field: "P1", Product: "dap", KgHa: 170.91},
			{Field: "P1", Product: "urea", KgHa: 300},
		},
		TotalCostCLP: 2409642,
	}
}

func TestWriterWrite(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	require.NoError(t, w.Write(sampleResult()))

	t.Run("dose table content", func(t *testing.T) {
		raw, err := os.ReadFile(w.DoseCSVPath("A"))
		require.NoError(t, err)
		assert.Equal(t, "potrero,producto,kg_ha\nP1,dap,170.91\nP1,urea,300.00\n", string(raw))
	})

	t.Run("summary reconciles with the result", func(t *testing.T) {
		amount, err := ReadTotalCost(w.SummaryPath("A"))
		require.NoError(t, err)
		assert.Equal(t, int64(2409642), amount)
	})

	t.Run("empty tag drops the suffix", func(t *testing.T) {
		assert.NotContains(t, w.DoseCSVPath(""), "_.csv")
		assert.Contains(t, w.DoseCSVPath(""), "resultados_dosis.csv")
		assert.Contains(t, w.SummaryPath(""), "_resumen.txt")
	})
}

func TestWriterCleanup(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	require.NoError(t, w.Write(sampleResult()))

	w.Cleanup("A")

	_, err := os.Stat(w.DoseCSVPath("A"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(w.SummaryPath("A"))
	assert.True(t, os.IsNotExist(err))

	// Cleaning an already-clean tag is a no-op.
	w.Cleanup("A")
}

func TestComparison(t *testing.T) {
	a := models.ScenarioResult{Tag: "A", TotalCostCLP: 1000000}
	b := models.ScenarioResult{Tag: "B", TotalCostCLP: 1250000}

	cmp := Comparison{A: a, B: b}
	assert.Equal(t, int64(250000), cmp.DiffCLP())

	text := cmp.Text()
	assert.Contains(t, text, "Cost A: $1.000.000")
	assert.Contains(t, text, "Cost B: $1.250.000")
	assert.Contains(t, text, "Difference (B - A): $250.000")
	assert.Contains(t, text, "more expensive")

	cheaper := Comparison{A: b, B: a}
	assert.Contains(t, cheaper.Text(), "cheaper")

	same := Comparison{A: a, B: models.ScenarioResult{Tag: "B", TotalCostCLP: 1000000}}
	assert.Contains(t, same.Text(), "costs the same")
}
