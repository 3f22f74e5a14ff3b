package blend

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraplan/blendopt/internal/domain/models"
)

func TestExtract(t *testing.T) {
	tabs := models.Tables{
		Fields: []models.Field{{ID: "P1", Crop: "trigo", AreaHa: 2}},
		Requirements: map[string]models.CropRequirement{
			"trigo": {Crop: "trigo"},
		},
		Products: []models.Product{
			{ID: "urea", PriceCLPTon: 1000, DoseMaxKgHa: 500},
			{ID: "dap", PriceCLPTon: 1000, DoseMaxKgHa: 500},
		},
	}

	t.Run("numerically zero doses are dropped", func(t *testing.T) {
		sol := &Solution{Doses: [][]float64{{1e-9, 123.456}}}
		result := Extract(tabs, models.ScenarioParams{Tag: "A"}, sol)

		require.Len(t, result.Rows, 1)
		assert.Equal(t, "dap", result.Rows[0].Product)
		assert.Equal(t, 123.46, result.Rows[0].KgHa)
	})

	t.Run("cost is recomputed from the rounded table", func(t *testing.T) {
		sol := &Solution{Doses: [][]float64{{0, 123.456}}}
		result := Extract(tabs, models.ScenarioParams{Tag: "A"}, sol)

		// 123.46 kg/ha * 2 ha * 1000 CLP/ton / 1000 = 246.92 CLP.
		assert.Equal(t, int64(247), result.TotalCostCLP)
	})

	t.Run("application cost joins the price term", func(t *testing.T) {
		sol := &Solution{Doses: [][]float64{{0, 123.456}}}
		result := Extract(tabs, models.ScenarioParams{Tag: "A", AppCostCLPTon: 500}, sol)

		// 123.46 * 2 * (1000+500)/1000 = 370.38 CLP.
		assert.Equal(t, int64(370), result.TotalCostCLP)
	})

	t.Run("rows are sorted by field then product", func(t *testing.T) {
		multi := models.Tables{
			Fields: []models.Field{
				{ID: "P2", Crop: "trigo", AreaHa: 1},
				{ID: "P1", Crop: "trigo", AreaHa: 1},
			},
			Requirements: tabs.Requirements,
			Products:     tabs.Products,
		}
		sol := &Solution{Doses: [][]float64{{10, 20}, {30, 40}}}
		result := Extract(multi, models.ScenarioParams{Tag: "A"}, sol)

		require.Len(t, result.Rows, 4)
		assert.Equal(t, "P1", result.Rows[0].Field)
		assert.Equal(t, "dap", result.Rows[0].Product)
		assert.Equal(t, "P2", result.Rows[3].Field)
		assert.Equal(t, "urea", result.Rows[3].Product)
	})

	t.Run("summary amount reconciles with the dose table", func(t *testing.T) {
		sol, err := Solve(context.Background(), wheatTables(), wheatParams())
		require.NoError(t, err)

		result := Extract(wheatTables(), wheatParams(), sol)

		var recomputed float64
		for _, row := range result.Rows {
			var price float64
			for _, prod := range wheatTables().Products {
				if prod.ID == row.Product {
					price = prod.PriceCLPTon
				}
			}
			recomputed += row.KgHa * 10 * price / kgPerTon
		}
		assert.Equal(t, result.TotalCostCLP, int64(math.Round(recomputed)))
	})
}
