package blend

import (
	"math"
	"sort"

	"github.com/terraplan/blendopt/internal/domain/models"
)

// Extract turns solved doses into the caller-owned result: doses at or below
// doseEps are dropped as numerically zero, the rest are rounded to two
// decimals, and the total cost is recomputed from the retained, rounded
// table with the objective formula. Recomputing (instead of reading the
// solver's objective value) keeps the dose table and the cost summary
// exactly reconcilable.
func Extract(tabs models.Tables, params models.ScenarioParams, sol *Solution) models.ScenarioResult {
	var rows []models.DoseRow
	var total float64

	for fi, field := range tabs.Fields {
		for pi, prod := range tabs.Products {
			dose := sol.Doses[fi][pi]
			if dose <= doseEps {
				continue
			}

			kgHa := math.Round(dose*100) / 100
			rows = append(rows, models.DoseRow{
				Field:   field.ID,
				Product: prod.ID,
				KgHa:    kgHa,
			})
			total += kgHa * field.AreaHa * (prod.PriceCLPTon + params.AppCostCLPTon) / kgPerTon
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Field != rows[j].Field {
			return rows[i].Field < rows[j].Field
		}
		return rows[i].Product < rows[j].Product
	})

	return models.ScenarioResult{
		Tag:          params.Tag,
		Rows:         rows,
		TotalCostCLP: int64(math.Round(total)),
	}
}
