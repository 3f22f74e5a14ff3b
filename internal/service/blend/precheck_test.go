package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraplan/blendopt/internal/domain/models"
)

func TestPrecheckMinimumDosesExceedMixCap(t *testing.T) {
	tabs := models.Tables{
		Fields: []models.Field{{ID: "P1", Crop: "pasto", AreaHa: 5}},
		Requirements: map[string]models.CropRequirement{
			"pasto": {Crop: "pasto"},
		},
		Products: []models.Product{
			{ID: "a", DoseMinKgHa: 50, DoseMaxKgHa: 300},
			{ID: "b", DoseMinKgHa: 80, DoseMaxKgHa: 300},
			{ID: "c", DoseMinKgHa: 100, DoseMaxKgHa: 300},
		},
	}

	msgs := Precheck(tabs, models.ScenarioParams{MixMaxKgHa: 200})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "minimum doses")
	assert.Contains(t, msgs[0], "230.0")
	assert.Contains(t, msgs[0], "200.0")
}

func TestPrecheckNutrientUnreachable(t *testing.T) {
	tabs := models.Tables{
		Fields: []models.Field{{ID: "P1", Crop: "trigo", AreaHa: 1}},
		Requirements: map[string]models.CropRequirement{
			"trigo": {Crop: "trigo", NReqKgHa: 50},
		},
		Products: []models.Product{
			{ID: "weak", NPct: 10, DoseMaxKgHa: 100},
		},
	}

	msgs := Precheck(tabs, models.ScenarioParams{})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "required N")
	assert.Contains(t, msgs[0], "field P1")
}

func TestPrecheckMixCapUsesBestSingleProduct(t *testing.T) {
	tabs := models.Tables{
		Fields: []models.Field{{ID: "P1", Crop: "trigo", AreaHa: 1}},
		Requirements: map[string]models.CropRequirement{
			"trigo": {Crop: "trigo", NReqKgHa: 100},
		},
		Products: []models.Product{
			{ID: "u1", NPct: 46, DoseMaxKgHa: 300},
			{ID: "u2", NPct: 46, DoseMaxKgHa: 300},
		},
	}

	t.Run("without mix cap the requirement is reachable", func(t *testing.T) {
		assert.Empty(t, Precheck(tabs, models.ScenarioParams{}))
	})

	t.Run("mix cap clamps the bound to one cap-filling product", func(t *testing.T) {
		msgs := Precheck(tabs, models.ScenarioParams{MixMaxKgHa: 100})
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "required N")
	})
}

func TestPrecheckNitrogenCapClamp(t *testing.T) {
	tabs := models.Tables{
		Fields: []models.Field{{ID: "P1", Crop: "trigo", AreaHa: 1}},
		Requirements: map[string]models.CropRequirement{
			"trigo": {Crop: "trigo", NReqKgHa: 100},
		},
		Products: []models.Product{
			{ID: "urea", NPct: 46, DoseMaxKgHa: 500},
		},
	}

	msgs := Precheck(tabs, models.ScenarioParams{NMaxKgHa: 50})
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "required N")
}

func TestPrecheckToleranceRelaxesRequirement(t *testing.T) {
	tabs := models.Tables{
		Fields: []models.Field{{ID: "P1", Crop: "trigo", AreaHa: 1}},
		Requirements: map[string]models.CropRequirement{
			"trigo": {Crop: "trigo", NReqKgHa: 100},
		},
		Products: []models.Product{
			// Delivers at most 95 kg/ha of N.
			{ID: "urea", NPct: 47.5, DoseMaxKgHa: 200},
		},
	}

	assert.NotEmpty(t, Precheck(tabs, models.ScenarioParams{}))
	assert.Empty(t, Precheck(tabs, models.ScenarioParams{Tolerance: 0.05}))
}

func TestPrecheckFeasibleReferenceScenario(t *testing.T) {
	assert.Empty(t, Precheck(wheatTables(), wheatParams()))
}
