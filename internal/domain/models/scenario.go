package models

// ScenarioParams is one complete parameter set for a pipeline run. It is
// always passed by value so two scenario runs can never share state.
type ScenarioParams struct {
	// NMaxKgHa caps the per-hectare nitrogen delivery. 0 disables the cap.
	NMaxKgHa float64
	// MixMaxKgHa caps the total per-hectare mass of all products combined.
	// 0 disables the cap.
	MixMaxKgHa float64
	// Tolerance is the fraction of each nutrient requirement that may be
	// left unmet (0.02 = 2%).
	Tolerance float64
	// AppCostCLPTon is an optional application cost in CLP per tonne spread.
	AppCostCLPTon float64
	// Tag namespaces the scenario's output files ("A", "B", ...).
	Tag string
}

// DoseRow is one retained dose assignment: kg/ha of a product on a field.
type DoseRow struct {
	Field   string
	Product string
	KgHa    float64
}

// ScenarioResult is the immutable outcome of one scenario solve: the sparse
// dose table plus the total cost recomputed from it.
type ScenarioResult struct {
	Tag          string
	Rows         []DoseRow
	TotalCostCLP int64
}
