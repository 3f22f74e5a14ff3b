package models

// DoseMaxSentinel is the dose ceiling assigned to products whose maximum dose
// is missing or unparseable. Presented as "unbounded", but kept finite so the
// solver always works on a bounded polytope.
const DoseMaxSentinel = 1e6

// Field is a single management unit: a surface with one crop on it.
type Field struct {
	ID     string
	Crop   string
	AreaHa float64
}

// CropRequirement is the per-hectare nutrient demand of a crop.
type CropRequirement struct {
	Crop        string
	NReqKgHa    float64
	P2O5ReqKgHa float64
	K2OReqKgHa  float64
}

// Product is a purchasable fertilizer with nutrient content, price and
// allowed per-hectare dose range.
type Product struct {
	ID          string
	NPct        float64
	P2O5Pct     float64
	K2OPct      float64
	PriceCLPTon float64
	DoseMinKgHa float64
	DoseMaxKgHa float64
}

// NFrac returns the nitrogen mass fraction of the product.
func (p Product) NFrac() float64 { return p.NPct / 100.0 }

// P2O5Frac returns the phosphate mass fraction of the product.
func (p Product) P2O5Frac() float64 { return p.P2O5Pct / 100.0 }

// K2OFrac returns the potash mass fraction of the product.
func (p Product) K2OFrac() float64 { return p.K2OPct / 100.0 }

// Tables bundles the three normalized input tables. Requirements are keyed by
// crop name; products keep their source order so solves stay deterministic.
type Tables struct {
	Fields       []Field
	Requirements map[string]CropRequirement
	Products     []Product
}
