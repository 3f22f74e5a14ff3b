package blend

import (
	"context"
	"errors"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/terraplan/blendopt/internal/domain/models"
)

// kgPerTon converts CLP/ton prices into the CLP/kg term that pairs with
// kg/ha doses in the objective.
const kgPerTon = 1000.0

// doseEps is the threshold below which a solved dose is numerically zero.
const doseEps = 1e-6

// simplexTol is the pivot tolerance handed to the simplex solver.
const simplexTol = 1e-10

// Solution holds the raw solved doses, indexed [field][product] in table
// order. It lives only until extraction.
type Solution struct {
	Doses [][]float64
}

type constraintRow struct {
	coeffs map[int]float64
	rhs    float64
	// surplus marks a >= row, which gets a -1 surplus column; <= rows get
	// a +1 slack column.
	surplus bool
}

// Solve builds one LP covering every field and minimizes total blend cost.
//
// The problem is assembled in standard equality form: the dose variables
// x[f,p] >= 0 come first, followed by one slack or surplus column per
// constraint row. Per field the rows are the three nutrient sufficiency
// constraints, the optional mix and nitrogen caps, and the per-product dose
// bounds (the zero lower bound is already native to the form).
func Solve(ctx context.Context, tabs models.Tables, params models.ScenarioParams) (*Solution, error) {
	nFields := len(tabs.Fields)
	nProds := len(tabs.Products)
	nDoses := nFields * nProds

	if nDoses == 0 {
		return &Solution{Doses: make([][]float64, nFields)}, nil
	}

	var rows []constraintRow
	add := func(coeffs map[int]float64, rhs float64, surplus bool) {
		rows = append(rows, constraintRow{coeffs: coeffs, rhs: rhs, surplus: surplus})
	}

	for fi, field := range tabs.Fields {
		req := tabs.Requirements[field.Crop]
		scale := 1.0 - params.Tolerance

		nRow := make(map[int]float64, nProds)
		pRow := make(map[int]float64, nProds)
		kRow := make(map[int]float64, nProds)
		mixRow := make(map[int]float64, nProds)
		for pi, prod := range tabs.Products {
			xi := fi*nProds + pi
			nRow[xi] = prod.NFrac()
			pRow[xi] = prod.P2O5Frac()
			kRow[xi] = prod.K2OFrac()
			mixRow[xi] = 1
		}

		add(nRow, scale*req.NReqKgHa, true)
		add(pRow, scale*req.P2O5ReqKgHa, true)
		add(kRow, scale*req.K2OReqKgHa, true)

		if params.MixMaxKgHa > 0 {
			add(mixRow, params.MixMaxKgHa, false)
		}
		if params.NMaxKgHa > 0 {
			capRow := make(map[int]float64, nProds)
			for pi, prod := range tabs.Products {
				capRow[fi*nProds+pi] = prod.NFrac()
			}
			add(capRow, params.NMaxKgHa, false)
		}

		for pi, prod := range tabs.Products {
			xi := fi*nProds + pi
			if prod.DoseMinKgHa > 0 {
				add(map[int]float64{xi: 1}, prod.DoseMinKgHa, true)
			}
			add(map[int]float64{xi: 1}, prod.DoseMaxKgHa, false)
		}
	}

	nRows := len(rows)
	nVars := nDoses + nRows

	c := make([]float64, nVars)
	for fi, field := range tabs.Fields {
		for pi, prod := range tabs.Products {
			c[fi*nProds+pi] = field.AreaHa * (prod.PriceCLPTon + params.AppCostCLPTon) / kgPerTon
		}
	}

	a := mat.NewDense(nRows, nVars, nil)
	b := make([]float64, nRows)
	for ri, row := range rows {
		for xi, coeff := range row.coeffs {
			a.Set(ri, xi, coeff)
		}
		if row.surplus {
			a.Set(ri, nDoses+ri, -1)
		} else {
			a.Set(ri, nDoses+ri, 1)
		}
		b[ri] = row.rhs
	}

	type outcome struct {
		x   []float64
		err error
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		_, x, err := lp.Simplex(c, a, b, simplexTol, nil)
		done <- outcome{x: x, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &models.SolverTimeoutError{Elapsed: time.Since(start)}
		}
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, nonOptimal(out.err)
		}

		doses := make([][]float64, nFields)
		for fi := range tabs.Fields {
			doses[fi] = out.x[fi*nProds : (fi+1)*nProds]
		}
		return &Solution{Doses: doses}, nil
	}
}

// nonOptimal maps solver failures onto the error taxonomy. Anything the
// solver cannot classify as infeasible or unbounded is surfaced as Undefined.
func nonOptimal(err error) error {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return &models.SolverNonOptimalError{Status: "Infeasible", Err: err}
	case errors.Is(err, lp.ErrUnbounded):
		return &models.SolverNonOptimalError{Status: "Unbounded", Err: err}
	default:
		return &models.SolverNonOptimalError{Status: "Undefined", Err: err}
	}
}
