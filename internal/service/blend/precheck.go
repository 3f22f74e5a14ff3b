package blend

import (
	"fmt"
	"math"

	"github.com/terraplan/blendopt/internal/domain/models"
)

// Precheck runs the conservative per-field feasibility heuristic and returns
// one diagnostic per provably unreachable requirement. An empty slice means
// the configuration passed every check, not that the LP is feasible.
//
// The bounds are decoupled per nutrient: each nutrient is checked against an
// optimistic ceiling assuming every other constraint is ignored, with the
// mix cap approximated by the single best product filling the whole cap.
// This can reject configurations the joint LP would satisfy. It never passes
// a configuration that violates one of the checked bounds, and that
// asymmetry is intentional.
func Precheck(tabs models.Tables, params models.ScenarioParams) []string {
	var msgs []string

	var minMixTotal float64
	var maxNFrac, maxPFrac, maxKFrac float64
	var maxNDose, maxPDose, maxKDose float64
	for _, prod := range tabs.Products {
		minMixTotal += prod.DoseMinKgHa
		maxNFrac = math.Max(maxNFrac, prod.NFrac())
		maxPFrac = math.Max(maxPFrac, prod.P2O5Frac())
		maxKFrac = math.Max(maxKFrac, prod.K2OFrac())
		maxNDose += prod.DoseMaxKgHa * prod.NFrac()
		maxPDose += prod.DoseMaxKgHa * prod.P2O5Frac()
		maxKDose += prod.DoseMaxKgHa * prod.K2OFrac()
	}

	for _, field := range tabs.Fields {
		req := tabs.Requirements[field.Crop]
		scale := 1.0 - params.Tolerance
		nReq := scale * req.NReqKgHa
		pReq := scale * req.P2O5ReqKgHa
		kReq := scale * req.K2OReqKgHa

		if params.MixMaxKgHa > 0 && minMixTotal-1e-9 > params.MixMaxKgHa {
			msgs = append(msgs, fmt.Sprintf(
				"field %s: sum of minimum doses (%.1f) exceeds mix cap (%.1f)",
				field.ID, minMixTotal, params.MixMaxKgHa))
		}

		maxN, maxP, maxK := maxNDose, maxPDose, maxKDose
		if params.MixMaxKgHa > 0 {
			maxN = math.Min(maxN, params.MixMaxKgHa*maxNFrac)
			maxP = math.Min(maxP, params.MixMaxKgHa*maxPFrac)
			maxK = math.Min(maxK, params.MixMaxKgHa*maxKFrac)
		}
		if params.NMaxKgHa > 0 {
			maxN = math.Min(maxN, params.NMaxKgHa)
		}

		if nReq-1e-6 > maxN {
			msgs = append(msgs, fmt.Sprintf(
				"field %s: required N %.1f > reachable N %.1f (nmax/mixmax/dose caps)",
				field.ID, nReq, maxN))
		}
		if pReq-1e-6 > maxP {
			msgs = append(msgs, fmt.Sprintf(
				"field %s: required P2O5 %.1f > reachable P2O5 %.1f (mixmax/dose caps)",
				field.ID, pReq, maxP))
		}
		if kReq-1e-6 > maxK {
			msgs = append(msgs, fmt.Sprintf(
				"field %s: required K2O %.1f > reachable K2O %.1f (mixmax/dose caps)",
				field.ID, kReq, maxK))
		}
	}

	return msgs
}
