package classify

import (
	"math"

	"github.com/unbound-force/clpmix/internal/taxonomy"
	"github.com/unbound-force/clpmix/internal/tolerance"
)

// ateFactors holds the converted acute toxicity point estimate per
// route and category.
var ateFactors = map[taxonomy.Route]map[string]float64{
	taxonomy.Oral:       {"1": 0.5, "2": 5, "3": 100, "4": 500},
	taxonomy.Dermal:     {"1": 5, "2": 50, "3": 300, "4": 1100},
	taxonomy.Inhalation: {"1": 0.05, "2": 0.5, "3": 3, "4": 11},
}

// ateBands holds the exclusive upper bound of categories 1..4 per
// route. Each band starts where the previous one ends, the first at 0.
var ateBands = map[taxonomy.Route][4]float64{
	taxonomy.Oral:       {5, 50, 300, 2000},
	taxonomy.Dermal:     {50, 200, 1000, 2000},
	taxonomy.Inhalation: {0.5, 2, 10, 20},
}

// ComputeATE returns the acute toxicity estimate of the mixture for
// route r using the additivity formula 100 / Σ(pᵢ / ATEᵢ). Only
// acute toxicity tokens whose hazard codes cover r contribute, each
// category once per substance. It returns NaN when nothing
// contributes.
func ComputeATE(m taxonomy.Mixture, f *Facts, r taxonomy.Route) float64 {
	var sum float64
	for i, s := range m.Substances {
		seen := map[string]bool{}
		for _, t := range s.Classification {
			if t.Class != taxonomy.AcuteTox || seen[t.Category] {
				continue
			}
			seen[t.Category] = true
			if !f.CoversRoute(i, t, r) {
				continue
			}
			sum += s.Percentage / ateFactors[r][t.Category]
		}
	}
	if sum == 0 {
		return math.NaN()
	}
	return 100 / sum
}

// ATECategory maps an acute toxicity estimate to its category for
// route r. It reports false when ate falls outside every band.
func ATECategory(r taxonomy.Route, ate float64) (string, bool) {
	bands, ok := ateBands[r]
	if !ok || math.IsNaN(ate) {
		return "", false
	}
	lower := 0.0
	for k, upper := range bands {
		if tolerance.AlmostLE(lower, ate) && ate < upper {
			return taxonomy.AcuteTox.Categories()[k], true
		}
		lower = upper
	}
	return "", false
}
