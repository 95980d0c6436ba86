package classify

import (
	"slices"

	"github.com/unbound-force/clpmix/internal/taxonomy"
	"github.com/unbound-force/clpmix/internal/tolerance"
)

// term is one weighted contribution to a ladder step: the summed
// percentage of every substance carrying class with one of
// categories, multiplied by weight.
type term struct {
	class      taxonomy.Class
	categories []string                 // nil matches every category
	states     []taxonomy.PhysicalState // nil matches any state
	weight     float64
}

// step is one rung of a concentration ladder. It matches when the sum
// of its terms reaches min (within tolerance) and, if below is set,
// stays strictly under below.
type step struct {
	terms []term
	min   float64
	below float64
	emit  taxonomy.Token
}

// ladder is an ordered list of steps; the first matching step decides
// the emitted token.
type ladder []step

func sumOf(c taxonomy.Class, cats ...string) term {
	return term{class: c, categories: cats, weight: 1}
}

func (t term) times(w float64) term {
	t.weight *= w
	return t
}

func (t term) in(states ...taxonomy.PhysicalState) term {
	t.states = states
	return t
}

func (t term) matches(s taxonomy.Substance) bool {
	for _, tok := range s.Classification {
		if tok.Class != t.class {
			continue
		}
		if t.categories == nil || slices.Contains(t.categories, tok.Category) {
			return true
		}
	}
	return false
}

func (t term) value(m taxonomy.Mixture, f *Facts) float64 {
	var total float64
	for i, s := range m.Substances {
		if !t.matches(s) {
			continue
		}
		if t.states != nil {
			st, ok := f.PhysicalState(i)
			if !ok || !slices.Contains(t.states, st) {
				continue
			}
		}
		total += s.Percentage
	}
	return total * t.weight
}

func (s step) value(m taxonomy.Mixture, f *Facts) float64 {
	var total float64
	for _, t := range s.terms {
		total += t.value(m, f)
	}
	return total
}

func (s step) matches(m taxonomy.Mixture, f *Facts) bool {
	v := s.value(m, f)
	if !tolerance.AlmostGE(s.min, v) {
		return false
	}
	return s.below == 0 || v < s.below
}

func (l ladder) evaluate(m taxonomy.Mixture, f *Facts) (taxonomy.Token, bool) {
	for _, s := range l {
		if s.matches(m, f) {
			return s.emit, true
		}
	}
	return taxonomy.Token{}, false
}

// cutoffs builds the common ladder shape where each listed category is
// compared alone against its own limit and emits itself.
func cutoffs(c taxonomy.Class, limits ...categoryLimit) ladder {
	l := make(ladder, len(limits))
	for i, lim := range limits {
		l[i] = step{
			terms: []term{sumOf(c, lim.category)},
			min:   lim.min,
			emit:  taxonomy.NewToken(c, lim.category),
		}
	}
	return l
}

type categoryLimit struct {
	category string
	min      float64
}
