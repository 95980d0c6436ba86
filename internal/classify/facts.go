package classify

import (
	"math"
	"slices"

	"github.com/unbound-force/clpmix/internal/taxonomy"
)

type factKey struct {
	index int
	token string
}

// Facts holds the per-substance side data gathered before the rules
// run. It lives for a single classification.
type Facts struct {
	hazardCodes map[factKey][]taxonomy.HazardCode
	states      map[int]taxonomy.PhysicalState
	mAcute      map[int]float64
	mChronic    map[int]float64
}

// NewFacts returns an empty fact set.
func NewFacts() *Facts {
	return &Facts{
		hazardCodes: map[factKey][]taxonomy.HazardCode{},
		states:      map[int]taxonomy.PhysicalState{},
		mAcute:      map[int]float64{},
		mChronic:    map[int]float64{},
	}
}

// AddHazardCodes records hazard codes for the acute toxicity token t
// of substance i. Codes already recorded are not repeated.
func (f *Facts) AddHazardCodes(i int, t taxonomy.Token, codes ...taxonomy.HazardCode) {
	k := factKey{i, t.Base().String()}
	for _, h := range codes {
		if !slices.Contains(f.hazardCodes[k], h) {
			f.hazardCodes[k] = append(f.hazardCodes[k], h)
		}
	}
}

// HazardCodes returns the codes recorded for token t of substance i.
func (f *Facts) HazardCodes(i int, t taxonomy.Token) []taxonomy.HazardCode {
	return f.hazardCodes[factKey{i, t.Base().String()}]
}

func (f *Facts) hasHazardCodes(i int, t taxonomy.Token) bool {
	return len(f.HazardCodes(i, t)) > 0
}

// CoversRoute reports whether token t of substance i has a hazard code
// for route r.
func (f *Facts) CoversRoute(i int, t taxonomy.Token, r taxonomy.Route) bool {
	for _, h := range f.HazardCodes(i, t) {
		if h.Route() == r {
			return true
		}
	}
	return false
}

// SetPhysicalState records the physical state of substance i.
func (f *Facts) SetPhysicalState(i int, s taxonomy.PhysicalState) {
	f.states[i] = s
}

// PhysicalState returns the recorded state of substance i.
func (f *Facts) PhysicalState(i int) (taxonomy.PhysicalState, bool) {
	s, ok := f.states[i]
	return s, ok
}

// SetMFactor records the acute M-factor of substance i. NaN marks it
// unknown.
func (f *Facts) SetMFactor(i int, m float64) {
	f.mAcute[i] = m
}

// MFactor returns the acute M-factor of substance i. A substance with
// no recorded factor has M = 1.
func (f *Facts) MFactor(i int) float64 {
	if m, ok := f.mAcute[i]; ok {
		return m
	}
	return 1
}

// SetChronicMFactor records the chronic M-factor of substance i.
func (f *Facts) SetChronicMFactor(i int, m float64) {
	f.mChronic[i] = m
}

// ChronicMFactor returns the chronic M-factor of substance i, 1 when
// none is recorded.
func (f *Facts) ChronicMFactor(i int) float64 {
	if m, ok := f.mChronic[i]; ok {
		return m
	}
	return 1
}

func known(m float64) bool {
	return !math.IsNaN(m)
}
