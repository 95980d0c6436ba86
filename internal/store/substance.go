package store

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/unbound-force/clpmix/internal/classify"
	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// Substance is one reference entry.
type Substance struct {
	CAS            string                           `json:"cas" yaml:"cas"`
	Name           string                           `json:"name,omitempty" yaml:"name,omitempty"`
	Description    string                           `json:"description,omitempty" yaml:"description,omitempty"`
	ECNumber       string                           `json:"ec_number,omitempty" yaml:"ec_number,omitempty"`
	Classification []taxonomy.Token                 `json:"classification" yaml:"classification"`
	DetailsURL     string                           `json:"details_url,omitempty" yaml:"details_url,omitempty"`
	Source         string                           `json:"source,omitempty" yaml:"source,omitempty"`
	MFactor        *float64                         `json:"m_factor,omitempty" yaml:"m_factor,omitempty"`
	MChronicFactor *float64                         `json:"m_chronic_factor,omitempty" yaml:"m_chronic_factor,omitempty"`
	HazardCodes    map[string][]taxonomy.HazardCode `json:"hazard_codes,omitempty" yaml:"hazard_codes,omitempty"`

	// UpdatedAt is set by the store on every write.
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"-"`
}

// Validate checks that the entry can be stored: a CAS number is
// present, M-factors are at least 1, and hazard codes are keyed by an
// acute toxicity token whose route each code matches.
func (s Substance) Validate() error {
	if normalizeCAS(s.CAS) == "" {
		return fmt.Errorf("substance %q: missing CAS number", s.Name)
	}
	for field, m := range map[string]*float64{"m_factor": s.MFactor, "m_chronic_factor": s.MChronicFactor} {
		if m != nil && !math.IsNaN(*m) && *m < 1 {
			return fmt.Errorf("substance %s: %s must be at least 1, got %v", s.CAS, field, *m)
		}
	}
	for key, codes := range s.HazardCodes {
		t, err := taxonomy.ParseToken(key)
		if err != nil {
			return fmt.Errorf("substance %s: hazard code key: %w", s.CAS, err)
		}
		if t.Class != taxonomy.AcuteTox {
			return fmt.Errorf("substance %s: hazard codes are only recorded for %s, not %q", s.CAS, taxonomy.AcuteTox, key)
		}
		for _, h := range codes {
			if _, err := taxonomy.ParseHazardCode(string(h)); err != nil {
				return fmt.Errorf("substance %s: %w", s.CAS, err)
			}
			if !h.BelongsTo(t.Category) {
				return fmt.Errorf("substance %s: %s does not belong to %s", s.CAS, h, t.Base())
			}
		}
	}
	return nil
}

// Record converts the entry to the engine's lookup form. Missing
// M-factors become NaN.
func (s Substance) Record() *classify.Record {
	rec := &classify.Record{
		CAS:            s.CAS,
		HazardCodes:    make(map[string][]taxonomy.HazardCode, len(s.HazardCodes)),
		MFactor:        orNaN(s.MFactor),
		MChronicFactor: orNaN(s.MChronicFactor),
	}
	for key, codes := range s.HazardCodes {
		k := canonicalHazardKey(key)
		rec.HazardCodes[k] = append(rec.HazardCodes[k], codes...)
	}
	return rec
}

// sameContent reports whether a and b would be stored identically,
// ignoring UpdatedAt.
func sameContent(a, b Substance) bool {
	if normalizeCAS(a.CAS) != normalizeCAS(b.CAS) ||
		a.Name != b.Name ||
		a.Description != b.Description ||
		a.ECNumber != b.ECNumber ||
		a.DetailsURL != b.DetailsURL ||
		a.Source != b.Source {
		return false
	}
	if taxonomy.JoinTokens(a.Classification) != taxonomy.JoinTokens(b.Classification) {
		return false
	}
	if !sameFactor(a.MFactor, b.MFactor) || !sameFactor(a.MChronicFactor, b.MChronicFactor) {
		return false
	}
	return maps.EqualFunc(codeSets(a.HazardCodes), codeSets(b.HazardCodes), slices.Equal[[]taxonomy.HazardCode])
}

func sameFactor(a, b *float64) bool {
	an := a == nil || math.IsNaN(*a)
	bn := b == nil || math.IsNaN(*b)
	if an || bn {
		return an == bn
	}
	return *a == *b
}

// codeSets normalises hazard codes the way the store persists them:
// canonical keys, sorted and deduplicated codes.
func codeSets(in map[string][]taxonomy.HazardCode) map[string][]taxonomy.HazardCode {
	out := make(map[string][]taxonomy.HazardCode, len(in))
	for key, codes := range in {
		if len(codes) == 0 {
			continue
		}
		k := canonicalHazardKey(key)
		out[k] = append(out[k], codes...)
	}
	for k := range out {
		slices.Sort(out[k])
		out[k] = slices.Compact(out[k])
	}
	return out
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
