package taxonomy

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every *InputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports malformed classification input: a percentage out
// of range, an unknown token, or an unparsable answer.
type InputError struct {
	// Index is the zero-based substance position, or -1 when the
	// error is not tied to a substance.
	Index int

	// Field names the offending input field.
	Field string

	// Value is the rejected raw value.
	Value string

	// Reason is a human-readable explanation.
	Reason string
}

func (e *InputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid input: substance %d: %s %q: %s", e.Index+1, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) hold for every InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Substance is one constituent of a mixture.
type Substance struct {
	// CAS is the registry number used to query reference data.
	// Optional.
	CAS string `json:"cas,omitempty" yaml:"cas,omitempty"`

	// Name is a display name. Optional.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Percentage is the mass percentage in the mixture, 0..100.
	Percentage float64 `json:"percentage" yaml:"percentage"`

	// Classification is the substance's own hazard classification.
	Classification []Token `json:"classification" yaml:"classification"`
}

// Has reports whether the substance carries any token of class c.
func (s Substance) Has(c Class) bool {
	for _, t := range s.Classification {
		if t.Class == c {
			return true
		}
	}
	return false
}

// HasAny reports whether the substance carries a token of any of the
// given classes.
func (s Substance) HasAny(classes ...Class) bool {
	for _, c := range classes {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// HasToken reports whether the substance carries class c with
// category cat.
func (s Substance) HasToken(c Class, cat string) bool {
	for _, t := range s.Classification {
		if t.Is(c, cat) {
			return true
		}
	}
	return false
}

// Describe returns a short human-readable reference to the substance
// at position index, used in prompts and log lines.
func (s Substance) Describe(index int) string {
	switch {
	case s.Name != "" && s.CAS != "":
		return fmt.Sprintf("substance %d (%s, CAS %s)", index+1, s.Name, s.CAS)
	case s.CAS != "":
		return fmt.Sprintf("substance %d (CAS %s)", index+1, s.CAS)
	case s.Name != "":
		return fmt.Sprintf("substance %d (%s)", index+1, s.Name)
	}
	return fmt.Sprintf("substance %d", index+1)
}

// Mixture is an ordered list of substances. Side data gathered during
// classification is keyed by position in Substances.
type Mixture struct {
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Substances []Substance `json:"substances" yaml:"substances"`
}

// Validate checks every percentage lies in [0, 100]. Percentages are
// not required to sum to 100.
func (m Mixture) Validate() error {
	for i, s := range m.Substances {
		if math.IsNaN(s.Percentage) || s.Percentage < 0 || s.Percentage > 100 {
			return &InputError{
				Index:  i,
				Field:  "percentage",
				Value:  fmt.Sprint(s.Percentage),
				Reason: "must be between 0 and 100",
			}
		}
	}
	return nil
}

// TotalPercentage returns the sum of all substance percentages.
func (m Mixture) TotalPercentage() float64 {
	var total float64
	for _, s := range m.Substances {
		total += s.Percentage
	}
	return total
}

// Advisory is a non-error note attached to a result, emitted for
// hazard classes whose mixture classification requires test data.
type Advisory struct {
	// Class is the hazard class the note refers to.
	Class Class `json:"class"`

	// Section is the CLP Annex I section to consult.
	Section string `json:"section"`

	// Message is the human-readable note.
	Message string `json:"message"`
}

// NewAdvisory builds the standard advisory for class c.
func NewAdvisory(c Class) Advisory {
	return Advisory{
		Class:   c,
		Section: c.Section(),
		Message: fmt.Sprintf("Classification of %s requires test data; see CLP Annex I, section %s", c.Description(), c.Section()),
	}
}

// Result is the outcome of classifying a mixture.
type Result struct {
	// Classification is the ordered, duplicate-permitting list of
	// mixture hazard tokens.
	Classification []Token `json:"classification"`

	// Advisories lists the hazard classes left to test data.
	Advisories []Advisory `json:"advisories"`
}
