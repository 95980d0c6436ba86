package classify

import (
	"context"
	"errors"
	"math"

	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// Record is the reference data known for one substance.
type Record struct {
	// CAS is the registry number the record was found under.
	CAS string

	// HazardCodes maps an unqualified acute toxicity token string,
	// such as "Acute Tox. 3", to the hazard codes recorded for it.
	HazardCodes map[string][]taxonomy.HazardCode

	// MFactor is the acute aquatic M-factor, NaN when unknown.
	MFactor float64

	// MChronicFactor is the chronic aquatic M-factor, NaN when
	// unknown.
	MChronicFactor float64
}

// HazardCodesFor returns the hazard codes recorded for the given
// acute toxicity token. The token qualifier is ignored.
func (r *Record) HazardCodesFor(t taxonomy.Token) []taxonomy.HazardCode {
	if r == nil {
		return nil
	}
	return r.HazardCodes[t.Base().String()]
}

// Lookup resolves reference data by CAS number. Implementations return
// (nil, nil) when the substance is unknown and a non-nil error only
// when the reference source itself fails.
type Lookup interface {
	Lookup(ctx context.Context, cas string) (*Record, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, cas string) (*Record, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, cas string) (*Record, error) {
	return f(ctx, cas)
}

// NoLookup is a Lookup that knows no substances.
var NoLookup Lookup = LookupFunc(func(context.Context, string) (*Record, error) {
	return nil, nil
})

// Validator reports whether an answer is acceptable, and if not, why.
type Validator func(answer string) (ok bool, msg string)

// Question is one request for information the engine cannot derive.
type Question struct {
	// Prompt is the question shown to the user.
	Prompt string

	// Description explains the accepted answers.
	Description string

	// Validate checks a candidate answer. Hosts should keep asking
	// until it passes.
	Validate Validator
}

// Asker obtains answers from the user. Implementations may block and
// must honour ctx cancellation.
type Asker interface {
	Ask(ctx context.Context, q Question) (string, error)
}

// AskerFunc adapts a function to the Asker interface.
type AskerFunc func(ctx context.Context, q Question) (string, error)

// Ask calls f.
func (f AskerFunc) Ask(ctx context.Context, q Question) (string, error) {
	return f(ctx, q)
}

// ErrInputRequired is returned when classification needs an answer
// and no Asker is configured.
var ErrInputRequired = errors.New("additional input required but no asker configured")

// ErrInvalidAnswer is returned when the Asker keeps returning answers
// that fail validation.
var ErrInvalidAnswer = errors.New("invalid answer")

var noAsker = AskerFunc(func(_ context.Context, q Question) (string, error) {
	return "", ErrInputRequired
})

// unknownMFactor is the sentinel stored for an M-factor the user
// declared unknown.
var unknownMFactor = math.NaN()
