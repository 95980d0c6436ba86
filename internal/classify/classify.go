// Package classify implements the CLP mixture classification engine:
// the pure-substance short-circuit, the gathering of additional
// substance information, and the ordered hazard-class rule table.
package classify

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/unbound-force/clpmix/internal/taxonomy"
	"github.com/unbound-force/clpmix/internal/tolerance"
)

// DefaultMaxAttempts is how many times a question is asked before the
// engine gives up on invalid answers.
const DefaultMaxAttempts = 3

// Options configures the classification engine.
type Options struct {
	// MaxAttempts bounds re-asking after invalid answers. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int

	// Logger receives debug traces of gathering and rule output. If
	// nil, nothing is logged.
	Logger *log.Logger
}

// Engine classifies mixtures. It keeps no state between calls and is
// safe for sequential reuse.
type Engine struct {
	lookup      Lookup
	asker       Asker
	logger      *log.Logger
	maxAttempts int
}

// New returns an Engine using lookup for reference data and asker for
// missing information. Either may be nil: a nil lookup knows no
// substances, and a nil asker fails with ErrInputRequired whenever an
// answer is needed.
func New(lookup Lookup, asker Asker, opts Options) *Engine {
	if lookup == nil {
		lookup = NoLookup
	}
	if asker == nil {
		asker = noAsker
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Engine{
		lookup:      lookup,
		asker:       asker,
		logger:      opts.Logger,
		maxAttempts: opts.MaxAttempts,
	}
}

// gasClasses block the 80 % pure-substance shortcut.
var gasClasses = []taxonomy.Class{
	taxonomy.FlamGas,
	taxonomy.ChemUnstGas,
	taxonomy.Aerosol,
	taxonomy.OxGas,
	taxonomy.PressGas,
}

// Classify computes the hazard classification of m. Invalid input is
// reported as a *taxonomy.InputError before anything is asked. Lookup
// and Asker errors, including cancellation, are returned unchanged and
// no partial result is produced.
func (e *Engine) Classify(ctx context.Context, m taxonomy.Mixture) (*taxonomy.Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if tokens, ok := pureSubstance(m); ok {
		e.logger.Debug("pure substance, classification taken as is", "tokens", len(tokens))
		return &taxonomy.Result{Classification: tokens, Advisories: []taxonomy.Advisory{}}, nil
	}

	facts, err := e.gather(ctx, m)
	if err != nil {
		return nil, err
	}

	ev := &evaluation{engine: e, mixture: m, facts: facts}
	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.applies(m) {
			continue
		}
		before := len(ev.out)
		if err := r.eval(ctx, ev); err != nil {
			return nil, err
		}
		e.logger.Debug("rule evaluated", "rule", r.name, "emitted", taxonomy.JoinTokens(ev.out[before:]))
	}

	res := &taxonomy.Result{
		Classification: ev.out,
		Advisories:     ev.advisories,
	}
	if res.Classification == nil {
		res.Classification = []taxonomy.Token{}
	}
	if res.Advisories == nil {
		res.Advisories = []taxonomy.Advisory{}
	}
	return res, nil
}

// pureSubstance reports whether m is effectively a single substance
// whose own classification applies: one entry at 100 %, or at 80 % or
// more when it carries no gas hazard.
func pureSubstance(m taxonomy.Mixture) ([]taxonomy.Token, bool) {
	if len(m.Substances) != 1 {
		return nil, false
	}
	s := m.Substances[0]
	pure := tolerance.AlmostEq(s.Percentage, 100) ||
		(tolerance.AlmostGE(80, s.Percentage) && !s.HasAny(gasClasses...))
	if !pure {
		return nil, false
	}
	tokens := make([]taxonomy.Token, len(s.Classification))
	copy(tokens, s.Classification)
	return tokens, true
}
