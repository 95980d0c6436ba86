package classify

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// gather collects the side data the rules need: acute toxicity hazard
// codes, aquatic M-factors, and physical states for respiratory
// sensitisers. Reference data is preferred; the Asker fills the gaps.
func (e *Engine) gather(ctx context.Context, m taxonomy.Mixture) (*Facts, error) {
	f := NewFacts()
	records := make(map[int]*Record, len(m.Substances))

	record := func(i int) (*Record, error) {
		if r, ok := records[i]; ok {
			return r, nil
		}
		cas := strings.TrimSpace(m.Substances[i].CAS)
		if cas == "" {
			records[i] = nil
			return nil, nil
		}
		r, err := e.lookup.Lookup(ctx, cas)
		if err != nil {
			return nil, err
		}
		records[i] = r
		return r, nil
	}

	// Hazard codes for every substance, then M-factors, then physical
	// states: askers see the questions grouped in that order.
	for i, s := range m.Substances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.gatherHazardCodes(ctx, f, i, s, record); err != nil {
			return nil, err
		}
	}
	for i, s := range m.Substances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.gatherMFactors(ctx, f, i, s, record); err != nil {
			return nil, err
		}
	}
	for i, s := range m.Substances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.gatherPhysicalState(ctx, f, i, s); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (e *Engine) gatherPhysicalState(ctx context.Context, f *Facts, i int, s taxonomy.Substance) error {
	if !s.Has(taxonomy.RespSens) {
		return nil
	}
	ans, err := e.ask(ctx, Question{
		Prompt:      fmt.Sprintf("Enter the physical state of %s (k/s/d)", s.Describe(i)),
		Description: "k = solid, s = liquid, d = gas",
		Validate:    ValidatePhysicalState,
	})
	if err != nil {
		return err
	}
	state, _ := taxonomy.ParsePhysicalState(ans)
	f.SetPhysicalState(i, state)
	e.logger.Debug("physical state", "substance", i+1, "state", state)
	return nil
}

func (e *Engine) gatherHazardCodes(ctx context.Context, f *Facts, i int, s taxonomy.Substance, record func(int) (*Record, error)) error {
	// Route qualifiers carry the hazard code outright.
	for _, t := range s.Classification {
		if r, ok := t.Route(); ok {
			if h, ok := taxonomy.HazardCodeFor(t.Category, r); ok {
				f.AddHazardCodes(i, t, h)
			}
		}
	}

	for _, t := range s.Classification {
		if t.Class != taxonomy.AcuteTox || f.hasHazardCodes(i, t) {
			continue
		}
		rec, err := record(i)
		if err != nil {
			return err
		}
		if codes := rec.HazardCodesFor(t); len(codes) > 0 {
			f.AddHazardCodes(i, t, codes...)
			e.logger.Debug("hazard codes from reference data", "substance", i+1, "token", t.Base(), "codes", codes)
			continue
		}
		ans, err := e.ask(ctx, Question{
			Prompt:      fmt.Sprintf("Enter H-codes for %s, class %s", s.Describe(i), t.Base()),
			Description: "Comma-separated acute toxicity hazard codes: " + codeList(taxonomy.CategoryHazardCodes(t.Category)),
			Validate:    ValidateHazardCodesFor(t.Category),
		})
		if err != nil {
			return err
		}
		codes, _ := taxonomy.ParseHazardCodes(ans)
		f.AddHazardCodes(i, t, codes...)
	}
	return nil
}

func (e *Engine) gatherMFactors(ctx context.Context, f *Facts, i int, s taxonomy.Substance, record func(int) (*Record, error)) error {
	needAcute := s.Has(taxonomy.AquaticAcute)
	needChronic := s.HasToken(taxonomy.AquaticChronic, "1")
	if !needAcute && !needChronic {
		return nil
	}
	rec, err := record(i)
	if err != nil {
		return err
	}

	if needAcute {
		m := math.NaN()
		if rec != nil {
			m = rec.MFactor
		}
		if !known(m) {
			if m, err = e.askMFactor(ctx, fmt.Sprintf("Enter the acute M-factor for %s", s.Describe(i))); err != nil {
				return err
			}
		}
		f.SetMFactor(i, m)
	}
	if needChronic {
		m := math.NaN()
		if rec != nil {
			m = rec.MChronicFactor
		}
		if !known(m) {
			if m, err = e.askMFactor(ctx, fmt.Sprintf("Enter the chronic M-factor for %s", s.Describe(i))); err != nil {
				return err
			}
		}
		f.SetChronicMFactor(i, m)
	}
	return nil
}

func (e *Engine) askMFactor(ctx context.Context, prompt string) (float64, error) {
	ans, err := e.ask(ctx, Question{
		Prompt:      prompt,
		Description: "A positive number; leave empty for 1, or type 'unknown'",
		Validate:    ValidateMFactor,
	})
	if err != nil {
		return 0, err
	}
	m, _ := parseMFactor(ans)
	return m, nil
}

func (e *Engine) askNumber(ctx context.Context, prompt, description string) (float64, error) {
	ans, err := e.ask(ctx, Question{
		Prompt:      prompt,
		Description: description,
		Validate:    ValidateNumber,
	})
	if err != nil {
		return 0, err
	}
	return parseNumber(ans)
}

// ask forwards q to the Asker and re-validates the answer, asking
// again up to the configured number of attempts.
func (e *Engine) ask(ctx context.Context, q Question) (string, error) {
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ans, err := e.asker.Ask(ctx, q)
		if err != nil {
			return "", err
		}
		ok, msg := q.Validate(ans)
		if ok {
			e.logger.Debug("answer accepted", "prompt", q.Prompt, "answer", ans)
			return strings.TrimSpace(ans), nil
		}
		e.logger.Warn("answer rejected", "prompt", q.Prompt, "answer", ans, "reason", msg, "attempt", attempt)
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidAnswer, q.Prompt)
}

func hazardCodeList() string {
	return codeList(taxonomy.HazardCodes())
}

func codeList(codes []taxonomy.HazardCode) string {
	parts := make([]string, len(codes))
	for i, h := range codes {
		parts[i] = string(h)
	}
	return strings.Join(parts, ", ")
}

// ValidateHazardCodes accepts a comma-separated list of acute toxicity
// hazard codes.
func ValidateHazardCodes(answer string) (bool, string) {
	if _, err := taxonomy.ParseHazardCodes(answer); err != nil {
		return false, "expected a comma-separated list of " + hazardCodeList()
	}
	return true, ""
}

// ValidateHazardCodesFor is ValidateHazardCodes restricted to the codes
// of one acute toxicity category, e.g. H301, H311 and H331 for
// category 3.
func ValidateHazardCodesFor(category string) Validator {
	return func(answer string) (bool, string) {
		codes, err := taxonomy.ParseHazardCodes(answer)
		if err != nil {
			return ValidateHazardCodes(answer)
		}
		for _, h := range codes {
			if !h.BelongsTo(category) {
				return false, fmt.Sprintf("%s is not a category %s code; expected %s",
					h, category, codeList(taxonomy.CategoryHazardCodes(category)))
			}
		}
		return true, ""
	}
}

// ValidatePhysicalState accepts k, s or d.
func ValidatePhysicalState(answer string) (bool, string) {
	if _, err := taxonomy.ParsePhysicalState(answer); err != nil {
		return false, "expected k (solid), s (liquid) or d (gas)"
	}
	return true, ""
}

// ValidateNumber accepts any finite decimal number. A decimal comma is
// accepted as well as a point.
func ValidateNumber(answer string) (bool, string) {
	if _, err := parseNumber(answer); err != nil {
		return false, "expected a number"
	}
	return true, ""
}

// ValidateMFactor accepts a positive number, an empty answer meaning 1,
// or "unknown".
func ValidateMFactor(answer string) (bool, string) {
	if _, err := parseMFactor(answer); err != nil {
		return false, "expected a positive number, an empty answer, or 'unknown'"
	}
	return true, ""
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

func parseMFactor(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 1, nil
	case "unknown", "?":
		return unknownMFactor, nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("M-factor must be positive: %q", s)
	}
	return v, nil
}
