// Package label derives the CLP label elements of a classified
// mixture: GHS pictograms, the signal word, and the hazard (H) and
// precautionary (P) statements with their phrases.
package label

import (
	"strings"

	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// SignalWord is the label signal word.
type SignalWord string

// Signal words in ascending priority.
const (
	NoSignal SignalWord = "None"
	Warning  SignalWord = "Warning"
	Danger   SignalWord = "Danger"
)

func (s SignalWord) rank() int {
	switch s {
	case Danger:
		return 2
	case Warning:
		return 1
	}
	return 0
}

// Statement is a hazard or precautionary statement code with its
// phrase. Text is empty when no phrase is known for the code.
type Statement struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Label holds the label elements derived from a classification.
type Label struct {
	// Pictograms lists GHS pictogram codes (GHS01..GHS09) in first
	// occurrence order, without duplicates.
	Pictograms []string `json:"pictograms"`

	// SignalWord is the strictest signal word attached to any token.
	SignalWord SignalWord `json:"signal_word"`

	// Hazards lists the H statements in first occurrence order.
	Hazards []Statement `json:"hazard_statements"`

	// Precautions lists the P statements in first occurrence order.
	Precautions []Statement `json:"precautionary_statements"`

	// Unlabelled lists tokens with no label elements, such as
	// Flam. Liq. 4 which exists under GHS but not CLP.
	Unlabelled []string `json:"unlabelled,omitempty"`
}

// HazardCodes returns the H codes of the label.
func (l Label) HazardCodes() []string {
	return codes(l.Hazards)
}

// PrecautionCodes returns the P codes of the label.
func (l Label) PrecautionCodes() []string {
	return codes(l.Precautions)
}

// HazardPhrases returns the H phrases of the label.
func (l Label) HazardPhrases() []string {
	return texts(l.Hazards)
}

// PrecautionPhrases returns the P phrases of the label.
func (l Label) PrecautionPhrases() []string {
	return texts(l.Precautions)
}

// Encode maps classification tokens to label elements. Tokens without
// a table entry contribute nothing and are listed in Unlabelled.
// Encode is deterministic: equal inputs produce equal labels.
func Encode(tokens []taxonomy.Token) Label {
	l := Label{
		Pictograms:  []string{},
		SignalWord:  NoSignal,
		Hazards:     []Statement{},
		Precautions: []Statement{},
	}
	seenGHS := map[string]bool{}
	seenH := map[string]bool{}
	seenP := map[string]bool{}

	for _, t := range tokens {
		e, ok := lookup(t)
		if !ok {
			l.Unlabelled = append(l.Unlabelled, t.String())
			continue
		}
		for _, g := range e.pictograms {
			if !seenGHS[g] {
				seenGHS[g] = true
				l.Pictograms = append(l.Pictograms, g)
			}
		}
		if e.signal.rank() > l.SignalWord.rank() {
			l.SignalWord = e.signal
		}
		for _, h := range e.hazards {
			if seenH[h] {
				continue
			}
			seenH[h] = true
			l.Hazards = append(l.Hazards, Statement{Code: h, Text: HazardPhrase(h)})
		}
	}

	// P statements follow H statement order.
	for _, h := range l.Hazards {
		for _, p := range precautionary[h.Code] {
			if seenP[p] {
				continue
			}
			seenP[p] = true
			l.Precautions = append(l.Precautions, Statement{Code: p, Text: PrecautionPhrase(p)})
		}
	}
	return l
}

// lookup finds the table entry for a token. Exact text wins; acute
// toxicity tokens are then keyed by category and route, everything
// else by class and category alone.
func lookup(t taxonomy.Token) (entry, bool) {
	if e, ok := tokenTable[t.String()]; ok {
		return e, true
	}
	if r, ok := t.Route(); ok {
		if e, ok := tokenTable[t.Base().WithQualifier(r.Qualifier()).String()]; ok {
			return e, true
		}
	}
	e, ok := tokenTable[t.Base().String()]
	return e, ok
}

// HazardPhrase returns the phrase of an H code, or "" if unknown.
func HazardPhrase(code string) string {
	return hazardPhrases[code]
}

// PrecautionPhrase returns the phrase of a P code. Combined codes such
// as "P301+P310" use their own wording when one exists and otherwise
// join the phrases of their parts.
func PrecautionPhrase(code string) string {
	if p, ok := precautionaryPhrases[code]; ok {
		return p
	}
	parts := strings.Split(code, "+")
	if len(parts) == 1 {
		return ""
	}
	phrases := make([]string, 0, len(parts))
	for _, part := range parts {
		p, ok := precautionaryPhrases[part]
		if !ok {
			return ""
		}
		phrases = append(phrases, p)
	}
	return strings.Join(phrases, " ")
}

func codes(ss []Statement) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Code
	}
	return out
}

func texts(ss []Statement) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Text
	}
	return out
}
