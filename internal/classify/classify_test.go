package classify_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/unbound-force/clpmix/internal/classify"
	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// scenario is one entry of testdata/scenarios.yaml.
type scenario struct {
	Name       string            `yaml:"name"`
	Mixture    taxonomy.Mixture  `yaml:"mixture"`
	Answers    map[string]string `yaml:"answers"`
	Want       []string          `yaml:"want"`
	Advisories []string          `yaml:"advisories"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "scenarios.yaml"))
	if err != nil {
		t.Fatalf("reading scenarios: %v", err)
	}
	var out []scenario
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("parsing scenarios: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("no scenarios loaded")
	}
	return out
}

// scriptedAsker answers each question with the reply whose key occurs
// in the prompt and records the prompts it saw.
type scriptedAsker struct {
	answers map[string]string
	asked   []string
}

func (a *scriptedAsker) Ask(_ context.Context, q classify.Question) (string, error) {
	a.asked = append(a.asked, q.Prompt)
	for fragment, reply := range a.answers {
		if strings.Contains(q.Prompt, fragment) {
			return reply, nil
		}
	}
	return "", fmt.Errorf("unexpected question %q", q.Prompt)
}

func tokenStrings(tokens []taxonomy.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}

func mustTokens(t *testing.T, ss ...string) []taxonomy.Token {
	t.Helper()
	out := make([]taxonomy.Token, len(ss))
	for i, s := range ss {
		tok, err := taxonomy.ParseToken(s)
		if err != nil {
			t.Fatalf("ParseToken(%q): %v", s, err)
		}
		out[i] = tok
	}
	return out
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestClassify_Scenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			asker := &scriptedAsker{answers: sc.Answers}
			eng := classify.New(nil, asker, classify.Options{})

			res, err := eng.Classify(context.Background(), sc.Mixture)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}

			want := sc.Want
			if want == nil {
				want = []string{}
			}
			if got := tokenStrings(res.Classification); !reflect.DeepEqual(got, want) {
				t.Errorf("Classification = %q, want %q", got, want)
			}

			sections := []string{}
			for _, a := range res.Advisories {
				sections = append(sections, a.Section)
			}
			wantAdv := sc.Advisories
			if wantAdv == nil {
				wantAdv = []string{}
			}
			if !reflect.DeepEqual(sections, wantAdv) {
				t.Errorf("advisory sections = %q, want %q", sections, wantAdv)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Short-circuit
// ---------------------------------------------------------------------------

func TestClassify_PureSubstanceIdentity(t *testing.T) {
	cases := [][]string{
		{"Skin Corr. 1B", "Met. Corr. 1"},
		{"Acute Tox. 3", "Aquatic Acute 1", "Resp. Sens. 1"},
		{"Flam. Gas 1", "Press. Gas (Liq.)"},
		{},
	}
	for _, tokens := range cases {
		m := taxonomy.Mixture{Substances: []taxonomy.Substance{
			{Percentage: 100, Classification: mustTokens(t, tokens...)},
		}}
		// No asker: the short-circuit must not ask anything.
		res, err := classify.New(nil, nil, classify.Options{}).Classify(context.Background(), m)
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", tokens, err)
		}
		if got := tokenStrings(res.Classification); !reflect.DeepEqual(got, tokens) {
			t.Errorf("Classify(%q) = %q, want identity", tokens, got)
		}
		if len(res.Advisories) != 0 {
			t.Errorf("pure substance produced advisories: %v", res.Advisories)
		}
	}
}

func TestClassify_ShortCircuitBoundary(t *testing.T) {
	tests := []struct {
		pct  float64
		pure bool
	}{
		{100, true},
		{99.9995, true},
		{80, true},
		{79.9995, true},
		{79.5, false},
	}
	for _, tt := range tests {
		m := taxonomy.Mixture{Substances: []taxonomy.Substance{
			{Percentage: tt.pct, Classification: mustTokens(t, "STOT SE 3")},
		}}
		res, err := classify.New(nil, nil, classify.Options{}).Classify(context.Background(), m)
		if err != nil {
			t.Fatalf("Classify(%v%%) error: %v", tt.pct, err)
		}
		got := tokenStrings(res.Classification)
		// Through the rules STOT SE 3 at these levels also yields
		// STOT SE 3, so the shortcut shows only in qualifier handling.
		if len(got) != 1 || got[0] != "STOT SE 3" {
			t.Errorf("Classify(%v%%) = %q, want [STOT SE 3]", tt.pct, got)
		}
	}

	// Qualifiers survive only through the shortcut.
	for _, tt := range tests {
		m := taxonomy.Mixture{Substances: []taxonomy.Substance{
			{Percentage: tt.pct, Classification: mustTokens(t, "Carc. 2 *")},
		}}
		res, err := classify.New(nil, nil, classify.Options{}).Classify(context.Background(), m)
		if err != nil {
			t.Fatalf("Classify(%v%%) error: %v", tt.pct, err)
		}
		want := "Carc. 2"
		if tt.pure {
			want = "Carc. 2 *"
		}
		if got := tokenStrings(res.Classification); len(got) != 1 || got[0] != want {
			t.Errorf("Classify(%v%%) = %q, want [%s]", tt.pct, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Gathering
// ---------------------------------------------------------------------------

type fakeLookup map[string]*classify.Record

func (f fakeLookup) Lookup(_ context.Context, cas string) (*classify.Record, error) {
	return f[cas], nil
}

func TestClassify_ReferenceDataAvoidsQuestions(t *testing.T) {
	lookup := fakeLookup{
		"50-00-0": {
			CAS: "50-00-0",
			HazardCodes: map[string][]taxonomy.HazardCode{
				"Acute Tox. 3": {taxonomy.H301, taxonomy.H311, taxonomy.H331},
			},
			MFactor:        math.NaN(),
			MChronicFactor: math.NaN(),
		},
		"7440-50-8": {CAS: "7440-50-8", MFactor: 10, MChronicFactor: 1},
	}
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{CAS: "50-00-0", Percentage: 10, Classification: mustTokens(t, "Acute Tox. 3")},
		{CAS: "7440-50-8", Percentage: 3, Classification: mustTokens(t, "Aquatic Acute 1", "Aquatic Chronic 1")},
		{Percentage: 87},
	}}
	asker := &scriptedAsker{}
	res, err := classify.New(lookup, asker, classify.Options{}).Classify(context.Background(), m)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if len(asker.asked) != 0 {
		t.Errorf("asked %q, want no questions", asker.asked)
	}
	// Oral ATE 1000, dermal 3000, inhalation 30; acute sum 30.
	want := []string{"Acute Tox. 4 (oral)", "Aquatic Acute 1", "Aquatic Chronic 2"}
	if got := tokenStrings(res.Classification); !reflect.DeepEqual(got, want) {
		t.Errorf("Classification = %q, want %q", got, want)
	}
}

func TestClassify_AsksOncePerToken(t *testing.T) {
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 30, Classification: mustTokens(t, "Acute Tox. 4", "Acute Tox. 4 *", "Acute Tox. 2")},
		{Percentage: 70},
	}}
	asker := &scriptedAsker{answers: map[string]string{
		"class Acute Tox. 4": "H302",
		"class Acute Tox. 2": "H330",
	}}
	res, err := classify.New(nil, asker, classify.Options{}).Classify(context.Background(), m)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if len(asker.asked) != 2 {
		t.Errorf("asked %d questions %q, want 2", len(asker.asked), asker.asked)
	}
	// Oral 100/(30/500) = 1666.7; inhalation 100/(30/0.5) = 1.67.
	want := []string{"Acute Tox. 4 (oral)", "Acute Tox. 2 (inhale)"}
	if got := tokenStrings(res.Classification); !reflect.DeepEqual(got, want) {
		t.Errorf("Classification = %q, want %q", got, want)
	}
}

// TestClassify_QuestionOrder checks that hazard codes are asked for
// every substance first, then M-factors, then physical states,
// whatever the substance order.
func TestClassify_QuestionOrder(t *testing.T) {
	var asked []string
	asker := classify.AskerFunc(func(_ context.Context, q classify.Question) (string, error) {
		asked = append(asked, q.Prompt)
		switch {
		case strings.Contains(q.Prompt, "H-codes"):
			return "H301", nil
		case strings.Contains(q.Prompt, "M-factor"):
			return "1", nil
		}
		return "k", nil
	})
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 5, Classification: mustTokens(t, "Resp. Sens. 1")},
		{Percentage: 5, Classification: mustTokens(t, "Aquatic Acute 1")},
		{Percentage: 5, Classification: mustTokens(t, "Acute Tox. 3")},
		{Percentage: 85},
	}}
	if _, err := classify.New(nil, asker, classify.Options{}).Classify(context.Background(), m); err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	want := []string{
		"Enter H-codes for substance 3, class Acute Tox. 3",
		"Enter the acute M-factor for substance 2",
		"Enter the physical state of substance 1 (k/s/d)",
	}
	if !reflect.DeepEqual(asked, want) {
		t.Errorf("questions asked in order %q, want %q", asked, want)
	}
}

// TestClassify_RejectsCodesOfAnotherCategory checks that a typed
// hazard code must match the token's category.
func TestClassify_RejectsCodesOfAnotherCategory(t *testing.T) {
	replies := []string{"H302", "H300"}
	var calls int
	asker := classify.AskerFunc(func(context.Context, classify.Question) (string, error) {
		r := replies[calls]
		calls++
		return r, nil
	})
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 50, Classification: mustTokens(t, "Acute Tox. 1")},
		{Percentage: 50},
	}}
	res, err := classify.New(nil, asker, classify.Options{}).Classify(context.Background(), m)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("asker called %d times, want 2", calls)
	}
	// Oral 100/(50/0.5) = 1.
	if got := tokenStrings(res.Classification); !reflect.DeepEqual(got, []string{"Acute Tox. 1 (oral)"}) {
		t.Errorf("Classification = %q", got)
	}
}

func TestClassify_RetriesInvalidAnswers(t *testing.T) {
	replies := []string{"H999", "oral", "H302"}
	var calls int
	asker := classify.AskerFunc(func(_ context.Context, q classify.Question) (string, error) {
		r := replies[calls]
		calls++
		return r, nil
	})
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 50, Classification: mustTokens(t, "Acute Tox. 4")},
		{Percentage: 50},
	}}
	res, err := classify.New(nil, asker, classify.Options{}).Classify(context.Background(), m)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("asker called %d times, want 3", calls)
	}
	if got := tokenStrings(res.Classification); !reflect.DeepEqual(got, []string{"Acute Tox. 4 (oral)"}) {
		t.Errorf("Classification = %q", got)
	}
}

func TestClassify_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	asker := classify.AskerFunc(func(context.Context, classify.Question) (string, error) {
		calls++
		return "liquid-ish", nil
	})
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 5, Classification: mustTokens(t, "Resp. Sens. 1")},
	}}
	_, err := classify.New(nil, asker, classify.Options{MaxAttempts: 2}).Classify(context.Background(), m)
	if !errors.Is(err, classify.ErrInvalidAnswer) {
		t.Fatalf("Classify() error = %v, want ErrInvalidAnswer", err)
	}
	if calls != 2 {
		t.Errorf("asker called %d times, want 2", calls)
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestClassify_InvalidInput(t *testing.T) {
	asker := &scriptedAsker{}
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 10, Classification: mustTokens(t, "Acute Tox. 3")},
		{Percentage: 120},
	}}
	res, err := classify.New(nil, asker, classify.Options{}).Classify(context.Background(), m)
	if !errors.Is(err, taxonomy.ErrInvalidInput) {
		t.Fatalf("Classify() error = %v, want ErrInvalidInput", err)
	}
	if res != nil {
		t.Errorf("Classify() returned partial result %+v", res)
	}
	if len(asker.asked) != 0 {
		t.Errorf("asked %q before validating input", asker.asked)
	}
}

func TestClassify_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("database unreachable")
	lookup := classify.LookupFunc(func(context.Context, string) (*classify.Record, error) {
		return nil, boom
	})
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{CAS: "50-00-0", Percentage: 10, Classification: mustTokens(t, "Acute Tox. 3")},
		{Percentage: 90},
	}}
	_, err := classify.New(lookup, nil, classify.Options{}).Classify(context.Background(), m)
	if err != boom {
		t.Errorf("Classify() error = %v, want %v unchanged", err, boom)
	}
}

func TestClassify_AskerErrorPropagates(t *testing.T) {
	boom := errors.New("terminal closed")
	asker := classify.AskerFunc(func(context.Context, classify.Question) (string, error) {
		return "", boom
	})
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 50, Classification: mustTokens(t, "Flam. Liq. 2")},
		{Percentage: 50, Classification: mustTokens(t, "Flam. Liq. 3")},
	}}
	_, err := classify.New(nil, asker, classify.Options{}).Classify(context.Background(), m)
	if err != boom {
		t.Errorf("Classify() error = %v, want %v unchanged", err, boom)
	}
}

func TestClassify_NoAskerConfigured(t *testing.T) {
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 10, Classification: mustTokens(t, "Acute Tox. 3")},
		{Percentage: 90},
	}}
	_, err := classify.New(nil, nil, classify.Options{}).Classify(context.Background(), m)
	if !errors.Is(err, classify.ErrInputRequired) {
		t.Errorf("Classify() error = %v, want ErrInputRequired", err)
	}
}

func TestClassify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	asker := classify.AskerFunc(func(ctx context.Context, q classify.Question) (string, error) {
		cancel()
		return "H301", nil
	})
	m := taxonomy.Mixture{Substances: []taxonomy.Substance{
		{Percentage: 10, Classification: mustTokens(t, "Acute Tox. 3")},
		{Percentage: 10, Classification: mustTokens(t, "Skin Corr. 1")},
		{Percentage: 80},
	}}
	res, err := classify.New(nil, asker, classify.Options{}).Classify(ctx, m)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Classify() error = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Errorf("Classify() returned partial result %+v", res)
	}
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

// TestClassify_OutputsAreEnumerated checks that every emitted token
// parses back into the enumerated class set.
func TestClassify_OutputsAreEnumerated(t *testing.T) {
	answers := map[string]string{
		"class Acute Tox. 1": "H300, H310, H330",
		"class Acute Tox. 2": "H300, H310, H330",
		"class Acute Tox. 3": "H301, H311, H331",
		"class Acute Tox. 4": "H302, H312, H332",
		"M-factor":           "1",
		"physical state":     "k",
		"flash point":        "10",
		"boiling point":      "50",
	}
	var all []string
	for _, c := range taxonomy.Classes() {
		cats := c.Categories()
		if len(cats) == 0 {
			cats = []string{""}
		}
		for _, cat := range cats {
			all = append(all, taxonomy.NewToken(c, cat).String())
		}
	}
	for _, pct := range []float64{0.05, 0.5, 3, 12, 40} {
		m := taxonomy.Mixture{}
		for _, tok := range all {
			m.Substances = append(m.Substances, taxonomy.Substance{
				Percentage: pct, Classification: mustTokens(t, tok),
			})
		}
		res, err := classify.New(nil, &scriptedAsker{answers: answers}, classify.Options{}).Classify(context.Background(), m)
		if err != nil {
			t.Fatalf("Classify(%v%% each) error: %v", pct, err)
		}
		for _, tok := range res.Classification {
			back, err := taxonomy.ParseToken(tok.String())
			if err != nil || back != tok || !tok.Class.Known() {
				t.Errorf("emitted token %q is not enumerated", tok)
			}
		}
	}
}

// TestClassify_Monotone checks that raising the concentration of a
// hazardous ingredient never removes its class from the result.
func TestClassify_Monotone(t *testing.T) {
	ingredients := []string{
		"Skin Corr. 1A", "Skin Irrit. 2", "Eye Dam. 1", "Skin Sens. 1",
		"Muta. 1B", "Carc. 2", "Repr. 1A", "Repr. 2", "STOT SE 1",
		"STOT SE 3", "STOT RE 1", "Asp. Tox. 1", "Ozone 1",
		"Aquatic Acute 1", "Aquatic Chronic 1", "Aquatic Chronic 3",
	}
	answers := map[string]string{"M-factor": ""}
	levels := []float64{0.01, 0.1, 0.3, 1, 2, 3, 5, 9.9, 10, 20, 25, 30, 50, 70}

	for _, ing := range ingredients {
		t.Run(ing, func(t *testing.T) {
			classified := false
			for _, p := range levels {
				m := taxonomy.Mixture{Substances: []taxonomy.Substance{
					{Percentage: p, Classification: mustTokens(t, ing)},
					{Percentage: 100 - p},
				}}
				res, err := classify.New(nil, &scriptedAsker{answers: answers}, classify.Options{}).Classify(context.Background(), m)
				if err != nil {
					t.Fatalf("Classify(%v%%) error: %v", p, err)
				}
				now := len(res.Classification) > 0
				if classified && !now {
					t.Errorf("classification lost when raising %s to %v%%", ing, p)
				}
				classified = classified || now
			}
			if !classified {
				t.Errorf("%s never classified up to 70%%", ing)
			}
		})
	}
}
