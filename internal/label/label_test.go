package label

import (
	"reflect"
	"strings"
	"testing"

	"github.com/unbound-force/clpmix/internal/taxonomy"
)

func tokens(t *testing.T, ss ...string) []taxonomy.Token {
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

func TestEncode_PureCorrosive(t *testing.T) {
	l := Encode(tokens(t, "Skin Corr. 1B", "Met. Corr. 1"))

	if !reflect.DeepEqual(l.Pictograms, []string{"GHS05"}) {
		t.Errorf("Pictograms = %v, want [GHS05]", l.Pictograms)
	}
	if l.SignalWord != Danger {
		t.Errorf("SignalWord = %q, want Danger", l.SignalWord)
	}
	if !reflect.DeepEqual(l.HazardCodes(), []string{"H314", "H290"}) {
		t.Errorf("HazardCodes = %v, want [H314 H290]", l.HazardCodes())
	}

	// H314 precautions first, then the H290 ones not already listed.
	wantP := []string{
		"P260", "P264", "P280", "P301+P330+P331", "P303+P361+P353", "P363",
		"P304+P340", "P310", "P321", "P305+P351+P338", "P405", "P501",
		"P234", "P390", "P406",
	}
	if !reflect.DeepEqual(l.PrecautionCodes(), wantP) {
		t.Errorf("PrecautionCodes = %v\nwant %v", l.PrecautionCodes(), wantP)
	}
	for _, s := range append(l.Hazards, l.Precautions...) {
		if s.Text == "" {
			t.Errorf("statement %s has no phrase", s.Code)
		}
	}
}

func TestEncode_DangerDominates(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want SignalWord
	}{
		{"none", []string{"Aquatic Chronic 3"}, NoSignal},
		{"warning only", []string{"Skin Irrit. 2", "Eye Irrit. 2"}, Warning},
		{"danger wins over warning", []string{"Skin Irrit. 2", "Eye Dam. 1", "Skin Sens. 1"}, Danger},
		{"danger wins regardless of order", []string{"Carc. 1B", "Aquatic Chronic 2"}, Danger},
		{"empty", nil, NoSignal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tokens(t, tt.in...)).SignalWord; got != tt.want {
				t.Errorf("SignalWord = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_Deduplicates(t *testing.T) {
	l := Encode(tokens(t, "Eye Irrit. 2", "Skin Irrit. 2", "Eye Irrit. 2A", "STOT SE 3"))
	if !reflect.DeepEqual(l.Pictograms, []string{"GHS07"}) {
		t.Errorf("Pictograms = %v, want [GHS07]", l.Pictograms)
	}
	if !reflect.DeepEqual(l.HazardCodes(), []string{"H319", "H315", "H335", "H336"}) {
		t.Errorf("HazardCodes = %v", l.HazardCodes())
	}
	seen := map[string]bool{}
	for _, p := range l.PrecautionCodes() {
		if seen[p] {
			t.Errorf("duplicate P code %s", p)
		}
		seen[p] = true
	}
}

func TestEncode_Idempotent(t *testing.T) {
	in := tokens(t, "Acute Tox. 3 (oral)", "Flam. Liq. 2", "Aquatic Chronic 1", "Repr. 2")
	a := Encode(in)
	b := Encode(in)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Encode is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestEncode_AcuteToxRoutes(t *testing.T) {
	l := Encode(tokens(t, "Acute Tox. 4 (oral)", "Acute Tox. 3 * (inhale)", "Acute Tox. 2"))
	if !reflect.DeepEqual(l.HazardCodes(), []string{"H302", "H331"}) {
		t.Errorf("HazardCodes = %v, want [H302 H331]", l.HazardCodes())
	}
	if !reflect.DeepEqual(l.Pictograms, []string{"GHS07", "GHS06"}) {
		t.Errorf("Pictograms = %v", l.Pictograms)
	}
	if l.SignalWord != Danger {
		t.Errorf("SignalWord = %q, want Danger", l.SignalWord)
	}
}

func TestEncode_Unlabelled(t *testing.T) {
	l := Encode(tokens(t, "Flam. Liq. 4", "Lact."))
	if !reflect.DeepEqual(l.Unlabelled, []string{"Flam. Liq. 4"}) {
		t.Errorf("Unlabelled = %v", l.Unlabelled)
	}
	if !reflect.DeepEqual(l.HazardCodes(), []string{"H362"}) {
		t.Errorf("HazardCodes = %v", l.HazardCodes())
	}
	if len(l.Pictograms) != 0 || l.SignalWord != NoSignal {
		t.Errorf("Lact. should carry no pictogram or signal word, got %v %q", l.Pictograms, l.SignalWord)
	}
}

func TestEncode_SignalCorrections(t *testing.T) {
	for _, in := range []string{"Aquatic Acute 1", "STOT RE 2"} {
		if got := Encode(tokens(t, in)).SignalWord; got != Warning {
			t.Errorf("%s signal word = %q, want Warning", in, got)
		}
	}
}

func TestPrecautionPhrase(t *testing.T) {
	got := PrecautionPhrase("P301+P310")
	if got != "IF SWALLOWED: Immediately call a POISON CENTER or doctor." {
		t.Errorf("PrecautionPhrase(P301+P310) = %q", got)
	}
	if got := PrecautionPhrase("P362+P364"); !strings.HasPrefix(got, "Take off contaminated clothing and wash") {
		t.Errorf("PrecautionPhrase(P362+P364) = %q", got)
	}
	if got := PrecautionPhrase("P999"); got != "" {
		t.Errorf("PrecautionPhrase(P999) = %q, want empty", got)
	}
	if got := PrecautionPhrase("P301+P999"); got != "" {
		t.Errorf("PrecautionPhrase(P301+P999) = %q, want empty", got)
	}
}

func TestTables_Complete(t *testing.T) {
	for tok, e := range tokenTable {
		if _, err := taxonomy.ParseToken(tok); err != nil {
			t.Errorf("table key %q does not parse: %v", tok, err)
		}
		for _, h := range e.hazards {
			if HazardPhrase(h) == "" {
				t.Errorf("%s: no phrase for %s", tok, h)
			}
			if _, ok := precautionary[h]; !ok {
				t.Errorf("%s: no precautionary statements for %s", tok, h)
			}
		}
	}
	for h, ps := range precautionary {
		for _, p := range ps {
			if PrecautionPhrase(p) == "" {
				t.Errorf("%s: no phrase for %s", h, p)
			}
		}
	}
}
