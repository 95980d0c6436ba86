package taxonomy

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseToken_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want Token
	}{
		{"Skin Corr. 1B", Token{Class: SkinCorr, Category: "1B"}},
		{"Acute Tox. 4 (oral)", Token{Class: AcuteTox, Category: "4", Qualifier: "(oral)"}},
		{"Acute Tox. 3 *", Token{Class: AcuteTox, Category: "3", Qualifier: "*"}},
		{"  Eye   Dam. 1 ", Token{Class: EyeDam, Category: "1"}},
		{"Lact.", Token{Class: Lact}},
		{"Press. Gas (Ref. Liq.)", Token{Class: PressGas, Qualifier: "(Ref. Liq.)"}},
		{"Unst. Expl.", Token{Class: UnstExpl}},
		{"Expl. 1.4", Token{Class: Expl, Category: "1.4"}},
		{"Aquatic Chronic 3", Token{Class: AquaticChronic, Category: "3"}},
		{"STOT SE 3", Token{Class: StotSE, Category: "3"}},
		{"Self-react. C", Token{Class: SelfReact, Category: "C"}},
		{"Ozone 1", Token{Class: Ozone, Category: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseToken(tt.in)
			if err != nil {
				t.Fatalf("ParseToken(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseToken(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseToken_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"Skin Corr. 3",
		"Acute Tox.",
		"Flammable Liquid 1",
		"Skin Corr.1A",
		"Eye Irrit. 2 oral",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseToken(in)
			if err == nil {
				t.Fatalf("ParseToken(%q) succeeded, want error", in)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseToken(%q) error %v does not match ErrInvalidInput", in, err)
			}
		})
	}
}

func TestToken_StringRoundTrip(t *testing.T) {
	for _, c := range Classes() {
		cats := c.Categories()
		if len(cats) == 0 {
			cats = []string{""}
		}
		for _, cat := range cats {
			tok := NewToken(c, cat)
			got, err := ParseToken(tok.String())
			if err != nil {
				t.Errorf("ParseToken(%q) error: %v", tok, err)
				continue
			}
			if got != tok {
				t.Errorf("round trip of %q = %#v", tok, got)
			}
		}
	}
}

func TestToken_Route(t *testing.T) {
	r, ok := MustParseToken("Acute Tox. 2 (dermal)").Route()
	if !ok || r != Dermal {
		t.Errorf("Route() = %q, %v, want dermal, true", r, ok)
	}
	if _, ok := MustParseToken("Acute Tox. 2").Route(); ok {
		t.Error("unqualified token reported a route")
	}
	if _, ok := MustParseToken("Skin Corr. 1").Route(); ok {
		t.Error("non acute toxicity token reported a route")
	}
}

func TestToken_TextEncoding(t *testing.T) {
	s := Substance{
		CAS:            "64-17-5",
		Percentage:     40,
		Classification: []Token{MustParseToken("Flam. Liq. 2"), MustParseToken("Eye Irrit. 2")},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var fromJSON Substance
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if JoinTokens(fromJSON.Classification) != "Flam. Liq. 2, Eye Irrit. 2" {
		t.Errorf("json classification = %q", JoinTokens(fromJSON.Classification))
	}

	var fromYAML Substance
	doc := "cas: 64-17-5\npercentage: 40\nclassification: [\"Flam. Liq. 2\", \"Eye Irrit. 2\"]\n"
	if err := yaml.Unmarshal([]byte(doc), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if len(fromYAML.Classification) != 2 || fromYAML.Classification[0] != s.Classification[0] {
		t.Errorf("yaml classification = %v", fromYAML.Classification)
	}

	var bad Substance
	if err := json.Unmarshal([]byte(`{"percentage":1,"classification":["Bogus 1"]}`), &bad); err == nil {
		t.Error("expected unknown token to fail json decoding")
	}
}

func TestParseTokenList(t *testing.T) {
	got, err := ParseTokenList("Skin Corr. 1B, Met. Corr. 1,,")
	if err != nil {
		t.Fatalf("ParseTokenList: %v", err)
	}
	if len(got) != 2 || got[1] != NewToken(MetCorr, "1") {
		t.Errorf("ParseTokenList = %v", got)
	}
	if JoinTokens(got) != "Skin Corr. 1B, Met. Corr. 1" {
		t.Errorf("JoinTokens = %q", JoinTokens(got))
	}
}

// ---------------------------------------------------------------------------
// Hazard codes, routes and physical states
// ---------------------------------------------------------------------------

func TestHazardCode_Route(t *testing.T) {
	want := map[HazardCode]Route{
		H300: Oral, H301: Oral, H302: Oral,
		H310: Dermal, H311: Dermal, H312: Dermal,
		H330: Inhalation, H331: Inhalation, H332: Inhalation,
	}
	for _, h := range HazardCodes() {
		if got := h.Route(); got != want[h] {
			t.Errorf("%s.Route() = %q, want %q", h, got, want[h])
		}
	}
}

func TestParseHazardCodes(t *testing.T) {
	got, err := ParseHazardCodes("h301, H311 ,")
	if err != nil {
		t.Fatalf("ParseHazardCodes: %v", err)
	}
	if len(got) != 2 || got[0] != H301 || got[1] != H311 {
		t.Errorf("ParseHazardCodes = %v", got)
	}
	for _, bad := range []string{"", "H314", "H301, H999", " , "} {
		if _, err := ParseHazardCodes(bad); err == nil {
			t.Errorf("ParseHazardCodes(%q) succeeded, want error", bad)
		}
	}
}

func TestHazardCodeFor(t *testing.T) {
	tests := []struct {
		cat   string
		route Route
		want  HazardCode
	}{
		{"1", Oral, H300},
		{"2", Oral, H300},
		{"3", Dermal, H311},
		{"4", Inhalation, H332},
	}
	for _, tt := range tests {
		got, ok := HazardCodeFor(tt.cat, tt.route)
		if !ok || got != tt.want {
			t.Errorf("HazardCodeFor(%q, %s) = %s, %v, want %s", tt.cat, tt.route, got, ok, tt.want)
		}
	}
	if _, ok := HazardCodeFor("5", Oral); ok {
		t.Error("HazardCodeFor accepted category 5")
	}
}

func TestHazardCode_BelongsTo(t *testing.T) {
	tests := []struct {
		code HazardCode
		cat  string
		want bool
	}{
		{H300, "1", true},
		{H300, "2", true},
		{H311, "3", true},
		{H332, "4", true},
		{H302, "1", false},
		{H301, "4", false},
		{H330, "5", false},
	}
	for _, tt := range tests {
		if got := tt.code.BelongsTo(tt.cat); got != tt.want {
			t.Errorf("%s.BelongsTo(%q) = %v, want %v", tt.code, tt.cat, got, tt.want)
		}
	}
}

func TestCategoryHazardCodes(t *testing.T) {
	got := CategoryHazardCodes("3")
	want := []HazardCode{H301, H311, H331}
	if len(got) != len(want) {
		t.Fatalf("CategoryHazardCodes(\"3\") = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CategoryHazardCodes(\"3\")[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if got := CategoryHazardCodes("9"); len(got) != 0 {
		t.Errorf("CategoryHazardCodes(\"9\") = %v, want none", got)
	}
}

func TestParsePhysicalState(t *testing.T) {
	tests := map[string]PhysicalState{"k": Solid, "S": Liquid, "d": Gas, "gas": Gas}
	for in, want := range tests {
		got, err := ParsePhysicalState(in)
		if err != nil || got != want {
			t.Errorf("ParsePhysicalState(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParsePhysicalState("x"); err == nil {
		t.Error("ParsePhysicalState(\"x\") succeeded, want error")
	}
}

// ---------------------------------------------------------------------------
// Mixture
// ---------------------------------------------------------------------------

func TestMixture_Validate(t *testing.T) {
	ok := Mixture{Substances: []Substance{{Percentage: 0}, {Percentage: 100}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	for _, p := range []float64{-1, 100.5, math.NaN()} {
		m := Mixture{Substances: []Substance{{Percentage: 10}, {Percentage: p}}}
		err := m.Validate()
		var ie *InputError
		if !errors.As(err, &ie) {
			t.Fatalf("Validate() with %v = %v, want *InputError", p, err)
		}
		if ie.Index != 1 || ie.Field != "percentage" {
			t.Errorf("InputError = %+v, want index 1 field percentage", ie)
		}
	}
}

func TestMixture_TotalPercentage(t *testing.T) {
	m := Mixture{Substances: []Substance{{Percentage: 60}, {Percentage: 50.5}}}
	if got := m.TotalPercentage(); got != 110.5 {
		t.Errorf("TotalPercentage() = %v, want 110.5", got)
	}
}

func TestNewAdvisory(t *testing.T) {
	a := NewAdvisory(FlamGas)
	if a.Section != "2.2" || a.Class != FlamGas {
		t.Errorf("NewAdvisory(FlamGas) = %+v", a)
	}
	if a.Message == "" {
		t.Error("advisory message is empty")
	}
}

func TestSubstance_Describe(t *testing.T) {
	s := Substance{CAS: "7647-01-0"}
	if got := s.Describe(0); got != "substance 1 (CAS 7647-01-0)" {
		t.Errorf("Describe = %q", got)
	}
	if got := (Substance{}).Describe(2); got != "substance 3" {
		t.Errorf("Describe = %q", got)
	}
}
