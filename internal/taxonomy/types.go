// Package taxonomy defines the CLP hazard class system, the tagged
// classification token, and the mixture and result data structures
// shared by the classification engine, the label encoder and the
// substance store.
package taxonomy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Class enumerates the CLP hazard classes the engine understands. The
// value is the canonical token prefix.
type Class string

// Health hazards.
const (
	AcuteTox  Class = "Acute Tox."
	SkinCorr  Class = "Skin Corr."
	SkinIrrit Class = "Skin Irrit."
	EyeDam    Class = "Eye Dam."
	EyeIrrit  Class = "Eye Irrit."
	RespSens  Class = "Resp. Sens."
	SkinSens  Class = "Skin Sens."
	Muta      Class = "Muta."
	Carc      Class = "Carc."
	Repr      Class = "Repr."
	Lact      Class = "Lact."
	StotSE    Class = "STOT SE"
	StotRE    Class = "STOT RE"
	AspTox    Class = "Asp. Tox."
)

// Physical hazards.
const (
	UnstExpl    Class = "Unst. Expl."
	Expl        Class = "Expl."
	FlamGas     Class = "Flam. Gas"
	ChemUnstGas Class = "Chem. Unst. Gas"
	Aerosol     Class = "Aerosol"
	OxGas       Class = "Ox. Gas"
	PressGas    Class = "Press. Gas"
	FlamLiq     Class = "Flam. Liq."
	FlamSol     Class = "Flam. Sol."
	SelfReact   Class = "Self-react."
	PyrLiq      Class = "Pyr. Liq."
	PyrSol      Class = "Pyr. Sol."
	SelfHeat    Class = "Self-heat."
	WaterReact  Class = "Water-react."
	OxLiq       Class = "Ox. Liq."
	OxSol       Class = "Ox. Sol."
	MetCorr     Class = "Met. Corr."
)

// Environmental hazards.
const (
	AquaticAcute   Class = "Aquatic Acute"
	AquaticChronic Class = "Aquatic Chronic"
	Ozone          Class = "Ozone"
)

type classSpec struct {
	categories  []string
	section     string // CLP Annex I section, physical hazards only
	description string
}

var classTable = map[Class]classSpec{
	AcuteTox:  {categories: []string{"1", "2", "3", "4"}, description: "acute toxicity"},
	SkinCorr:  {categories: []string{"1", "1A", "1B", "1C"}, description: "skin corrosion"},
	SkinIrrit: {categories: []string{"2"}, description: "skin irritation"},
	EyeDam:    {categories: []string{"1"}, description: "serious eye damage"},
	EyeIrrit:  {categories: []string{"2", "2A", "2B"}, description: "eye irritation"},
	RespSens:  {categories: []string{"1", "1A", "1B"}, description: "respiratory sensitisation"},
	SkinSens:  {categories: []string{"1", "1A", "1B"}, description: "skin sensitisation"},
	Muta:      {categories: []string{"1", "1A", "1B", "2"}, description: "germ cell mutagenicity"},
	Carc:      {categories: []string{"1", "1A", "1B", "2"}, description: "carcinogenicity"},
	Repr:      {categories: []string{"1", "1A", "1B", "2"}, description: "reproductive toxicity"},
	Lact:      {description: "effects on or via lactation"},
	StotSE:    {categories: []string{"1", "2", "3"}, description: "specific target organ toxicity, single exposure"},
	StotRE:    {categories: []string{"1", "2"}, description: "specific target organ toxicity, repeated exposure"},
	AspTox:    {categories: []string{"1", "2"}, description: "aspiration hazard"},

	UnstExpl:    {section: "2.1", description: "unstable explosives"},
	Expl:        {categories: []string{"1.1", "1.2", "1.3", "1.4", "1.5", "1.6"}, section: "2.1", description: "explosives"},
	FlamGas:     {categories: []string{"1", "1A", "1B", "2"}, section: "2.2", description: "flammable gases"},
	ChemUnstGas: {categories: []string{"A", "B"}, section: "2.2", description: "chemically unstable gases"},
	Aerosol:     {categories: []string{"1", "2", "3"}, section: "2.3", description: "aerosols"},
	OxGas:       {categories: []string{"1"}, section: "2.4", description: "oxidising gases"},
	PressGas:    {section: "2.5", description: "gases under pressure"},
	FlamLiq:     {categories: []string{"1", "2", "3", "4"}, section: "2.6", description: "flammable liquids"},
	FlamSol:     {categories: []string{"1", "2"}, section: "2.7", description: "flammable solids"},
	SelfReact:   {categories: []string{"A", "B", "C", "D", "E", "F", "G"}, section: "2.8", description: "self-reactive substances and mixtures"},
	PyrLiq:      {categories: []string{"1"}, section: "2.9", description: "pyrophoric liquids"},
	PyrSol:      {categories: []string{"1"}, section: "2.10", description: "pyrophoric solids"},
	SelfHeat:    {categories: []string{"1", "2"}, section: "2.11", description: "self-heating substances and mixtures"},
	WaterReact:  {categories: []string{"1", "2", "3"}, section: "2.12", description: "substances and mixtures which in contact with water emit flammable gases"},
	OxLiq:       {categories: []string{"1", "2", "3"}, section: "2.13", description: "oxidising liquids"},
	OxSol:       {categories: []string{"1", "2", "3"}, section: "2.14", description: "oxidising solids"},
	MetCorr:     {categories: []string{"1"}, section: "2.16", description: "substances and mixtures corrosive to metals"},

	AquaticAcute:   {categories: []string{"1"}, description: "hazardous to the aquatic environment, acute"},
	AquaticChronic: {categories: []string{"1", "2", "3", "4"}, description: "hazardous to the aquatic environment, long-term"},
	Ozone:          {categories: []string{"1"}, description: "hazardous to the ozone layer"},
}

// parseOrder lists classes by descending prefix length so the longest
// matching prefix wins during parsing.
var parseOrder = func() []Class {
	out := make([]Class, 0, len(classTable))
	for c := range classTable {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// Classes returns every known hazard class in canonical prefix order.
func Classes() []Class {
	out := make([]Class, 0, len(classTable))
	for c := range classTable {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether c is an enumerated hazard class.
func (c Class) Known() bool {
	_, ok := classTable[c]
	return ok
}

// Categories returns the categories defined for the class. Classes
// without categories return nil.
func (c Class) Categories() []string {
	return classTable[c].categories
}

// Section returns the CLP Annex I section for physical hazard classes
// and the empty string otherwise.
func (c Class) Section() string {
	return classTable[c].section
}

// Description returns the plain-English name of the hazard class.
func (c Class) Description() string {
	return classTable[c].description
}

// HasCategory reports whether cat is a valid category of the class.
func (c Class) HasCategory(cat string) bool {
	for _, k := range classTable[c].categories {
		if k == cat {
			return true
		}
	}
	return false
}

// Token is a single hazard classification: a class, a category within
// that class, and an optional qualifier such as an exposure route
// "(oral)", a gas type "(Comp.)", or ECHA minimum-classification
// asterisks.
type Token struct {
	Class     Class
	Category  string
	Qualifier string
}

// NewToken returns the unqualified token for class c and category cat.
func NewToken(c Class, cat string) Token {
	return Token{Class: c, Category: cat}
}

// WithQualifier returns a copy of t carrying qualifier q.
func (t Token) WithQualifier(q string) Token {
	t.Qualifier = q
	return t
}

// String renders the canonical textual form of the token.
func (t Token) String() string {
	var b strings.Builder
	b.WriteString(string(t.Class))
	if t.Category != "" {
		b.WriteByte(' ')
		b.WriteString(t.Category)
	}
	if t.Qualifier != "" {
		b.WriteByte(' ')
		b.WriteString(t.Qualifier)
	}
	return b.String()
}

// Base returns the token without its qualifier.
func (t Token) Base() Token {
	return Token{Class: t.Class, Category: t.Category}
}

// Is reports whether the token has class c and category cat. The
// qualifier is ignored.
func (t Token) Is(c Class, cat string) bool {
	return t.Class == c && t.Category == cat
}

// Route returns the exposure route carried in the qualifier of an
// acute toxicity token.
func (t Token) Route() (Route, bool) {
	if t.Class != AcuteTox {
		return "", false
	}
	for _, r := range Routes() {
		if strings.Contains(t.Qualifier, r.Qualifier()) {
			return r, true
		}
	}
	return "", false
}

// MarshalText implements encoding.TextMarshaler.
func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Token) UnmarshalText(b []byte) error {
	parsed, err := ParseToken(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var qualifierPattern = regexp.MustCompile(`^(\*{1,3})?\s*(\([^()]+\))?$`)

// ParseToken parses the textual form of a classification token such as
// "Skin Corr. 1B" or "Acute Tox. 4 (oral)". Unknown classes and
// categories are rejected with an *InputError.
func ParseToken(s string) (Token, error) {
	text := strings.Join(strings.Fields(s), " ")
	if text == "" {
		return Token{}, &InputError{Index: -1, Field: "classification", Value: s, Reason: "empty token"}
	}
	for _, c := range parseOrder {
		prefix := string(c)
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		rest := text[len(prefix):]
		if rest != "" && rest[0] != ' ' {
			continue
		}
		rest = strings.TrimSpace(rest)
		tok := Token{Class: c}
		if len(c.Categories()) > 0 {
			cat, tail, _ := strings.Cut(rest, " ")
			if !c.HasCategory(cat) {
				return Token{}, &InputError{
					Index: -1, Field: "classification", Value: s,
					Reason: fmt.Sprintf("unknown category %q for class %q", cat, c),
				}
			}
			tok.Category = cat
			rest = strings.TrimSpace(tail)
		}
		if rest != "" && !qualifierPattern.MatchString(rest) {
			return Token{}, &InputError{
				Index: -1, Field: "classification", Value: s,
				Reason: fmt.Sprintf("unrecognised qualifier %q", rest),
			}
		}
		tok.Qualifier = rest
		return tok, nil
	}
	return Token{}, &InputError{Index: -1, Field: "classification", Value: s, Reason: "unknown hazard class"}
}

// MustParseToken is like ParseToken but panics on error. It is meant
// for static tables and tests.
func MustParseToken(s string) Token {
	t, err := ParseToken(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTokenList parses a comma-separated classification list as stored
// in the substance reference database. Empty elements are ignored.
func ParseTokenList(s string) ([]Token, error) {
	var out []Token
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseToken(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// JoinTokens renders tokens as a comma-separated list, the inverse of
// ParseTokenList.
func JoinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
