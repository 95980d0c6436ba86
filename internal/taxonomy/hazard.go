package taxonomy

import (
	"fmt"
	"strings"
)

// Route is an acute toxicity exposure route.
type Route string

// Exposure routes. The value is the word used in token qualifiers.
const (
	Oral       Route = "oral"
	Dermal     Route = "dermal"
	Inhalation Route = "inhale"
)

// Routes returns the exposure routes in evaluation order.
func Routes() []Route {
	return []Route{Oral, Dermal, Inhalation}
}

// Qualifier returns the token qualifier for the route, e.g. "(oral)".
func (r Route) Qualifier() string {
	return "(" + string(r) + ")"
}

// HazardCode is an acute toxicity hazard statement code.
type HazardCode string

// Acute toxicity hazard statement codes.
const (
	H300 HazardCode = "H300"
	H301 HazardCode = "H301"
	H302 HazardCode = "H302"
	H310 HazardCode = "H310"
	H311 HazardCode = "H311"
	H312 HazardCode = "H312"
	H330 HazardCode = "H330"
	H331 HazardCode = "H331"
	H332 HazardCode = "H332"
)

var routeMap = map[HazardCode]Route{
	H300: Oral,
	H301: Oral,
	H302: Oral,
	H310: Dermal,
	H311: Dermal,
	H312: Dermal,
	H330: Inhalation,
	H331: Inhalation,
	H332: Inhalation,
}

// HazardCodes returns the closed set of acute toxicity codes.
func HazardCodes() []HazardCode {
	return []HazardCode{H300, H301, H302, H310, H311, H312, H330, H331, H332}
}

// Route returns the exposure route the code refers to.
func (h HazardCode) Route() Route {
	return routeMap[h]
}

// ParseHazardCode validates a single acute toxicity code.
func ParseHazardCode(s string) (HazardCode, error) {
	h := HazardCode(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := routeMap[h]; !ok {
		return "", &InputError{Index: -1, Field: "hazard_code", Value: s, Reason: "not an acute toxicity hazard code"}
	}
	return h, nil
}

// ParseHazardCodes parses a comma-separated list of acute toxicity
// codes. The list must contain at least one code.
func ParseHazardCodes(s string) ([]HazardCode, error) {
	var out []HazardCode
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		h, err := ParseHazardCode(part)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if len(out) == 0 {
		return nil, &InputError{Index: -1, Field: "hazard_code", Value: s, Reason: "no hazard codes given"}
	}
	return out, nil
}

// HazardCodeFor derives the acute toxicity code implied by a category
// and route: categories 1 and 2 map to H3x0, 3 to H3x1 and 4 to H3x2.
func HazardCodeFor(category string, r Route) (HazardCode, bool) {
	var base int
	switch r {
	case Oral:
		base = 300
	case Dermal:
		base = 310
	case Inhalation:
		base = 330
	default:
		return "", false
	}
	switch category {
	case "1", "2":
	case "3":
		base++
	case "4":
		base += 2
	default:
		return "", false
	}
	return HazardCode(fmt.Sprintf("H%d", base)), true
}

// BelongsTo reports whether h is the code an acute toxicity token of
// the given category carries on h's route.
func (h HazardCode) BelongsTo(category string) bool {
	want, ok := HazardCodeFor(category, h.Route())
	return ok && want == h
}

// CategoryHazardCodes returns the codes of an acute toxicity category,
// one per route.
func CategoryHazardCodes(category string) []HazardCode {
	var out []HazardCode
	for _, r := range Routes() {
		if h, ok := HazardCodeFor(category, r); ok {
			out = append(out, h)
		}
	}
	return out
}

// PhysicalState is the state of aggregation of a substance, needed by
// the respiratory sensitisation rule.
type PhysicalState string

// Physical states.
const (
	Solid  PhysicalState = "solid"
	Liquid PhysicalState = "liquid"
	Gas    PhysicalState = "gas"
)

// ParsePhysicalState accepts the single-letter answers k (solid),
// s (liquid) and d (gas) as well as the English words.
func ParsePhysicalState(s string) (PhysicalState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "k", "solid":
		return Solid, nil
	case "s", "liquid":
		return Liquid, nil
	case "d", "gas":
		return Gas, nil
	}
	return "", &InputError{Index: -1, Field: "physical_state", Value: s, Reason: "expected k, s or d"}
}
