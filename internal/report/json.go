// Package report renders classification results and labels as JSON,
// styled text or a printable HTML label sheet.
package report

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/unbound-force/clpmix/internal/label"
	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// Version is the JSON report format version.
const Version = "0.1.0"

// Report is everything rendered for one classified mixture.
type Report struct {
	Mixture taxonomy.Mixture
	Result  taxonomy.Result
	Label   label.Label
}

// New assembles a Report, encoding the label from the result.
func New(m taxonomy.Mixture, res *taxonomy.Result) Report {
	r := Report{Mixture: m}
	if res != nil {
		r.Result = *res
	}
	r.Label = label.Encode(r.Result.Classification)
	return r
}

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version        string              `json:"version"`
	Mixture        JSONMixture         `json:"mixture"`
	Classification []taxonomy.Token    `json:"classification"`
	Advisories     []taxonomy.Advisory `json:"advisories"`
	Label          label.Label         `json:"label"`
}

// JSONMixture echoes the classified input.
type JSONMixture struct {
	Name            string               `json:"name,omitempty"`
	TotalPercentage float64              `json:"total_percentage"`
	Substances      []taxonomy.Substance `json:"substances"`
}

// WriteJSON writes r as formatted JSON to the writer.
func WriteJSON(w io.Writer, r Report) error {
	subs := make([]taxonomy.Substance, len(r.Mixture.Substances))
	for i, s := range r.Mixture.Substances {
		s.Classification = nonNil(slices.Clone(s.Classification))
		subs[i] = s
	}
	out := JSONReport{
		Version: Version,
		Mixture: JSONMixture{
			Name:            r.Mixture.Name,
			TotalPercentage: r.Mixture.TotalPercentage(),
			Substances:      subs,
		},
		Classification: nonNil(r.Result.Classification),
		Advisories:     nonNil(r.Result.Advisories),
		Label:          r.Label,
	}
	return encode(w, out)
}

// WriteLabelJSON writes a bare label as formatted JSON.
func WriteLabelJSON(w io.Writer, l label.Label) error {
	return encode(w, l)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
