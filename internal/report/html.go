package report

import (
	"html/template"
	"io"
)

var labelSheet = template.Must(template.New("label").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; max-width: 48em; }
h1 { font-size: 1.4em; }
.signal { font-size: 1.6em; font-weight: bold; text-transform: uppercase; }
.signal.Danger { color: #c00; }
.signal.Warning { color: #d60; }
.pictograms span { display: inline-block; border: 2px solid #c00; padding: .4em .6em; margin-right: .4em; transform: rotate(45deg); }
.pictograms span b { display: inline-block; transform: rotate(-45deg); }
table { border-collapse: collapse; width: 100%; margin-bottom: 1em; }
td, th { border: 1px solid #999; padding: .25em .5em; text-align: left; vertical-align: top; }
td.code { white-space: nowrap; font-weight: bold; }
.muted { color: #666; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Report.Result.Classification}}<p>{{range $i, $t := .Report.Result.Classification}}{{if $i}}, {{end}}{{$t}}{{end}}</p>
{{else}}<p class="muted">Not classified.</p>
{{end}}
{{with .Report.Label}}
<div class="pictograms">{{range .Pictograms}}<span><b>{{.}}</b></span>{{end}}</div>
{{if ne .SignalWord "None"}}<p class="signal {{.SignalWord}}">{{.SignalWord}}</p>{{end}}
{{if .Hazards}}<h2>Hazard statements</h2>
<table>{{range .Hazards}}<tr><td class="code">{{.Code}}</td><td>{{.Text}}</td></tr>{{end}}</table>{{end}}
{{if .Precautions}}<h2>Precautionary statements</h2>
<table>{{range .Precautions}}<tr><td class="code">{{.Code}}</td><td>{{.Text}}</td></tr>{{end}}</table>{{end}}
{{end}}
{{if .Report.Result.Advisories}}<h2>Requires test data</h2>
<ul>{{range .Report.Result.Advisories}}<li class="muted">{{.Message}}</li>{{end}}</ul>{{end}}
{{if .Report.Mixture.Substances}}<h2>Composition</h2>
<table>
<tr><th>CAS</th><th>Name</th><th>%</th><th>Classification</th></tr>
{{range .Report.Mixture.Substances}}<tr><td>{{.CAS}}</td><td>{{.Name}}</td><td>{{.Percentage}}</td><td>{{range $i, $t := .Classification}}{{if $i}}, {{end}}{{$t}}{{end}}</td></tr>
{{end}}</table>{{end}}
</body>
</html>
`))

// WriteHTML writes r as a self-contained printable label sheet.
func WriteHTML(w io.Writer, r Report) error {
	title := r.Mixture.Name
	if title == "" {
		title = "Mixture label"
	}
	return labelSheet.Execute(w, struct {
		Title  string
		Report Report
	}{title, r})
}
