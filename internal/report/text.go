package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/clpmix/internal/label"
	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// Column budget for text output: 80 cols total, 4 for the left indent.
const (
	tableWidth  = 76
	maxName     = 20
	maxClass    = 30
	codeWidth   = 16
	phraseWidth = tableWidth - codeWidth - 4
)

// WriteText writes r as human-readable styled text to the writer.
// Output uses lipgloss for color and formatting when the output is a
// TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, r Report) error {
	s := DefaultStyles()

	name := r.Mixture.Name
	if name == "" {
		name = "Mixture"
	}
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", name)))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    %d substance(s), total %s %%",
		len(r.Mixture.Substances), formatPercent(r.Mixture.TotalPercentage()))))
	fmt.Fprintln(w)

	if len(r.Mixture.Substances) > 0 {
		fmt.Fprintln(w, substanceTable(r.Mixture, s))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, s.Header.Render("Classification"))
	if len(r.Result.Classification) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    Not classified."))
	}
	for _, t := range r.Result.Classification {
		fmt.Fprintf(w, "    %s\n", s.Token.Render(t.String()))
	}

	if len(r.Result.Advisories) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Header.Render("Requires test data"))
		for _, a := range r.Result.Advisories {
			fmt.Fprintln(w, indent(s.Muted.Width(tableWidth).Render(a.Message)))
		}
	}

	fmt.Fprintln(w)
	writeLabel(w, r.Label, s)

	fmt.Fprintf(w, "\n%s\n",
		s.Header.Render(fmt.Sprintf(
			"%d hazard class(es), %d advisory note(s), %d H statement(s)",
			len(r.Result.Classification), len(r.Result.Advisories), len(r.Label.Hazards))))
	return nil
}

// WriteLabelText writes a bare label as styled text.
func WriteLabelText(w io.Writer, l label.Label) error {
	writeLabel(w, l, DefaultStyles())
	return nil
}

func writeLabel(w io.Writer, l label.Label, s Styles) {
	fmt.Fprintln(w, s.Header.Render("Label"))

	pictograms := "none"
	if len(l.Pictograms) > 0 {
		pictograms = strings.Join(l.Pictograms, ", ")
	}
	fmt.Fprintf(w, "    %s%s\n", s.SummaryLabel.Render("Pictograms:"), pictograms)
	fmt.Fprintf(w, "    %s%s\n", s.SummaryLabel.Render("Signal word:"), s.SignalStyle(l.SignalWord).Render(string(l.SignalWord)))

	writeStatements(w, "Hazard statements", l.Hazards, s)
	writeStatements(w, "Precautionary statements", l.Precautions, s)

	if len(l.Unlabelled) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Muted.Render("    No CLP label elements: "+strings.Join(l.Unlabelled, ", ")))
	}
}

func writeStatements(w io.Writer, title string, stmts []label.Statement, s Styles) {
	if len(stmts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    "+s.SubHeader.Render(title))
	for _, st := range stmts {
		text := st.Text
		if text == "" {
			text = "-"
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			s.Code.Width(codeWidth).Render(st.Code),
			lipgloss.NewStyle().Width(phraseWidth).Render(text))
		fmt.Fprintln(w, indent(line))
	}
}

func substanceTable(m taxonomy.Mixture, s Styles) string {
	rows := make([][]string, 0, len(m.Substances))
	for _, sub := range m.Substances {
		rows = append(rows, []string{
			sub.CAS,
			truncate(sub.Name, maxName),
			formatPercent(sub.Percentage),
			truncate(taxonomy.JoinTokens(sub.Classification), maxClass),
		})
	}

	return table.New().
		Width(tableWidth).
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return s.TableCell
		}).
		Headers("CAS", "NAME", "%", "CLASSIFICATION").
		Rows(rows...).
		String()
}

func indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
