package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unbound-force/clpmix/internal/report"
	"github.com/unbound-force/clpmix/internal/taxonomy"
)

func sampleReport() report.Report {
	m := taxonomy.Mixture{
		Name: "Descaler",
		Substances: []taxonomy.Substance{
			{Name: "hydrochloric acid", Percentage: 10, Classification: []taxonomy.Token{taxonomy.MustParseToken("Skin Corr. 1B")}},
			{Name: "water", Percentage: 90},
		},
	}
	return report.New(m, &taxonomy.Result{
		Classification: []taxonomy.Token{
			taxonomy.MustParseToken("Skin Corr. 1"),
			taxonomy.MustParseToken("Eye Dam. 1"),
		},
		Advisories: []taxonomy.Advisory{taxonomy.NewAdvisory(taxonomy.Expl)},
	})
}

// TestRenderClassifyContent_Empty verifies that an unclassified
// mixture is reported as such.
func TestRenderClassifyContent_Empty(t *testing.T) {
	output := renderClassifyContent(report.New(taxonomy.Mixture{}, &taxonomy.Result{}))

	if !strings.Contains(output, "Mixture: 0 hazard class(es), 0 advisory note(s)") {
		t.Errorf("expected zero counts in the title, got:\n%s", output)
	}
	if !strings.Contains(output, "Not classified.") {
		t.Errorf("expected 'Not classified.', got:\n%s", output)
	}
	if !strings.Contains(output, "Pictograms:") {
		t.Errorf("expected the label section, got:\n%s", output)
	}
}

// TestRenderClassifyContent_WithClassification verifies tokens, their
// class descriptions, advisories and label elements are all rendered.
func TestRenderClassifyContent_WithClassification(t *testing.T) {
	output := renderClassifyContent(sampleReport())

	for _, want := range []string{
		"Descaler: 2 hazard class(es), 1 advisory note(s)",
		"Skin Corr. 1",
		"Eye Dam. 1",
		taxonomy.SkinCorr.Description(),
		"Requires test data",
		"GHS05",
		"Danger",
		"H314",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestClassifyModel_ViewBeforeResize(t *testing.T) {
	m := newClassifyModel(sampleReport())
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before sizing = %q", got)
	}
}

func TestClassifyModel_ResizeAndQuit(t *testing.T) {
	var model tea.Model = newClassifyModel(sampleReport())

	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m := model.(classifyModel)
	if !m.ready {
		t.Fatal("model should be ready after a WindowSizeMsg")
	}
	if !strings.Contains(m.View(), "Skin Corr. 1") {
		t.Errorf("view should show the content, got:\n%s", m.View())
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !model.(classifyModel).help.ShowAll {
		t.Error("'?' should toggle the full help")
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("'q' should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'q' should quit")
	}
}
