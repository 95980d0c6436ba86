package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unbound-force/clpmix/internal/config"
	"github.com/unbound-force/clpmix/internal/loader"
)

var expectedFiles = []string{
	"answers.example.yaml",
	".clpmix.yaml",
	"mixture.example.yaml",
	"substances.example.yaml",
}

func run(t *testing.T, dir string, force bool) (*Result, string) {
	t.Helper()
	var buf bytes.Buffer
	result, err := Run(Options{
		TargetDir: dir,
		Force:     force,
		Version:   "1.2.3",
		Stdout:    &buf,
	})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	return result, buf.String()
}

// TestRun_CreatesFiles verifies init writes every asset into an empty
// directory.
func TestRun_CreatesFiles(t *testing.T) {
	dir := t.TempDir()
	result, output := run(t, dir, false)

	if len(result.Created) != len(expectedFiles) {
		t.Errorf("expected %d created files, got %d: %v", len(expectedFiles), len(result.Created), result.Created)
	}
	if len(result.Skipped) != 0 || len(result.Overwritten) != 0 {
		t.Errorf("unexpected skipped=%v overwritten=%v", result.Skipped, result.Overwritten)
	}
	for _, rel := range expectedFiles {
		if _, err := os.Stat(filepath.Join(dir, rel)); os.IsNotExist(err) {
			t.Errorf("expected file %s to exist", rel)
		}
	}
	if !strings.Contains(output, "created:") {
		t.Errorf("summary should mention 'created:', got:\n%s", output)
	}
	if !strings.Contains(output, "clpmix classify") {
		t.Errorf("summary should contain the next-step hint, got:\n%s", output)
	}
}

// TestRun_SkipsExisting verifies init keeps existing files unless
// forced.
func TestRun_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, false)

	cfgPath := filepath.Join(dir, ".clpmix.yaml")
	if err := os.WriteFile(cfgPath, []byte("# mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, output := run(t, dir, false)
	if len(result.Skipped) != len(expectedFiles) {
		t.Errorf("expected %d skipped files, got %v", len(expectedFiles), result.Skipped)
	}
	if !strings.Contains(output, "use --force to overwrite") {
		t.Errorf("summary should hint at --force, got:\n%s", output)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# mine\n" {
		t.Errorf("existing config was modified: %q", data)
	}
}

// TestRun_ForceOverwrites verifies --force replaces existing files.
func TestRun_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, false)

	result, output := run(t, dir, true)
	if len(result.Overwritten) != len(expectedFiles) {
		t.Errorf("expected %d overwritten files, got %v", len(expectedFiles), result.Overwritten)
	}
	if !strings.Contains(output, "overwritten:") {
		t.Errorf("summary should mention 'overwritten:', got:\n%s", output)
	}
}

// TestRun_VersionMarker verifies every file starts with the marker.
func TestRun_VersionMarker(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, false)

	for _, rel := range expectedFiles {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			t.Fatalf("reading %s: %v", rel, err)
		}
		if !strings.HasPrefix(string(data), "# scaffolded by clpmix 1.2.3\n") {
			t.Errorf("%s missing version marker, starts with %q", rel, firstLine(data))
		}
	}
}

// TestRun_FilesAreLoadable verifies the scaffolded files are accepted
// by the loaders that consume them.
func TestRun_FilesAreLoadable(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, false)

	cfg, err := config.Load(filepath.Join(dir, ".clpmix.yaml"))
	if err != nil {
		t.Errorf("scaffolded config does not load: %v", err)
	} else if *cfg != *config.DefaultConfig() {
		t.Errorf("scaffolded config = %+v, want the defaults", *cfg)
	}
	if _, err := loader.LoadMixture(filepath.Join(dir, "mixture.example.yaml")); err != nil {
		t.Errorf("scaffolded mixture does not load: %v", err)
	}
	if _, err := loader.LoadSubstances(filepath.Join(dir, "substances.example.yaml")); err != nil {
		t.Errorf("scaffolded substances do not load: %v", err)
	}
	if _, err := loader.LoadAnswers(filepath.Join(dir, "answers.example.yaml")); err != nil {
		t.Errorf("scaffolded answers do not load: %v", err)
	}
}

func TestVersionMarker_DefaultsToDev(t *testing.T) {
	if got := versionMarker(""); got != "# scaffolded by clpmix dev\n" {
		t.Errorf("versionMarker(\"\") = %q", got)
	}
}

func firstLine(data []byte) string {
	line, _, _ := strings.Cut(string(data), "\n")
	return line
}
