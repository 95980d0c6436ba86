// Package scaffold embeds a starter configuration and example input
// files and writes them to a target directory.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed assets/*
var assets embed.FS

// outputNames maps embedded asset names to the file names written.
// Assets not listed keep their own name.
var outputNames = map[string]string{
	"config.yaml": ".clpmix.yaml",
}

// Options configures the scaffold operation.
type Options struct {
	// TargetDir is the root directory to scaffold into.
	// Defaults to the current working directory.
	TargetDir string

	// Force overwrites existing files when true.
	// When false, existing files are skipped.
	Force bool

	// Version is the clpmix version string to embed in the
	// version marker comment. Defaults to "dev".
	Version string

	// Stdout is the writer for summary output.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports what the scaffold operation did.
type Result struct {
	// Created lists files that were written for the first time.
	Created []string

	// Skipped lists files that already existed and were not
	// overwritten (Force was false).
	Skipped []string

	// Overwritten lists files that existed and were replaced
	// (Force was true).
	Overwritten []string
}

// versionMarker returns the YAML comment prepended to each file.
func versionMarker(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("# scaffolded by clpmix %s\n", version)
}

// OutputName returns the file name an embedded asset is written to.
func OutputName(asset string) string {
	if name, ok := outputNames[asset]; ok {
		return name
	}
	return asset
}

// Run writes the configuration file and the example mixture,
// substance and answer files into the target directory, each prefixed
// with a version marker:
//
//	# scaffolded by clpmix vX.Y.Z
//
// Existing files are skipped unless opts.Force is set.
func Run(opts Options) (*Result, error) {
	if opts.TargetDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.TargetDir = cwd
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if err := os.MkdirAll(opts.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", opts.TargetDir, err)
	}

	result := &Result{}
	marker := versionMarker(opts.Version)

	paths, err := AssetPaths()
	if err != nil {
		return nil, err
	}
	for _, asset := range paths {
		name := OutputName(asset)
		outPath := filepath.Join(opts.TargetDir, name)

		_, statErr := os.Stat(outPath)
		exists := statErr == nil

		if exists && !opts.Force {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		content, err := AssetContent(asset)
		if err != nil {
			return nil, fmt.Errorf("reading embedded asset %s: %w", asset, err)
		}

		out := append([]byte(marker), content...)
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}

		if exists {
			result.Overwritten = append(result.Overwritten, name)
		} else {
			result.Created = append(result.Created, name)
		}
	}

	printSummary(opts.Stdout, result)

	return result, nil
}

// printSummary writes a human-readable summary of the scaffold
// operation to w.
func printSummary(w io.Writer, r *Result) {
	fmt.Fprintln(w, "clpmix project initialized:")

	for _, f := range r.Created {
		fmt.Fprintf(w, "  created: %s\n", f)
	}
	for _, f := range r.Skipped {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", f)
	}
	for _, f := range r.Overwritten {
		fmt.Fprintf(w, "  overwritten: %s\n", f)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'clpmix substance import substances.example.yaml', then")
	fmt.Fprintln(w, "'clpmix classify mixture.example.yaml --answers answers.example.yaml'.")

	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "%d file(s) skipped (use --force to overwrite).\n", len(r.Skipped))
	}
}

// AssetPaths returns the names of all embedded assets in lexical
// order.
func AssetPaths() ([]string, error) {
	var paths []string
	err := fs.WalkDir(assets, "assets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, strings.TrimPrefix(path, "assets/"))
		return nil
	})
	return paths, err
}

// AssetContent returns the raw content of an embedded asset by name
// (e.g., "mixture.example.yaml").
func AssetContent(name string) ([]byte, error) {
	return assets.ReadFile("assets/" + name)
}
