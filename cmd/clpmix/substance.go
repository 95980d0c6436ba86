package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/unbound-force/clpmix/internal/config"
	"github.com/unbound-force/clpmix/internal/loader"
	"github.com/unbound-force/clpmix/internal/report"
	"github.com/unbound-force/clpmix/internal/store"
	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// Substance output formats beyond text and json.
const formatYAML = "yaml"

// substanceParams holds the parsed flags shared by the substance
// subcommands.
type substanceParams struct {
	cfg    *config.Config
	stdout io.Writer
}

func (p substanceParams) open() (*store.Store, error) {
	return openStore(p.cfg)
}

func newSubstanceCmd(configPath *string) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "substance",
		Short: "Manage the substance reference database",
		Long: `Manage the reference database of substance classifications,
acute toxicity hazard codes and M-factors, keyed by CAS number.`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"reference database file (default $CLPMIX_DB or XDG data dir)")

	params := func(cmd *cobra.Command) (substanceParams, error) {
		cfg, err := loadConfig(*configPath, "", dbPath, 0)
		if err != nil {
			return substanceParams{}, err
		}
		return substanceParams{cfg: cfg, stdout: cmd.OutOrStdout()}, nil
	}

	cmd.AddCommand(newSubstanceImportCmd(params))
	cmd.AddCommand(newSubstanceShowCmd(params))
	cmd.AddCommand(newSubstanceListCmd(params))
	cmd.AddCommand(newSubstanceClassesCmd(params))
	cmd.AddCommand(newSubstanceDeleteCmd(params))

	return cmd
}

type paramsFunc func(cmd *cobra.Command) (substanceParams, error)

// ---------------------------------------------------------------------------
// substance import
// ---------------------------------------------------------------------------

// runSubstanceImport loads a substances file and synchronises the
// database with it.
func runSubstanceImport(ctx context.Context, p substanceParams, path string, prune bool) error {
	subs, err := loader.LoadSubstances(path)
	if err != nil {
		return err
	}
	st, err := p.open()
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.Sync(ctx, subs, prune)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.stdout, "%s: %s\n", path, summary)
	return err
}

func newSubstanceImportCmd(params paramsFunc) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "import <substances-file>",
		Short: "Import substances from a YAML or JSON file",
		Long: `Add new substances and update changed ones from a YAML or JSON
file. With --prune, substances absent from the file are deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params(cmd)
			if err != nil {
				return err
			}
			return runSubstanceImport(cmd.Context(), p, args[0], prune)
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false,
		"delete substances not present in the file")

	return cmd
}

// ---------------------------------------------------------------------------
// substance show
// ---------------------------------------------------------------------------

// runSubstanceShow prints one stored substance.
func runSubstanceShow(ctx context.Context, p substanceParams, cas, format string) error {
	if err := checkFormat(format, config.FormatText, config.FormatJSON, formatYAML); err != nil {
		return err
	}
	st, err := p.open()
	if err != nil {
		return err
	}
	defer st.Close()

	sub, err := st.Get(ctx, cas)
	if err != nil {
		return err
	}

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(p.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sub)
	case formatYAML:
		enc := yaml.NewEncoder(p.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(sub); err != nil {
			return err
		}
		return enc.Close()
	}
	writeSubstanceText(p.stdout, *sub)
	return nil
}

func writeSubstanceText(w io.Writer, sub store.Substance) {
	s := report.DefaultStyles()
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "    %s%s\n", s.SummaryLabel.Render(name+":"), value)
		}
	}

	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", sub.CAS)))
	field("Name", sub.Name)
	field("EC number", sub.ECNumber)
	field("Description", sub.Description)
	field("Classes", taxonomy.JoinTokens(sub.Classification))
	if sub.MFactor != nil {
		field("M-factor", fmt.Sprint(*sub.MFactor))
	}
	if sub.MChronicFactor != nil {
		field("M chronic", fmt.Sprint(*sub.MChronicFactor))
	}

	keys := make([]string, 0, len(sub.HazardCodes))
	for k := range sub.HazardCodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		codes := make([]string, len(sub.HazardCodes[k]))
		for i, c := range sub.HazardCodes[k] {
			codes[i] = string(c)
		}
		field(k, strings.Join(codes, ", "))
	}

	field("Source", sub.Source)
	field("Details", sub.DetailsURL)
	if !sub.UpdatedAt.IsZero() {
		field("Updated", sub.UpdatedAt.Format("2006-01-02"))
	}
}

func newSubstanceShowCmd(params paramsFunc) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <cas>",
		Short: "Show one stored substance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params(cmd)
			if err != nil {
				return err
			}
			return runSubstanceShow(cmd.Context(), p, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text, json, or yaml")

	return cmd
}

// ---------------------------------------------------------------------------
// substance list / classes / delete
// ---------------------------------------------------------------------------

// runSubstanceList prints every stored substance as a table.
func runSubstanceList(ctx context.Context, p substanceParams) error {
	st, err := p.open()
	if err != nil {
		return err
	}
	defer st.Close()

	subs, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		_, err := fmt.Fprintln(p.stdout, "No substances stored.")
		return err
	}

	s := report.DefaultStyles()
	rows := make([][]string, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, []string{
			sub.CAS,
			sub.Name,
			taxonomy.JoinTokens(sub.Classification),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return s.TableCell
		}).
		Headers("CAS", "NAME", "CLASSIFICATION").
		Rows(rows...)

	fmt.Fprintln(p.stdout, t.String())
	_, err = fmt.Fprintln(p.stdout, s.Muted.Render(fmt.Sprintf("%d substance(s)", len(subs))))
	return err
}

// runSubstanceClasses prints the distinct classification tokens in
// use, one per line.
func runSubstanceClasses(ctx context.Context, p substanceParams) error {
	st, err := p.open()
	if err != nil {
		return err
	}
	defer st.Close()

	tokens, err := st.Classes(ctx)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if _, err := fmt.Fprintln(p.stdout, t); err != nil {
			return err
		}
	}
	return nil
}

func runSubstanceDelete(ctx context.Context, p substanceParams, cas string) error {
	st, err := p.open()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(ctx, cas); err != nil {
		return err
	}
	logger.Info("substance deleted", "cas", cas)
	return nil
}

func newSubstanceListCmd(params paramsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored substances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params(cmd)
			if err != nil {
				return err
			}
			return runSubstanceList(cmd.Context(), p)
		},
	}
}

func newSubstanceClassesCmd(params paramsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the classification tokens used by stored substances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params(cmd)
			if err != nil {
				return err
			}
			return runSubstanceClasses(cmd.Context(), p)
		},
	}
}

func newSubstanceDeleteCmd(params paramsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cas>",
		Short: "Delete a stored substance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params(cmd)
			if err != nil {
				return err
			}
			return runSubstanceDelete(cmd.Context(), p, args[0])
		},
	}
}
