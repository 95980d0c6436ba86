package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/clpmix/internal/classify"
	"github.com/unbound-force/clpmix/internal/config"
	"github.com/unbound-force/clpmix/internal/label"
	"github.com/unbound-force/clpmix/internal/loader"
	"github.com/unbound-force/clpmix/internal/prompt"
	"github.com/unbound-force/clpmix/internal/report"
	"github.com/unbound-force/clpmix/internal/scaffold"
	"github.com/unbound-force/clpmix/internal/store"
	"github.com/unbound-force/clpmix/internal/taxonomy"
	"github.com/unbound-force/clpmix/internal/tolerance"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "clpmix",
		Short: "clpmix: CLP hazard classification of chemical mixtures",
		Long: `clpmix classifies chemical mixtures under the EU CLP regulation
from the classification of their substances, and derives the label:
pictograms, signal word, hazard and precautionary statements.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(charmlog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", config.FileName,
		"configuration file (missing file means defaults)")

	root.AddCommand(newClassifyCmd(&configPath))
	root.AddCommand(newLabelCmd())
	root.AddCommand(newSubstanceCmd(&configPath))
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newInitCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies flag overrides.
// Empty or zero overrides keep the file value.
func loadConfig(path, format, dbPath string, maxAttempts int) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if maxAttempts != 0 {
		cfg.Prompt.MaxAttempts = maxAttempts
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	path, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolving database path: %w", err)
	}
	logger.Debug("opening reference database", "path", path)
	st, err := store.Open(path, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening reference database %s: %w", path, err)
	}
	return st, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %v", format, allowed)
}

// ---------------------------------------------------------------------------
// classify
// ---------------------------------------------------------------------------

// classifyParams holds the parsed flags for the classify command.
type classifyParams struct {
	mixturePath string
	cfg         *config.Config
	noDB        bool
	answersPath string
	tui         bool
	interactive bool
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
}

// runClassify is the extracted, testable body of the classify command.
func runClassify(ctx context.Context, p classifyParams) error {
	format := p.cfg.Output.Format
	if err := checkFormat(format, config.FormatText, config.FormatJSON, config.FormatHTML); err != nil {
		return err
	}

	m, err := loader.LoadMixture(p.mixturePath)
	if err != nil {
		return err
	}
	logger.Info("classifying mixture", "file", p.mixturePath, "substances", len(m.Substances))

	var lookup classify.Lookup
	if !p.noDB {
		st, err := openStore(p.cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		filled, err := st.Complete(ctx, m)
		if err != nil {
			return err
		}
		for _, i := range filled {
			logger.Info("classification completed from reference data",
				"substance", m.Substances[i].Describe(i),
				"classification", taxonomy.JoinTokens(m.Substances[i].Classification))
		}
		lookup = st
	}

	if total := m.TotalPercentage(); !tolerance.AlmostLE(total, 100) {
		logger.Warn("substance percentages sum to more than 100", "total", total)
	}

	var asker classify.Asker
	if p.cfg.Prompt.Mode == config.ModeTUI || p.tui {
		asker = prompt.NewTUI(tea.WithInput(p.stdin), tea.WithOutput(p.stderr))
	} else {
		term := prompt.NewTerminal(p.stdin, p.stderr)
		defer term.Close()
		asker = term
	}
	var scripted *prompt.Scripted
	if p.answersPath != "" {
		answers, err := loader.LoadAnswers(p.answersPath)
		if err != nil {
			return err
		}
		scripted = prompt.NewScripted(answers, asker)
		asker = scripted
	}

	engine := classify.New(lookup, asker, classify.Options{
		MaxAttempts: p.cfg.Prompt.MaxAttempts,
		Logger:      logger,
	})
	res, err := engine.Classify(ctx, *m)
	if err != nil {
		return err
	}
	logger.Info("classification complete",
		"classes", len(res.Classification), "advisories", len(res.Advisories))

	if scripted != nil {
		for _, a := range scripted.Unused() {
			logger.Warn("scripted answer not used", "match", a.Match)
		}
	}

	r := report.New(*m, res)
	if p.interactive {
		return runInteractiveClassify(r)
	}
	return writeReport(p.stdout, format, r)
}

// writeReport outputs the classification report in the requested
// format.
func writeReport(w io.Writer, format string, r report.Report) error {
	switch format {
	case config.FormatJSON:
		return report.WriteJSON(w, r)
	case config.FormatHTML:
		return report.WriteHTML(w, r)
	default:
		return report.WriteText(w, r)
	}
}

func newClassifyCmd(configPath *string) *cobra.Command {
	var (
		format      string
		dbPath      string
		noDB        bool
		answersPath string
		tui         bool
		interactive bool
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "classify <mixture-file>",
		Short: "Classify a mixture and print its label",
		Long: `Classify the mixture described in a YAML or JSON file.

Substances carrying a CAS number but no classification are completed
from the reference database, which also answers acute toxicity and
M-factor questions. Anything else the rules need is asked on the
terminal, or taken from an answers file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, format, dbPath, maxAttempts)
			if err != nil {
				return err
			}
			return runClassify(cmd.Context(), classifyParams{
				mixturePath: args[0],
				cfg:         cfg,
				noDB:        noDB,
				answersPath: answersPath,
				tui:         tui,
				interactive: interactive,
				stdin:       os.Stdin,
				stdout:      os.Stdout,
				stderr:      os.Stderr,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "",
		"output format: text, json, or html (default from config: text)")
	cmd.Flags().StringVar(&dbPath, "db", "",
		"reference database file (default $CLPMIX_DB or XDG data dir)")
	cmd.Flags().BoolVar(&noDB, "no-db", false,
		"do not use the reference database")
	cmd.Flags().StringVar(&answersPath, "answers", "",
		"YAML or JSON file with scripted answers")
	cmd.Flags().BoolVar(&tui, "tui", false,
		"ask questions in a full-screen prompt")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"browse the result in an interactive viewer")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0,
		"re-ask a question this many times after invalid answers (default from config: 3)")

	return cmd
}

// ---------------------------------------------------------------------------
// label
// ---------------------------------------------------------------------------

// labelParams holds the parsed flags for the label command.
type labelParams struct {
	tokens []string
	format string
	stdout io.Writer
}

// runLabel encodes the label for explicit classification tokens.
// Each argument may itself be a comma-separated list.
func runLabel(p labelParams) error {
	if err := checkFormat(p.format, config.FormatText, config.FormatJSON); err != nil {
		return err
	}
	var tokens []taxonomy.Token
	for _, arg := range p.tokens {
		parsed, err := taxonomy.ParseTokenList(arg)
		if err != nil {
			return err
		}
		tokens = append(tokens, parsed...)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("no classification tokens given")
	}

	l := label.Encode(tokens)
	if p.format == config.FormatJSON {
		return report.WriteLabelJSON(p.stdout, l)
	}
	return report.WriteLabelText(p.stdout, l)
}

func newLabelCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "label <token>...",
		Short: "Print the label for a classification",
		Long: `Print the CLP label elements for classification tokens given
directly, e.g.

  clpmix label "Skin Corr. 1" "Aquatic Chronic 3"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabel(labelParams{
				tokens: args,
				format: format,
				stdout: cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")

	return cmd
}

// ---------------------------------------------------------------------------
// schema and init
// ---------------------------------------------------------------------------

func newSchemaCmd() *cobra.Command {
	var input bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for clpmix output or input",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of clpmix classify --format=json output, or with --input
the structure of mixture files. Useful for validating files or
generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := report.Schema
			if input {
				s = loader.MixtureSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}

	cmd.Flags().BoolVar(&input, "input", false,
		"print the mixture input schema instead")

	return cmd
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration and example files",
		Long: `Write .clpmix.yaml and example mixture, substance and answer
files into the current directory. Existing files are kept unless
--force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite existing files")

	return cmd
}
