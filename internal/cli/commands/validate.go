package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/fxtools/fxlint/internal/cli/output"
	"github.com/fxtools/fxlint/internal/validate"
	"github.com/fxtools/fxlint/pkg/diag"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Paths  []string
	Strict bool
	Watch  bool
	Format string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Validate formulas in app definition files",
		Long: `Parse and analyze every formula in the given app definition files.

Directories are searched recursively for YAML documents. Each formula is
lexed and parsed under the configured authoring locale; with a symbol
inventory and capability metadata configured, references are resolved and
delegation cutoffs reported.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Validate the current directory
  fxlint validate

  # Validate a single app document
  fxlint validate app/screens.yaml

  # Treat warnings as errors
  fxlint validate --strict

  # Re-validate on file changes
  fxlint validate --watch

  # Validate under a comma-decimal locale
  fxlint validate --locale de-DE app/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Treat warnings as errors")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate when files change")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	symbols, caps, err := loadMetadata(cfg)
	if err != nil {
		return err
	}

	runOpts := validate.Options{
		Profile:      cmdCtx.Profile,
		Symbols:      symbols,
		Capabilities: caps,
		Strict:       opts.Strict || cfg.Strict,
		Disabled:     disabledSet(cfg.Disabled),
		Concurrency:  cfg.Concurrency,
		Logger:       cmdCtx.Logger,
	}

	runOnce := func() (*validate.Result, error) {
		docs, err := validate.Discover(opts.Paths)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("no app documents found under %s", strings.Join(opts.Paths, ", "))
		}
		return validate.Run(cmd.Context(), docs, runOpts)
	}

	if opts.Watch {
		return watchValidate(cmd, r, opts, runOnce)
	}

	result, err := runOnce()
	if err != nil {
		return err
	}
	renderValidateResult(r, result)
	if result.Diags.HasErrors() {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// watchValidate re-runs validation whenever a watched YAML file changes.
// Events are debounced: editors fire several writes per save.
func watchValidate(cmd *cobra.Command, r *output.Renderer, opts *ValidateOptions, runOnce func() (*validate.Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		if err := addWatchTree(watcher, p); err != nil {
			return err
		}
	}

	run := func() {
		result, err := runOnce()
		if err != nil {
			r.Errorf("Error: %v\n", err)
			return
		}
		renderValidateResult(r, result)
	}
	run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	var debounce *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(ev) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchTree(watcher, ev.Name)
				}
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case <-trigger:
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Errorf("Watch error: %v\n", err)
		case <-sig:
			return nil
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}
}

// addWatchTree watches a path, recursing into directories.
func addWatchTree(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func isRelevantEvent(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	return ext == ".yaml" || ext == ".yml" || ev.Op.Has(fsnotify.Create)
}

// ValidateJSONOutput is the JSON output structure for validation runs.
type ValidateJSONOutput struct {
	Summary ValidateSummary          `json:"summary"`
	Issues  []ValidateJSONDiagnostic `json:"issues"`
}

// ValidateSummary aggregates a validation run.
type ValidateSummary struct {
	Documents int `json:"documents"`
	Formulas  int `json:"formulas"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Info      int `json:"info"`
}

// ValidateJSONDiagnostic is one diagnostic in JSON output.
type ValidateJSONDiagnostic struct {
	Document string `json:"document"`
	Control  string `json:"control,omitempty"`
	Property string `json:"property,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

func renderValidateResult(r *output.Renderer, result *validate.Result) {
	summary := ValidateSummary{
		Documents: len(result.Documents),
		Formulas:  result.Formulas,
		Errors:    result.Diags.Count(diag.SeverityError),
		Warnings:  result.Diags.Count(diag.SeverityWarning),
		Info:      result.Diags.Count(diag.SeverityInfo),
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := ValidateJSONOutput{Summary: summary}
		for _, d := range result.Diags {
			out.Issues = append(out.Issues, ValidateJSONDiagnostic{
				Document: d.Source.Document,
				Control:  d.Source.Control,
				Property: d.Source.Property,
				Line:     d.Span.Start.Line,
				Column:   d.Span.Start.Column,
				Severity: d.Severity.String(),
				Code:     string(d.Code),
				Message:  d.Message,
			})
		}
		_ = r.JSON(out)
		return
	}

	if len(result.Diags) == 0 {
		r.Success(fmt.Sprintf("Validated %d formulas in %d documents, no issues found",
			summary.Formulas, summary.Documents))
		return
	}

	styles := r.Styles()
	currentDoc := ""
	for _, d := range result.Diags {
		if d.Source.Document != currentDoc {
			if currentDoc != "" {
				r.Println("")
			}
			currentDoc = d.Source.Document
			r.Println(styles.Path.Render(currentDoc))
		}
		loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
		where := d.Source.Control
		if d.Source.Property != "" {
			where += "." + d.Source.Property
		}
		r.Printf("  %s  %s  %s  %s  %s\n",
			styles.Muted.Render(fmt.Sprintf("%-7s", loc)),
			severityLabel(styles, d.Severity),
			styles.Bold.Render(string(d.Code)),
			styles.Muted.Render(where),
			d.Message,
		)
	}

	r.Println("")
	parts := []string{fmt.Sprintf("%d issues", len(result.Diags))}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Info))
	}
	r.Printf("Summary: %s across %d formulas in %d documents\n",
		strings.Join(parts, ", "), summary.Formulas, summary.Documents)
}

func severityLabel(styles *output.Styles, sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return styles.Error.Render("error  ")
	case diag.SeverityWarning:
		return styles.Warning.Render("warning")
	default:
		return styles.Info.Render("info   ")
	}
}
