// Package validate runs formula analysis across app definition documents.
//
// Documents are independent, so they are analyzed concurrently; results are
// merged in deterministic document order, never completion order.
package validate

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fxtools/fxlint/internal/loader"
	"github.com/fxtools/fxlint/pkg/analysis"
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
)

// Options configures a validation run.
type Options struct {
	Profile      locale.Profile
	Symbols      *analysis.SymbolTable
	Capabilities analysis.CapabilityMap

	// Strict escalates warnings to errors.
	Strict bool

	// Disabled diagnostics are dropped before reporting.
	Disabled map[diag.Code]bool

	// Concurrency bounds parallel document analysis. Zero means NumCPU.
	Concurrency int

	Logger *slog.Logger
}

// DocumentResult holds the outcome for one document.
type DocumentResult struct {
	Path     string
	Formulas int
	Diags    diag.List
}

// Result is the outcome of a whole run.
type Result struct {
	Documents []DocumentResult
	Formulas  int
	Diags     diag.List
}

// Config file names are not app documents.
var skipNames = map[string]bool{
	"fxlint.yaml": true,
	"fxlint.yml":  true,
}

// Discover expands paths into the list of app documents to validate.
// Directories are walked recursively for .yaml/.yml files.
func Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var docs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			docs = append(docs, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || skipNames[d.Name()] {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".yaml" || ext == ".yml" {
				docs = append(docs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	return docs, nil
}

// Run analyzes the given documents. Analysis diagnostics never fail the
// run; only I/O and malformed YAML do.
func Run(ctx context.Context, docs []string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]DocumentResult, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range docs {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := analyzeDocument(path, opts)
			if err != nil {
				return err
			}
			logger.Debug("analyzed document", "path", path,
				"formulas", res.Formulas, "diagnostics", len(res.Diags))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Documents: results}
	lists := make([]diag.List, 0, len(results))
	for i := range results {
		results[i].Diags = filter(results[i].Diags, opts)
		out.Formulas += results[i].Formulas
		lists = append(lists, results[i].Diags)
	}
	out.Diags = diag.Merge(lists...)
	return out, nil
}

// analyzeDocument loads one document and analyzes every formula in it.
func analyzeDocument(path string, opts Options) (DocumentResult, error) {
	doc, err := loader.LoadDocument(path)
	if err != nil {
		return DocumentResult{}, err
	}

	res := DocumentResult{Path: path, Formulas: len(doc.Formulas)}
	lists := make([]diag.List, 0, len(doc.Formulas))
	for _, src := range doc.Formulas {
		a := analysis.RunAt(src.Text, src.Base, analysis.Options{
			Profile:      opts.Profile,
			Symbols:      opts.Symbols,
			Capabilities: opts.Capabilities,
		})
		lists = append(lists, a.Diags.WithSource(diag.Source{
			Document: src.Document,
			Control:  src.Control,
			Property: src.Property,
		}))
	}
	res.Diags = diag.Merge(lists...)
	return res, nil
}

// filter applies the disabled list and strict escalation.
func filter(diags diag.List, opts Options) diag.List {
	out := make(diag.List, 0, len(diags))
	for _, d := range diags {
		if opts.Disabled[d.Code] {
			continue
		}
		if opts.Strict && d.Severity == diag.SeverityWarning {
			d.Severity = diag.SeverityError
		}
		out = append(out, d)
	}
	return out
}
