// Package loader discovers source files, pairs each with the AST dump the
// external parser produced for it, and runs the lint analyzer over them.
//
// Files are analyzed concurrently; every file gets its own lint.File and
// therefore its own scope analysis, so no resolution state crosses files.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sollint/pkg/ast"
	"github.com/leapstack-labs/sollint/pkg/lint"
)

// ErrNoAST is returned for a source file without a matching AST dump.
var ErrNoAST = errors.New("no AST dump found")

// Defaults for Config.
var (
	DefaultSourceExts  = []string{".sol"}
	DefaultASTSuffixes = []string{".ast.json", ".ast.yaml", ".ast.yml"}
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Config holds loader configuration.
type Config struct {
	// SourceExts lists the extensions of source files to lint
	SourceExts []string
	// ASTSuffixes are appended to a source path to find its AST dump, in order
	ASTSuffixes []string
	// Jobs limits concurrent files (0 = GOMAXPROCS)
	Jobs int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Unit is one source file and its AST dump. ASTPath is empty when no dump
// was found.
type Unit struct {
	SourcePath string
	ASTPath    string
}

// Result is the outcome for one unit. Err is set when the file could not
// be loaded or analyzed; Diagnostics is then nil.
type Result struct {
	Unit        Unit
	Diagnostics []lint.Diagnostic
	Err         error
}

// Loader discovers and analyzes files.
type Loader struct {
	cfg      Config
	analyzer *lint.Analyzer
	logger   *slog.Logger
}

// New creates a loader running analyzer over every discovered file.
func New(cfg Config, analyzer *lint.Analyzer) *Loader {
	if len(cfg.SourceExts) == 0 {
		cfg.SourceExts = DefaultSourceExts
	}
	if len(cfg.ASTSuffixes) == 0 {
		cfg.ASTSuffixes = DefaultASTSuffixes
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if analyzer == nil {
		analyzer = lint.NewAnalyzer(nil, logger)
	}
	return &Loader{cfg: cfg, analyzer: analyzer, logger: logger}
}

// Discover expands paths into units. Directories are walked recursively
// for files with a source extension; files named explicitly are taken as
// they are. The result is sorted and free of duplicates.
func (l *Loader) Discover(paths []string) ([]Unit, error) {
	seen := make(map[string]bool)
	var sources []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			sources = append(sources, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if l.isSource(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Strings(sources)
	units := make([]Unit, 0, len(sources))
	for _, src := range sources {
		units = append(units, Unit{SourcePath: src, ASTPath: l.findAST(src)})
	}
	l.logger.Debug("discovered source files", "count", len(units))
	return units, nil
}

// Load reads a unit's source text and AST dump.
func (l *Loader) Load(u Unit) (*lint.File, error) {
	if u.ASTPath == "" {
		return nil, fmt.Errorf("%s: %w (looked for %s)", u.SourcePath, ErrNoAST, strings.Join(l.cfg.ASTSuffixes, ", "))
	}
	text, err := os.ReadFile(u.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	format, ok := ast.FormatFromPath(u.ASTPath)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported AST dump extension", u.ASTPath)
	}
	f, err := os.Open(u.ASTPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open AST dump: %w", err)
	}
	defer func() { _ = f.Close() }()

	root, err := ast.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.ASTPath, err)
	}
	if root.End > len(text) {
		return nil, fmt.Errorf("%s: root ends at %d but source has %d bytes: %w",
			u.ASTPath, root.End, len(text), ast.ErrMalformedNode)
	}
	return lint.NewFile(u.SourcePath, string(text), root)
}

// Run analyzes units concurrently. Per-file failures are recorded in the
// matching Result; only context cancellation fails the whole run. Results
// keep the order of units.
func (l *Loader) Run(ctx context.Context, units []Unit) ([]Result, error) {
	results := make([]Result, len(units))
	if len(units) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(l.cfg.Jobs, len(units)))

	for i, u := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// index i is owned by this goroutine
			results[i] = l.analyze(u)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Lint discovers paths and runs every unit found.
func (l *Loader) Lint(ctx context.Context, paths []string) ([]Result, error) {
	units, err := l.Discover(paths)
	if err != nil {
		return nil, err
	}
	return l.Run(ctx, units)
}

func (l *Loader) analyze(u Unit) Result {
	file, err := l.Load(u)
	if err != nil {
		l.logger.Warn("failed to load file", "file", u.SourcePath, "error", err)
		return Result{Unit: u, Err: err}
	}
	analyzer, err := l.analyzerFor(file)
	if err != nil {
		l.logger.Warn("invalid lint directives", "file", u.SourcePath, "error", err)
		return Result{Unit: u, Err: err}
	}
	diags, err := analyzer.Analyze(file)
	if err != nil {
		l.logger.Warn("failed to analyze file", "file", u.SourcePath, "error", err)
		return Result{Unit: u, Err: err}
	}
	l.logger.Debug("analyzed file", "file", u.SourcePath, "diagnostics", len(diags))
	return Result{Unit: u, Diagnostics: diags}
}

// analyzerFor applies the file's directive block, if any, to the shared
// analyzer configuration.
func (l *Loader) analyzerFor(file *lint.File) (*lint.Analyzer, error) {
	directives, err := ExtractDirectives(file.Source.Text())
	if err != nil {
		var de *DirectiveError
		if errors.As(err, &de) {
			de.File = file.Path
		}
		return nil, err
	}
	if directives == nil {
		return l.analyzer, nil
	}
	analyzer, err := l.analyzer.WithOverrides(directives)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path, err)
	}
	return analyzer, nil
}

// IsInput reports whether path is a source file or an AST dump the loader
// would read.
func (l *Loader) IsInput(path string) bool {
	if l.isSource(path) {
		return true
	}
	for _, suffix := range l.cfg.ASTSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory named name is never walked.
func SkipDir(name string) bool {
	return skipDirs[name] || (len(name) > 1 && strings.HasPrefix(name, "."))
}

func (l *Loader) isSource(path string) bool {
	for _, suffix := range l.cfg.ASTSuffixes {
		if strings.HasSuffix(path, suffix) {
			return false
		}
	}
	ext := filepath.Ext(path)
	for _, want := range l.cfg.SourceExts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

func (l *Loader) findAST(source string) string {
	for _, suffix := range l.cfg.ASTSuffixes {
		candidate := source + suffix
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
