package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sollint/internal/loader"
	"github.com/leapstack-labs/sollint/internal/testutil"
	"github.com/leapstack-labs/sollint/pkg/ast"
	"github.com/leapstack-labs/sollint/pkg/core"
	"github.com/leapstack-labs/sollint/pkg/lint"
	_ "github.com/leapstack-labs/sollint/pkg/lint/rules" // register rules
)

const (
	vaultSrc  = "contract C { uint x = y; uint y = 1; }"
	vaultJSON = `{
  "type": "Program", "start": 0, "end": 38,
  "body": [{
    "type": "ContractStatement", "name": "C", "start": 0, "end": 38,
    "body": [
      {"type": "StateVariableDeclaration", "name": "x", "start": 13, "end": 24,
       "value": {"type": "Identifier", "name": "y", "start": 22, "end": 23}},
      {"type": "StateVariableDeclaration", "name": "y", "start": 25, "end": 36,
       "value": {"type": "Literal", "value": 1, "start": 34, "end": 35}}
    ]
  }]
}`
	cleanSrc  = "function bar() {}"
	cleanYAML = `type: Program
start: 0
end: 17
body:
  - type: FunctionDeclaration
    name: bar
    start: 0
    end: 17
    body:
      type: BlockStatement
      start: 15
      end: 17
`
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Vault.sol"), vaultSrc)
	writeFile(t, filepath.Join(dir, "Vault.sol.ast.json"), vaultJSON)
	writeFile(t, filepath.Join(dir, "lib", "clean.sol"), cleanSrc)
	writeFile(t, filepath.Join(dir, "lib", "clean.sol.ast.yaml"), cleanYAML)
	writeFile(t, filepath.Join(dir, "missing.sol"), "contract M {}")
	writeFile(t, filepath.Join(dir, ".cache", "skipped.sol"), "contract S {}")
	writeFile(t, filepath.Join(dir, "node_modules", "dep.sol"), "contract D {}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a source file")
	return dir
}

func newLoader(t *testing.T, jobs int) *loader.Loader {
	return loader.New(loader.Config{Jobs: jobs, Logger: testutil.NewTestLogger(t)}, nil)
}

func TestDiscover(t *testing.T) {
	dir := fixtureDir(t)

	units, err := newLoader(t, 0).Discover([]string{dir, filepath.Join(dir, "Vault.sol")})
	require.NoError(t, err)
	require.Len(t, units, 3, "directories are walked once, hidden and vendored dirs skipped")

	assert.Equal(t, loader.Unit{
		SourcePath: filepath.Join(dir, "Vault.sol"),
		ASTPath:    filepath.Join(dir, "Vault.sol.ast.json"),
	}, units[0])
	assert.Equal(t, filepath.Join(dir, "lib", "clean.sol.ast.yaml"), units[1].ASTPath)
	assert.Equal(t, filepath.Join(dir, "missing.sol"), units[2].SourcePath)
	assert.Empty(t, units[2].ASTPath)
}

func TestDiscover_MissingPath(t *testing.T) {
	_, err := newLoader(t, 0).Discover([]string{filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.solx"), cleanSrc)
	writeFile(t, filepath.Join(dir, "a.solx.tree.json"), "{}")
	writeFile(t, filepath.Join(dir, "b.sol"), cleanSrc)

	l := loader.New(loader.Config{SourceExts: []string{".solx"}, ASTSuffixes: []string{".tree.json"}}, nil)
	units, err := l.Discover([]string{dir})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, filepath.Join(dir, "a.solx.tree.json"), units[0].ASTPath)
}

func TestRun(t *testing.T) {
	for _, jobs := range []int{1, 4} {
		dir := fixtureDir(t)
		results, err := newLoader(t, jobs).Lint(context.Background(), []string{dir})
		require.NoError(t, err)
		require.Len(t, results, 3)

		vault := results[0]
		require.NoError(t, vault.Err)
		require.Len(t, vault.Diagnostics, 1)
		d := vault.Diagnostics[0]
		assert.Equal(t, "SC01", d.RuleID)
		assert.Equal(t, filepath.Join(dir, "Vault.sol"), d.FilePath)
		assert.Equal(t, 22, d.Pos.Offset)

		clean := results[1]
		require.NoError(t, clean.Err)
		assert.Empty(t, clean.Diagnostics)

		assert.ErrorIs(t, results[2].Err, loader.ErrNoAST)

		summary := loader.Summarize(results)
		assert.Equal(t, 3, summary.Files)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Total)
		assert.Equal(t, 1, summary.Count(core.SeverityError))
		assert.Len(t, loader.Diagnostics(results), 1)
		assert.True(t, loader.Failing(results, core.SeverityError))
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "short.sol"), "x")
	writeFile(t, filepath.Join(dir, "short.sol.ast.json"), `{"type":"Program","start":0,"end":50}`)
	writeFile(t, filepath.Join(dir, "broken.sol"), "x")
	writeFile(t, filepath.Join(dir, "broken.sol.ast.json"), `{"type":"Program","start":0}`)
	writeFile(t, filepath.Join(dir, "syntax.sol"), "x")
	writeFile(t, filepath.Join(dir, "syntax.sol.ast.json"), `{"type":`)

	l := newLoader(t, 2)
	tests := []struct {
		name    string
		source  string
		wantIs  error
		wantMsg string
	}{
		{name: "root past end of source", source: "short.sol", wantIs: ast.ErrMalformedNode, wantMsg: "50"},
		{name: "node without end", source: "broken.sol", wantIs: ast.ErrMalformedNode},
		{name: "invalid json", source: "syntax.sol", wantMsg: "decode JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := l.Discover([]string{filepath.Join(dir, tt.source)})
			require.NoError(t, err)
			require.Len(t, units, 1)

			_, err = l.Load(units[0])
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := fixtureDir(t)
	l := newLoader(t, 1)
	units, err := l.Discover([]string{dir})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Run(ctx, units)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Empty(t *testing.T) {
	results, err := newLoader(t, 0).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, loader.Failing(results, core.SeverityHint))
}

func TestFailing_Threshold(t *testing.T) {
	results := []loader.Result{{Diagnostics: nil}}
	results[0].Diagnostics = append(results[0].Diagnostics, diagWithSeverity(core.SeverityWarning))

	assert.False(t, loader.Failing(results, core.SeverityError))
	assert.True(t, loader.Failing(results, core.SeverityWarning))
	assert.True(t, loader.Failing(results, core.SeverityInfo))
}

func diagWithSeverity(sev core.Severity) lint.Diagnostic {
	return lint.Diagnostic{RuleID: "SC01", Severity: sev}
}

func TestIsInput(t *testing.T) {
	l := newLoader(t, 0)
	tests := []struct {
		path string
		want bool
	}{
		{"Vault.sol", true},
		{"Vault.SOL", true},
		{"Vault.sol.ast.json", true},
		{"Vault.sol.ast.yml", true},
		{"notes.txt", false},
		{"Vault.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, l.IsInput(tt.path))
		})
	}
}

func TestSkipDir(t *testing.T) {
	assert.True(t, loader.SkipDir("node_modules"))
	assert.True(t, loader.SkipDir(".git"))
	assert.True(t, loader.SkipDir(".cache"))
	assert.False(t, loader.SkipDir("."))
	assert.False(t, loader.SkipDir("contracts"))
}
