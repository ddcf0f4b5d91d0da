// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/sollint/internal/cli/output"
)

// Project fixture sources. Vault.sol reads y before declaring it; Clean.sol
// has nothing to report.
const (
	VaultSource = "contract C { uint x = y; uint y = 1; }"
	vaultAST    = `{
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
	CleanSource = "function bar() {}"
	cleanAST    = `type: Program
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

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// SetupTestProject creates a temporary project with one violating and one
// clean contract, each paired with its AST dump.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	WriteFile(t, filepath.Join(tmpDir, "contracts", "Vault.sol"), VaultSource)
	WriteFile(t, filepath.Join(tmpDir, "contracts", "Vault.sol.ast.json"), vaultAST)
	WriteFile(t, filepath.Join(tmpDir, "contracts", "lib", "Clean.sol"), CleanSource)
	WriteFile(t, filepath.Join(tmpDir, "contracts", "lib", "Clean.sol.ast.yaml"), cleanAST)
	return tmpDir
}

// SetupCleanProject creates a temporary project with nothing to report.
func SetupCleanProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	WriteFile(t, filepath.Join(tmpDir, "Clean.sol"), CleanSource)
	WriteFile(t, filepath.Join(tmpDir, "Clean.sol.ast.yaml"), cleanAST)
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
