package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sollint/pkg/core"
)

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})

	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", string(w.Bytes()))
}

func TestCleanExample(t *testing.T) {
	in := "\n  sollint lint\n    sollint lint -w\n"
	assert.Equal(t, "sollint lint\n  sollint lint -w", cleanExample(in))
}

func TestGroupRules(t *testing.T) {
	rules := []core.RuleInfo{
		{ID: "AA01", Group: "b"},
		{ID: "SC01", Group: "scope"},
		{ID: "SC02", Group: "scope"},
	}
	groups, order := groupRules(rules)
	assert.Equal(t, []string{"b", "scope"}, order)
	assert.Len(t, groups["scope"], 2)
}

func TestGenerateRuleDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateRuleDocs(dir))

	data, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "### SC01 - scope.no-use-before-define {#SC01}")
	assert.Contains(t, out, "## Scope {#scope}")
	assert.Contains(t, out, "```solidity")
	assert.Contains(t, out, "`variables`, `ignore`")
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	for _, name := range []string{"index.md", "lint.md", "rules.md", "version.md"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	data, err := os.ReadFile(filepath.Join(dir, "lint.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sollint lint [paths...]")
	assert.Contains(t, string(data), "`--severity`")
}
