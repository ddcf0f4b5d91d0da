package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sollint/internal/cli/commands"
	"github.com/leapstack-labs/sollint/internal/cli/config"
	"github.com/leapstack-labs/sollint/internal/cli/output"
	"github.com/leapstack-labs/sollint/internal/cli/testutil"
	"github.com/leapstack-labs/sollint/pkg/lint"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(lint.ResetDocsBaseURL)

	cmd := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeReport(t *testing.T, s string) output.LintOutput {
	t.Helper()
	var report output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(s), &report))
	return report
}

func TestRootCmd_Version(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sollint v"+Version)
}

func TestRootCmd_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, want := range []string{"lint", "rules", "version", "completion", "--config", "--jobs"} {
		assert.Contains(t, out, want)
	}
}

func TestRootCmd_Completion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")

	_, _, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestRootCmd_LintUsesProjectConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WriteFile(t, filepath.Join(dir, "sollint.yaml"), `
output: json
lint:
  severity:
    SC01: warning
`)
	t.Chdir(filepath.Join(dir, "contracts"))

	out, _, err := execute(t, "lint")
	require.NoError(t, err, "SC01 lowered below the default error threshold")
	assert.Zero(t, decodeReport(t, out).Summary.TotalIssues)

	out, _, err = execute(t, "lint", "--severity", "warning")
	require.ErrorIs(t, err, commands.ErrLintFailed)
	report := decodeReport(t, out)
	require.Equal(t, 1, report.Summary.Warnings)
}

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	cfgPath := filepath.Join(dir, "custom.yaml")
	testutil.WriteFile(t, cfgPath, "output: text\njobs: 1\n")

	out, _, err := execute(t, "--config", cfgPath, "-o", "json", "-j", "2",
		"--docs-base-url", "https://docs.example.test/rules/", "lint", dir)
	require.ErrorIs(t, err, commands.ErrLintFailed)

	report := decodeReport(t, out)
	require.Len(t, report.Files, 2)
	require.Len(t, report.Files[0].Diagnostics, 1)
	assert.Equal(t, "https://docs.example.test/rules/sc01", report.Files[0].Diagnostics[0].DocumentationURL)

	cfg := config.GetCurrentConfig()
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestRootCmd_EnvOverridesConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Setenv("SOLLINT_OUTPUT", "json")
	t.Setenv("SOLLINT_LINT__DISABLED", "SC01")
	t.Chdir(dir)

	out, _, err := execute(t, "lint")
	require.NoError(t, err)
	assert.Zero(t, decodeReport(t, out).Summary.TotalIssues)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sollint.yaml")
	testutil.WriteFile(t, cfgPath, "output: xml\n")

	_, _, err := execute(t, "--config", cfgPath, "lint", dir)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRootCmd_VerboseLogsToStderr(t *testing.T) {
	dir := testutil.SetupCleanProject(t)

	out, errOut, err := execute(t, "-v", "-o", "text", "lint", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No lint issues found")
	assert.Contains(t, errOut, "level=DEBUG")
	assert.NotContains(t, out, "level=DEBUG")
}
