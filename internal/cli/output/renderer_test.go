package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sollint/internal/cli/output"
	"github.com/leapstack-labs/sollint/internal/cli/testutil"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want output.OutputMode
	}{
		{"", output.ModeAuto},
		{"auto", output.ModeAuto},
		{"text", output.ModeText},
		{"TEXT", output.ModeText},
		{"markdown", output.ModeMarkdown},
		{"md", output.ModeMarkdown},
		{"json", output.ModeJSON},
		{"xml", output.ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, output.Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  output.OutputMode
		isTTY bool
		want  output.OutputMode
	}{
		{"auto on terminal", output.ModeAuto, true, output.ModeText},
		{"auto when piped", output.ModeAuto, false, output.ModeMarkdown},
		{"explicit text when piped", output.ModeText, false, output.ModeText},
		{"explicit json on terminal", output.ModeJSON, true, output.ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := output.NewRendererWithTTY(&bytes.Buffer{}, nil, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := output.NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, output.ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, output.ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_PlainOutputHasNoANSI(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText, false)
	tr.Success("done")
	tr.Warning("careful")
	tr.Error("broken")
	tr.Println(tr.FormatHeader("Title"))

	testutil.AssertNoANSI(t, tr.Output()+tr.ErrorOutput())
	assert.Contains(t, tr.Output(), "done")
	assert.Contains(t, tr.Output(), "Title")
	assert.Contains(t, tr.ErrorOutput(), "warning: careful")
	assert.Contains(t, tr.ErrorOutput(), "error: broken")
}

func TestRenderer_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	tr.Success("No lint issues found")
	tr.Println(tr.FormatHeader("Rules"))
	tr.Println(tr.FormatCodeBlock("uint x = y;", "solidity"))

	out := tr.Output()
	assert.Contains(t, out, "**No lint issues found**")
	assert.Contains(t, out, "# Rules")
	assert.Contains(t, out, "```solidity\nuint x = y;\n```")
	testutil.AssertValidMarkdown(t, out)
}

func TestRenderer_JSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	tr.Success("ignored in JSON mode")
	require.NoError(t, tr.JSON(output.LintOutput{RunID: "abc", Summary: output.LintSummary{TotalIssues: 2}}))

	var got output.LintOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, "abc", got.RunID)
	assert.Equal(t, 2, got.Summary.TotalIssues)
}
