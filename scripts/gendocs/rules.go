package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/leapstack-labs/sollint/pkg/core"
	"github.com/leapstack-labs/sollint/pkg/lint"
	_ "github.com/leapstack-labs/sollint/pkg/lint/rules"
)

var groupDescriptions = map[string]string{
	"scope": "Rules about where declarations are visible and in which order they may be used.",
}

// generateRuleDocs writes the rule index and one section per group.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return writeFile(outDir, "index.md", rulesPage(lint.AllRules()))
}

func rulesPage(rules []core.RuleInfo) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter("Lint Rules", "Rules checked by sollint")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")
	w.Paragraph(fmt.Sprintf("sollint checks %d rules.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table([]string{"Severity", "Description"}, [][]string{
		{InlineCode("error"), "Critical issue that should be fixed"},
		{InlineCode("warning"), "Potential issue that should be reviewed"},
		{InlineCode("info"), "Informational feedback"},
		{InlineCode("hint"), "Suggestion for improvement"},
	})

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured under `lint` in `sollint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [SC01]       # skip a rule
  severity:
    SC01: warning        # override severity
  rules:
    SC01:
      variables: false   # rule-specific option`)
	w.Paragraph("A source file can carry the same keys in a leading directive block. " +
		"They apply to that file only:")
	w.CodeBlock("solidity", `/*---
severity:
  SC01: warning
---*/
contract Vault {}`)

	groups, order := groupRules(rules)
	for _, group := range order {
		w.Line(fmt.Sprintf("## %s {#%s}", capitalizeFirst(group), group))
		w.Newline()
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}
		for _, info := range groups[group] {
			writeRuleDoc(w, info)
		}
	}
	return w.Bytes()
}

// groupRules buckets rules by group. Groups appear in order of their first
// rule, and rules arrive sorted by ID.
func groupRules(rules []core.RuleInfo) (map[string][]core.RuleInfo, []string) {
	groups := make(map[string][]core.RuleInfo)
	var order []string
	for _, r := range rules {
		if _, ok := groups[r.Group]; !ok {
			order = append(order, r.Group)
		}
		groups[r.Group] = append(groups[r.Group], r)
	}
	return groups, order
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeRuleDoc(w *MarkdownWriter, info core.RuleInfo) {
	w.Line(fmt.Sprintf("### %s - %s {#%s}", info.ID, info.Name, info.ID))
	w.Newline()

	w.Line(Bold("Severity:") + " " + InlineCode(info.DefaultSeverity.String()))
	w.Newline()
	w.Paragraph(cleanDescription(info.Description))

	if info.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(info.Rationale)
	}
	if info.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("solidity", info.BadExample)
	}
	if info.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("solidity", info.GoodExample)
	}
	if info.Fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(info.Fix)
	}
	if len(info.ConfigKeys) > 0 {
		keys := make([]string, len(info.ConfigKeys))
		for i, k := range info.ConfigKeys {
			keys[i] = InlineCode(k)
		}
		w.Header(4, "Configuration")
		w.Paragraph("Options: " + strings.Join(keys, ", "))
	}

	w.Line("---")
	w.Newline()
}
