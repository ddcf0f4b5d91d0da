package loader

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sollint/pkg/core"
)

// directivePattern matches a /*--- ... ---*/ block at the start of a file.
var directivePattern = regexp.MustCompile(`(?s)^\s*/\*---\s*\n(.*?)\s*---\*/`)

// DirectiveError reports a malformed directive block.
type DirectiveError struct {
	File    string
	Line    int
	Message string
}

func (e *DirectiveError) Error() string {
	if e.File != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// ExtractDirectives parses the lint settings a source file carries in a
// leading block:
//
//	/*---
//	disabled: [SC01]
//	severity:
//	  SC01: warning
//	rules:
//	  SC01: {variables: false}
//	---*/
//
// It returns nil when the file has no block. Unknown keys are errors.
func ExtractDirectives(text string) (*core.LintConfig, error) {
	m := directivePattern.FindStringSubmatchIndex(text)
	if m == nil {
		return nil, nil
	}
	body := text[m[2]:m[3]]
	// line of the first YAML line, counted from 1
	startLine := strings.Count(text[:m[2]], "\n") + 1

	dec := yaml.NewDecoder(strings.NewReader(body))
	dec.KnownFields(true)

	var lc core.LintConfig
	if err := dec.Decode(&lc); err != nil {
		if errors.Is(err, io.EOF) {
			return &lc, nil
		}
		return nil, &DirectiveError{Line: startLine, Message: fmt.Sprintf("invalid lint directives: %v", err)}
	}
	return &lc, nil
}
