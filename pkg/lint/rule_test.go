package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sollint/pkg/core"
)

// mockFileRule implements FileRule for testing
type mockFileRule struct {
	id         string
	group      string
	severity   Severity
	configKeys []string
	diags      []Diagnostic
	err        error
	gotOpts    map[string]any
}

func (m *mockFileRule) ID() string                { return m.id }
func (m *mockFileRule) Name() string              { return "mock." + m.id }
func (m *mockFileRule) Group() string             { return m.group }
func (m *mockFileRule) Description() string       { return "mock rule " + m.id }
func (m *mockFileRule) DefaultSeverity() Severity { return m.severity }
func (m *mockFileRule) ConfigKeys() []string      { return m.configKeys }

func (m *mockFileRule) Rationale() string   { return "" }
func (m *mockFileRule) BadExample() string  { return "" }
func (m *mockFileRule) GoodExample() string { return "" }
func (m *mockFileRule) Fix() string         { return "" }

func (m *mockFileRule) CheckFile(_ *File, opts map[string]any) ([]Diagnostic, error) {
	m.gotOpts = opts
	out := make([]Diagnostic, len(m.diags))
	copy(out, m.diags)
	return out, m.err
}

func TestWrapRuleDef(t *testing.T) {
	called := false
	def := RuleDef{
		ID:          "TST01",
		Name:        "test.rule",
		Group:       "testing",
		Description: "A test rule",
		Severity:    SeverityHint,
		ConfigKeys:  []string{"max"},
		Rationale:   "why",
		BadExample:  "bad",
		GoodExample: "good",
		Fix:         "fix",
		Check: func(_ *File, opts map[string]any) ([]Diagnostic, error) {
			called = true
			assert.Equal(t, 3, GetIntOption(opts, "max", 0))
			return []Diagnostic{{Message: "found"}}, nil
		},
	}

	rule := WrapRuleDef(def)
	var _ Rule = rule

	assert.Equal(t, "TST01", rule.ID())
	assert.Equal(t, "test.rule", rule.Name())
	assert.Equal(t, "testing", rule.Group())
	assert.Equal(t, SeverityHint, rule.DefaultSeverity())
	assert.Equal(t, []string{"max"}, rule.ConfigKeys())

	diags, err := rule.CheckFile(nil, map[string]any{"max": 3})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Len(t, diags, 1)

	unwrapped := rule.(interface{ Unwrap() RuleDef }).Unwrap()
	assert.Equal(t, "TST01", unwrapped.ID)

	empty := WrapRuleDef(RuleDef{ID: "TST02"})
	diags, err = empty.CheckFile(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestGetRuleInfo(t *testing.T) {
	info := GetRuleInfo(WrapRuleDef(RuleDef{
		ID:          "TST01",
		Name:        "test.rule",
		Group:       "testing",
		Description: "desc",
		Severity:    SeverityError,
		ConfigKeys:  []string{"a"},
		Rationale:   "r",
		BadExample:  "b",
		GoodExample: "g",
		Fix:         "f",
	}))

	assert.Equal(t, core.RuleInfo{
		ID:              "TST01",
		Name:            "test.rule",
		Group:           "testing",
		Description:     "desc",
		DefaultSeverity: core.SeverityError,
		ConfigKeys:      []string{"a"},
		Type:            "file",
		Rationale:       "r",
		BadExample:      "b",
		GoodExample:     "g",
		Fix:             "f",
	}, info)
}

func TestRegistry(t *testing.T) {
	saved := GetAll()
	Clear()
	t.Cleanup(func() {
		Clear()
		for _, r := range saved {
			RegisterRule(r)
		}
	})

	RegisterRule(&mockFileRule{id: "ZZ01", group: "z"})
	Register(RuleDef{ID: "AA01", Group: "a"})
	RegisterRule(&mockFileRule{id: "AA02", group: "a"})

	assert.Equal(t, 3, Count())

	all := GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"AA01", "AA02", "ZZ01"}, []string{all[0].ID(), all[1].ID(), all[2].ID()})

	group := GetRulesByGroup("a")
	require.Len(t, group, 2)
	assert.Equal(t, "AA01", group[0].ID())

	rule, ok := GetRuleByID("ZZ01")
	require.True(t, ok)
	assert.Equal(t, "z", rule.Group())

	_, ok = GetRuleByID("missing")
	assert.False(t, ok)

	infos := AllRules()
	require.Len(t, infos, 3)
	assert.Equal(t, "AA01", infos[0].ID)

	RegisterRule(&mockFileRule{id: "ZZ01", group: "replaced"})
	rule, _ = GetRuleByID("ZZ01")
	assert.Equal(t, "replaced", rule.Group())
	assert.Equal(t, 3, Count())
}

func TestOptions(t *testing.T) {
	opts := map[string]any{
		"int":       7,
		"float":     float64(4),
		"str":       "x",
		"bool":      true,
		"boolText":  "FALSE",
		"slice":     []string{"a", "b"},
		"anySlice":  []any{"c", 1, "d"},
		"csv":       "e, f,,g",
		"wrongType": 1.5,
	}

	assert.Equal(t, 7, GetIntOption(opts, "int", 0))
	assert.Equal(t, 4, GetIntOption(opts, "float", 0))
	assert.Equal(t, 9, GetIntOption(opts, "missing", 9))
	assert.Equal(t, 9, GetIntOption(nil, "int", 9))

	assert.Equal(t, "x", GetStringOption(opts, "str", ""))
	assert.Equal(t, "dflt", GetStringOption(opts, "wrongType", "dflt"))

	assert.True(t, GetBoolOption(opts, "bool", false))
	assert.False(t, GetBoolOption(opts, "boolText", true))
	assert.True(t, GetBoolOption(opts, "missing", true))
	assert.True(t, GetBoolOption(opts, "str", true), "unparseable text keeps the default")

	assert.Equal(t, []string{"a", "b"}, GetStringSliceOption(opts, "slice", nil))
	assert.Equal(t, []string{"c", "d"}, GetStringSliceOption(opts, "anySlice", nil))
	assert.Equal(t, []string{"e", "f", "g"}, GetStringSliceOption(opts, "csv", nil))
	assert.Equal(t, []string{"z"}, GetStringSliceOption(opts, "wrongType", []string{"z"}))

	assert.Equal(t, 1.5, GetOption(opts, "wrongType", 0.0))
	assert.Equal(t, "d", GetOption(opts, "int", "d"))
}

func TestDocURL(t *testing.T) {
	t.Cleanup(ResetDocsBaseURL)

	assert.Equal(t, DefaultDocsBaseURL+"/sc01", BuildDocURL("SC01"))

	SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/sc01", BuildDocURL("SC01"))

	ResetDocsBaseURL()
	assert.Equal(t, DefaultDocsBaseURL+"/sc01", BuildDocURL("SC01"))
	assert.Equal(t, 70, ImpactHigh.Int())
}
