package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapUnwrap(t *testing.T) {
	assert.Equal(t, "{{ useDocker }}", Wrap("  useDocker "))
	assert.Equal(t, "useDocker", Unwrap("{{ useDocker }}"))
	assert.Equal(t, "useDocker", Unwrap("useDocker"))
	assert.Equal(t, "a && b", Unwrap(Wrap("a && b")))
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{"", false},
		{"x", true},
		{0, false},
		{3, true},
		{0.0, false},
		{map[string]any{}, false},
		{map[string]any{"a": true}, true},
		{[]string{}, false},
		{[]any{1}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truthy(tt.value), "Truthy(%#v)", tt.value)
	}
}

func TestTruthyString(t *testing.T) {
	for _, s := range []string{"", "  ", "0", "false", "null", "{}", "[]", "map[]", "<no value>"} {
		assert.False(t, TruthyString(s), "TruthyString(%q)", s)
	}
	for _, s := range []string{"true", "1", "yes", "map[a:true]"} {
		assert.True(t, TruthyString(s), "TruthyString(%q)", s)
	}
}

func TestEvaluators(t *testing.T) {
	scope := map[string]any{
		"useDocker": true,
		"name":      "demo",
		"features":  map[string]any{"ci": true},
		"empty":     map[string]any{},
	}

	tests := []struct {
		name      string
		engine    string
		condition string
		want      bool
	}{
		{name: "expr bool", engine: EngineExpr, condition: "useDocker", want: true},
		{name: "expr negation", engine: EngineExpr, condition: "!useDocker", want: false},
		{name: "expr nested", engine: EngineExpr, condition: "features.ci", want: true},
		{name: "expr unselected item", engine: EngineExpr, condition: "features.docs", want: false},
		{name: "expr undefined", engine: EngineExpr, condition: "missing", want: false},
		{name: "expr comparison", engine: EngineExpr, condition: `name == "demo" && useDocker`, want: true},
		{name: "expr wrapped", engine: EngineExpr, condition: "{{ useDocker }}", want: true},
		{name: "expr empty map", engine: EngineExpr, condition: "empty", want: false},
		{name: "template bool", engine: EngineTemplate, condition: ".useDocker", want: true},
		{name: "template nested", engine: EngineTemplate, condition: ".features.ci", want: true},
		{name: "template missing", engine: EngineTemplate, condition: ".features.docs", want: false},
		{name: "template not", engine: EngineTemplate, condition: "not .useDocker", want: false},
		{name: "template sprig", engine: EngineTemplate, condition: `eq (upper .name) "DEMO"`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := New(tt.engine)
			require.NoError(t, err)

			got, err := eval.Evaluate(tt.condition, scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluatorErrors(t *testing.T) {
	_, err := NewExpr().Evaluate("useDocker &&", nil)
	assert.Error(t, err)

	_, err = NewTemplate().Evaluate("{{ broken", nil)
	assert.Error(t, err)

	_, err = New("handlebars")
	assert.Error(t, err)
}

func TestExprCachesPrograms(t *testing.T) {
	e := NewExpr()
	require.NoError(t, e.Compile("a || b"))

	_, ok := e.programs.Load("a || b")
	assert.True(t, ok)
}

func TestMissingParentIsAnError(t *testing.T) {
	scope := map[string]any{"useDocker": true}

	_, err := NewExpr().Evaluate("db.enabled", scope)
	assert.Error(t, err)

	_, err = NewTemplate().Evaluate(".db.enabled", scope)
	assert.Error(t, err)

	ok, err := NewExpr().Evaluate("db?.enabled", scope)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewTemplate().Evaluate("and .db .db.enabled", scope)
	require.NoError(t, err)
	assert.False(t, ok)
}
