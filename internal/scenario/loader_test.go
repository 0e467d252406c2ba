package scenario

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to name inside a temp directory and returns the path.
func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_JSONFull(t *testing.T) {
	path := writeScenario(t, "full.json", `{
  "id": "s1",
  "title": "T",
  "description": "two steps",
  "roles": [{"name": "Doer", "description": "does"}, {"name": "Judge"}],
  "steps": [{"id": "a", "goal": "do X"}, {"id": "b", "goal": "do Y"}]
}`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Scenario{
		ID:          "s1",
		Title:       "T",
		Description: "two steps",
		Roles: []Role{
			{Name: "Doer", Description: "does"},
			{Name: "Judge", Description: ""},
		},
		Steps: []Step{
			{ID: "a", Goal: "do X"},
			{ID: "b", Goal: "do Y"},
		},
	}, sc)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeScenario(t, "min.json", `{"steps":[{"goal":"g"}]}`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultID, sc.ID)
	assert.Equal(t, DefaultTitle, sc.Title)
	assert.Equal(t, "", sc.Description)
	assert.Empty(t, sc.Roles)
	require.Len(t, sc.Steps, 1)
	assert.Equal(t, "step-1", sc.Steps[0].ID)
	assert.Equal(t, "g", sc.Steps[0].Goal)
}

func TestLoad_StepIDDefaultsUseInputPosition(t *testing.T) {
	path := writeScenario(t, "pos.json", `{"steps":[{"id":"first"},{"goal":"second"},{}]}`)

	sc, err := Load(path)
	require.NoError(t, err)

	require.Len(t, sc.Steps, 3)
	assert.Equal(t, Step{ID: "first", Goal: ""}, sc.Steps[0])
	assert.Equal(t, Step{ID: "step-2", Goal: "second"}, sc.Steps[1])
	assert.Equal(t, Step{ID: "step-3", Goal: ""}, sc.Steps[2])
}

func TestLoad_NullFieldsTakeDefaults(t *testing.T) {
	path := writeScenario(t, "nulls.json", `{
  "id": null, "title": null, "description": null, "roles": null,
  "steps": [{"id": null, "goal": null}],
  "extra": "ignored"
}`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultID, sc.ID)
	assert.Equal(t, DefaultTitle, sc.Title)
	assert.Empty(t, sc.Roles)
	assert.Equal(t, []Step{{ID: "step-1", Goal: ""}}, sc.Steps)
}

func TestLoad_RoleDefaults(t *testing.T) {
	path := writeScenario(t, "roles.json", `{"roles":[{}, {"description":"watches"}], "steps":[{"id":"a"}]}`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []Role{
		{Name: DefaultRoleName, Description: ""},
		{Name: DefaultRoleName, Description: "watches"},
	}, sc.Roles)
}

func TestLoad_ScalarCoercion(t *testing.T) {
	path := writeScenario(t, "coerce.json", `{
  "id": 42,
  "title": true,
  "roles": [{"name": 7}],
  "steps": [{"id": 1, "goal": 1.5}, {"id": "x", "goal": {"nested": [1, 2]}}]
}`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "42", sc.ID)
	assert.Equal(t, "true", sc.Title)
	assert.Equal(t, "7", sc.Roles[0].Name)
	assert.Equal(t, Step{ID: "1", Goal: "1.5"}, sc.Steps[0])
	assert.Equal(t, `{"nested":[1,2]}`, sc.Steps[1].Goal)
}

func TestLoad_YAML(t *testing.T) {
	path := writeScenario(t, "example.yaml", `
id: checkout
title: Checkout flow
roles:
  - name: Doer
    description: Performs each goal
steps:
  - id: add-item
    goal: Add a widget to the cart
  - goal: Pay for the order
`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "checkout", sc.ID)
	assert.Equal(t, "Checkout flow", sc.Title)
	assert.Equal(t, []Role{{Name: "Doer", Description: "Performs each goal"}}, sc.Roles)
	assert.Equal(t, []Step{
		{ID: "add-item", Goal: "Add a widget to the cart"},
		{ID: "step-2", Goal: "Pay for the order"},
	}, sc.Steps)
}

func TestLoad_YMLExtensionAndNumbers(t *testing.T) {
	path := writeScenario(t, "numbers.YML", `
id: 42
steps:
  - id: 7
    goal: 2.5
`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "42", sc.ID)
	assert.Equal(t, Step{ID: "7", Goal: "2.5"}, sc.Steps[0])
}

func TestLoad_CUE(t *testing.T) {
	path := writeScenario(t, "scenario.cue", `
id:    "cue-scenario"
title: "From CUE"
steps: [
	{id: "a", goal: "do X"},
	{goal: "do Y"},
]
`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cue-scenario", sc.ID)
	assert.Equal(t, "From CUE", sc.Title)
	assert.Equal(t, []Step{{ID: "a", Goal: "do X"}, {ID: "step-2", Goal: "do Y"}}, sc.Steps)
}

func TestLoad_CUESyntaxErrorHasPosition(t *testing.T) {
	path := writeScenario(t, "broken.cue", "id: \"x\"\nsteps: [\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse cue")
	assert.Contains(t, err.Error(), "broken.cue:")
	assert.False(t, IsValidationError(err))
}

func TestLoad_UnknownExtensionIsJSON(t *testing.T) {
	path := writeScenario(t, "scenario.txt", `{"steps":[{"id":"a"}]}`)

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a", sc.Steps[0].ID)

	yamlInTxt := writeScenario(t, "scenario.conf", "steps:\n  - id: a\n")
	_, err = Load(yamlInTxt)
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "failed to parse json")
}

func TestLoad_NonObjectTopLevel(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json array", "list.json", `[{"id":"a"}]`},
		{"json string", "str.json", `"hello"`},
		{"json null", "null.json", `null`},
		{"yaml scalar", "scalar.yaml", "just text\n"},
		{"yaml list", "list.yaml", "- id: a\n"},
		{"empty yaml", "empty.yaml", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeScenario(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "expected ValidationError, got %v", err)
			assert.Contains(t, err.Error(), "scenario file must contain an object")
		})
	}
}

func TestLoad_EmptySteps(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing", `{"id":"s"}`},
		{"null", `{"steps":null}`},
		{"empty", `{"steps":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeScenario(t, "s.json", tt.content))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "steps", ve.Field)
			assert.Contains(t, err.Error(), "scenario must include at least one step")
		})
	}
}

func TestLoad_MalformedEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"steps is object", `{"steps":{"id":"a"}}`},
		{"step is string", `{"steps":["a"]}`},
		{"role is number", `{"roles":[3],"steps":[{"id":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeScenario(t, "bad.json", tt.content))
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "expected ValidationError, got %v", err)
		})
	}
}

func TestParse_YAMLScalarsKeepSourceText(t *testing.T) {
	tests := []struct {
		name string
		goal string
		want string
	}{
		{"date", "2024-01-01", "2024-01-01"},
		{"float with trailing zero", "1.0", "1.0"},
		{"infinity", ".inf", ".inf"},
		{"not a number", ".nan", ".nan"},
		{"hex int", "0x1F", "0x1F"},
		{"bool", "true", "true"},
		{"quoted", `"007"`, "007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "steps:\n  - id: a\n    goal: " + tt.goal + "\n"
			sc, err := Parse([]byte(doc), FormatYAML, "s.yaml")
			require.NoError(t, err)
			assert.Equal(t, tt.want, sc.Steps[0].Goal)
		})
	}
}

func TestParse_YAMLDateID(t *testing.T) {
	sc, err := Parse([]byte("id: 2024-01-01\nsteps:\n  - id: a\n"), FormatYAML, "s.yaml")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", sc.ID)
}

func TestParse_YAMLNullIsAbsent(t *testing.T) {
	sc, err := Parse([]byte("id: ~\ntitle: null\nsteps:\n  - id:\n    goal: g\n"), FormatYAML, "s.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultID, sc.ID)
	assert.Equal(t, DefaultTitle, sc.Title)
	assert.Equal(t, "step-1", sc.Steps[0].ID)
}

func TestParse_YAMLAliasesAndMerge(t *testing.T) {
	doc := `
base: &base
  goal: shared goal
steps:
  - <<: *base
    id: a
  - <<: *base
    id: b
    goal: own goal
`
	sc, err := Parse([]byte(doc), FormatYAML, "s.yaml")
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{ID: "a", Goal: "shared goal"},
		{ID: "b", Goal: "own goal"},
	}, sc.Steps)
}

func TestParse_YAMLMalformedEntries(t *testing.T) {
	for _, doc := range []string{"steps: 5\n", "steps:\n  - just text\n"} {
		_, err := Parse([]byte(doc), FormatYAML, "s.yaml")
		require.Error(t, err)
		assert.True(t, IsValidationError(err), "expected ValidationError, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, IsValidationError(err))
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := Load(writeScenario(t, "broken.json", `{"steps": [`))
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "failed to parse json")
}

func TestParse_FormatUnavailable(t *testing.T) {
	saved := Formats[FormatYAML]
	Formats[FormatYAML] = nil
	t.Cleanup(func() { Formats[FormatYAML] = saved })

	_, err := Parse([]byte(`{"steps":[{"id":"a"}]}`), FormatYAML, "s.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormatUnavailable))

	_, err = Parse([]byte(`{}`), Format("toml"), "s.toml")
	assert.True(t, errors.Is(err, ErrFormatUnavailable))
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":      FormatYAML,
		"a.yml":       FormatYAML,
		"A.YAML":      FormatYAML,
		"a.cue":       FormatCUE,
		"a.json":      FormatJSON,
		"a":           FormatJSON,
		"dir.yaml/a":  FormatJSON,
		"a.yaml.json": FormatJSON,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatForPath(path), path)
	}
}
