package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load reads and parses a scenario file.
// The decoder is chosen by extension (see FormatForPath).
//
// Returns a *ValidationError if the document is not an object or has no
// steps, ErrFormatUnavailable if the format has no decoder, and a wrapped
// I/O or syntax error otherwise.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data, FormatForPath(path), path)
}

// Parse decodes a scenario document held in memory.
func Parse(data []byte, format Format, name string) (Scenario, error) {
	decode, ok := Formats[format]
	if !ok || decode == nil {
		return Scenario{}, fmt.Errorf("%w: %s", ErrFormatUnavailable, format)
	}

	doc, err := decode(data, name)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to parse %s: %w", format, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return Scenario{}, &ValidationError{Message: "scenario file must contain an object"}
	}

	in, err := decodeInput(obj)
	if err != nil {
		return Scenario{}, err
	}

	sc := in.resolve()
	if len(sc.Steps) == 0 {
		return Scenario{}, &ValidationError{Field: "steps", Message: "scenario must include at least one step"}
	}
	return sc, nil
}

// scenarioInput is the partially-optional shape of a scenario document.
// nil pointers mark fields that were missing or null.
type scenarioInput struct {
	ID          *text       `json:"id"`
	Title       *text       `json:"title"`
	Description *text       `json:"description"`
	Roles       []roleInput `json:"roles"`
	Steps       []stepInput `json:"steps"`
}

type roleInput struct {
	Name        *text `json:"name"`
	Description *text `json:"description"`
}

type stepInput struct {
	ID   *text `json:"id"`
	Goal *text `json:"goal"`
}

func decodeInput(obj map[string]any) (scenarioInput, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return scenarioInput{}, fmt.Errorf("failed to normalize scenario: %w", err)
	}

	var in scenarioInput
	if err := json.Unmarshal(raw, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return scenarioInput{}, &ValidationError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("unexpected %s", typeErr.Value),
			}
		}
		return scenarioInput{}, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return in, nil
}

// resolve applies defaults. This is the only place defaults are consulted.
func (in scenarioInput) resolve() Scenario {
	sc := Scenario{
		ID:          in.ID.or(DefaultID),
		Title:       in.Title.or(DefaultTitle),
		Description: in.Description.or(DefaultDescription),
		Roles:       make([]Role, 0, len(in.Roles)),
		Steps:       make([]Step, 0, len(in.Steps)),
	}

	for _, r := range in.Roles {
		sc.Roles = append(sc.Roles, Role{
			Name:        r.Name.or(DefaultRoleName),
			Description: r.Description.or(DefaultRoleDesc),
		})
	}

	for i, s := range in.Steps {
		sc.Steps = append(sc.Steps, Step{
			ID:   s.ID.or(DefaultStepID(i + 1)),
			Goal: s.Goal.or(DefaultGoal),
		})
	}

	return sc
}

// text is a string field that accepts any JSON value.
// Strings are taken as-is; numbers, booleans and containers keep their
// compact JSON text.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = text(buf.String())
	return nil
}

func (t *text) or(def string) string {
	if t == nil {
		return def
	}
	return string(*t)
}
