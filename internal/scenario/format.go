package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Format identifies a scenario document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// DecodeFunc decodes a document into generic Go values
// (map[string]any, []any, string, json.Number, bool, nil).
// name is used for diagnostics only.
type DecodeFunc func(data []byte, name string) (any, error)

// Formats is the decoder registry, resolved once at startup.
// A nil entry marks a known format whose decoder is unavailable.
var Formats = map[Format]DecodeFunc{
	FormatJSON: decodeJSON,
	FormatYAML: decodeYAML,
	FormatCUE:  decodeCUE,
}

// FormatForPath picks the format for a file from its extension.
// Unknown extensions are treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".cue":
		return FormatCUE
	default:
		return FormatJSON
	}
}

func decodeJSON(data []byte, _ string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return doc, nil
}

func decodeYAML(data []byte, _ string) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return yamlValue(&root), nil
}

// yamlValue converts a YAML node into generic values. Scalars keep their
// source text so that dates, floats like 1.0 and .inf reach string fields
// unchanged; null scalars become nil.
func yamlValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, elem := range n.Content {
			out = append(out, yamlValue(elem))
		}
		return out
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.ShortTag() == "!!merge" {
				mergeYAML(out, val)
				continue
			}
			out[key.Value] = yamlValue(val)
		}
		return out
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil
		}
		return n.Value
	default:
		return nil
	}
}

// mergeYAML applies a "<<" merge key. Keys already set in out win.
func mergeYAML(out map[string]any, n *yaml.Node) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		if merged, ok := yamlValue(n).(map[string]any); ok {
			for k, v := range merged {
				if _, set := out[k]; !set {
					out[k] = v
				}
			}
		}
	case yaml.SequenceNode:
		for _, elem := range n.Content {
			mergeYAML(out, elem)
		}
	}
}

func decodeCUE(data []byte, name string) (any, error) {
	v := cuecontext.New().CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, positionedCUEError(err)
	}
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return decodeJSON(raw, name)
}

// positionedCUEError reduces a CUE error list to its first error,
// prefixed with file:line:col when a position is known.
func positionedCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) == 0 || !positions[0].IsValid() {
		return first
	}
	pos := positions[0]
	return fmt.Errorf("%s:%d:%d: %w", pos.Filename(), pos.Line(), pos.Column(), first)
}
