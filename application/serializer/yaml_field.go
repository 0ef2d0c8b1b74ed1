package serializer

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML is a structured value that is exchanged as a YAML document string.
// A nil value is rendered as JSON null.
type YAML struct {
	Value interface{}
}

func (y YAML) MarshalJSON() ([]byte, error) {
	if y.Value == nil {
		return []byte("null"), nil
	}
	doc, err := DumpYAML(y.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// DumpYAML renders v as a YAML document
func DumpYAML(v interface{}) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to render yaml: %w", err)
	}
	return string(out), nil
}

// LoadYAML parses a YAML document into JSON-compatible values
func LoadYAML(doc string) (interface{}, error) {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, err
	}
	return normalize(parsed), nil
}

// yaml field: strings are parsed as YAML, structured JSON is taken as is
func (f field) yaml(v Value, errs ValidationErrors) (interface{}, bool) {
	if !f.check(v, errs) {
		return nil, false
	}

	var decoded interface{}
	if err := json.Unmarshal(v.raw, &decoded); err != nil {
		errs.Add(f.name, msgInvalidYAML)
		return nil, false
	}

	doc, ok := decoded.(string)
	if !ok {
		return decoded, true
	}
	parsed, err := LoadYAML(doc)
	if err != nil {
		errs.Add(f.name, msgInvalidYAML)
		return nil, false
	}
	return parsed, true
}

// normalize rewrites maps with non-string keys so the result can be stored
// as JSON.
func normalize(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		for k, item := range value {
			value[k] = normalize(item)
		}
		return value
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []interface{}:
		for i, item := range value {
			value[i] = normalize(item)
		}
		return value
	default:
		return v
	}
}
