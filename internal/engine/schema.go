package engine

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// recognizerSchema is the JSON Schema for recognizer rules files.
const recognizerSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Recognizer rules file",
  "type": "object",
  "required": ["recognizers"],
  "additionalProperties": false,
  "properties": {
    "recognizers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "kind", "type"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "kind": {"type": "string", "enum": ["standalone", "combinatorial"]},
          "type": {"type": "string", "minLength": 1},
          "category": {"type": "string", "enum": ["name", "email", "address", "device_or_location"]},
          "enabled": {"type": "boolean"},
          "field_aliases": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "pair_slots": {
            "type": "array",
            "items": {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1}
          },
          "regex": {"type": "string"},
          "min_alpha_tokens": {"type": "integer", "minimum": 1},
          "digit_length": {"type": "integer", "minimum": 1},
          "digit_min": {"type": "integer", "minimum": 1},
          "digit_max": {"type": "integer", "minimum": 1},
          "validate_luhn": {"type": "boolean"},
          "validate_ipv4": {"type": "boolean"},
          "shape_only_match": {"type": "boolean"},
          "provider_suffixes": {"type": "array", "items": {"type": "string", "minLength": 1}}
        }
      }
    }
  }
}`

// ValidateRecognizerDocument validates recognizer YAML bytes against the
// JSON Schema. The YAML is first converted to JSON because gojsonschema
// operates on JSON.
func ValidateRecognizerDocument(yamlBytes []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(yamlBytes, &raw); err != nil {
		return fmt.Errorf("parsing YAML for schema validation: %w", err)
	}

	jsonBytes, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return fmt.Errorf("converting YAML to JSON: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(recognizerSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errMsg string
		for _, verr := range result.Errors() {
			errMsg += fmt.Sprintf("- %s\n", verr)
		}
		return fmt.Errorf("schema validation errors:\n%s", errMsg)
	}

	return nil
}

// normalizeYAML recursively converts map[interface{}]interface{} to
// map[string]interface{} so that json.Marshal can handle it.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v := range val {
			out[k] = normalizeYAML(v)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(v)
		}
		return out
	case []interface{}:
		for i, item := range val {
			val[i] = normalizeYAML(item)
		}
		return val
	default:
		return v
	}
}
