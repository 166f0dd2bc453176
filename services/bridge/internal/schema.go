package internal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// generateSchema validates the payload of a generate.requested message
// before it reaches a provider.
const generateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["text"],
  "properties": {
    "text":    {"type": "string", "minLength": 1},
    "outline": {"type": "string"},
    "kind":    {"enum": ["", "playbook", "role"]},
    "meta":    {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

type Validator struct {
	generate *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("generate.json", bytes.NewReader([]byte(generateSchema))); err != nil {
		return nil, err
	}
	compiled, err := compiler.Compile("generate.json")
	if err != nil {
		return nil, err
	}
	return &Validator{generate: compiled}, nil
}

// ValidateGenerate checks one generate payload against the schema.
func (v *Validator) ValidateGenerate(raw json.RawMessage) error {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	if err := v.generate.Validate(data); err != nil {
		return fmt.Errorf("invalid generate request: %w", err)
	}
	return nil
}
