// Package schema validates the raw configuration document before any
// assembly begins, so structural faults surface as one clear error
// instead of a mid-assembly failure.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema is the structural contract for a post-processing
// configuration document. Option values are scalars; section-level
// structure is fixed for the two mandatory sections.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["workflow", "executables"],
  "properties": {
    "workflow": {
      "type": "object",
      "required": ["trigger-name", "trigger-time", "start-time", "end-time", "ifos"],
      "properties": {
        "trigger-name": {"type": "string", "minLength": 1},
        "trigger-time": {"type": ["string", "integer"]},
        "start-time": {"type": ["string", "integer"]},
        "end-time": {"type": ["string", "integer"]},
        "ra": {"type": ["string", "number"]},
        "dec": {"type": ["string", "number"]},
        "ifos": {"type": "string", "minLength": 2}
      }
    },
    "executables": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {"type": "string", "minLength": 1}
    }
  },
  "additionalProperties": {
    "type": "object",
    "additionalProperties": {"type": ["string", "number", "boolean", "null"]}
  }
}`

// Validator handles JSON schema validation of configuration documents.
type Validator struct {
	config *jsonschema.Schema
}

// NewValidator compiles the embedded configuration schema.
func NewValidator() (*Validator, error) {
	compiled, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return &Validator{config: compiled}, nil
}

// ValidateConfig validates a parsed configuration document. The input
// is round-tripped through JSON so the schema compiler sees canonical
// types regardless of the YAML decoder's choices.
func (v *Validator) ValidateConfig(sections map[string]map[string]string) error {
	data, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("failed to marshal config for validation: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal config for validation: %w", err)
	}

	if err := v.config.Validate(doc); err != nil {
		return fmt.Errorf("config document failed schema validation: %w", err)
	}
	return nil
}
