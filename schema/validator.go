// Package schema validates incoming mention payloads against the embedded
// JSON schema before they reach the store.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed mention.schema.json
var mentionSchema string

type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("mention.schema.json", strings.NewReader(mentionSchema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := compiler.Compile("mention.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile mention schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks a raw JSON payload and returns the decoded document when it
// conforms.
func (v *Validator) Validate(payload []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("payload does not match schema: %w", err)
	}

	object, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload must be a JSON object")
	}
	return object, nil
}
