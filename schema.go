package toolchat

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// ToolSchema is the wire shape of one tool definition, matching the upstream
// API's tool-definition format exactly.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// ParameterSpec declares one parameter of a tool function: its name, type
// descriptor, optional human-readable description, and optional default.
// A parameter is required exactly when it has no default and its type is not
// OptionalType.
type ParameterSpec struct {
	Name        string
	Type        TypeDescriptor
	Description string
	Default     any
	HasDefault  bool
}

// Required reports whether the parameter must be present in tool input.
func (p ParameterSpec) Required() bool {
	if p.HasDefault {
		return false
	}
	if _, optional := p.Type.(OptionalType); optional {
		return false
	}
	return true
}

// buildInputSchema produces the input_schema object for a parameter list.
// Every descriptor is validated first; an unresolvable one fails the whole
// build, so broken tools never reach the model.
func buildInputSchema(params []ParameterSpec) (map[string]any, error) {
	props := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter name must not be empty")
		}
		if _, dup := props[p.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter %q", p.Name)
		}
		if err := validateDescriptor(p.Type); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		frag := p.Type.Schema()
		if p.Description != "" {
			frag = withDescription(frag, p.Description)
		}
		props[p.Name] = frag
		if p.Required() {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}, nil
}

// compileInputSchema compiles a raw input_schema map into a resolved
// validator. The map is not mutated.
func compileInputSchema(schemaMap map[string]any) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.Resolve(nil)
}

// validateInput runs the compiled schema against the raw argument map before
// any reconstruction. The model's output is untrusted input; anything the
// schema rejects becomes a BrokenSchemaError before a descriptor ever sees it.
func validateInput(resolved *jsonschema.Resolved, schemaMap map[string]any, args map[string]any) error {
	if resolved == nil {
		return nil
	}
	if err := resolved.Validate(args); err != nil {
		return &BrokenSchemaError{Value: args, Schema: schemaMap}
	}
	return nil
}
