package toolchat

import (
	"encoding/json"
	"math"
)

// TypeDescriptor describes one semantic argument type. It maps the type to a
// JSON Schema fragment (forward direction) and reconstructs a typed Go value
// from raw JSON-decoded input (reverse direction). The reverse direction runs
// once per tool call on arguments the model supplied, so every implementation
// must treat its input as untrusted and fail with *BrokenSchemaError on any
// shape mismatch.
type TypeDescriptor interface {
	// Schema returns the JSON Schema fragment for the type.
	Schema() map[string]any
	// Decode reconstructs a typed value from raw JSON-decoded input.
	Decode(raw any) (any, error)
}

// StringType maps to {"type": "string"}.
type StringType struct{}

func (StringType) Schema() map[string]any { return map[string]any{"type": "string"} }

func (t StringType) Decode(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
	}
	return s, nil
}

// IntegerType maps to {"type": "integer"}. Decode accepts JSON numbers with a
// zero fractional part (encoding/json yields float64) and native Go integers.
type IntegerType struct{}

func (IntegerType) Schema() map[string]any { return map[string]any{"type": "integer"} }

func (t IntegerType) Decode(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), nil
		}
	}
	return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
}

// NumberType maps to {"type": "number"}.
type NumberType struct{}

func (NumberType) Schema() map[string]any { return map[string]any{"type": "number"} }

func (t NumberType) Decode(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
	}
	return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
}

// BooleanType maps to {"type": "boolean"}.
type BooleanType struct{}

func (BooleanType) Schema() map[string]any { return map[string]any{"type": "boolean"} }

func (t BooleanType) Decode(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
	}
	return b, nil
}

// NullType maps to {"type": "null"} and accepts only nil.
type NullType struct{}

func (NullType) Schema() map[string]any { return map[string]any{"type": "null"} }

func (t NullType) Decode(raw any) (any, error) {
	if raw != nil {
		return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
	}
	return nil, nil
}

// EnumMember is one named member of an EnumType.
type EnumMember struct {
	Name  string
	Value any
}

// EnumType maps to {"type": "string", "enum": [member names]}. The schema
// lists member names, not underlying values, and Decode maps an incoming name
// back to the member's value by name lookup. This name-based contract is what
// upstream consumers depend on; set ByValue to switch both directions to
// underlying values instead.
type EnumType struct {
	Members []EnumMember
	ByValue bool
}

func (t EnumType) Schema() map[string]any {
	vals := make([]any, len(t.Members))
	for i, m := range t.Members {
		if t.ByValue {
			vals[i] = m.Value
		} else {
			vals[i] = m.Name
		}
	}
	if t.ByValue {
		return map[string]any{"enum": vals}
	}
	return map[string]any{"type": "string", "enum": vals}
}

func (t EnumType) Decode(raw any) (any, error) {
	if t.ByValue {
		for _, m := range t.Members {
			if looseEqual(m.Value, raw) {
				return m.Value, nil
			}
		}
		return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
	}
	name, ok := raw.(string)
	if !ok {
		return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
	}
	for _, m := range t.Members {
		if m.Name == name {
			return m.Value, nil
		}
	}
	return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
}

// looseEqual compares enum values across the int/float64 boundary introduced
// by encoding/json.
func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	return aok && bok && af == bf
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// OptionalType wraps another descriptor for a parameter that may be omitted.
// The schema is the element's own schema with no nullable marker; optionality
// is expressed by leaving the parameter out of the required list.
type OptionalType struct {
	Elem TypeDescriptor
}

func (t OptionalType) Schema() map[string]any { return t.Elem.Schema() }

func (t OptionalType) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	return t.Elem.Decode(raw)
}

// ArrayType maps to {"type": "array", "items": ...}.
type ArrayType struct {
	Elem TypeDescriptor
}

func (t ArrayType) Schema() map[string]any {
	return map[string]any{"type": "array", "items": t.Elem.Schema()}
}

func (t ArrayType) Decode(raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
	}
	out := make([]any, len(items))
	for i, item := range items {
		decoded, err := t.Elem.Decode(item)
		if err != nil {
			return nil, err
		}
		out[i] = decoded
	}
	return out, nil
}

// ObjectField is one named field of an ObjectType.
type ObjectField struct {
	Name        string
	Type        TypeDescriptor
	Description string
	Required    bool
}

// ObjectType maps to {"type": "object", "properties": ..., "required": ...},
// recursively. Decode enforces required fields and rejects unknown ones.
type ObjectType struct {
	Fields []ObjectField
}

func (t ObjectType) Schema() map[string]any {
	props := make(map[string]any, len(t.Fields))
	required := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		frag := f.Type.Schema()
		if f.Description != "" {
			frag = withDescription(frag, f.Description)
		}
		props[f.Name] = frag
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func (t ObjectType) Decode(raw any) (any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
	}
	byName := make(map[string]ObjectField, len(t.Fields))
	for _, f := range t.Fields {
		byName[f.Name] = f
	}
	for _, f := range t.Fields {
		if _, present := obj[f.Name]; f.Required && !present {
			return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
		}
	}
	out := make(map[string]any, len(obj))
	for name, value := range obj {
		field, known := byName[name]
		if !known {
			return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
		}
		decoded, err := field.Type.Decode(value)
		if err != nil {
			return nil, err
		}
		out[name] = decoded
	}
	return out, nil
}

// UnionType maps to {"anyOf": [...]}. Decode probes variants in declaration
// order and returns the first successful reconstruction.
type UnionType struct {
	Variants []TypeDescriptor
}

func (t UnionType) Schema() map[string]any {
	anyOf := make([]any, len(t.Variants))
	for i, v := range t.Variants {
		anyOf[i] = v.Schema()
	}
	return map[string]any{"anyOf": anyOf}
}

func (t UnionType) Decode(raw any) (any, error) {
	for _, v := range t.Variants {
		decoded, err := v.Decode(raw)
		if err == nil {
			return decoded, nil
		}
	}
	return nil, &BrokenSchemaError{Value: raw, Schema: t.Schema()}
}

// withDescription returns a copy of the fragment with a description added,
// leaving the descriptor's own schema map untouched.
func withDescription(frag map[string]any, description string) map[string]any {
	out := make(map[string]any, len(frag)+1)
	for k, v := range frag {
		out[k] = v
	}
	out["description"] = description
	return out
}

// validateDescriptor walks a descriptor tree and fails on anything that
// cannot resolve to a JSON Schema fragment: nil descriptors, enums with no
// members, objects with unnamed fields, empty unions.
func validateDescriptor(d TypeDescriptor) error {
	switch t := d.(type) {
	case nil:
		return &CannotResolveTypeError{Type: nil}
	case EnumType:
		if len(t.Members) == 0 {
			return &CannotResolveTypeError{Type: t}
		}
	case OptionalType:
		return validateDescriptor(t.Elem)
	case ArrayType:
		return validateDescriptor(t.Elem)
	case ObjectType:
		for _, f := range t.Fields {
			if f.Name == "" {
				return &CannotResolveTypeError{Type: t}
			}
			if err := validateDescriptor(f.Type); err != nil {
				return err
			}
		}
	case UnionType:
		if len(t.Variants) == 0 {
			return &CannotResolveTypeError{Type: t}
		}
		for _, v := range t.Variants {
			if err := validateDescriptor(v); err != nil {
				return err
			}
		}
	}
	return nil
}
