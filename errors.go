package toolchat

import (
	"errors"
	"fmt"
)

// Sentinel errors for toolchat. Use errors.Is to check.
var (
	ErrToolNotFound      = errors.New("tool not found")
	ErrBrokenSchema      = errors.New("response does not match schema")
	ErrCannotResolveType = errors.New("cannot resolve type")
	ErrNonSerializable   = errors.New("result is not JSON-serializable")
	ErrIterationLimit    = errors.New("iteration limit reached")
)

// ToolNotFoundError reports a tool-use request naming a tool absent from the
// entire tool-set graph. Union sets raise it only after every child was probed.
type ToolNotFoundError struct {
	ToolName string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %s not found", e.ToolName)
}

// Unwrap supports errors.Is(err, ErrToolNotFound).
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// BrokenSchemaError reports model-supplied input that does not match the
// declared schema, at the level where the mismatch was detected (whole
// argument object, one parameter, one array element, ...).
type BrokenSchemaError struct {
	Value  any
	Schema map[string]any
}

func (e *BrokenSchemaError) Error() string {
	return fmt.Sprintf("response does not match schema: %#v does not match %v", e.Value, e.Schema)
}

func (e *BrokenSchemaError) Unwrap() error { return ErrBrokenSchema }

// CannotResolveTypeError reports a type descriptor (or a reflected Go type)
// that cannot be mapped to a JSON Schema fragment. Raised when the tool is
// built, never at call time.
type CannotResolveTypeError struct {
	Type any
}

func (e *CannotResolveTypeError) Error() string {
	return fmt.Sprintf("cannot resolve type %v", e.Type)
}

func (e *CannotResolveTypeError) Unwrap() error { return ErrCannotResolveType }

// NonSerializableOutputError reports a tool return value that failed JSON
// serialization while the tool has serialization enabled.
type NonSerializableOutputError struct {
	Result any
}

func (e *NonSerializableOutputError) Error() string {
	return fmt.Sprintf("result %v is not JSON-serializable; register the tool with WithSerialize(false) to use plain formatting", e.Result)
}

func (e *NonSerializableOutputError) Unwrap() error { return ErrNonSerializable }

// IsToolNotFound returns true if err is or wraps a tool-not-found failure.
func IsToolNotFound(err error) bool {
	return errors.Is(err, ErrToolNotFound)
}

// IsBrokenSchema returns true if err is or wraps a schema-violation failure.
func IsBrokenSchema(err error) bool {
	return errors.Is(err, ErrBrokenSchema)
}
