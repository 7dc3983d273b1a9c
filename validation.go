package toolchat

import "reflect"

// Validatable is implemented by argument structs that need business
// validation beyond the schema. It runs after schema validation and
// unmarshaling, and its error propagates to the caller of RunTool like any
// other tool failure.
type Validatable interface {
	Validate() error
}

// runValidatable runs Validate on args; if args does not implement
// Validatable, it tries &args for value types (pointer receiver). Never calls
// Validate twice for the same receiver.
func runValidatable[T any](args T) error {
	if v, ok := any(args).(Validatable); ok {
		return v.Validate()
	}
	typ := reflect.TypeOf(args)
	if typ == nil || typ.Kind() == reflect.Pointer {
		return nil
	}
	if v, ok := any(&args).(Validatable); ok {
		return v.Validate()
	}
	return nil
}
