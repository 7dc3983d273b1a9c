package toolchat

import (
	"reflect"
	"strings"
)

// DescriptorFor derives a TypeDescriptor from a Go value's type. Struct fields
// must carry a json tag; `description` and `enum` tags enrich the schema the
// same way they do on argument structs. Unsupported kinds (map, chan, func,
// interface) return *CannotResolveTypeError; derivation fails loudly rather
// than guessing.
func DescriptorFor(example any) (TypeDescriptor, error) {
	if example == nil {
		return nil, &CannotResolveTypeError{Type: nil}
	}
	return descriptorForType(reflect.TypeOf(example))
}

func descriptorForType(t reflect.Type) (TypeDescriptor, error) {
	switch t.Kind() {
	case reflect.String:
		return StringType{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return IntegerType{}, nil
	case reflect.Float32, reflect.Float64:
		return NumberType{}, nil
	case reflect.Bool:
		return BooleanType{}, nil
	case reflect.Pointer:
		elem, err := descriptorForType(t.Elem())
		if err != nil {
			return nil, err
		}
		return OptionalType{Elem: elem}, nil
	case reflect.Slice, reflect.Array:
		elem, err := descriptorForType(t.Elem())
		if err != nil {
			return nil, err
		}
		return ArrayType{Elem: elem}, nil
	case reflect.Struct:
		return structDescriptor(t)
	default:
		return nil, &CannotResolveTypeError{Type: t.String()}
	}
}

// structDescriptor builds an ObjectType from a struct's fields, in declaration
// order. A missing json tag on an exported field is a hard error: the field
// would otherwise be silently absent from the schema the model sees.
func structDescriptor(t reflect.Type) (ObjectType, error) {
	var obj ObjectType
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitempty, err := parseJSONTag(field)
		if err != nil {
			return ObjectType{}, err
		}
		if name == "" {
			continue // json:"-"
		}
		desc, err := fieldDescriptor(field)
		if err != nil {
			return ObjectType{}, err
		}
		required := true
		if _, optional := desc.(OptionalType); optional {
			required = false
		} else if omitempty {
			desc = OptionalType{Elem: desc}
			required = false
		}
		obj.Fields = append(obj.Fields, ObjectField{
			Name:        name,
			Type:        desc,
			Description: field.Tag.Get("description"),
			Required:    required,
		})
	}
	return obj, nil
}

func parseJSONTag(field reflect.StructField) (name string, omitempty bool, err error) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false, &CannotResolveTypeError{
			Type: field.Name + " (missing json tag)",
		}
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", false, nil
	}
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty, nil
}

// fieldDescriptor resolves one struct field, honoring the enum tag on string
// fields. Enum members derived from tags use the literal as both name and
// value, so the name-based wire contract and the decoded Go value coincide.
func fieldDescriptor(field reflect.StructField) (TypeDescriptor, error) {
	if enumTag := field.Tag.Get("enum"); enumTag != "" {
		t := field.Type
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.String {
			return nil, &CannotResolveTypeError{
				Type: field.Name + " (enum tag on non-string field)",
			}
		}
		parts := strings.Split(enumTag, ",")
		members := make([]EnumMember, len(parts))
		for i, p := range parts {
			p = strings.TrimSpace(p)
			members[i] = EnumMember{Name: p, Value: p}
		}
		var desc TypeDescriptor = EnumType{Members: members}
		if field.Type.Kind() == reflect.Pointer {
			desc = OptionalType{Elem: desc}
		}
		return desc, nil
	}
	return descriptorForType(field.Type)
}
