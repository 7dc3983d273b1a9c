package toolchat

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
)

// Handler is the uniform call shape of a wrapped function: reconstructed
// arguments in, raw result out. Errors propagate unmodified to the caller of
// RunTool, never to the model.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is the contract for an LLM-callable instrument: a callable with a
// schema plus the three result-handling flags. The flags are stored here but
// interpreted one layer up, by the tool set and the conversation.
type Tool interface {
	Name() string
	// Schema returns the tool definition in the upstream wire shape.
	Schema() ToolSchema
	// Call validates and reconstructs raw arguments, then invokes the
	// wrapped function. Reconstruction failures are *BrokenSchemaError.
	Call(ctx context.Context, args map[string]any) (any, error)
	SaveReturn() bool
	Serialize() bool
	InterpretAsResponse() bool
}

// ToolWrapper binds one function to its generated schema. The schema is built
// and compiled once at construction; Call is stateless beyond the bound
// function.
type ToolWrapper struct {
	name     string
	params   []ParameterSpec
	schema   ToolSchema
	resolved *jsonschema.Resolved
	fn       Handler
	opts     toolOptions
}

// NewTool builds a ToolWrapper from an explicit parameter list. The
// description may carry an Args: section (see package docs); its summary
// becomes the tool description and its entries fill parameter descriptions
// that were left empty. Schema generation failures (empty name, duplicate or
// unresolvable parameters) are returned here, never deferred to call time.
func NewTool(name, description string, params []ParameterSpec, fn Handler, opts ...ToolOption) (*ToolWrapper, error) {
	if name == "" {
		return nil, fmt.Errorf("tool name must not be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("tool %q: handler must not be nil", name)
	}
	o := defaultToolOptions()
	for _, opt := range opts {
		opt(&o)
	}
	summary, argDocs := parseDoc(description)
	specs := make([]ParameterSpec, len(params))
	copy(specs, params)
	for i, p := range specs {
		if p.Description == "" {
			specs[i].Description = argDocs[p.Name]
		}
	}
	inputSchema, err := buildInputSchema(specs)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	resolved, err := compileInputSchema(inputSchema)
	if err != nil {
		return nil, fmt.Errorf("tool %q: compile schema: %w", name, err)
	}
	return &ToolWrapper{
		name:   name,
		params: specs,
		schema: ToolSchema{
			Name:        name,
			Description: summary,
			InputSchema: inputSchema,
		},
		resolved: resolved,
		fn:       fn,
		opts:     o,
	}, nil
}

// NewStructTool builds a ToolWrapper whose parameters are reflected from the
// argument struct T. Field json tags name the parameters; description and
// enum tags enrich them; omitempty and pointer fields become optional. The
// handler receives a fully typed T. A field without a json tag or with an
// unsupported kind fails construction.
func NewStructTool[T any](name, description string, fn func(ctx context.Context, args T) (any, error), opts ...ToolOption) (*ToolWrapper, error) {
	if fn == nil {
		return nil, fmt.Errorf("tool %q: handler must not be nil", name)
	}
	typ := reflect.TypeOf(*new(T))
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, &CannotResolveTypeError{Type: fmt.Sprintf("%T (argument type must be a struct)", *new(T))}
	}
	obj, err := structDescriptor(typ)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	params := make([]ParameterSpec, len(obj.Fields))
	for i, f := range obj.Fields {
		params[i] = ParameterSpec{
			Name:        f.Name,
			Type:        f.Type,
			Description: f.Description,
		}
	}
	handler := func(ctx context.Context, args map[string]any) (any, error) {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, &BrokenSchemaError{Value: args, Schema: obj.Schema()}
		}
		var typed T
		if err := json.Unmarshal(data, &typed); err != nil {
			return nil, &BrokenSchemaError{Value: args, Schema: obj.Schema()}
		}
		if err := runValidatable(typed); err != nil {
			return nil, err
		}
		return fn(ctx, typed)
	}
	return NewTool(name, description, params, handler, opts...)
}

// MustTool is like NewTool but panics on construction failure. Intended for
// tools declared at init time, where a broken schema is a programming error.
func MustTool(name, description string, params []ParameterSpec, fn Handler, opts ...ToolOption) *ToolWrapper {
	w, err := NewTool(name, description, params, fn, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// MustStructTool is like NewStructTool but panics on construction failure.
func MustStructTool[T any](name, description string, fn func(ctx context.Context, args T) (any, error), opts ...ToolOption) *ToolWrapper {
	w, err := NewStructTool(name, description, fn, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

func (w *ToolWrapper) Name() string { return w.name }

// Schema returns the cached tool schema. The InputSchema map is shared;
// callers must not mutate it.
func (w *ToolWrapper) Schema() ToolSchema { return w.schema }

func (w *ToolWrapper) SaveReturn() bool          { return w.opts.saveReturn }
func (w *ToolWrapper) Serialize() bool           { return w.opts.serialize }
func (w *ToolWrapper) InterpretAsResponse() bool { return w.opts.interpretAsResponse }

// Call reconstructs each argument through its type descriptor and invokes the
// wrapped function. Missing required parameters, unknown parameter names, and
// shape mismatches all return *BrokenSchemaError; parameters with defaults
// are filled in when absent. Errors from the function itself propagate as-is.
func (w *ToolWrapper) Call(ctx context.Context, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	byName := make(map[string]ParameterSpec, len(w.params))
	for _, p := range w.params {
		if p.Required() {
			if _, present := args[p.Name]; !present {
				return nil, &BrokenSchemaError{Value: args, Schema: w.schema.InputSchema}
			}
		}
		byName[p.Name] = p
	}
	if err := validateInput(w.resolved, w.schema.InputSchema, args); err != nil {
		return nil, err
	}
	decoded := make(map[string]any, len(w.params))
	for name, value := range args {
		p, known := byName[name]
		if !known {
			return nil, &BrokenSchemaError{Value: args, Schema: w.schema.InputSchema}
		}
		v, err := p.Type.Decode(value)
		if err != nil {
			return nil, err
		}
		decoded[name] = v
	}
	for _, p := range w.params {
		if _, present := decoded[p.Name]; !present && p.HasDefault {
			decoded[p.Name] = p.Default
		}
	}
	return w.fn(ctx, decoded)
}

var _ Tool = (*ToolWrapper)(nil)
