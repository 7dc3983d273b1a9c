package toolchat

import (
	"context"
	"errors"
	"sync"
)

// ToolSet aggregates tools into one schema list and one dispatch entry point.
type ToolSet interface {
	// ToolsSchema returns the schemas of every owned tool, in registration
	// order. Union sets append their children's schemas without
	// deduplication; at dispatch time the first registrant wins.
	ToolsSchema() []ToolSchema
	// RunTool resolves the request's tool by name, calls it, and returns the
	// result with the tool's flags attached. An unresolved name is
	// ErrToolNotFound; reconstruction and tool failures propagate as-is.
	RunTool(ctx context.Context, use ToolUse) (*ToolResult, error)
}

// BasicToolSet is a slice-backed mutable tool set. Registration order is
// preserved and a duplicate name resolves to the earliest registrant.
// Middlewares installed with Use wrap every tool, including ones registered
// later.
type BasicToolSet struct {
	mu          sync.Mutex
	tools       []Tool // wrapped with middlewares, used by RunTool
	raw         []Tool // unwrapped, kept so Use can re-apply from scratch
	middlewares []Middleware
}

// NewBasicToolSet creates a BasicToolSet holding the given tools.
func NewBasicToolSet(tools ...Tool) *BasicToolSet {
	s := &BasicToolSet{}
	for _, t := range tools {
		s.AddTool(t)
	}
	return s
}

// addTool is the storage hook behind AddTool and RegisterFunc.
func (s *BasicToolSet) addTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append(s.raw, t)
	s.tools = append(s.tools, wrapTool(t, s.middlewares))
}

// removeTool is the storage hook behind RemoveTool; it drops every tool with
// the given name.
func (s *BasicToolSet) removeTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keepRaw := s.raw[:0]
	for _, t := range s.raw {
		if t.Name() != name {
			keepRaw = append(keepRaw, t)
		}
	}
	s.raw = keepRaw
	keep := s.tools[:0]
	for _, t := range s.tools {
		if t.Name() != name {
			keep = append(keep, t)
		}
	}
	s.tools = keep
}

// AddTool registers an already-built tool.
func (s *BasicToolSet) AddTool(t Tool) {
	s.addTool(t)
}

// RegisterFunc builds a ToolWrapper from the function and registers it in one
// call. Schema-build failures are returned and nothing is registered.
func (s *BasicToolSet) RegisterFunc(name, description string, params []ParameterSpec, fn Handler, opts ...ToolOption) (*ToolWrapper, error) {
	w, err := NewTool(name, description, params, fn, opts...)
	if err != nil {
		return nil, err
	}
	s.addTool(w)
	return w, nil
}

// RemoveTool removes every tool registered under the given name.
func (s *BasicToolSet) RemoveTool(name string) {
	s.removeTool(name)
}

// RemoveToolFor removes the given tool by its own name.
func (s *BasicToolSet) RemoveToolFor(t Tool) {
	s.removeTool(t.Name())
}

// Use stores the middlewares and re-applies them from scratch to every
// registered tool (onion order: first middleware is outermost). Calling Use
// again replaces the chain, avoiding double-wrapping.
func (s *BasicToolSet) Use(middlewares ...Middleware) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middlewares = middlewares
	s.tools = s.tools[:0]
	for _, raw := range s.raw {
		s.tools = append(s.tools, wrapTool(raw, middlewares))
	}
}

func wrapTool(t Tool, middlewares []Middleware) Tool {
	for i := len(middlewares) - 1; i >= 0; i-- {
		t = middlewares[i](t)
	}
	return t
}

// ToolsSchema returns the schema of every registered tool, in registration
// order.
func (s *BasicToolSet) ToolsSchema() []ToolSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ToolSchema, len(s.tools))
	for i, t := range s.tools {
		out[i] = t.Schema()
	}
	return out
}

func (s *BasicToolSet) findTool(name string) (Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tools {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, &ToolNotFoundError{ToolName: name}
}

// RunTool resolves and calls one tool.
func (s *BasicToolSet) RunTool(ctx context.Context, use ToolUse) (*ToolResult, error) {
	tool, err := s.findTool(use.Name)
	if err != nil {
		return nil, err
	}
	raw, err := tool.Call(ctx, use.Input)
	if err != nil {
		return nil, err
	}
	return &ToolResult{
		UseID:               use.ID,
		Name:                tool.Name(),
		Raw:                 raw,
		saved:               tool.SaveReturn(),
		serialize:           tool.Serialize(),
		interpretAsResponse: tool.InterpretAsResponse(),
	}, nil
}

// UnionToolSet combines child tool sets with its own mutable mapping.
// Dispatch probes children in registration order before the set's own tools;
// a child's ErrToolNotFound moves the probe on to the next child, while any
// other error aborts immediately. Duplicate names across children are not
// deduplicated in the schema list; the first registrant wins at dispatch.
type UnionToolSet struct {
	BasicToolSet
	sets []ToolSet
}

// NewUnionToolSet creates a UnionToolSet over the given child sets.
func NewUnionToolSet(sets ...ToolSet) *UnionToolSet {
	return &UnionToolSet{sets: sets}
}

// AddSkill appends a child tool set, probed after all existing children.
func (u *UnionToolSet) AddSkill(set ToolSet) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sets = append(u.sets, set)
}

func (u *UnionToolSet) children() []ToolSet {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]ToolSet, len(u.sets))
	copy(out, u.sets)
	return out
}

// ToolsSchema lists the set's own tools followed by every child's, in
// registration order.
func (u *UnionToolSet) ToolsSchema() []ToolSchema {
	schemas := u.BasicToolSet.ToolsSchema()
	for _, set := range u.children() {
		schemas = append(schemas, set.ToolsSchema()...)
	}
	return schemas
}

// RunTool probes each child in order, then the set's own tools. A not-found
// error surfaces only after every child has been exhausted.
func (u *UnionToolSet) RunTool(ctx context.Context, use ToolUse) (*ToolResult, error) {
	for _, set := range u.children() {
		res, err := set.RunTool(ctx, use)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrToolNotFound) {
			return nil, err
		}
	}
	return u.BasicToolSet.RunTool(ctx, use)
}

var (
	_ ToolSet = (*BasicToolSet)(nil)
	_ ToolSet = (*UnionToolSet)(nil)
)
