// Package testutil provides test helpers for toolchat (e.g. MockTool and
// a scripted MockClient).
package testutil

import (
	"context"

	"github.com/skosovsky/toolchat"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal      string
	SchemaVal    toolchat.ToolSchema
	CallFn       func(ctx context.Context, args map[string]any) (any, error)
	SaveVal      *bool
	SerializeVal *bool
	InterpretVal bool
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Schema returns the configured schema, filling in the name.
func (m *MockTool) Schema() toolchat.ToolSchema {
	s := m.SchemaVal
	if s.Name == "" {
		s.Name = m.Name()
	}
	if s.InputSchema == nil {
		s.InputSchema = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return s
}

// Call runs CallFn if set, otherwise returns nil.
func (m *MockTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if m.CallFn != nil {
		return m.CallFn(ctx, args)
	}
	return nil, nil
}

// SaveReturn defaults to true unless SaveVal is set.
func (m *MockTool) SaveReturn() bool {
	if m.SaveVal != nil {
		return *m.SaveVal
	}
	return true
}

// Serialize defaults to true unless SerializeVal is set.
func (m *MockTool) Serialize() bool {
	if m.SerializeVal != nil {
		return *m.SerializeVal
	}
	return true
}

// InterpretAsResponse reports InterpretVal.
func (m *MockTool) InterpretAsResponse() bool {
	return m.InterpretVal
}

// Ensure MockTool implements Tool.
var _ toolchat.Tool = (*MockTool)(nil)

// MockClient is a scripted ModelClient: each CreateMessage call pops the next
// response off the script. Requests are recorded for assertions.
type MockClient struct {
	Script   []toolchat.Message
	Requests []toolchat.MessageRequest
	Err      error
}

// CreateMessage records the request and returns the next scripted message, or
// Err when the script is exhausted.
func (c *MockClient) CreateMessage(_ context.Context, req toolchat.MessageRequest) (*toolchat.Message, error) {
	c.Requests = append(c.Requests, req)
	if len(c.Script) == 0 {
		if c.Err != nil {
			return nil, c.Err
		}
		m := toolchat.AssistantMessage("done")
		return &m, nil
	}
	m := c.Script[0]
	c.Script = c.Script[1:]
	return &m, nil
}

// Ensure MockClient implements ModelClient.
var _ toolchat.ModelClient = (*MockClient)(nil)

// ToolUseMessage builds an assistant message carrying a single tool-use block,
// the shape the dispatch loop reacts to.
func ToolUseMessage(id, name string, input map[string]any) toolchat.Message {
	return toolchat.Message{
		Role: toolchat.RoleAssistant,
		Content: []toolchat.ContentBlock{{
			Type:  toolchat.BlockTypeToolUse,
			ID:    id,
			Name:  name,
			Input: input,
		}},
	}
}

// NewTestSet returns a BasicToolSet preloaded with the given tools.
func NewTestSet(tools ...toolchat.Tool) *toolchat.BasicToolSet {
	return toolchat.NewBasicToolSet(tools...)
}
