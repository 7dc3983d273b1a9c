package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/toolchat"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMockTool(t *testing.T) {
	m := &MockTool{
		NameVal: "test_tool",
		CallFn: func(_ context.Context, args map[string]any) (any, error) {
			return args["x"], nil
		},
	}
	assert.Equal(t, "test_tool", m.Name())
	assert.Equal(t, "test_tool", m.Schema().Name)
	assert.True(t, m.SaveReturn())
	assert.True(t, m.Serialize())
	assert.False(t, m.InterpretAsResponse())

	out, err := m.Call(context.Background(), map[string]any{"x": 7})
	require.NoError(t, err)
	assert.Equal(t, 7, out)
}

func TestMockToolFlagOverrides(t *testing.T) {
	off := false
	m := &MockTool{SaveVal: &off, SerializeVal: &off, InterpretVal: true}
	assert.False(t, m.SaveReturn())
	assert.False(t, m.Serialize())
	assert.True(t, m.InterpretAsResponse())
}

func TestMockClientScript(t *testing.T) {
	c := &MockClient{Script: []toolchat.Message{
		toolchat.AssistantMessage("first"),
		toolchat.AssistantMessage("second"),
	}}

	ctx := context.Background()
	m1, err := c.CreateMessage(ctx, toolchat.MessageRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "first", m1.Content[0].Text)

	m2, err := c.CreateMessage(ctx, toolchat.MessageRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "second", m2.Content[0].Text)

	require.Len(t, c.Requests, 2)
	assert.Equal(t, "m", c.Requests[0].Model)
}

func TestNewTestSet(t *testing.T) {
	m := &MockTool{NameVal: "m"}
	set := NewTestSet(m)
	schemas := set.ToolsSchema()
	require.Len(t, schemas, 1)
	assert.Equal(t, "m", schemas[0].Name)
}
