package toolchat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultContentSerialized(t *testing.T) {
	r := &ToolResult{Raw: map[string]any{"x": 1}, serialize: true}
	content, err := r.Content()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"x\": 1\n}", content)
}

func TestResultContentPlain(t *testing.T) {
	r := &ToolResult{Raw: map[string]any{"x": 1}, serialize: false}
	content, err := r.Content()
	require.NoError(t, err)
	assert.Equal(t, "map[x:1]", content)
}

func TestResultContentNonSerializable(t *testing.T) {
	r := &ToolResult{Raw: make(chan int), serialize: true}
	_, err := r.Content()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonSerializable)

	// The same value renders fine without serialization.
	r.serialize = false
	_, err = r.Content()
	require.NoError(t, err)
}

func TestResultMessageDefault(t *testing.T) {
	r := &ToolResult{
		UseID:     "use_1",
		Name:      "get_weather",
		Raw:       map[string]any{"temp": 22},
		saved:     true,
		serialize: true,
	}
	msg, err := r.resultMessage()
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, RoleUser, msg.Role)
	require.Len(t, msg.Content, 1)
	block := msg.Content[0]
	assert.Equal(t, BlockTypeToolResult, block.Type)
	assert.Equal(t, "use_1", block.ToolUseID)
	require.Len(t, block.Content, 1)
	assert.Equal(t, "{\n  \"temp\": 22\n}", block.Content[0].Text)
}

func TestResultMessageFireAndForget(t *testing.T) {
	r := &ToolResult{UseID: "use_1", Raw: "ignored", saved: false}
	msg, err := r.resultMessage()
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestResultMessageInterpreted(t *testing.T) {
	r := &ToolResult{
		UseID: "use_1",
		Raw: []ToolOutput{
			TextOutput{Text: "done"},
			ImageOutput{Source: ImageSource{Type: "base64", MediaType: "image/png", Data: "aGk="}},
		},
		saved:               true,
		interpretAsResponse: true,
	}
	msg, err := r.resultMessage()
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, RoleUser, msg.Role)
	require.Len(t, msg.Content, 2)
	assert.Equal(t, BlockTypeToolResult, msg.Content[0].Type)
	assert.Equal(t, "use_1", msg.Content[0].ToolUseID)
	assert.Equal(t, BlockTypeImage, msg.Content[1].Type)
}

func TestResponseBlocksShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []ContentBlock
	}{
		{
			"string",
			"plain answer",
			[]ContentBlock{TextBlock("plain answer")},
		},
		{
			"single block",
			TextBlock("as block"),
			[]ContentBlock{TextBlock("as block")},
		},
		{
			"block slice",
			[]ContentBlock{TextBlock("a"), TextBlock("b")},
			[]ContentBlock{TextBlock("a"), TextBlock("b")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ToolResult{Raw: tt.raw, serialize: true}
			got, err := r.ResponseBlocks()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponseBlocksFallbackToContent(t *testing.T) {
	r := &ToolResult{Raw: map[string]any{"x": 1}, serialize: true}
	blocks, err := r.ResponseBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "{\n  \"x\": 1\n}", blocks[0].Text)
}
