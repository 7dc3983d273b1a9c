package toolchat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptClient returns canned messages in order and records every request.
type scriptClient struct {
	script   []Message
	requests []MessageRequest
	err      error
}

func (c *scriptClient) CreateMessage(_ context.Context, req MessageRequest) (*Message, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.script) == 0 {
		m := AssistantMessage("out of script")
		return &m, nil
	}
	m := c.script[0]
	c.script = c.script[1:]
	return &m, nil
}

func toolUseMessage(id, name string, input map[string]any) Message {
	return Message{
		Role: RoleAssistant,
		Content: []ContentBlock{{
			Type:  BlockTypeToolUse,
			ID:    id,
			Name:  name,
			Input: input,
		}},
	}
}

func TestConversationHistory(t *testing.T) {
	conv := NewConversation(&scriptClient{})
	conv.AddMessage(UserMessage("one"))
	conv.AddMessages([]Message{AssistantMessage("two"), UserMessage("three")})

	msgs := conv.Messages()
	require.Len(t, msgs, 3)

	// Negative index pops from the end.
	popped, err := conv.PopMessage(-1)
	require.NoError(t, err)
	assert.Equal(t, "three", popped.Content[0].Text)
	assert.Len(t, conv.Messages(), 2)

	popped, err = conv.PopMessage(0)
	require.NoError(t, err)
	assert.Equal(t, "one", popped.Content[0].Text)

	_, err = conv.PopMessage(5)
	require.Error(t, err)

	conv.ClearMessages()
	assert.Empty(t, conv.Messages())
}

func TestConversationMessagesIsCopy(t *testing.T) {
	conv := NewConversation(&scriptClient{})
	conv.AddMessage(UserMessage("original"))
	msgs := conv.Messages()
	msgs[0] = UserMessage("mutated")
	assert.Equal(t, "original", conv.Messages()[0].Content[0].Text)
}

func TestAskWithoutTools(t *testing.T) {
	client := &scriptClient{script: []Message{AssistantMessage("42")}}
	conv := NewConversation(client)

	produced, err := conv.Ask(context.Background(), "what is the answer?")
	require.NoError(t, err)
	require.Len(t, produced, 1)
	assert.Equal(t, "42", produced[0].Content[0].Text)

	// History: user question, assistant answer.
	require.Len(t, conv.Messages(), 2)

	req := client.requests[0]
	assert.Equal(t, DefaultModel, req.Model)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
}

func TestAskWithOneToolRoundTrip(t *testing.T) {
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "get_weather", map[string]any{"city": "Moscow"}),
		AssistantMessage("It is sunny in Moscow."),
	}}
	conv := NewConversation(client)
	_, err := conv.RegisterFunc("get_weather", "Look up weather.",
		[]ParameterSpec{{Name: "city", Type: StringType{}}},
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"city": args["city"], "temp": 22}, nil
		})
	require.NoError(t, err)

	produced, err := conv.Ask(context.Background(), "weather in Moscow?")
	require.NoError(t, err)

	// Three messages come back: the tool-use turn, the tool result, and the
	// final answer.
	require.Len(t, produced, 3)
	assert.Equal(t, RoleAssistant, produced[0].Role)
	assert.Equal(t, BlockTypeToolUse, produced[0].Content[0].Type)
	assert.Equal(t, RoleUser, produced[1].Role)
	assert.Equal(t, BlockTypeToolResult, produced[1].Content[0].Type)
	assert.Equal(t, "use_1", produced[1].Content[0].ToolUseID)
	assert.Equal(t, "It is sunny in Moscow.", produced[2].Content[0].Text)

	// The second request carried the tool result back to the model.
	require.Len(t, client.requests, 2)
	second := client.requests[1]
	last := second.Messages[len(second.Messages)-1]
	assert.Equal(t, RoleUser, last.Role)
	assert.Equal(t, BlockTypeToolResult, last.Content[0].Type)

	// Tool schemas ride on every request.
	require.Len(t, second.Tools, 1)
	assert.Equal(t, "get_weather", second.Tools[0].Name)
}

func TestAskFireAndForgetTool(t *testing.T) {
	var logged []string
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "log_event", map[string]any{"event": "clicked"}),
		AssistantMessage("Noted."),
	}}
	conv := NewConversation(client)
	_, err := conv.RegisterFunc("log_event", "Record an event.",
		[]ParameterSpec{{Name: "event", Type: StringType{}}},
		func(_ context.Context, args map[string]any) (any, error) {
			logged = append(logged, args["event"].(string))
			return nil, nil
		}, WithSaveReturn(false))
	require.NoError(t, err)

	produced, err := conv.Ask(context.Background(), "note that I clicked")
	require.NoError(t, err)

	// No tool-result message: just the tool-use turn and the follow-up.
	require.Len(t, produced, 2)
	assert.Equal(t, []string{"clicked"}, logged)
	assert.Equal(t, "Noted.", produced[1].Content[0].Text)
	require.Len(t, client.requests, 2)
}

func TestAskInterpretAsResponseTool(t *testing.T) {
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "render", nil),
		AssistantMessage("Here is your chart."),
	}}
	conv := NewConversation(client)
	_, err := conv.RegisterFunc("render", "Render a chart.", nil,
		func(_ context.Context, _ map[string]any) (any, error) {
			return []ToolOutput{
				TextOutput{Text: "rendered"},
				ImageOutput{Source: ImageSource{Type: "base64", MediaType: "image/png", Data: "aGk="}},
			}, nil
		}, WithInterpretAsResponse(true))
	require.NoError(t, err)

	produced, err := conv.Ask(context.Background(), "chart please")
	require.NoError(t, err)
	require.Len(t, produced, 3)
	interp := produced[1]
	assert.Equal(t, RoleUser, interp.Role)
	require.Len(t, interp.Content, 2)
	assert.Equal(t, BlockTypeToolResult, interp.Content[0].Type)
	assert.Equal(t, "use_1", interp.Content[0].ToolUseID)
	assert.Equal(t, BlockTypeImage, interp.Content[1].Type)
}

func TestRunUntilResponseToolError(t *testing.T) {
	boom := errors.New("backend down")
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "broken", nil),
	}}
	conv := NewConversation(client)
	_, err := conv.RegisterFunc("broken", "Always fails.", nil,
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, boom
		})
	require.NoError(t, err)

	produced, err := conv.Ask(context.Background(), "try it")
	assert.ErrorIs(t, err, boom)
	// The tool-use turn was still produced before the failure.
	require.Len(t, produced, 1)
}

func TestRunUntilResponseUnknownTool(t *testing.T) {
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "ghost", nil),
	}}
	conv := NewConversation(client)

	_, err := conv.Ask(context.Background(), "call the ghost")
	require.Error(t, err)
	assert.True(t, IsToolNotFound(err))
}

func TestRunUntilResponseIterationLimit(t *testing.T) {
	// The script always answers with another tool use.
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "again", nil),
		toolUseMessage("use_2", "again", nil),
		toolUseMessage("use_3", "again", nil),
	}}
	conv := NewConversation(client, WithMaxIterations(2))
	_, err := conv.RegisterFunc("again", "Ask for more.", nil,
		func(_ context.Context, _ map[string]any) (any, error) {
			return "more", nil
		})
	require.NoError(t, err)

	_, err = conv.Ask(context.Background(), "loop forever")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIterationLimit)
	assert.Len(t, client.requests, 2)
}

func TestRunUntilResponseClientError(t *testing.T) {
	sentinel := errors.New("transport failed")
	conv := NewConversation(&scriptClient{err: sentinel})
	_, err := conv.Ask(context.Background(), "hello?")
	assert.ErrorIs(t, err, sentinel)
}

func TestGenerateMessageSingleStep(t *testing.T) {
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "echo", map[string]any{"v": "x"}),
	}}
	conv := NewConversation(client)
	_, err := conv.RegisterFunc("echo", "Echo.",
		[]ParameterSpec{{Name: "v", Type: StringType{}}},
		func(_ context.Context, args map[string]any) (any, error) {
			return args["v"], nil
		})
	require.NoError(t, err)
	conv.AddMessage(UserMessage("echo x"))

	// First step requests the model and gets the tool-use turn.
	msg, err := conv.GenerateMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BlockTypeToolUse, msg.Content[0].Type)

	// Second step runs the pending tool instead of calling the model again.
	msg, err = conv.GenerateMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BlockTypeToolResult, msg.Content[0].Type)
	assert.Len(t, client.requests, 1)
}

func TestMergeSameRoleMessages(t *testing.T) {
	conv := NewConversation(&scriptClient{})
	conv.AddMessages([]Message{
		UserMessage("a"),
		UserMessage("b"),
		AssistantMessage("c"),
		UserMessage("d"),
	})
	conv.mergeSameRoleMessages()

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	require.Len(t, msgs[0].Content, 2)
	assert.Equal(t, "a", msgs[0].Content[0].Text)
	assert.Equal(t, "b", msgs[0].Content[1].Text)
	assert.Equal(t, "c", msgs[1].Content[0].Text)
	assert.Equal(t, "d", msgs[2].Content[0].Text)
}

func TestConversationOptions(t *testing.T) {
	client := &scriptClient{script: []Message{AssistantMessage("ok")}}
	conv := NewConversation(client,
		WithModel("claude-3-opus-20240229"),
		WithMaxTokens(2048),
		WithSystem("be brief"),
	)
	_, err := conv.Ask(context.Background(), "hi")
	require.NoError(t, err)

	req := client.requests[0]
	assert.Equal(t, "claude-3-opus-20240229", req.Model)
	assert.Equal(t, 2048, req.MaxTokens)
	assert.Equal(t, "be brief", req.System)
}

func TestRequestOptionsOverridePerCall(t *testing.T) {
	client := &scriptClient{script: []Message{AssistantMessage("ok")}}
	conv := NewConversation(client, WithModel("base-model"))

	_, err := conv.Ask(context.Background(), "hi",
		WithRequestModel("override-model"), WithRequestMaxTokens(16))
	require.NoError(t, err)
	assert.Equal(t, "override-model", client.requests[0].Model)
	assert.Equal(t, 16, client.requests[0].MaxTokens)
}

func TestConversationWithSkills(t *testing.T) {
	child := NewBasicToolSet(constTool(t, "from_skill", "v"))
	client := &scriptClient{script: []Message{
		toolUseMessage("use_1", "from_skill", nil),
		AssistantMessage("done"),
	}}
	conv := NewConversation(client, WithSkills(child))

	produced, err := conv.Ask(context.Background(), "use the skill")
	require.NoError(t, err)
	assert.Len(t, produced, 3)

	// The skill's schema is visible on the request.
	require.Len(t, client.requests[0].Tools, 1)
	assert.Equal(t, "from_skill", client.requests[0].Tools[0].Name)
}
