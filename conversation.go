package toolchat

import (
	"context"
	"fmt"
	"log/slog"
)

// Default request parameters, used when no option overrides them.
const (
	DefaultModel     = "claude-3-haiku-20240307"
	DefaultMaxTokens = 1024
)

// MessageRequest is one request to the model client: the full ordered message
// history, the current tool schema list, and the generation parameters.
type MessageRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []Message    `json:"messages"`
	Tools     []ToolSchema `json:"tools,omitempty"`
}

// ModelClient is the external model boundary. Implementations own transport,
// authentication, and any retry policy; the conversation only builds requests
// and consumes responses. Any subset of the returned message's blocks may be
// tool-use blocks.
type ModelClient interface {
	CreateMessage(ctx context.Context, req MessageRequest) (*Message, error)
}

// Conversation owns an ordered message history and one root tool set, and
// runs the request/dispatch loop against the model client. One Conversation
// per logical session; it is not safe for concurrent use.
type Conversation struct {
	client   ModelClient
	skills   *UnionToolSet
	messages []Message
	opts     conversationOptions
	logger   *slog.Logger
}

// NewConversation creates a Conversation bound to the given model client.
func NewConversation(client ModelClient, opts ...ConversationOption) *Conversation {
	o := conversationOptions{
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Conversation{
		client: client,
		skills: NewUnionToolSet(o.skills...),
		opts:   o,
		logger: logger,
	}
}

// AddMessage appends one message to the history.
func (c *Conversation) AddMessage(m Message) {
	c.messages = append(c.messages, m)
}

// AddMessages appends messages in order.
func (c *Conversation) AddMessages(msgs []Message) {
	c.messages = append(c.messages, msgs...)
}

// PopMessage removes and returns the message at index i. Negative indices
// count from the end, so PopMessage(-1) removes the latest message.
func (c *Conversation) PopMessage(i int) (Message, error) {
	if i < 0 {
		i += len(c.messages)
	}
	if i < 0 || i >= len(c.messages) {
		return Message{}, fmt.Errorf("message index %d out of range", i)
	}
	m := c.messages[i]
	c.messages = append(c.messages[:i], c.messages[i+1:]...)
	return m, nil
}

// ClearMessages empties the history. The tool set is never touched.
func (c *Conversation) ClearMessages() {
	c.messages = nil
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ToolsSchema returns the schema list of the root tool set.
func (c *Conversation) ToolsSchema() []ToolSchema {
	return c.skills.ToolsSchema()
}

// AddTool registers an already-built tool in the root set.
func (c *Conversation) AddTool(t Tool) {
	c.skills.AddTool(t)
}

// RegisterFunc builds and registers a tool from a function in one call.
func (c *Conversation) RegisterFunc(name, description string, params []ParameterSpec, fn Handler, opts ...ToolOption) (*ToolWrapper, error) {
	return c.skills.RegisterFunc(name, description, params, fn, opts...)
}

// RemoveTool removes a tool from the root set by name.
func (c *Conversation) RemoveTool(name string) {
	c.skills.RemoveTool(name)
}

// AddSkill appends a child tool set to the root union.
func (c *Conversation) AddSkill(set ToolSet) {
	c.skills.AddSkill(set)
}

// Ask appends the question as a user message and runs the loop until the
// model answers without requesting a tool. The returned slice is every
// message produced during the call, in order: assistant messages and
// tool-result messages alike, since the model may emit explanatory text
// before and after a tool call.
func (c *Conversation) Ask(ctx context.Context, question string, opts ...RequestOption) ([]Message, error) {
	c.AddMessage(UserMessage(question))
	return c.RunUntilResponse(ctx, opts...)
}

// RunUntilResponse drives the dispatch loop: request the model, run any
// tool-use blocks in the response in the order returned, append their result
// messages, and repeat until a response carries no tool calls. Errors from
// dispatch or the client abort the loop and are returned alongside the
// messages produced so far. When a max-iterations cap is configured,
// exceeding it returns ErrIterationLimit.
func (c *Conversation) RunUntilResponse(ctx context.Context, opts ...RequestOption) ([]Message, error) {
	var produced []Message
	requests := 0
	for {
		results, ran, err := c.runPendingTools(ctx)
		produced = append(produced, results...)
		if err != nil {
			return produced, err
		}
		if ran && len(results) > 0 {
			continue
		}
		if c.opts.maxIterations > 0 && requests >= c.opts.maxIterations {
			return produced, fmt.Errorf("%w after %d requests", ErrIterationLimit, requests)
		}
		msg, err := c.request(ctx, opts...)
		if err != nil {
			return produced, err
		}
		requests++
		produced = append(produced, msg)
		if !containsCall(msg) {
			return produced, nil
		}
	}
}

// GenerateMessage performs one step of the loop: it either dispatches the
// pending tool calls of the latest message and returns the last result
// message, or requests the model once and returns its response.
func (c *Conversation) GenerateMessage(ctx context.Context, opts ...RequestOption) (Message, error) {
	results, ran, err := c.runPendingTools(ctx)
	if err != nil {
		return Message{}, err
	}
	if ran && len(results) > 0 {
		return results[len(results)-1], nil
	}
	return c.request(ctx, opts...)
}

// runPendingTools dispatches every tool-use block of the latest message, in
// the order the model returned them, appending the shaped result messages to
// the history. ran reports whether any tool-use block was seen at all, even
// if every tool was fire-and-forget and no message was appended.
func (c *Conversation) runPendingTools(ctx context.Context) (results []Message, ran bool, err error) {
	if len(c.messages) == 0 {
		return nil, false, nil
	}
	last := c.messages[len(c.messages)-1]
	if last.Role != RoleAssistant {
		return nil, false, nil
	}
	for _, block := range last.Content {
		if block.Type != BlockTypeToolUse {
			continue
		}
		ran = true
		c.logger.Debug("dispatching tool", "tool", block.Name, "tool_use_id", block.ID)
		res, runErr := c.skills.RunTool(ctx, toolUseOf(block))
		if runErr != nil {
			return results, true, runErr
		}
		msg, msgErr := res.resultMessage()
		if msgErr != nil {
			return results, true, msgErr
		}
		if msg != nil {
			c.AddMessage(*msg)
			results = append(results, *msg)
		}
	}
	return results, ran, nil
}

// request sends the full history plus the current tool schemas to the model
// client and appends the response.
func (c *Conversation) request(ctx context.Context, opts ...RequestOption) (Message, error) {
	c.mergeSameRoleMessages()
	req := MessageRequest{
		Model:     c.opts.model,
		MaxTokens: c.opts.maxTokens,
		System:    c.opts.system,
		Messages:  c.messages,
		Tools:     c.ToolsSchema(),
	}
	for _, opt := range opts {
		opt(&req)
	}
	c.logger.Debug("requesting model", "model", req.Model, "messages", len(req.Messages), "tools", len(req.Tools))
	resp, err := c.client.CreateMessage(ctx, req)
	if err != nil {
		return Message{}, err
	}
	c.AddMessage(*resp)
	return *resp, nil
}

// mergeSameRoleMessages joins adjacent messages with the same role into one,
// concatenating their content blocks. The upstream API expects alternating
// roles, and several tool results in a row all carry the user role.
func (c *Conversation) mergeSameRoleMessages() {
	if len(c.messages) == 0 {
		return
	}
	merged := []Message{c.messages[0]}
	for _, m := range c.messages[1:] {
		last := &merged[len(merged)-1]
		if m.Role == last.Role {
			last.Content = append(last.Content, m.Content...)
		} else {
			merged = append(merged, m)
		}
	}
	c.messages = merged
}
