package toolchat

import "log/slog"

// toolOptions hold the per-tool behavior flags. All three default to the
// save-and-serialize behavior: the return value becomes a JSON tool-result
// block tagged with the triggering tool-use id.
type toolOptions struct {
	saveReturn          bool
	serialize           bool
	interpretAsResponse bool
}

func defaultToolOptions() toolOptions {
	return toolOptions{saveReturn: true, serialize: true}
}

// ToolOption configures a tool's result handling.
type ToolOption func(*toolOptions)

// WithSaveReturn controls whether the tool's return value produces a
// tool-result message at all. Pass false for fire-and-forget tools; the loop
// then proceeds directly to requesting the model again.
func WithSaveReturn(save bool) ToolOption {
	return func(o *toolOptions) {
		o.saveReturn = save
	}
}

// WithSerialize controls how a saved return value becomes text: JSON
// serialization when true (the default), plain fmt formatting when false.
func WithSerialize(serialize bool) ToolOption {
	return func(o *toolOptions) {
		o.serialize = serialize
	}
}

// WithInterpretAsResponse makes the return value the next message's content
// directly: raw content blocks, or a slice of ToolOutput values, instead of
// the default tool-result wrapping.
func WithInterpretAsResponse(interpret bool) ToolOption {
	return func(o *toolOptions) {
		o.interpretAsResponse = interpret
	}
}

// ConversationOption configures a Conversation.
type ConversationOption func(*conversationOptions)

type conversationOptions struct {
	model         string
	maxTokens     int
	system        string
	maxIterations int
	skills        []ToolSet
	logger        *slog.Logger
}

// WithModel sets the model name sent with every request.
func WithModel(model string) ConversationOption {
	return func(o *conversationOptions) {
		o.model = model
	}
}

// WithMaxTokens sets the per-request token limit.
func WithMaxTokens(n int) ConversationOption {
	return func(o *conversationOptions) {
		o.maxTokens = n
	}
}

// WithSystem sets the system prompt sent with every request.
func WithSystem(system string) ConversationOption {
	return func(o *conversationOptions) {
		o.system = system
	}
}

// WithMaxIterations caps the number of model requests one Ask or
// RunUntilResponse may make. The base contract is unbounded (the model
// decides when to stop requesting tools); the cap is a safety valve against
// tools that always trigger another tool use. 0 means no cap.
func WithMaxIterations(n int) ConversationOption {
	return func(o *conversationOptions) {
		o.maxIterations = n
	}
}

// WithSkills seeds the conversation's root tool set with child sets.
func WithSkills(sets ...ToolSet) ConversationOption {
	return func(o *conversationOptions) {
		o.skills = append(o.skills, sets...)
	}
}

// WithConversationLogger sets the logger for request and dispatch events.
// Pass nil to use slog.Default().
func WithConversationLogger(logger *slog.Logger) ConversationOption {
	return func(o *conversationOptions) {
		o.logger = logger
	}
}

// WithConfig applies a loaded Config. Zero-valued fields are ignored so a
// partial config file overrides only what it names.
func WithConfig(cfg *Config) ConversationOption {
	return func(o *conversationOptions) {
		if cfg == nil {
			return
		}
		if cfg.Model != "" {
			o.model = cfg.Model
		}
		if cfg.MaxTokens > 0 {
			o.maxTokens = cfg.MaxTokens
		}
		if cfg.System != "" {
			o.system = cfg.System
		}
		if cfg.MaxIterations > 0 {
			o.maxIterations = cfg.MaxIterations
		}
	}
}

// RequestOption overrides one request's parameters without touching the
// conversation-level settings.
type RequestOption func(*MessageRequest)

// WithRequestModel overrides the model for this request only.
func WithRequestModel(model string) RequestOption {
	return func(r *MessageRequest) {
		r.Model = model
	}
}

// WithRequestMaxTokens overrides max tokens for this request only.
func WithRequestMaxTokens(n int) RequestOption {
	return func(r *MessageRequest) {
		r.MaxTokens = n
	}
}
