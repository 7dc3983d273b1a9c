// Package toolchat exposes ordinary Go functions as callable tools for a
// Claude-style chat API and drives the conversation loop that lets the model
// call them.
//
// # Overview
//
// The model produces tool-use blocks naming a tool and carrying a JSON
// argument object. This package turns those into concrete Go calls:
// a tool's input schema is built from type descriptors, incoming arguments
// are validated against that same schema and reconstructed into typed values,
// the wrapped function runs, and its result is shaped into a tool-result
// message the model sees on the next request. The loop repeats until the
// model answers without requesting a tool.
//
// Pipeline: ParameterSpec list (explicit or reflected from an argument
// struct) → NewTool → ToolWrapper → BasicToolSet/UnionToolSet → Conversation
// → ModelClient → tool-use blocks → RunTool → tool-result message → loop.
//
// # Key concepts
//
//   - Single Source of Truth: the TypeDescriptor tree drives both the schema
//     sent to the model and the validation and reconstruction of incoming
//     arguments.
//   - Fail fast: an unresolvable descriptor or an untagged struct field is an
//     error when the tool is built, never at call time.
//   - Enum-by-name: enum schemas list member names, and incoming names map
//     back to member values. EnumType.ByValue switches both directions for
//     consumers that expect underlying values.
//
// The model client is an external collaborator behind the ModelClient
// interface; this package implements no transport, retry, or persistence.
//
// # Example
//
//	conv := toolchat.NewConversation(client, toolchat.WithModel("claude-3-haiku-20240307"))
//	_, err := conv.RegisterFunc("get_time", "Get the current time", nil,
//	    func(_ context.Context, _ map[string]any) (any, error) {
//	        return time.Now().Format(time.RFC3339), nil
//	    })
//	if err != nil { ... }
//	msgs, err := conv.Ask(ctx, "What time is it?")
package toolchat
