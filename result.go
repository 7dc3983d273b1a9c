package toolchat

import (
	"encoding/json"
	"fmt"
)

// ToolResult is the outcome of one dispatched tool-use request: the raw
// return value of the wrapped function plus the flags that decide how it is
// shaped into message content.
type ToolResult struct {
	UseID string
	Name  string
	Raw   any

	saved               bool
	serialize           bool
	interpretAsResponse bool
}

// Saved reports whether the result produces a tool-result message at all.
func (r *ToolResult) Saved() bool { return r.saved }

// InterpretAsResponse reports whether the raw value is the next message's
// content directly instead of being wrapped in a tool_result block.
func (r *ToolResult) InterpretAsResponse() bool { return r.interpretAsResponse }

// Content renders the raw result as text: pretty-printed JSON when the tool
// serializes, plain fmt formatting otherwise. A value that fails required
// serialization returns *NonSerializableOutputError.
func (r *ToolResult) Content() (string, error) {
	if r.serialize {
		data, err := json.MarshalIndent(r.Raw, "", "  ")
		if err != nil {
			return "", &NonSerializableOutputError{Result: r.Raw}
		}
		return string(data), nil
	}
	return fmt.Sprint(r.Raw), nil
}

// ResponseBlocks converts the raw result into content blocks for
// interpret-as-response tools. Accepted shapes: a slice of ToolOutput values
// (each rendered with its own tool-use id, falling back to the triggering
// call's), a slice of raw ContentBlock values passed through as-is, a single
// ContentBlock, or a string. Anything else falls back to the textual Content
// rendering in a single text block.
func (r *ToolResult) ResponseBlocks() ([]ContentBlock, error) {
	switch v := r.Raw.(type) {
	case []ToolOutput:
		blocks := make([]ContentBlock, len(v))
		for i, out := range v {
			blocks[i] = out.block(r.UseID)
		}
		return blocks, nil
	case []ContentBlock:
		return v, nil
	case ContentBlock:
		return []ContentBlock{v}, nil
	case string:
		return []ContentBlock{TextBlock(v)}, nil
	}
	content, err := r.Content()
	if err != nil {
		return nil, err
	}
	return []ContentBlock{TextBlock(content)}, nil
}

// resultMessage shapes the result into zero or one conversation message.
// Fire-and-forget results produce none; interpret-as-response results become
// raw content; everything else becomes a tool_result block tagged with the
// triggering tool-use id. Tool results travel with the user role, per the
// upstream convention.
func (r *ToolResult) resultMessage() (*Message, error) {
	if !r.saved {
		return nil, nil
	}
	if r.interpretAsResponse {
		blocks, err := r.ResponseBlocks()
		if err != nil {
			return nil, err
		}
		return &Message{Role: RoleUser, Content: blocks}, nil
	}
	content, err := r.Content()
	if err != nil {
		return nil, err
	}
	return &Message{
		Role: RoleUser,
		Content: []ContentBlock{{
			Type:      BlockTypeToolResult,
			ToolUseID: r.UseID,
			Content:   []ContentBlock{TextBlock(content)},
		}},
	}, nil
}
