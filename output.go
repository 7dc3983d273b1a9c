package toolchat

// ToolOutput is one content block a tool returns when it is registered with
// WithInterpretAsResponse(true). Each output converts to exactly one block in
// the next message; a TextOutput carrying its own ToolUseID overrides the
// triggering call's id.
type ToolOutput interface {
	// block renders the output, falling back to the triggering call's id.
	block(defaultUseID string) ContentBlock
}

// TextOutput is a textual tool output, wrapped in a tool_result block.
type TextOutput struct {
	Text      string
	IsError   bool
	ToolUseID string
}

func (o TextOutput) block(defaultUseID string) ContentBlock {
	useID := o.ToolUseID
	if useID == "" {
		useID = defaultUseID
	}
	return ContentBlock{
		Type:      BlockTypeToolResult,
		ToolUseID: useID,
		Content:   []ContentBlock{TextBlock(o.Text)},
		IsError:   o.IsError,
	}
}

// ImageOutput is an image tool output, sent as a plain image block.
type ImageOutput struct {
	Source ImageSource
}

func (o ImageOutput) block(string) ContentBlock {
	src := o.Source
	return ContentBlock{Type: BlockTypeImage, Source: &src}
}

var (
	_ ToolOutput = TextOutput{}
	_ ToolOutput = ImageOutput{}
)
