package toolchat

// Message roles, per the upstream convention. Tool results travel in
// user-role messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	BlockTypeText       = "text"
	BlockTypeImage      = "image"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// ImageSource is the payload of an image block.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ContentBlock is one block of message content. The populated fields depend
// on Type: Text for text blocks, Source for image blocks, ID/Name/Input for
// tool-use blocks, ToolUseID/Content/IsError for tool-result blocks.
type ContentBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	Source    *ImageSource   `json:"source,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   []ContentBlock `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

// Message is one entry of the conversation history.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockTypeText, Text: text}
}

// UserMessage builds a user message with a single text block.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// AssistantMessage builds an assistant message with a single text block.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentBlock{TextBlock(text)}}
}

// ToolUse is the model's structured request to invoke a named tool.
type ToolUse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// toolUseOf extracts the ToolUse request from a tool-use block.
func toolUseOf(b ContentBlock) ToolUse {
	return ToolUse{ID: b.ID, Name: b.Name, Input: b.Input}
}

// containsCall reports whether a message carries a tool_use or tool_result
// block, meaning the dispatch loop is not done yet.
func containsCall(m Message) bool {
	for _, b := range m.Content {
		if b.Type == BlockTypeToolUse || b.Type == BlockTypeToolResult {
			return true
		}
	}
	return false
}
