package domain

// Chat roles understood by every completion provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is caller-owned chat history. The service never keeps one.
type Conversation []ChatMessage

// Append returns a new conversation with msg added, leaving c untouched.
func (c Conversation) Append(msg ChatMessage) Conversation {
	out := make(Conversation, 0, len(c)+1)
	out = append(out, c...)
	return append(out, msg)
}
