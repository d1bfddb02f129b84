package chat

// Role tags the author of a ChatMessage.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn, stored in the chat log as {"role","content"}.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
