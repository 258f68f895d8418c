package core

// Role is the author of one conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a chat session
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
