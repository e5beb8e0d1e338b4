package domain

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation history entry.
type Message struct {
	Role      string
	Content   string
	Intent    Intent
	CreatedAt time.Time
}
