package model

// Message roles for text-completion requests
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged entry of a text-completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
