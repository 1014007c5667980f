package entity

// Chat roles understood by the completion API.
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

// ChatRequest is a user message addressed to an INFT persona. Instructions
// take precedence; otherwise they are built from Description and ModelID.
type ChatRequest struct {
	Message      string        `json:"message"`
	Instructions string        `json:"instructions,omitempty"`
	Description  string        `json:"description,omitempty"`
	ModelID      string        `json:"atomaModelId,omitempty"`
	History      []ChatMessage `json:"chatHistory,omitempty"`
}

// ChatReply is the persona's answer.
type ChatReply struct {
	Response string `json:"response"`
}
