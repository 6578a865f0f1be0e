package transport

import "github.com/google/uuid"

// ChatRequest is the request body for the assistant chat endpoint.
type ChatRequest struct {
	BusinessID     uuid.UUID `json:"businessId" validate:"required"`
	UserName       string    `json:"userName,omitempty" validate:"max=200"`
	Message        string    `json:"message" validate:"required,max=4000"`
	ConversationID string    `json:"conversationId,omitempty" validate:"omitempty,uuid"`
	Channel        string    `json:"channel,omitempty" validate:"omitempty,oneof=web whatsapp email"`
}

// ToolAction records one notification the assistant triggered while
// answering. Skipped tool calls produce no entry.
type ToolAction struct {
	Tool   string `json:"tool"`
	Action string `json:"action"`
	To     string `json:"to"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply          string       `json:"reply"`
	ConversationID string       `json:"conversationId"`
	Intent         string       `json:"intent"`
	ToolActions    []ToolAction `json:"toolActions"`
	DocumentsUsed  []string     `json:"documentsUsed"`
}
