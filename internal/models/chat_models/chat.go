package chat_models

type ConversationStatus string

const (
	StatusActive    ConversationStatus = "active"
	StatusCompleted ConversationStatus = "completed"
	StatusArchived  ConversationStatus = "archived"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           Role   `json:"role"`
	Content        string `json:"content"`
	FinishReason   string `json:"finish_reason,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// Conversation is one chat thread. Messages are append-only and ordered by
// arrival; nothing reorders or removes them short of deleting the whole
// conversation.
type Conversation struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Status       ConversationStatus `json:"status"`
	TravelPlanID string             `json:"travel_plan_id,omitempty"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
	Messages     []Message          `json:"messages"`
}

type ConversationSummary struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Status      ConversationStatus `json:"status"`
	LastMessage string             `json:"last_message,omitempty"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

type CreateConversationResponse struct {
	ConversationID string  `json:"conversation_id"`
	Message        Message `json:"message"`
}

// StreamChunk is one decoded SSE frame from the message stream. A chunk
// with FinishReason set is the terminal frame of the assistant turn.
type StreamChunk struct {
	Token        string `json:"token"`
	FinishReason string `json:"finish_reason,omitempty"`
}
