package models

// Reply type discriminants for ChatReply.
const (
	ReplyTypeProduct       = "product"
	ReplyTypeCompatibility = "compatibility"
)

// ConversationContext is the ephemeral per-request context the UI round-trips
// with each chat call. There is no server-side session store; the last part
// number a conversation touched lets follow-ups like "is this part compatible
// with model X?" resolve without repeating the part number.
type ConversationContext struct {
	LastPartNumber string `json:"lastPartNumber,omitempty"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string              `json:"message"`
	Context ConversationContext `json:"context,omitempty"`
}

// ChatReply is the assistant-shaped response returned to the UI. Type and Data
// are set only when the reply carries a structured payload (a product card or
// a compatibility result).
type ChatReply struct {
	Role    string      `json:"role"`
	Content string      `json:"content"`
	Type    string      `json:"type,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// CompatibilityResult is the payload for compatibility lookups, both on the
// chat path and on GET /api/compatibility. Compatible reports whether the
// model is known to the catalog; the per-part verdict for a specific part
// number is carried in the chat reply's content.
type CompatibilityResult struct {
	Compatible   bool      `json:"compatible"`
	ModelNumber  string    `json:"modelNumber,omitempty"`
	Refrigerator []string  `json:"refrigerator,omitempty"`
	Dishwasher   []string  `json:"dishwasher,omitempty"`
	Products     []Product `json:"products,omitempty"`
	Message      string    `json:"message,omitempty"`
}

// ErrorResponse is the plain error shape for client errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
