package api

import "time"

// Message is a single chat message in the provider-agnostic conversation
// format. Content is plain text; lokal serves text completion backends.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage holds token accounting for one completion. TotalTokens is always
// the sum of PromptTokens and CompletionTokens.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one completion candidate inside a ModelResponse.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// ModelResponse is the unified, provider-agnostic completion result.
// One ModelResponse is produced per input prompt.
type ModelResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// NewModelResponse returns a ModelResponse with a fresh ID, the standard
// object tag, and one empty assistant choice ready to be populated.
func NewModelResponse() *ModelResponse {
	return &ModelResponse{
		ID:      NewCompletionID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Choices: []Choice{
			{Index: 0, Message: Message{Role: "assistant"}},
		},
	}
}
