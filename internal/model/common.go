package model

// ChatResponse is the success payload for the chat endpoint.
type ChatResponse struct {
	Response  string   `json:"response"`
	Sources   []string `json:"sources"`
	Timestamp string   `json:"timestamp"`
}

// ErrorResponse is the failure payload for the chat endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
