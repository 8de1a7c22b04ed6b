package models

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Request bodies

type NavigateRequest struct {
	Path string `json:"path"`
}

type CardsVisibleRequest struct {
	ObserverID string `json:"observer_id"`
}

type CardsScrollRequest struct {
	Position int `json:"position"`
}

type QuizConfigRequest struct {
	Count *int    `json:"count"`
	Order *string `json:"order"`
}

type QuizStartRequest struct {
	Count *int `json:"count"`
}

type QuizAnswerRequest struct {
	Correct *bool `json:"correct"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Screen    Screen `json:"screen"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const WSTypeScreen = "screen"
