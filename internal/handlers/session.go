package handlers

import (
	"net/http"

	"flashdeck/internal/app"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
)

type SessionHandler struct {
	sessions *app.Registry
	auth     *middleware.SessionAuth
}

func NewSessionHandler(sessions *app.Registry, auth *middleware.SessionAuth) *SessionHandler {
	return &SessionHandler{sessions: sessions, auth: auth}
}

// Create starts an anonymous session and returns its bearer token.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Create(r.Context())

	token, err := h.auth.IssueToken(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue session token", r))
		return
	}

	writeJSON(w, http.StatusCreated, models.SessionResponse{
		Token:     token,
		SessionID: id,
		Screen:    h.sessions.Screen(r.Context(), id),
	})
}
