package handlers

import (
	"net/http"

	"flashdeck/internal/app"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
)

// ScreenHandler exposes navigation: the current screen, path changes and
// the card browser's observer callbacks.
type ScreenHandler struct {
	sessions *app.Registry
}

func NewScreenHandler(sessions *app.Registry) *ScreenHandler {
	return &ScreenHandler{sessions: sessions}
}

// run executes fn for the caller's session and writes the resulting screen.
func (h *ScreenHandler) run(w http.ResponseWriter, r *http.Request, fn func(c *app.Controller) models.Screen) {
	var screen models.Screen
	h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		screen = fn(c)
		return nil
	})
	writeJSON(w, http.StatusOK, screen)
}

func (h *ScreenHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(c *app.Controller) models.Screen { return c.Screen() })
}

func (h *ScreenHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req models.NavigateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	h.run(w, r, func(c *app.Controller) models.Screen { return c.Navigate(req.Path) })
}

func (h *ScreenHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(c *app.Controller) models.Screen { return c.Back() })
}

func (h *ScreenHandler) CardsVisible(w http.ResponseWriter, r *http.Request) {
	var req models.CardsVisibleRequest
	if err := decodeBody(r, &req); err != nil || req.ObserverID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "observer_id is required", r))
		return
	}
	h.run(w, r, func(c *app.Controller) models.Screen { return c.CardsVisible(req.ObserverID) })
}

func (h *ScreenHandler) CardsScroll(w http.ResponseWriter, r *http.Request) {
	var req models.CardsScrollRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	h.run(w, r, func(c *app.Controller) models.Screen { return c.CardsScroll(req.Position) })
}

func (h *ScreenHandler) History(w http.ResponseWriter, r *http.Request) {
	var entries []string
	h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		entries = c.History()
		return nil
	})
	if entries == nil {
		entries = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *ScreenHandler) UpdatePrefs(w http.ResponseWriter, r *http.Request) {
	var req models.DisplayPrefs
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	h.run(w, r, func(c *app.Controller) models.Screen { return c.SetPrefs(req) })
}
