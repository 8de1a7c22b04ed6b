package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"flashdeck/internal/app"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
	"flashdeck/internal/services"
)

type DeckHandler struct {
	sessions  *app.Registry
	packager  *services.Packager
	maxUpload int64
	logger    *zap.Logger
}

func NewDeckHandler(sessions *app.Registry, packager *services.Packager, maxUpload int64, logger *zap.Logger) *DeckHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeckHandler{sessions: sessions, packager: packager, maxUpload: maxUpload, logger: logger}
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	var decks []models.DeckSummary
	h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		decks = c.ListDecks()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"decks": decks})
}

// Upload adds a deck from a JSON file. The name defaults to the file name
// without its extension.
func (h *DeckHandler) Upload(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	deck, err := services.ParseDeckJSON(data)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = services.DeckNameFromFilename(filename)
	}

	var screen models.Screen
	err = h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		var err error
		screen, err = c.AddDeck(name, deck)
		return err
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, screen)
}

func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var screen models.Screen
	err := h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		var err error
		screen, err = c.DeleteDeck(deckParam(r))
		return err
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

// Package streams the deck bundle as a zip attachment.
func (h *DeckHandler) Package(w http.ResponseWriter, r *http.Request) {
	name := deckParam(r)
	var deck models.Deck
	err := h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		var err error
		deck, err = c.Deck(name)
		return err
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".zip"))
	w.WriteHeader(http.StatusOK)
	if err := h.packager.WriteZip(w, name, deck); err != nil {
		h.logger.Warn("failed to write deck package", zap.String("deck", name), zap.Error(err))
	}
}

func (h *DeckHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	var results []models.SearchResult
	err := h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		var err error
		results, err = c.Search(deckParam(r), query)
		return err
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"query": query, "results": results})
}
