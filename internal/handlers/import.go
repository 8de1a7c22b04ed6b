package handlers

import (
	"context"
	"net/http"
	"strconv"

	"flashdeck/internal/app"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
	"flashdeck/internal/services"
)

// ImportHandler turns uploaded .apkg archives into decks in two steps:
// list the note fields, then build the deck with the chosen mapping.
type ImportHandler struct {
	sessions  *app.Registry
	importer  *services.Importer
	maxUpload int64
}

func NewImportHandler(sessions *app.Registry, importer *services.Importer, maxUpload int64) *ImportHandler {
	return &ImportHandler{sessions: sessions, importer: importer, maxUpload: maxUpload}
}

func (h *ImportHandler) Fields(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	names, err := h.importer.ExtractFieldNames(r.Context(), data)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	fallback := len(names) == 0
	if fallback {
		names = services.DefaultFieldNames()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fields":         names,
		"fallback":       fallback,
		"suggested_name": services.DeckNameFromFilename(filename),
	})
}

// Import decodes the archive outside the session lock; only the commit
// of the finished deck holds it.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	opts, fields := parseImportOptions(r)
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = services.DeckNameFromFilename(filename)
	}

	var report services.ImportReport
	screen, err := h.sessions.Import(r.Context(), middleware.GetSessionID(r.Context()), name,
		func(ctx context.Context) (models.Deck, error) {
			deck, rep, err := h.importer.BuildDeck(ctx, data, opts)
			report = rep
			return deck, err
		})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"report": report,
		"screen": screen,
	})
}

func parseImportOptions(r *http.Request) (services.ImportOptions, map[string]string) {
	fields := make(map[string]string)
	index := func(key string, def int) int {
		raw := r.FormValue(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields[key] = "must be a non-negative integer"
			return def
		}
		return n
	}

	opts := services.ImportOptions{
		Front: index("front", 0),
		Back:  index("back", 1),
	}
	if r.FormValue("chapter") != "" {
		chapter := index("chapter", 0)
		opts.Chapter = &chapter
	}
	return opts, fields
}
