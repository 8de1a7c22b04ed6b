package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"flashdeck/internal/models"
	"flashdeck/internal/quiz"
	"flashdeck/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

type sentinelMapping struct {
	err     error
	status  int
	code    string
	message string
}

var sentinelErrors = []sentinelMapping{
	{services.ErrInvalidDeckFormat, http.StatusBadRequest, "INVALID_DECK", ""},
	{services.ErrInvalidArchive, http.StatusBadRequest, "INVALID_ARCHIVE", "File is not a valid .apkg archive"},
	{services.ErrMissingCollection, http.StatusUnprocessableEntity, "MISSING_COLLECTION", "Archive does not contain collection.anki2"},
	{services.ErrDecoderUnavailable, http.StatusUnprocessableEntity, "DECODER_UNAVAILABLE", "Archive collection cannot be decoded"},
	{services.ErrUnreadableCollection, http.StatusUnprocessableEntity, "DECODER_UNAVAILABLE", "Archive collection cannot be decoded"},
	{services.ErrNoCards, http.StatusUnprocessableEntity, "NO_CARDS", "No cards could be imported"},
	{quiz.ErrEmptyScope, http.StatusBadRequest, "VALIDATION_ERROR", "There are no cards in this scope"},
	{quiz.ErrInvalidOrder, http.StatusBadRequest, "VALIDATION_ERROR", "order must be random or sequential"},
	{quiz.ErrNotActive, http.StatusConflict, "INVALID_STATE", "No quiz in progress"},
	{quiz.ErrNotRevealed, http.StatusConflict, "INVALID_STATE", "Reveal the answer first"},
	{quiz.ErrNotFinished, http.StatusConflict, "INVALID_STATE", "Quiz is not finished"},
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *services.ValidationError
		conflict   *services.ConflictError
		notFound   *services.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", validation.Fields, r))
		return
	case errors.As(err, &conflict):
		code := conflict.Code
		if code == "" {
			code = "CONFLICT"
		}
		writeJSON(w, http.StatusConflict, errorResp(code, conflict.Message, r))
		return
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", notFound.Message, r))
		return
	}

	for _, m := range sentinelErrors {
		if errors.Is(err, m.err) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			writeJSON(w, m.status, errorResp(m.code, message, r))
			return
		}
	}
	writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// deckParam returns the unescaped {name} URL parameter.
func deckParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// readUpload reads the multipart "file" field, capped at limit bytes.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, "", fmt.Errorf("invalid upload: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	return data, header.Filename, nil
}
