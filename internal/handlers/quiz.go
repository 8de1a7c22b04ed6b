package handlers

import (
	"net/http"

	"flashdeck/internal/app"
	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
	"flashdeck/internal/quiz"
)

type QuizHandler struct {
	sessions *app.Registry
}

func NewQuizHandler(sessions *app.Registry) *QuizHandler {
	return &QuizHandler{sessions: sessions}
}

func (h *QuizHandler) run(w http.ResponseWriter, r *http.Request, fn func(c *app.Controller) (models.Screen, error)) {
	var screen models.Screen
	err := h.sessions.Do(r.Context(), middleware.GetSessionID(r.Context()), func(c *app.Controller) error {
		var err error
		screen, err = fn(c)
		return err
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

func (h *QuizHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req models.QuizConfigRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	var order *quiz.Order
	if req.Order != nil {
		o := quiz.Order(*req.Order)
		order = &o
	}
	h.run(w, r, func(c *app.Controller) (models.Screen, error) { return c.ConfigureQuiz(req.Count, order) })
}

func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.QuizStartRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	h.run(w, r, func(c *app.Controller) (models.Screen, error) { return c.StartQuiz(req.Count) })
}

func (h *QuizHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(c *app.Controller) (models.Screen, error) { return c.RevealAnswer() })
}

func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req models.QuizAnswerRequest
	if err := decodeBody(r, &req); err != nil || req.Correct == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "correct is required", r))
		return
	}
	h.run(w, r, func(c *app.Controller) (models.Screen, error) { return c.Answer(*req.Correct) })
}
