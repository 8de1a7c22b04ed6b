package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"flashdeck/internal/handlers"
	"flashdeck/internal/middleware"
	"flashdeck/internal/websocket"
)

// Limiters throttle the two expensive entry points: anonymous session
// creation (per IP) and .apkg imports (per session).
type Limiters struct {
	Session *middleware.RateLimiter
	Import  *middleware.RateLimiter
}

func New(
	auth *middleware.SessionAuth,
	sessionHandler *handlers.SessionHandler,
	screenHandler *handlers.ScreenHandler,
	deckHandler *handlers.DeckHandler,
	importHandler *handlers.ImportHandler,
	quizHandler *handlers.QuizHandler,
	wsHub *websocket.Hub,
	limiters Limiters,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session (public) ────
		r.With(limiters.Session.Middleware).Post("/session", sessionHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			// ──── Screen Routes ────
			r.Route("/screen", func(r chi.Router) {
				r.Get("/", screenHandler.Get)
				r.Post("/navigate", screenHandler.Navigate)
				r.Post("/back", screenHandler.Back)
				r.Get("/history", screenHandler.History)
				r.Post("/cards/visible", screenHandler.CardsVisible)
				r.Post("/cards/scroll", screenHandler.CardsScroll)
			})

			r.Put("/prefs", screenHandler.UpdatePrefs)

			// ──── Deck Routes ────
			r.Route("/decks", func(r chi.Router) {
				r.Get("/", deckHandler.List)
				r.Post("/", deckHandler.Upload)

				r.Route("/import", func(r chi.Router) {
					r.Use(limiters.Import.Middleware)
					r.Post("/fields", importHandler.Fields)
					r.Post("/", importHandler.Import)
				})

				r.Delete("/{name}", deckHandler.Delete)
				r.Get("/{name}/package", deckHandler.Package)
				r.Get("/{name}/search", deckHandler.Search)
			})

			// ──── Quiz Routes ────
			r.Route("/quiz", func(r chi.Router) {
				r.Put("/config", quizHandler.Configure)
				r.Post("/start", quizHandler.Start)
				r.Post("/reveal", quizHandler.Reveal)
				r.Post("/answer", quizHandler.Answer)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
