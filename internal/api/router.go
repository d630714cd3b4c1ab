package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/quizium/internal/index"
	"github.com/starford/quizium/internal/quizservice"
)

// RatedPublisher receives successful rating events for fan-out (SSE).
type RatedPublisher interface {
	PublishCardRated(document, question, difficulty string)
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// events, if non-nil, is notified after each applied rating.
func NewRouter(svc *quizservice.Service, db index.ItemIndex, authEnabled bool, token string, sseHandler http.Handler, events RatedPublisher) chi.Router {
	h := NewHandler(svc, db, events)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Corpus.
	r.Get("/topics", h.Topics)
	r.Get("/cards", h.Cards)
	r.Get("/quizzes", h.Quizzes)
	r.Get("/due", h.Due)

	// Ratings.
	r.Post("/ratings", h.Rate)

	// Sessions.
	r.Get("/session/first", h.SessionFirst)
	r.Get("/session/next", h.SessionNext)
	r.Get("/session/progress", h.SessionProgress)
	r.Post("/session/reset", h.SessionReset)

	// Statistics and search.
	r.Get("/stats", h.Stats)
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
