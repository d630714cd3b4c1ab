package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/starford/quizium/internal/apperr"
	"github.com/starford/quizium/internal/index"
	"github.com/starford/quizium/internal/models"
	"github.com/starford/quizium/internal/quizservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *quizservice.Service
	db     index.ItemIndex
	events RatedPublisher
}

// NewHandler creates a new Handler.
func NewHandler(svc *quizservice.Service, db index.ItemIndex, events RatedPublisher) *Handler {
	return &Handler{svc: svc, db: db, events: events}
}

// selection reads the session selectors from query parameters.
func selection(r *http.Request) quizservice.Selection {
	q := r.URL.Query()
	spaced, _ := strconv.ParseBool(q.Get("spaced"))
	return quizservice.Selection{
		Topic:      q.Get("topic"),
		Difficulty: q.Get("difficulty"),
		Spaced:     spaced,
	}
}

// Topics handles GET /api/topics.
//
//	@Summary		List configured topics
//	@Tags			corpus
//	@Produce		json
//	@Success		200	{object}	TopicListResponse
//	@Security		BearerAuth
//	@Router			/topics [get]
func (h *Handler) Topics(w http.ResponseWriter, _ *http.Request) {
	topics := h.svc.Topics()
	if topics == nil {
		topics = []models.Topic{}
	}
	writeJSON(w, http.StatusOK, TopicListResponse{Topics: topics})
}

// Cards handles GET /api/cards.
//
//	@Summary		List flashcards filtered by topic and difficulty
//	@Tags			corpus
//	@Produce		json
//	@Param			topic		query		string	false	"Topic name (empty for all)"
//	@Param			difficulty	query		string	false	"Difficulty"	Enums(easy, moderate, challenging, unrated)
//	@Success		200			{object}	CardListResponse
//	@Security		BearerAuth
//	@Router			/cards [get]
func (h *Handler) Cards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cards, err := h.svc.FilterByTopicAndDifficulty(r.Context(), q.Get("topic"), q.Get("difficulty"))
	if err != nil {
		slog.Error("list cards failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CardListResponse{Cards: cards, Total: len(cards)})
}

// Quizzes handles GET /api/quizzes.
//
//	@Summary		List quizzes filtered by topic
//	@Tags			corpus
//	@Produce		json
//	@Param			topic	query		string	false	"Topic name (empty for all)"
//	@Success		200		{object}	QuizListResponse
//	@Security		BearerAuth
//	@Router			/quizzes [get]
func (h *Handler) Quizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.svc.QuizzesByTopic(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		slog.Error("list quizzes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, QuizListResponse{Quizzes: quizzes, Total: len(quizzes)})
}

// Due handles GET /api/due.
//
//	@Summary		List flashcards due for review under the configured settings
//	@Tags			review
//	@Produce		json
//	@Param			topic	query		string	false	"Topic name (empty for all)"
//	@Success		200		{object}	CardListResponse
//	@Security		BearerAuth
//	@Router			/due [get]
func (h *Handler) Due(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.DueByTopic(r.Context(), r.URL.Query().Get("topic"), time.Now())
	if err != nil {
		slog.Error("list due failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CardListResponse{Cards: cards, Total: len(cards)})
}

// Rate handles POST /api/ratings.
//
//	@Summary		Record a difficulty rating by rewriting the source document
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RateRequest	true	"Rating to record"
//	@Success		200		{object}	RateResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/ratings [post]
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Document == "" || req.Question == "" || req.Difficulty == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("document, question and difficulty are required"))
		return
	}
	difficulty := models.Difficulty(req.Difficulty)
	if !difficulty.IsValid() {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown difficulty"))
		return
	}

	applied, err := h.svc.Rate(r.Context(), req.Document, req.Question, difficulty, time.Now())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("document not found"))
			return
		}
		slog.Error("rate failed", slog.String("document", req.Document), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if applied && h.events != nil {
		h.events.PublishCardRated(req.Document, req.Question, req.Difficulty)
	}
	writeJSON(w, http.StatusOK, RateResponse{Applied: applied})
}

// SessionFirst handles GET /api/session/first.
//
//	@Summary		Return the first card of a session
//	@Tags			session
//	@Produce		json
//	@Param			topic		query		string	false	"Topic name (empty for all)"
//	@Param			difficulty	query		string	false	"Difficulty selector"
//	@Param			spaced		query		bool	false	"Spaced-repetition session"
//	@Success		200			{object}	SessionCardResponse
//	@Success		204			"Session is empty"
//	@Security		BearerAuth
//	@Router			/session/first [get]
func (h *Handler) SessionFirst(w http.ResponseWriter, r *http.Request) {
	h.sessionCard(w, r, h.svc.First)
}

// SessionNext handles GET /api/session/next.
//
//	@Summary		Advance a session and return the next unseen card
//	@Tags			session
//	@Produce		json
//	@Param			topic		query		string	false	"Topic name (empty for all)"
//	@Param			difficulty	query		string	false	"Difficulty selector"
//	@Param			spaced		query		bool	false	"Spaced-repetition session"
//	@Success		200			{object}	SessionCardResponse
//	@Success		204			"Session exhausted"
//	@Security		BearerAuth
//	@Router			/session/next [get]
func (h *Handler) SessionNext(w http.ResponseWriter, r *http.Request) {
	h.sessionCard(w, r, h.svc.Next)
}

type sessionOp func(ctx context.Context, sel quizservice.Selection, now time.Time) (models.FlashcardItem, bool, error)

func (h *Handler) sessionCard(w http.ResponseWriter, r *http.Request, op sessionOp) {
	sel := selection(r)
	card, ok, err := op(r.Context(), sel, time.Now())
	if err != nil {
		slog.Error("session advance failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !ok {
		// Exhausted or empty: a valid outcome, not a failure.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	current, total := h.svc.Progress(sel)
	writeJSON(w, http.StatusOK, SessionCardResponse{Card: card, Current: current, Total: total})
}

// SessionProgress handles GET /api/session/progress.
//
//	@Summary		Report session position and completion
//	@Tags			session
//	@Produce		json
//	@Param			topic		query		string	false	"Topic name (empty for all)"
//	@Param			difficulty	query		string	false	"Difficulty selector"
//	@Param			spaced		query		bool	false	"Spaced-repetition session"
//	@Success		200			{object}	ProgressResponse
//	@Security		BearerAuth
//	@Router			/session/progress [get]
func (h *Handler) SessionProgress(w http.ResponseWriter, r *http.Request) {
	sel := selection(r)
	current, total := h.svc.Progress(sel)
	writeJSON(w, http.StatusOK, ProgressResponse{
		Current:   current,
		Total:     total,
		Completed: h.svc.Completed(sel),
	})
}

// SessionReset handles POST /api/session/reset.
//
//	@Summary		Discard cached sessions, forcing a fresh shuffle on next access
//	@Tags			session
//	@Accept			json
//	@Param			body	body	SessionResetRequest	true	"Sessions to discard"
//	@Success		204		"Reset done"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/reset [post]
func (h *Handler) SessionReset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SessionResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.All {
		h.svc.ResetAllSessions()
	} else {
		h.svc.ResetSession(quizservice.Selection{
			Topic:      req.Topic,
			Difficulty: req.Difficulty,
			Spaced:     req.Spaced,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/stats.
//
//	@Summary		Per-topic unique-question statistics
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Stats()
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if stats == nil {
		stats = []index.TopicStats{}
	}
	writeJSON(w, http.StatusOK, StatsResponse{Topics: stats})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across extracted cards
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.db.Search(q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
