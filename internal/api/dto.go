package api

import (
	"github.com/starford/quizium/internal/index"
	"github.com/starford/quizium/internal/models"
)

// RateRequest is the request body for recording a rating.
type RateRequest struct {
	Document   string `json:"document" example:"topics/math.md" validate:"required"`
	Question   string `json:"question" example:"2+2?" validate:"required"`
	Difficulty string `json:"difficulty" example:"easy" validate:"required"`
}

// RateResponse reports whether the rating was applied. Applied is false
// when no document line matches the question verbatim.
type RateResponse struct {
	Applied bool `json:"applied"`
}

// SessionResetRequest selects which cached sessions to discard.
// All discards every session and overrides the other fields.
type SessionResetRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Spaced     bool   `json:"spaced"`
	All        bool   `json:"all"`
}

// TopicListResponse wraps the configured topics.
type TopicListResponse struct {
	Topics []models.Topic `json:"topics" validate:"required"`
}

// CardListResponse wraps a flashcard listing.
type CardListResponse struct {
	Cards []models.FlashcardItem `json:"cards" validate:"required"`
	Total int                    `json:"total" example:"42" validate:"required"`
}

// QuizListResponse wraps a quiz listing.
type QuizListResponse struct {
	Quizzes []models.QuizItem `json:"quizzes" validate:"required"`
	Total   int               `json:"total" example:"7" validate:"required"`
}

// SessionCardResponse carries the current session card and position.
type SessionCardResponse struct {
	Card    models.FlashcardItem `json:"card"`
	Current int                  `json:"current" example:"1"`
	Total   int                  `json:"total" example:"10"`
}

// ProgressResponse reports session traversal state.
type ProgressResponse struct {
	Current   int  `json:"current" example:"3"`
	Total     int  `json:"total" example:"10"`
	Completed bool `json:"completed"`
}

// StatsResponse wraps per-topic statistics.
type StatsResponse struct {
	Topics []index.TopicStats `json:"topics" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
