// Package models defines the domain types for Quizium.
package models

import "time"

// Topic binds a named study category to a literal hashtag marker.
// A document belongs to the topic iff its raw text contains the hashtag
// as a substring anywhere; matching is literal, never regex.
type Topic struct {
	Hashtag string `json:"hashtag" yaml:"hashtag"`
	Name    string `json:"name" yaml:"name"`
}

// Difficulty is the rating a reviewer assigns to a flashcard.
//
// The zero value means unrated. An item parsed from a document may carry a
// difficulty token outside the three known values; such items are kept
// verbatim and are never considered due for review.
type Difficulty string

// Known difficulty values, serialized lowercase in annotations.
const (
	Easy        Difficulty = "easy"
	Moderate    Difficulty = "moderate"
	Challenging Difficulty = "challenging"
)

// IsValid reports whether d is one of the three known difficulties.
func (d Difficulty) IsValid() bool {
	return d == Easy || d == Moderate || d == Challenging
}

// FlashcardItem is a question/answer pair extracted from a tagged block.
// Identity for rating purposes is the trimmed question text plus the
// source document path.
type FlashcardItem struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Hint       string     `json:"hint,omitempty"`
	Document   string     `json:"document"`
	Topics     []string   `json:"topics"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	LastRated  *time.Time `json:"last_rated,omitempty"`
}

// Rated reports whether the item carries a complete rating.
func (f *FlashcardItem) Rated() bool {
	return f.Difficulty != "" && f.LastRated != nil
}

// HasTopic reports whether the item belongs to the named topic.
func (f *FlashcardItem) HasTopic(name string) bool {
	for _, t := range f.Topics {
		if t == name {
			return true
		}
	}
	return false
}

// QuizItem is a multiple-choice question extracted from a tagged block.
// WrongAnswers always holds exactly three entries.
type QuizItem struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	WrongAnswers  []string `json:"wrong_answers"`
	Document      string   `json:"document"`
	Topics        []string `json:"topics"`
}

// Annotation is the parsed form of an inline rating marker line.
// Difficulty may hold an unrecognized token when the document does.
type Annotation struct {
	Timestamp  time.Time
	Difficulty Difficulty
}
