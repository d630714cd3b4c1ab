package quizservice

import (
	"context"
	"time"

	"github.com/starford/quizium/internal/models"
	"github.com/starford/quizium/internal/sequence"
)

// Selection identifies a session. Spaced toggles the spaced-repetition
// variant, in which Difficulty is ignored and the item set is the
// due-for-review filter output captured at session build time.
type Selection struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty,omitempty"`
	Spaced     bool   `json:"spaced,omitempty"`
}

func (sel Selection) key() sequence.Key {
	if sel.Spaced {
		return sequence.SpacedKey(sel.Topic)
	}
	return sequence.StandardKey(sel.Topic, sel.Difficulty)
}

// builder returns the item set producer for sel. now is captured only when
// the sequence is actually built, so a spaced session snapshots due-ness
// at session start.
func (s *Service) builder(ctx context.Context, sel Selection, now time.Time) sequence.Builder {
	return func() ([]models.FlashcardItem, error) {
		if sel.Spaced {
			return s.DueByTopic(ctx, sel.Topic, now)
		}
		return s.FilterByTopicAndDifficulty(ctx, sel.Topic, sel.Difficulty)
	}
}

// First returns the first item of sel's session, building and shuffling
// the sequence on first access. ok is false for an empty session.
func (s *Service) First(ctx context.Context, sel Selection, now time.Time) (item models.FlashcardItem, ok bool, err error) {
	return s.seqs.First(sel.key(), s.builder(ctx, sel, now))
}

// Next returns the next unseen item of sel's session. ok is false once
// every item has been shown.
func (s *Service) Next(ctx context.Context, sel Selection, now time.Time) (item models.FlashcardItem, ok bool, err error) {
	return s.seqs.Next(sel.key(), s.builder(ctx, sel, now))
}

// Progress reports the 1-based position and total of sel's session.
func (s *Service) Progress(sel Selection) (current, total int) {
	return s.seqs.Progress(sel.key())
}

// Completed reports whether sel's session has shown its last item.
func (s *Service) Completed(sel Selection) bool {
	return s.seqs.HasCompleted(sel.key())
}

// ResetSession discards sel's cached sequence; the next access rebuilds it
// with a fresh shuffle.
func (s *Service) ResetSession(sel Selection) {
	s.seqs.Reset(sel.key())
}

// ResetAllSessions discards every cached sequence.
func (s *Service) ResetAllSessions() {
	s.seqs.ResetAll()
}

// InvalidateStandardSessions discards the non-spaced sequences. The
// watcher calls this on document edits; in-flight spaced sessions keep
// their snapshot until explicitly reset.
func (s *Service) InvalidateStandardSessions() {
	s.seqs.ResetWhere(func(k sequence.Key) bool { return !k.IsSpaced() })
}
