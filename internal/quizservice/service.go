// Package quizservice composes the extraction pipeline, review filter, and
// session sequencer over the document store.
package quizservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/starford/quizium/internal/apperr"
	"github.com/starford/quizium/internal/models"
	"github.com/starford/quizium/internal/parser"
	"github.com/starford/quizium/internal/review"
	"github.com/starford/quizium/internal/sequence"
	"github.com/starford/quizium/internal/storage"
)

// DifficultyUnrated selects items without a complete rating in
// FilterByTopicAndDifficulty. An empty selector matches everything.
const DifficultyUnrated = "unrated"

// Corpus is the full item set extracted from the vault.
type Corpus struct {
	Flashcards []models.FlashcardItem `json:"flashcards"`
	Quizzes    []models.QuizItem      `json:"quizzes"`
}

// Service coordinates extraction, rating, and session state.
type Service struct {
	store    storage.Provider
	topics   []models.Topic
	settings review.Settings
	seqs     *sequence.Cache
}

// NewService creates a new quiz service over the given store.
func NewService(store storage.Provider, topics []models.Topic, settings review.Settings) *Service {
	return &Service{
		store:    store,
		topics:   topics,
		settings: settings,
		seqs:     sequence.NewCache(),
	}
}

// Topics returns the configured topics.
func (s *Service) Topics() []models.Topic {
	return s.topics
}

// Settings returns the configured review windows.
func (s *Service) Settings() review.Settings {
	return s.settings
}

// ExtractAll reads every document fresh and returns the full item corpus
// in document iteration order. Items are not deduplicated here; statistics
// are the only place duplicate question texts collapse.
func (s *Service) ExtractAll(_ context.Context) (*Corpus, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	corpus := &Corpus{Flashcards: []models.FlashcardItem{}, Quizzes: []models.QuizItem{}}
	for _, m := range metas {
		data, err := s.store.Read(m.Path)
		if err != nil {
			return nil, fmt.Errorf("quizservice: read %s: %w", m.Path, err)
		}
		cards, quizzes := s.ExtractDocument(m.Path, data)
		corpus.Flashcards = append(corpus.Flashcards, cards...)
		corpus.Quizzes = append(corpus.Quizzes, quizzes...)
	}
	return corpus, nil
}

// ExtractDocument extracts the study items of a single document. A
// document matching no configured topic contributes nothing. Blocks that
// fail the grammar are silently skipped: documents mix prose with study
// blocks.
func (s *Service) ExtractDocument(path string, data []byte) ([]models.FlashcardItem, []models.QuizItem) {
	text := string(data)
	topics := parser.ClassifyTopics(text, s.topics)
	if len(topics) == 0 {
		return nil, nil
	}

	original := strings.Split(text, "\n")
	cleaned := parser.Clean(text, s.topics)

	var cards []models.FlashcardItem
	var quizzes []models.QuizItem
	for _, b := range parser.ScanBlocks(cleaned) {
		card, quiz := parser.ParseBlock(b)
		if card != nil {
			card.Document = path
			card.Topics = topics
			if ann := parser.FindAnnotation(original, b); ann != nil {
				card.Difficulty = ann.Difficulty
				ts := ann.Timestamp
				card.LastRated = &ts
			}
			cards = append(cards, *card)
		}
		if quiz != nil {
			quiz.Document = path
			quiz.Topics = topics
			quizzes = append(quizzes, *quiz)
		}
	}
	return cards, quizzes
}

// FilterByTopicAndDifficulty returns the flashcards matching the given
// selectors. An empty topic matches all topics; difficulty is one of the
// three known values, DifficultyUnrated, or empty for all.
func (s *Service) FilterByTopicAndDifficulty(ctx context.Context, topic, difficulty string) ([]models.FlashcardItem, error) {
	corpus, err := s.ExtractAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterCards(corpus.Flashcards, topic, difficulty), nil
}

// QuizzesByTopic returns the quizzes matching topic (empty for all).
func (s *Service) QuizzesByTopic(ctx context.Context, topic string) ([]models.QuizItem, error) {
	corpus, err := s.ExtractAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.QuizItem{}
	for _, q := range corpus.Quizzes {
		if topic == "" || hasTopic(q.Topics, topic) {
			out = append(out, q)
		}
	}
	return out, nil
}

// DueForReview returns the flashcards due at now under the given settings.
func (s *Service) DueForReview(ctx context.Context, settings review.Settings, now time.Time) ([]models.FlashcardItem, error) {
	corpus, err := s.ExtractAll(ctx)
	if err != nil {
		return nil, err
	}
	return review.Filter(corpus.Flashcards, settings, now), nil
}

// DueByTopic returns the flashcards due at now under the configured
// settings, restricted to topic (empty for all).
func (s *Service) DueByTopic(ctx context.Context, topic string, now time.Time) ([]models.FlashcardItem, error) {
	due, err := s.DueForReview(ctx, s.settings, now)
	if err != nil {
		return nil, err
	}
	return filterCards(due, topic, ""), nil
}

// Rate rewrites the item's document to record a new difficulty rating and
// invalidates the standard session sequences. Spaced sequences are left
// alone: a spaced session is built once at session start and is not
// re-filtered as ratings land mid-session.
//
// applied is false when no document line matches the question verbatim;
// the rating is dropped in that case and the mismatch is only logged.
func (s *Service) Rate(_ context.Context, document, question string, difficulty models.Difficulty, now time.Time) (applied bool, err error) {
	if !difficulty.IsValid() {
		return false, fmt.Errorf("quizservice: invalid difficulty %q", difficulty)
	}
	data, err := s.store.Read(document)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("quizservice: document %s: %w", document, apperr.ErrNotFound)
		}
		return false, err
	}
	updated, applied := parser.ApplyRating(string(data), question, difficulty, now)
	if !applied {
		slog.Warn("rating target not found",
			slog.String("document", document),
			slog.String("question", question))
		return false, nil
	}
	if err := s.store.Write(document, []byte(updated)); err != nil {
		return false, err
	}
	s.seqs.ResetWhere(func(k sequence.Key) bool { return !k.IsSpaced() })
	return true, nil
}

func filterCards(items []models.FlashcardItem, topic, difficulty string) []models.FlashcardItem {
	out := []models.FlashcardItem{}
	for i := range items {
		it := &items[i]
		if topic != "" && !it.HasTopic(topic) {
			continue
		}
		switch difficulty {
		case "":
		case DifficultyUnrated:
			if it.Rated() {
				continue
			}
		default:
			if string(it.Difficulty) != difficulty {
				continue
			}
		}
		out = append(out, *it)
	}
	return out
}

func hasTopic(topics []string, name string) bool {
	for _, t := range topics {
		if t == name {
			return true
		}
	}
	return false
}
