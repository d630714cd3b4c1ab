package index

import "github.com/starford/quizium/internal/models"

// ItemIndex defines the interface for corpus indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type ItemIndex interface {
	ReplaceDocument(path, checksum string, cards []models.FlashcardItem, quizzes []models.QuizItem) error
	DeleteDocument(path string) error
	AllChecksums() (map[string]string, error)
	Stats() ([]TopicStats, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Extractor produces the study items of a single document. The service
// layer implements it; the index never parses document text itself.
type Extractor interface {
	ExtractDocument(path string, data []byte) ([]models.FlashcardItem, []models.QuizItem)
}

// Verify *DB satisfies ItemIndex at compile time.
var _ ItemIndex = (*DB)(nil)
