package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/starford/quizium/internal/models"
)

// TopicStats aggregates unique-question counts for one topic. Duplicate
// question texts collapse here and only here; session construction never
// deduplicates.
type TopicStats struct {
	Topic       string `json:"topic"`
	Easy        int    `json:"easy"`
	Moderate    int    `json:"moderate"`
	Challenging int    `json:"challenging"`
	Unrated     int    `json:"unrated"`
	Quizzes     int    `json:"quizzes"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Document string `json:"document"`
	Question string `json:"question"`
	Snippet  string `json:"snippet"`
}

// ReplaceDocument replaces a document's row and every item extracted from
// it within a transaction.
func (db *DB) ReplaceDocument(path, checksum string, cards []models.FlashcardItem, quizzes []models.QuizItem) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO documents (path, checksum, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, path, checksum, time.Now())
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	_, _ = tx.Exec(`DELETE FROM cards WHERE document = ?`, path)
	_, _ = tx.Exec(`DELETE FROM quizzes WHERE document = ?`, path)
	ftsDelete(tx, path)

	for _, c := range cards {
		topicsJSON, _ := json.Marshal(c.Topics)
		var lastRated any
		if c.LastRated != nil {
			lastRated = *c.LastRated
		}
		_, err := tx.Exec(`
			INSERT INTO cards (document, question, answer, hint, topics, difficulty, last_rated)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, path, c.Question, c.Answer, c.Hint, string(topicsJSON), string(c.Difficulty), lastRated)
		if err != nil {
			return fmt.Errorf("index: insert card: %w", err)
		}
		if err := ftsUpsert(tx, path, c.Question, c.Answer); err != nil {
			return err
		}
	}

	for _, q := range quizzes {
		topicsJSON, _ := json.Marshal(q.Topics)
		_, err := tx.Exec(`
			INSERT INTO quizzes (document, question, topics)
			VALUES (?, ?, ?)
		`, path, q.Question, string(topicsJSON))
		if err != nil {
			return fmt.Errorf("index: insert quiz: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteDocument removes a document and every item extracted from it.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM cards WHERE document = ?`, path)
	_, _ = tx.Exec(`DELETE FROM quizzes WHERE document = ?`, path)
	_, _ = tx.Exec(`DELETE FROM documents WHERE path = ?`, path)

	return tx.Commit()
}

// AllChecksums returns every indexed document path with its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Stats aggregates per-topic counts of unique question texts broken down
// by difficulty, plus quiz counts. Topics are returned sorted by name.
func (db *DB) Stats() ([]TopicStats, error) {
	cardRows, err := db.conn.Query(`SELECT question, topics, difficulty FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("index: stats cards: %w", err)
	}
	defer cardRows.Close()

	type bucket struct {
		stats TopicStats
		seen  map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	get := func(topic string) *bucket {
		b, ok := buckets[topic]
		if !ok {
			b = &bucket{stats: TopicStats{Topic: topic}, seen: make(map[string]struct{})}
			buckets[topic] = b
		}
		return b
	}

	for cardRows.Next() {
		var question, topicsJSON, difficulty string
		if err := cardRows.Scan(&question, &topicsJSON, &difficulty); err != nil {
			return nil, err
		}
		var topics []string
		_ = json.Unmarshal([]byte(topicsJSON), &topics)
		for _, topic := range topics {
			b := get(topic)
			if _, dup := b.seen[question]; dup {
				continue
			}
			b.seen[question] = struct{}{}
			switch models.Difficulty(difficulty) {
			case models.Easy:
				b.stats.Easy++
			case models.Moderate:
				b.stats.Moderate++
			case models.Challenging:
				b.stats.Challenging++
			default:
				b.stats.Unrated++
			}
		}
	}
	if err := cardRows.Err(); err != nil {
		return nil, err
	}

	quizRows, err := db.conn.Query(`SELECT topics FROM quizzes`)
	if err != nil {
		return nil, fmt.Errorf("index: stats quizzes: %w", err)
	}
	defer quizRows.Close()
	for quizRows.Next() {
		var topicsJSON string
		if err := quizRows.Scan(&topicsJSON); err != nil {
			return nil, err
		}
		var topics []string
		_ = json.Unmarshal([]byte(topicsJSON), &topics)
		for _, topic := range topics {
			get(topic).stats.Quizzes++
		}
	}
	if err := quizRows.Err(); err != nil {
		return nil, err
	}

	out := make([]TopicStats, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

// scanSearchRows collects search hits from a query result.
func scanSearchRows(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Document, &r.Question, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
