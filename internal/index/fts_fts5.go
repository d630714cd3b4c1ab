//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS cards_fts USING fts5(
			document UNINDEXED,
			question,
			answer,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, document, question, answer string) error {
	_, err := tx.Exec(`INSERT INTO cards_fts (document, question, answer) VALUES (?, ?, ?)`,
		document, question, answer)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, document string) {
	_, _ = tx.Exec(`DELETE FROM cards_fts WHERE document = ?`, document)
}

// Search performs an FTS5 full-text search over questions and answers.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT document,
		       question,
		       snippet(cards_fts, 2, '<b>', '</b>', '...', 64)
		FROM cards_fts
		WHERE cards_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanSearchRows(rows)
}
