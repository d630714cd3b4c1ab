//go:build sqlite_fts5

package index

import (
	"testing"

	"github.com/starford/quizium/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cards_fts`).Scan(&count); err != nil {
		t.Fatalf("cards_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	c := card("fts.md", "what makes search powerful?", []string{"Math"}, models.Difficulty(""))
	c.Answer = "an inverted index"
	if err := db.ReplaceDocument("fts.md", "f1", []models.FlashcardItem{c}, nil); err != nil {
		t.Fatalf("ReplaceDocument: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Document != "fts.md" {
		t.Errorf("document = %q", results[0].Document)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceDocument("gone.md", "g",
		[]models.FlashcardItem{card("gone.md", "vanishing content?", []string{"Math"}, "")}, nil)
	_ = db.DeleteDocument("gone.md")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.Document == "gone.md" {
			t.Error("deleted document still in FTS index")
		}
	}
}

func TestFTS5_ReplaceSwapsContent(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceDocument("evo.md", "1",
		[]models.FlashcardItem{card("evo.md", "original question?", []string{"Math"}, "")}, nil)
	_ = db.ReplaceDocument("evo.md", "2",
		[]models.FlashcardItem{card("evo.md", "replacement question?", []string{"Math"}, "")}, nil)

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 {
		t.Errorf("FTS not updated: %+v", results)
	}
}
