package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/quizium/internal/index"
	"github.com/starford/quizium/internal/models"
	"github.com/starford/quizium/internal/quizservice"
	"github.com/starford/quizium/internal/review"
	"github.com/starford/quizium/internal/storage"
)

var testTopics = []models.Topic{
	{Hashtag: "#math", Name: "Math"},
	{Hashtag: "#history", Name: "History"},
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv sets up a temp vault, SQLite index, service, and router.
// An empty authToken means disabled auth.
func testEnv(t *testing.T, authToken string, docs map[string]string) (*quizservice.Service, http.Handler, string) {
	t.Helper()

	vaultDir := t.TempDir()
	for path, content := range docs {
		full := filepath.Join(vaultDir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	dbFile, err := os.CreateTemp("", "quizium-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	settings := review.Settings{EasyDays: 7, ModerateDays: 3, ChallengingDays: 1}
	svc := quizservice.NewService(store, testTopics, settings)
	if err := index.Sync(db, store, svc, testLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	router := NewRouter(svc, db, authToken != "", authToken, nil, nil)
	return svc, router, vaultDir
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTopics(t *testing.T) {
	_, router, _ := testEnv(t, "", nil)
	w := get(t, router, "/topics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp TopicListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Topics) != 2 {
		t.Errorf("topics = %v", resp.Topics)
	}
}

func TestCards_FilteredByTopicAndDifficulty(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n<!--QZ:2026-01-01T00:00:00Z,easy-->\n[Q]rated?\n[A]y\n\n[Q]fresh?\n[A]y\n",
		"b.md": "#history\n\n[Q]other?\n[A]y\n",
	})

	w := get(t, router, "/cards")
	var resp CardListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}

	w = get(t, router, "/cards?topic=Math&difficulty=unrated")
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Cards[0].Question != "fresh?" {
		t.Errorf("filtered = %+v", resp)
	}
}

func TestQuizzes(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]capital?\n[A]Paris\n[B]Lyon\n[B]Nice\n[B]Lille\n",
	})
	w := get(t, router, "/quizzes?topic=Math")
	var resp QuizListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Quizzes[0].CorrectAnswer != "Paris" {
		t.Errorf("quizzes = %+v", resp)
	}
}

func TestDue(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]unrated is due?\n[A]yes\n",
	})
	w := get(t, router, "/due?topic=Math")
	var resp CardListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("due = %+v", resp)
	}
}

func TestRate_Flow(t *testing.T) {
	_, router, vaultDir := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]2+2?\n[A]4\n",
	})

	w := postJSON(t, router, "/ratings", RateRequest{Document: "a.md", Question: "2+2?", Difficulty: "easy"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RateResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Applied {
		t.Error("applied = false")
	}

	data, _ := os.ReadFile(filepath.Join(vaultDir, "a.md"))
	if !strings.Contains(string(data), ",easy-->") {
		t.Errorf("document = %q, want annotation written", data)
	}
}

func TestRate_UnknownQuestionReportsNotApplied(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]2+2?\n[A]4\n",
	})
	w := postJSON(t, router, "/ratings", RateRequest{Document: "a.md", Question: "missing?", Difficulty: "easy"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RateResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Applied {
		t.Error("applied = true for unknown question")
	}
}

func TestRate_Validation(t *testing.T) {
	_, router, _ := testEnv(t, "", nil)

	w := postJSON(t, router, "/ratings", RateRequest{Document: "a.md", Question: "q?", Difficulty: "brutal"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown difficulty status = %d, want 400", w.Code)
	}

	w = postJSON(t, router, "/ratings", RateRequest{Question: "q?", Difficulty: "easy"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing document status = %d, want 400", w.Code)
	}

	w = postJSON(t, router, "/ratings", RateRequest{Document: "nope.md", Question: "q?", Difficulty: "easy"})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", w.Code)
	}
}

func TestSession_Flow(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]one?\n[A]1\n\n[Q]two?\n[A]2\n",
	})

	w := get(t, router, "/session/first?topic=Math")
	if w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}
	var resp SessionCardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Current != 1 || resp.Total != 2 {
		t.Errorf("first = %+v", resp)
	}

	w = get(t, router, "/session/next?topic=Math")
	if w.Code != http.StatusOK {
		t.Fatalf("next status = %d", w.Code)
	}

	// Exhausted session answers 204.
	w = get(t, router, "/session/next?topic=Math")
	if w.Code != http.StatusNoContent {
		t.Errorf("exhausted status = %d, want 204", w.Code)
	}

	w = get(t, router, "/session/progress?topic=Math")
	var prog ProgressResponse
	_ = json.Unmarshal(w.Body.Bytes(), &prog)
	if !prog.Completed || prog.Total != 2 {
		t.Errorf("progress = %+v", prog)
	}
}

func TestSession_EmptyAnswers204(t *testing.T) {
	_, router, _ := testEnv(t, "", nil)
	w := get(t, router, "/session/first?topic=Math")
	if w.Code != http.StatusNoContent {
		t.Errorf("empty session status = %d, want 204", w.Code)
	}
}

func TestSessionReset(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]one?\n[A]1\n",
	})
	get(t, router, "/session/first?topic=Math")

	w := postJSON(t, router, "/session/reset", SessionResetRequest{Topic: "Math"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", w.Code)
	}

	w = get(t, router, "/session/progress?topic=Math")
	var prog ProgressResponse
	_ = json.Unmarshal(w.Body.Bytes(), &prog)
	if prog.Total != 0 {
		t.Errorf("progress after reset = %+v, want unbuilt", prog)
	}
}

func TestStatsEndpoint(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]one?\n[A]1\n",
	})
	w := get(t, router, "/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp StatsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Topics) != 1 || resp.Topics[0].Unrated != 1 {
		t.Errorf("stats = %+v", resp)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router, _ := testEnv(t, "", map[string]string{
		"a.md": "#math\n\n[Q]what is photosynthesis?\n[A]light into sugar\n",
	})
	w := get(t, router, "/search?q=photosynthesis")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 {
		t.Errorf("results = %+v", resp.Results)
	}

	if w := get(t, router, "/search"); w.Code != http.StatusBadRequest {
		t.Errorf("missing query status = %d, want 400", w.Code)
	}
}

func TestAuth(t *testing.T) {
	_, router, _ := testEnv(t, "secret", nil)

	w := get(t, router, "/topics")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/topics", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/topics", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
}
