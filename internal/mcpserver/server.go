// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Quizium study tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/quizium/internal/index"
	"github.com/starford/quizium/internal/models"
	"github.com/starford/quizium/internal/quizservice"
	"github.com/starford/quizium/internal/storage"
)

// Server wraps the MCP server with Quizium tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *quizservice.Service
	store storage.Provider
	db    *index.DB
}

// New creates a new MCP server with all Quizium tools registered.
func New(svc *quizservice.Service, store storage.Provider, db *index.DB) *Server {
	s := &Server{svc: svc, store: store, db: db}

	s.mcp = server.NewMCPServer(
		"Quizium",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_topics",
		mcp.WithDescription("List the configured study topics with their hashtag markers."),
	), s.listTopics)

	s.mcp.AddTool(mcp.NewTool("study_summary",
		mcp.WithDescription("Per-topic counts of flashcards currently due for review "+
			"under the configured spaced-repetition settings."),
	), s.studySummary)

	s.mcp.AddTool(mcp.NewTool("next_card",
		mcp.WithDescription("Advance a study session and return the next unseen flashcard. "+
			"Sessions are shuffled and never repeat a card until reset."),
		mcp.WithString("topic", mcp.Description("Topic name (empty for all topics)")),
		mcp.WithString("difficulty", mcp.Description("Difficulty selector: easy, moderate, challenging, unrated, or empty for all")),
		mcp.WithString("mode", mcp.Description("Set to 'spaced' for a spaced-repetition session over due cards")),
	), s.nextCard)

	s.mcp.AddTool(mcp.NewTool("rate_card",
		mcp.WithDescription("Record a difficulty rating for a flashcard. Rewrites the source "+
			"document to add or update the inline rating annotation. The question must match "+
			"a [Q] line verbatim; otherwise the rating is dropped."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Relative path of the source document (e.g. topics/math.md)")),
		mcp.WithString("question", mcp.Required(), mcp.Description("Exact question text of the card")),
		mcp.WithString("difficulty", mcp.Required(), mcp.Description("One of easy, moderate, challenging")),
	), s.rateCard)

	s.mcp.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Full-text search through extracted flashcard questions and answers."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCards)

	s.mcp.AddTool(mcp.NewTool("get_markup_contract",
		mcp.WithDescription("Returns the canonical Quizium card markup contract. "+
			"Call this before writing study blocks into documents."),
	), s.getMarkupContract)

	// Resource: card markup contract.
	s.mcp.AddResource(
		mcp.NewResource("quizium://markup-format", "Card Markup Contract",
			mcp.WithResourceDescription("Canonical markup that study blocks must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMarkupResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listTopics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Topics(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) studySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type topicSummary struct {
		Topic string `json:"topic"`
		Due   int    `json:"due"`
	}
	now := time.Now()
	var summary []topicSummary
	for _, t := range s.svc.Topics() {
		due, err := s.svc.DueByTopic(ctx, t.Name, now)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		summary = append(summary, topicSummary{Topic: t.Name, Due: len(due)})
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) nextCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := quizservice.Selection{}
	if v, err := req.RequireString("topic"); err == nil {
		sel.Topic = v
	}
	if v, err := req.RequireString("difficulty"); err == nil {
		sel.Difficulty = v
	}
	if v, err := req.RequireString("mode"); err == nil && v == "spaced" {
		sel.Spaced = true
		sel.Difficulty = ""
	}

	card, ok, err := s.svc.Next(ctx, sel, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		current, total := s.svc.Progress(sel)
		return mcp.NewToolResultText(fmt.Sprintf("session complete (%d/%d cards shown)", current, total)), nil
	}
	out, _ := json.MarshalIndent(card, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) rateCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	difficulty, err := req.RequireString("difficulty")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d := models.Difficulty(difficulty)
	if !d.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown difficulty: %s", difficulty)), nil
	}

	applied, err := s.svc.Rate(ctx, document, question, d, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !applied {
		return mcp.NewToolResultText(fmt.Sprintf("rating not applied: no line matches [Q]%s in %s", question, document)), nil
	}

	// Keep the statistics index current; the stdio mode runs no watcher.
	if err := index.Sync(s.db, s.store, s.svc, slog.Default()); err != nil {
		slog.Warn("rate_card: index sync failed", slog.String("error", err.Error()))
	}

	return mcp.NewToolResultText(fmt.Sprintf("rated %q as %s", question, difficulty)), nil
}

func (s *Server) searchCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matching cards"), nil
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s: %s\n", r.Document, r.Question)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getMarkupContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MarkupContract), nil
}

func (s *Server) readMarkupResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "quizium://markup-format",
			MIMEType: "text/markdown",
			Text:     MarkupContract,
		},
	}, nil
}
