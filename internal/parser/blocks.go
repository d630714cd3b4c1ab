// Package parser extracts flashcards and quizzes from tagged blocks of
// document text and maintains the inline rating annotations.
package parser

import (
	"strings"

	"github.com/starford/quizium/internal/models"
)

// Line is a document line that survived cleaning, remembering its
// position in the original text.
type Line struct {
	Text  string
	Index int // zero-based line index in the original document
}

// Block is a maximal run of non-blank cleaned lines. Start and End are
// original-document line indices; the annotation read path searches the
// original text relative to them.
type Block struct {
	Lines []Line
	Start int
	End   int
}

// Clean strips annotation lines and topic hashtag substrings from text so
// that neither terminates a block during scanning. Annotation lines are
// dropped entirely; hashtags are removed by literal substring replacement.
func Clean(text string, topics []models.Topic) []Line {
	raw := strings.Split(text, "\n")
	out := make([]Line, 0, len(raw))
	for i, ln := range raw {
		if annotationRe.MatchString(ln) {
			continue
		}
		for _, t := range topics {
			if t.Hashtag != "" {
				ln = strings.ReplaceAll(ln, t.Hashtag, "")
			}
		}
		out = append(out, Line{Text: ln, Index: i})
	}
	return out
}

// ScanBlocks splits cleaned lines into blocks. A line is blank iff it is
// empty or all-whitespace; one or more blank lines separate blocks.
func ScanBlocks(lines []Line) []Block {
	var blocks []Block
	i := 0
	for i < len(lines) {
		// Skip past consecutive blank lines to the next block start.
		if blank(lines[i].Text) {
			i++
			continue
		}
		start := i
		for i < len(lines) && !blank(lines[i].Text) {
			i++
		}
		run := lines[start:i]
		blocks = append(blocks, Block{
			Lines: run,
			Start: run[0].Index,
			End:   run[len(run)-1].Index,
		})
	}
	return blocks
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
