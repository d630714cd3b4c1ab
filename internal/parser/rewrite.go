package parser

import (
	"strings"
	"time"

	"github.com/starford/quizium/internal/models"
)

// ApplyRating returns a copy of text with the rating annotation for
// question inserted or replaced, and reports whether the rating was
// applied.
//
// The target line is located by exact string equality: its trimmed text
// must be the question marker immediately followed by the (trimmed)
// question. This is stricter than the read path tolerates; when no line
// matches, the text is returned unchanged and applied is false.
//
// From the question line the scan walks backward past blank lines. If the
// first non-blank line above is an annotation marker it is replaced in
// place; anything else leaves it untouched and a fresh annotation line is
// inserted immediately before the question line. Either way exactly one
// annotation exists for the question afterwards.
func ApplyRating(text, question string, difficulty models.Difficulty, now time.Time) (out string, applied bool) {
	lines := strings.Split(text, "\n")
	target := QuestionMarker + question

	qi := -1
	for i, ln := range lines {
		if strings.TrimSpace(ln) == target {
			qi = i
			break
		}
	}
	if qi < 0 {
		return text, false
	}

	ann := FormatAnnotation(now, difficulty)

	for j := qi - 1; j >= 0; j-- {
		if blank(lines[j]) {
			continue
		}
		if annotationRe.MatchString(lines[j]) {
			lines[j] = ann
			return strings.Join(lines, "\n"), true
		}
		break
	}

	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:qi]...)
	updated = append(updated, ann)
	updated = append(updated, lines[qi:]...)
	return strings.Join(updated, "\n"), true
}
