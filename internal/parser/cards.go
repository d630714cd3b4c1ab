package parser

import (
	"strings"

	"github.com/starford/quizium/internal/models"
)

// Line markers. Persisted markup is bit-exact: changing these breaks
// every existing vault.
const (
	QuestionMarker = "[Q]"
	AnswerMarker   = "[A]"
	WrongMarker    = "[B]"
	HintMarker     = "[H]"
)

// wrongAnswerCount is the exact number of [B] lines a quiz block requires.
const wrongAnswerCount = 3

// ParseBlock parses a single block into a flashcard, a quiz, both, or
// neither. A block that satisfies the quiz grammar also satisfies the
// flashcard grammar and yields both items; this dual parse is intentional.
//
// Grammar: the first trimmed line must open with [Q] followed by non-empty
// text. Subsequent lines are classified by marker prefix: [A] answer (last
// one wins), [B] wrong answer (ordered append), [H] hint (first one wins);
// unrecognized lines are ignored.
func ParseBlock(b Block) (*models.FlashcardItem, *models.QuizItem) {
	if len(b.Lines) == 0 {
		return nil, nil
	}
	first := strings.TrimSpace(b.Lines[0].Text)
	if !strings.HasPrefix(first, QuestionMarker) {
		return nil, nil
	}
	question := strings.TrimSpace(strings.TrimPrefix(first, QuestionMarker))
	if question == "" {
		return nil, nil
	}

	var (
		answer   string
		answers  int
		hint     string
		hintSeen bool
		wrong    []string
	)
	for _, ln := range b.Lines[1:] {
		t := strings.TrimSpace(ln.Text)
		switch {
		case strings.HasPrefix(t, AnswerMarker):
			answer = strings.TrimSpace(strings.TrimPrefix(t, AnswerMarker))
			answers++
		case strings.HasPrefix(t, WrongMarker):
			wrong = append(wrong, strings.TrimSpace(strings.TrimPrefix(t, WrongMarker)))
		case strings.HasPrefix(t, HintMarker):
			if !hintSeen {
				hint = strings.TrimSpace(strings.TrimPrefix(t, HintMarker))
				hintSeen = true
			}
		}
	}

	var card *models.FlashcardItem
	if answers > 0 && answer != "" {
		card = &models.FlashcardItem{Question: question, Answer: answer, Hint: hint}
	}

	var quiz *models.QuizItem
	if answers == 1 && answer != "" && len(wrong) == wrongAnswerCount && noneEmpty(wrong) {
		quiz = &models.QuizItem{Question: question, CorrectAnswer: answer, WrongAnswers: wrong}
	}

	return card, quiz
}

func noneEmpty(ss []string) bool {
	for _, s := range ss {
		if s == "" {
			return false
		}
	}
	return true
}
