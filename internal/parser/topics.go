package parser

import (
	"strings"

	"github.com/starford/quizium/internal/models"
)

// ClassifyTopics returns the names of every configured topic whose hashtag
// occurs in the raw (uncleaned) document text. The test is a literal
// whole-document substring match, not per-block and not a regex, so
// hashtags containing regex-special characters behave the same as any
// other text.
func ClassifyTopics(text string, topics []models.Topic) []string {
	var out []string
	for _, t := range topics {
		if t.Hashtag == "" {
			continue
		}
		if strings.Contains(text, t.Hashtag) {
			out = append(out, t.Name)
		}
	}
	return out
}
