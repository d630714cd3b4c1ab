package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/starford/quizium/internal/models"
)

// annotationWindow is how many lines before a block's start the read path
// searches for an annotation. The write path uses a stricter adjacency
// rule (see ApplyRating); unifying the two changes which ratings are
// discovered.
const annotationWindow = 3

// annotationRe matches a rating annotation line. Both fields are captured
// loosely: an unparseable timestamp makes the item unrated, while an
// unrecognized difficulty token is kept verbatim on the item.
var annotationRe = regexp.MustCompile(`^\s*<!--QZ:([^,]*),([^,]*)-->\s*$`)

// FormatAnnotation renders the inline annotation line for a rating.
func FormatAnnotation(at time.Time, difficulty models.Difficulty) string {
	return fmt.Sprintf("<!--QZ:%s,%s-->", at.UTC().Format(time.RFC3339), difficulty)
}

// ParseAnnotationLine reports whether line is an annotation marker.
// matched is true for any line of the marker shape; the returned annotation
// is nil when the timestamp does not parse (the marker is consumed but the
// item stays unrated).
func ParseAnnotationLine(line string) (ann *models.Annotation, matched bool) {
	m := annotationRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(m[1]))
	if err != nil {
		return nil, true
	}
	return &models.Annotation{
		Timestamp:  ts,
		Difficulty: models.Difficulty(strings.TrimSpace(m[2])),
	}, true
}

// FindAnnotation locates the annotation for a block in the original
// (non-cleaned) document lines. The search window runs from three lines
// before the block start through the block end; the first marker-shaped
// line in forward scan order is authoritative, even when malformed.
func FindAnnotation(original []string, b Block) *models.Annotation {
	start := b.Start - annotationWindow
	if start < 0 {
		start = 0
	}
	for i := start; i <= b.End && i < len(original); i++ {
		if ann, matched := ParseAnnotationLine(original[i]); matched {
			return ann
		}
	}
	return nil
}
