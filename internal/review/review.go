// Package review implements the spaced-repetition due filter.
package review

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quizium/internal/models"
)

// Settings holds the per-difficulty review windows in days. The intuitive
// ordering challenging < moderate < easy is not enforced here.
type Settings struct {
	EasyDays        int `json:"easy_days" yaml:"easy_days"`
	ModerateDays    int `json:"moderate_days" yaml:"moderate_days"`
	ChallengingDays int `json:"challenging_days" yaml:"challenging_days"`
}

// Validate validates the review settings.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.EasyDays, validation.Min(0)),
		validation.Field(&s.ModerateDays, validation.Min(0)),
		validation.Field(&s.ChallengingDays, validation.Min(0)),
	)
}

// Due reports whether item is eligible for review at now.
//
// Unrated items are always due. Rated items are due once their window has
// elapsed, with one special case: a zero-day challenging window means
// "always due", not a zero-length elapsed test. An item whose difficulty
// token is unrecognized is never due, unlike the unrated case.
func Due(item *models.FlashcardItem, s Settings, now time.Time) bool {
	if item.Difficulty == "" || item.LastRated == nil {
		return true
	}
	switch item.Difficulty {
	case models.Challenging:
		if s.ChallengingDays == 0 {
			return true
		}
		return elapsed(*item.LastRated, s.ChallengingDays, now)
	case models.Moderate:
		return elapsed(*item.LastRated, s.ModerateDays, now)
	case models.Easy:
		return elapsed(*item.LastRated, s.EasyDays, now)
	}
	return false
}

// Filter returns the items due at now, preserving corpus order.
func Filter(items []models.FlashcardItem, s Settings, now time.Time) []models.FlashcardItem {
	var out []models.FlashcardItem
	for i := range items {
		if Due(&items[i], s, now) {
			out = append(out, items[i])
		}
	}
	return out
}

// elapsed reports lastRated <= now - days. The comparison is inclusive: an
// item rated exactly the window length ago is due.
func elapsed(lastRated time.Time, days int, now time.Time) bool {
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	return !lastRated.After(cutoff)
}
