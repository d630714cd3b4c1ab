// Package sequence provides cached, shuffled, forward-only traversal of
// filtered flashcard sets.
package sequence

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/starford/quizium/internal/models"
)

const spacedPrefix = "spaced-"

// Key identifies one cached traversal by its selection criteria.
type Key string

// StandardKey returns the key for a (topic, difficulty) session.
func StandardKey(topic, difficulty string) Key {
	return Key("standard-" + topic + "/" + difficulty)
}

// SpacedKey returns the key for a spaced-repetition session over topic.
func SpacedKey(topic string) Key {
	return Key(spacedPrefix + topic)
}

// IsSpaced reports whether k identifies a spaced-repetition session.
func (k Key) IsSpaced() bool {
	return strings.HasPrefix(string(k), spacedPrefix)
}

// Builder produces the item set for a key when its sequence is built.
// It is invoked at most once per build; the result is cached until the
// key is reset.
type Builder func() ([]models.FlashcardItem, error)

// sequence is one cached traversal. items is immutable once built; only
// cursor mutates, and it only moves forward.
type sequence struct {
	items  []models.FlashcardItem
	cursor int
}

// Cache owns every live sequence, keyed by selection criteria.
//
// Unlike the cooperative single-threaded model this design comes from,
// HTTP handlers call into the cache from concurrent goroutines, so a
// mutex guards the map and cursors.
type Cache struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seqs map[Key]*sequence
}

// NewCache creates an empty sequence cache.
func NewCache() *Cache {
	return &Cache{
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		seqs: make(map[Key]*sequence),
	}
}

// get returns the sequence for k, building and shuffling it on first
// access. Caller must hold c.mu.
func (c *Cache) get(k Key, build Builder) (*sequence, error) {
	if s, ok := c.seqs[k]; ok {
		return s, nil
	}
	items, err := build()
	if err != nil {
		return nil, err
	}
	shuffled := make([]models.FlashcardItem, len(items))
	copy(shuffled, items)
	// Fisher–Yates over the full array: every permutation equally likely.
	for i := len(shuffled) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s := &sequence{items: shuffled, cursor: -1}
	c.seqs[k] = s
	return s, nil
}

// First rewinds the sequence for k to its first item and returns it.
// ok is false when the filtered set is empty.
func (c *Cache) First(k Key, build Builder) (item models.FlashcardItem, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.get(k, build)
	if err != nil {
		return models.FlashcardItem{}, false, err
	}
	if len(s.items) == 0 {
		return models.FlashcardItem{}, false, nil
	}
	s.cursor = 0
	return s.items[0], true, nil
}

// Next advances the cursor and returns the item under it. ok is false once
// the sequence is exhausted; the cursor never moves backward, so a
// single-item sequence that has shown its item yields nothing further.
func (c *Cache) Next(k Key, build Builder) (item models.FlashcardItem, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.get(k, build)
	if err != nil {
		return models.FlashcardItem{}, false, err
	}
	s.cursor++
	if s.cursor >= len(s.items) {
		return models.FlashcardItem{}, false, nil
	}
	return s.items[s.cursor], true, nil
}

// Progress reports the 1-based position and total for k. An unbuilt key
// reports 0/0.
func (c *Cache) Progress(k Key) (current, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.seqs[k]
	if !ok {
		return 0, 0
	}
	total = len(s.items)
	current = s.cursor + 1
	if current > total {
		current = total
	}
	if current < 0 {
		current = 0
	}
	return current, total
}

// HasCompleted reports whether the sequence for k has shown its last item.
// Empty and unbuilt sequences are vacuously complete.
func (c *Cache) HasCompleted(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.seqs[k]
	if !ok {
		return true
	}
	return s.cursor >= len(s.items)-1
}

// Reset discards the cached sequence for k, forcing a rebuild (with a
// fresh shuffle) on next access.
func (c *Cache) Reset(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seqs, k)
}

// ResetAll discards every cached sequence.
func (c *Cache) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs = make(map[Key]*sequence)
}

// ResetWhere discards every cached sequence whose key satisfies pred.
func (c *Cache) ResetWhere(pred func(Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.seqs {
		if pred(k) {
			delete(c.seqs, k)
		}
	}
}
