// Package domain contains the data model shared by the scheduler,
// the review session, and the statistics aggregator.
package domain

import "time"

// Scheduling defaults for freshly created cards.
const (
	DefaultEaseFactor = 2.5
	DateFormat        = "2006-01-02"
)

// Field is a single passthrough CSV column. The core never interprets
// these; they round-trip through load and save in their original order.
type Field struct {
	Key   string
	Value string
}

// Card is the schedulable unit. IntervalDays of 0 marks a card that has
// not graduated yet; a zero NextReview means "due now".
type Card struct {
	Front        string
	Back         string
	IntervalDays float64
	EaseFactor   float64
	NextReview   time.Time
	Reviews      int
	Lapses       int
	Extra        []Field
}

// NewCard creates a card in the ungraduated bootstrap state, due today.
func NewCard(front, back string, today time.Time) Card {
	return Card{
		Front:      front,
		Back:       back,
		EaseFactor: DefaultEaseFactor,
		NextReview: DateOf(today),
	}
}

// IsDue reports whether the card should be shown on the given day.
// Cards with no scheduled date are always due.
func (c Card) IsDue(today time.Time) bool {
	if c.NextReview.IsZero() {
		return true
	}
	return !c.NextReview.After(DateOf(today))
}

// IsNew reports whether the card has never completed a review.
func (c Card) IsNew() bool {
	return c.Reviews == 0
}

// ExtraValue returns the passthrough column with the given key, if any.
func (c Card) ExtraValue(key string) (string, bool) {
	for _, f := range c.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// SetExtra replaces the passthrough column with the given key, or
// appends it while keeping the existing column order.
func (c *Card) SetExtra(key, value string) {
	for i, f := range c.Extra {
		if f.Key == key {
			c.Extra[i].Value = value
			return
		}
	}
	c.Extra = append(c.Extra, Field{Key: key, Value: value})
}

// DateOf reduces a wall-clock instant to its calendar date. The result
// is midnight UTC so date values compare with == regardless of the zone
// the instant was observed in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
