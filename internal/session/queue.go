// Package session derives the ordered review queue from a collection
// and maintains it while the reviewer works through it. It never
// touches card scheduling state; that belongs to the sm2 package.
package session

import (
	"math/rand"
	"time"

	"github.com/conorfennell/deckard/internal/domain"
)

// SelectDue filters the collection down to cards due on the given day.
// Output order is the collection's insertion order; the caller shuffles
// once at session start. The returned slice shares the collection's
// card pointers, it never copies card data.
func SelectDue(cards []*domain.Card, today time.Time) []*domain.Card {
	day := domain.DateOf(today)
	var due []*domain.Card
	for _, c := range cards {
		if c.IsDue(day) {
			due = append(due, c)
		}
	}
	return due
}

// Queue is one review session's worth of due cards. The front card is
// the one currently being shown.
type Queue struct {
	cards []*domain.Card
}

// NewQueue wraps the given due set. The slice is used as-is.
func NewQueue(cards []*domain.Card) *Queue {
	return &Queue{cards: cards}
}

// Shuffle randomizes the queue order. A nil rng falls back to a
// time-seeded source; tests inject a seeded one to pin the order.
func (q *Queue) Shuffle(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(q.cards), func(i, j int) {
		q.cards[i], q.cards[j] = q.cards[j], q.cards[i]
	})
}

// Len returns the number of cards still in the queue.
func (q *Queue) Len() int {
	return len(q.cards)
}

// Current returns the card at the front, or nil when the session is
// finished. An empty queue is the normal terminal state, not an error.
func (q *Queue) Current() *domain.Card {
	if len(q.cards) == 0 {
		return nil
	}
	return q.cards[0]
}

// Advance drops the front card after a passing review.
func (q *Queue) Advance() {
	if len(q.cards) > 0 {
		q.cards = q.cards[1:]
	}
}

// Requeue moves the front card to the end of the queue after a lapse.
// The failed card comes around again only after every other due card
// has been shown, so it is never the immediate next card unless it is
// the only one left.
func (q *Queue) Requeue() {
	if len(q.cards) < 2 {
		return
	}
	failed := q.cards[0]
	q.cards = append(q.cards[1:], failed)
}

// Remaining exposes the rest of the queue in order. Intended for the
// status line; callers must not reorder it.
func (q *Queue) Remaining() []*domain.Card {
	return q.cards
}
