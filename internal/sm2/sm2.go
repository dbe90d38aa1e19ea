// Package sm2 implements the SM-2 derived scheduling policy: it turns
// one quality rating into the card's next interval, ease factor, and
// review date.
package sm2

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/conorfennell/deckard/internal/domain"
)

// ErrInvalidRating reports a grade outside Again..Easy. The card is
// returned untouched; callers log and move on.
var ErrInvalidRating = errors.New("sm2: invalid rating")

// Params holds the scheduling policy constants.
type Params struct {
	DefaultEase          float64 // starting ease for new cards
	MinimumEase          float64 // ease never drops below this
	EaseModifierAgain    float64 // added to ease on Again
	EaseModifierHard     float64 // added to ease on Hard
	EaseModifierEasy     float64 // added to ease on Easy
	IntervalModifierHard float64 // interval multiplier for graduated Hard
	EasyBonus            float64 // extra multiplier for graduated Easy
	MinimumIntervalDays  float64 // smallest interval after any passing review
	InitialIntervalDays  float64 // first graduation interval (Good)
	EasyGraduationDays   float64 // graduation interval for Easy while learning
	LapseIntervalFactor  float64 // fraction of old interval kept on lapse; 0 means fixed
	LapseIntervalDays    float64 // fixed re-learn interval when factor is 0
}

// DefaultParams returns the stock Anki-flavoured policy.
func DefaultParams() *Params {
	return &Params{
		DefaultEase:          2.5,
		MinimumEase:          1.3,
		EaseModifierAgain:    -0.20,
		EaseModifierHard:     -0.15,
		EaseModifierEasy:     +0.15,
		IntervalModifierHard: 1.2,
		EasyBonus:            1.3,
		MinimumIntervalDays:  1.0,
		InitialIntervalDays:  1.0,
		EasyGraduationDays:   4.0,
		LapseIntervalFactor:  0,
		LapseIntervalDays:    1.0,
	}
}

// Outcome is the result of advancing a card. Changed is false when the
// post-rounding fields are identical to the input, in which case the
// caller has nothing to persist.
type Outcome struct {
	Card    domain.Card
	Changed bool
}

// Advance applies one review with the given rating and returns the
// rescheduled card. The input card is never mutated. The new interval
// always counts from today, not from the card's prior due date, so
// reviewing early or late earns no credit.
//
// Out-of-invariant input (negative interval, ease below the floor) is
// clamped before computation rather than rejected; the policy is meant
// to self-heal bad persisted state.
func (p *Params) Advance(card domain.Card, rating Rating, today time.Time) (Outcome, error) {
	if !rating.IsValid() {
		return Outcome{Card: card}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	day := domain.DateOf(today)
	before := card

	oldInterval := card.IntervalDays
	if oldInterval < 0 {
		oldInterval = 0
	}
	currentEase := math.Max(p.MinimumEase, card.EaseFactor)

	newLapses := card.Lapses
	newEase := currentEase
	var daysToAdd float64

	// A card with a sub-minimum interval, or at most one completed
	// review, is still in the fixed-interval learning phase.
	learning := oldInterval < p.MinimumIntervalDays || card.Reviews <= 1

	switch {
	case rating == Again:
		newLapses++
		newEase = math.Max(p.MinimumEase, currentEase+p.EaseModifierAgain)
		if p.LapseIntervalFactor > 0 {
			daysToAdd = math.Ceil(oldInterval * p.LapseIntervalFactor)
		} else {
			daysToAdd = p.LapseIntervalDays
		}
		if daysToAdd < 1 {
			daysToAdd = 1
		}

	case learning:
		switch rating {
		case Hard:
			daysToAdd = 1
			newEase = math.Max(p.MinimumEase, currentEase+p.EaseModifierHard)
		case Good:
			daysToAdd = p.InitialIntervalDays
		case Easy:
			daysToAdd = p.EasyGraduationDays
			newEase = currentEase + p.EaseModifierEasy
		}

	default: // graduated
		base := math.Ceil(oldInterval * currentEase)
		switch rating {
		case Hard:
			// Hard grows from the raw interval, not the ease product,
			// and is the one outcome allowed to stay below old+1.
			daysToAdd = math.Ceil(oldInterval * p.IntervalModifierHard)
			newEase = math.Max(p.MinimumEase, currentEase+p.EaseModifierHard)
		case Good:
			daysToAdd = base
		case Easy:
			daysToAdd = math.Ceil(base * p.EasyBonus)
			newEase = currentEase + p.EaseModifierEasy
		}
		if rating != Hard && daysToAdd < oldInterval+1 {
			daysToAdd = oldInterval + 1
		}
	}

	if rating != Again && daysToAdd < p.MinimumIntervalDays {
		daysToAdd = p.MinimumIntervalDays
	}

	next := card
	next.IntervalDays = round2(daysToAdd)
	next.EaseFactor = round3(newEase)
	next.Lapses = newLapses
	next.Reviews = card.Reviews + 1
	next.NextReview = day.AddDate(0, 0, int(math.Round(daysToAdd)))

	if sameSchedule(before, next) {
		return Outcome{Card: before}, nil
	}
	return Outcome{Card: next, Changed: true}, nil
}

// sameSchedule compares every scheduling field after rounding.
func sameSchedule(a, b domain.Card) bool {
	return a.IntervalDays == b.IntervalDays &&
		a.EaseFactor == b.EaseFactor &&
		a.Lapses == b.Lapses &&
		a.Reviews == b.Reviews &&
		a.NextReview.Equal(b.NextReview)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
