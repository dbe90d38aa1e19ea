package sm2

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/conorfennell/deckard/internal/domain"
)

var testToday = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func date(days int) time.Time {
	return testToday.AddDate(0, 0, days)
}

func TestAdvance(t *testing.T) {
	params := DefaultParams()

	tests := []struct {
		name         string
		card         domain.Card
		rating       Rating
		wantInterval float64
		wantEase     float64
		wantLapses   int
		wantDue      time.Time
	}{
		{
			name:         "new card rated Good graduates to one day",
			card:         domain.Card{IntervalDays: 0, EaseFactor: 2.5, Reviews: 0},
			rating:       Good,
			wantInterval: 1.0,
			wantEase:     2.5,
			wantDue:      date(1),
		},
		{
			name:         "second Good still learning, interval stays fixed",
			card:         domain.Card{IntervalDays: 1.0, EaseFactor: 2.5, Reviews: 1},
			rating:       Good,
			wantInterval: 1.0,
			wantEase:     2.5,
			wantDue:      date(1),
		},
		{
			name:         "third Good graduates with ease multiplier",
			card:         domain.Card{IntervalDays: 1.0, EaseFactor: 2.5, Reviews: 2},
			rating:       Good,
			wantInterval: 3.0,
			wantEase:     2.5,
			wantDue:      date(3),
		},
		{
			name:         "new card rated Easy graduates to four days",
			card:         domain.Card{IntervalDays: 0, EaseFactor: 2.5, Reviews: 0},
			rating:       Easy,
			wantInterval: 4.0,
			wantEase:     2.65,
			wantDue:      date(4),
		},
		{
			name:         "new card rated Hard stays at one day and loses ease",
			card:         domain.Card{IntervalDays: 0, EaseFactor: 2.5, Reviews: 0},
			rating:       Hard,
			wantInterval: 1.0,
			wantEase:     2.35,
			wantDue:      date(1),
		},
		{
			name:         "mature card rated Hard uses the hard multiplier",
			card:         domain.Card{IntervalDays: 100, EaseFactor: 2.0, Reviews: 30},
			rating:       Hard,
			wantInterval: 120,
			wantEase:     1.85,
			wantDue:      date(120),
		},
		{
			name:         "graduated Easy applies the bonus on top of ease",
			card:         domain.Card{IntervalDays: 10, EaseFactor: 2.0, Reviews: 5},
			rating:       Easy,
			wantInterval: 26, // ceil(ceil(10*2.0)*1.3)
			wantEase:     2.15,
			wantDue:      date(26),
		},
		{
			name:         "lapse resets to one day regardless of prior interval",
			card:         domain.Card{IntervalDays: 10, EaseFactor: 2.5, Reviews: 8},
			rating:       Again,
			wantInterval: 1.0,
			wantEase:     2.3,
			wantLapses:   1,
			wantDue:      date(1),
		},
		{
			name:         "lapse on a mature card",
			card:         domain.Card{IntervalDays: 365, EaseFactor: 1.4, Reviews: 40, Lapses: 2},
			rating:       Again,
			wantInterval: 1.0,
			wantEase:     1.3, // floored
			wantLapses:   3,
			wantDue:      date(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := params.Advance(tt.card, tt.rating, testToday)
			if err != nil {
				t.Fatalf("Advance returned error: %v", err)
			}
			if !out.Changed {
				t.Fatal("Changed = false, want true")
			}
			got := out.Card
			if got.IntervalDays != tt.wantInterval {
				t.Errorf("IntervalDays = %v, want %v", got.IntervalDays, tt.wantInterval)
			}
			if got.EaseFactor != tt.wantEase {
				t.Errorf("EaseFactor = %v, want %v", got.EaseFactor, tt.wantEase)
			}
			if got.Lapses != tt.wantLapses {
				t.Errorf("Lapses = %d, want %d", got.Lapses, tt.wantLapses)
			}
			if got.Reviews != tt.card.Reviews+1 {
				t.Errorf("Reviews = %d, want %d", got.Reviews, tt.card.Reviews+1)
			}
			if !got.NextReview.Equal(tt.wantDue) {
				t.Errorf("NextReview = %v, want %v", got.NextReview, tt.wantDue)
			}
		})
	}
}

func TestAdvanceInvalidRating(t *testing.T) {
	params := DefaultParams()
	card := domain.Card{IntervalDays: 10, EaseFactor: 2.5, Reviews: 3, NextReview: date(2)}

	for _, r := range []Rating{0, 5, -1, 42} {
		out, err := params.Advance(card, r, testToday)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: err = %v, want ErrInvalidRating", r, err)
		}
		if out.Changed {
			t.Errorf("rating %d: Changed = true, want false", r)
		}
		if !reflect.DeepEqual(out.Card, card) {
			t.Errorf("rating %d: card mutated: %+v", r, out.Card)
		}
	}
}

func TestAdvanceSelfHealsInvariants(t *testing.T) {
	params := DefaultParams()

	t.Run("ease below floor is clamped before use", func(t *testing.T) {
		card := domain.Card{IntervalDays: 5, EaseFactor: 0.9, Reviews: 4}
		out, err := params.Advance(card, Good, testToday)
		if err != nil {
			t.Fatal(err)
		}
		// Effective ease is 1.3, so interval = ceil(5*1.3) = 7.
		if out.Card.IntervalDays != 7 {
			t.Errorf("IntervalDays = %v, want 7", out.Card.IntervalDays)
		}
		if out.Card.EaseFactor < params.MinimumEase {
			t.Errorf("EaseFactor = %v, below floor", out.Card.EaseFactor)
		}
	})

	t.Run("negative interval treated as new", func(t *testing.T) {
		card := domain.Card{IntervalDays: -3, EaseFactor: 2.5, Reviews: 9}
		out, err := params.Advance(card, Good, testToday)
		if err != nil {
			t.Fatal(err)
		}
		if out.Card.IntervalDays != params.InitialIntervalDays {
			t.Errorf("IntervalDays = %v, want %v", out.Card.IntervalDays, params.InitialIntervalDays)
		}
	})
}

func TestEaseFloorHoldsUnderAnySequence(t *testing.T) {
	params := DefaultParams()
	card := domain.Card{EaseFactor: 2.5}

	// Hammer the card with the harshest sequence available.
	sequence := []Rating{Again, Again, Hard, Again, Hard, Hard, Again, Again, Again, Hard}
	for i, r := range sequence {
		out, err := params.Advance(card, r, testToday.AddDate(0, 0, i))
		if err != nil {
			t.Fatal(err)
		}
		card = out.Card
		if card.EaseFactor < params.MinimumEase {
			t.Fatalf("step %d: EaseFactor = %v, below %v", i, card.EaseFactor, params.MinimumEase)
		}
		if card.Reviews != i+1 {
			t.Fatalf("step %d: Reviews = %d, want %d", i, card.Reviews, i+1)
		}
	}
	if card.Lapses != 6 {
		t.Errorf("Lapses = %d, want 6", card.Lapses)
	}
}

func TestGraduatedGoodAlwaysGrows(t *testing.T) {
	params := DefaultParams()
	for _, interval := range []float64{1, 2, 5, 13, 55, 144, 377} {
		card := domain.Card{IntervalDays: interval, EaseFactor: 1.3, Reviews: 10}
		out, err := params.Advance(card, Good, testToday)
		if err != nil {
			t.Fatal(err)
		}
		if out.Card.IntervalDays <= interval {
			t.Errorf("interval %v: Good produced %v, want growth", interval, out.Card.IntervalDays)
		}
	}
}

func TestAdvanceDoesNotDriftOnRepeatedRounding(t *testing.T) {
	params := DefaultParams()
	card := domain.Card{IntervalDays: 10, EaseFactor: 2.345, Reviews: 6}

	first, err := params.Advance(card, Good, testToday)
	if err != nil {
		t.Fatal(err)
	}
	// Re-advancing the already-rounded result must produce values that
	// are stable at two and three decimals respectively.
	second, err := params.Advance(first.Card, Good, testToday)
	if err != nil {
		t.Fatal(err)
	}
	if got := second.Card.IntervalDays; got != math.Round(got*100)/100 {
		t.Errorf("IntervalDays %v not stable at 2 decimals", got)
	}
	if got := second.Card.EaseFactor; got != math.Round(got*1000)/1000 {
		t.Errorf("EaseFactor %v not stable at 3 decimals", got)
	}
}

func TestIntervalCountsFromReviewDay(t *testing.T) {
	params := DefaultParams()
	// Card was due a month ago; reviewing late earns no credit.
	card := domain.Card{
		IntervalDays: 10,
		EaseFactor:   2.0,
		Reviews:      5,
		NextReview:   testToday.AddDate(0, 0, -30),
	}
	out, err := params.Advance(card, Good, testToday)
	if err != nil {
		t.Fatal(err)
	}
	want := testToday.AddDate(0, 0, 20) // ceil(10*2.0) from today
	if !out.Card.NextReview.Equal(want) {
		t.Errorf("NextReview = %v, want %v", out.Card.NextReview, want)
	}
}
