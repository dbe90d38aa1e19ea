// Package stats computes a read-only health snapshot of a card
// collection: maturity buckets, interval and ease distributions, and a
// day-by-day due forecast. Compute is a pure function of its inputs.
package stats

import (
	"math"
	"time"

	"github.com/conorfennell/deckard/internal/domain"
)

// DefaultForecastDays is the stock forward horizon for the due forecast.
const DefaultForecastDays = 30

// Maturity thresholds in days of interval.
const (
	learningThreshold = 21
	matureThreshold   = 90
)

// RangeCount is one labeled histogram bin.
type RangeCount struct {
	Label string
	Count int
}

// ForecastDay is the number of cards coming due on one calendar day.
type ForecastDay struct {
	Date  time.Time
	Count int
}

// Snapshot is the full statistics report. Consumers treat it as
// read-only.
type Snapshot struct {
	TotalCards    int
	NewCards      int
	LearningCards int
	YoungCards    int
	MatureCards   int

	DueToday     int // includes every overdue card
	DueTomorrow  int
	DueNext7Days int // tomorrow through today+7
	Forecast     []ForecastDay

	AverageIntervalSeen   float64 // over cards reviewed at least once
	AverageIntervalMature float64
	LongestInterval       float64
	IntervalRanges        []RangeCount

	AverageEase float64
	EaseRanges  []RangeCount

	TotalReviews          int
	TotalLapses           int
	AverageReviewsPerCard float64
	AverageLapsesPerCard  float64
	LapsedCards           int // cards with at least one lapse
}

// Interval bins: exact zero, then half-open ranges, open-ended past a
// year. intervalEdges[i] is the inclusive upper bound of bin i+1.
var (
	intervalEdges  = []float64{1, 3, 7, 14, 30, 60, 90, 180, 365}
	intervalLabels = []string{
		"0d", "<=1d", "2-3d", "4-7d", "8-14d", "15-30d",
		"1-2m", "2-3m", "3-6m", "6-12m", ">1y",
	}

	easeEdges  = []float64{1.3, 1.5, 1.8, 2.0, 2.2, 2.4, 2.6, 2.8, 3.0}
	easeLabels = []string{
		"<1.3", "1.3-1.5", "1.5-1.8", "1.8-2.0", "2.0-2.2",
		"2.2-2.4", "2.4-2.6", "2.6-2.8", "2.8-3.0", ">3.0",
	}
)

// Compute aggregates the collection as of the given day. A negative
// horizon is treated as zero; the forecast always has horizon+1 dense
// entries, today first, even for an empty collection.
func Compute(cards []*domain.Card, today time.Time, forecastDays int) Snapshot {
	if forecastDays < 0 {
		forecastDays = 0
	}
	day := domain.DateOf(today)
	tomorrow := day.AddDate(0, 0, 1)
	week := day.AddDate(0, 0, 7)
	horizon := day.AddDate(0, 0, forecastDays)

	snap := Snapshot{TotalCards: len(cards)}
	intervalCounts := make([]int, len(intervalLabels))
	easeCounts := make([]int, len(easeLabels))
	forecast := make(map[time.Time]int, forecastDays+1)

	var (
		intervalSeenSum   float64
		intervalMatureSum float64
		easeSum           float64
		seen              int
	)

	for _, c := range cards {
		interval := c.IntervalDays
		snap.TotalReviews += c.Reviews
		snap.TotalLapses += c.Lapses
		if c.Lapses > 0 {
			snap.LapsedCards++
		}
		if !c.IsNew() {
			seen++
			intervalSeenSum += interval
			easeSum += c.EaseFactor
			if interval > snap.LongestInterval {
				snap.LongestInterval = interval
			}
		}

		// Maturity buckets are exclusive and exhaustive.
		switch {
		case c.IsNew():
			snap.NewCards++
		case interval < learningThreshold:
			snap.LearningCards++
		case interval < matureThreshold:
			snap.YoungCards++
		default:
			snap.MatureCards++
			intervalMatureSum += interval
		}

		intervalCounts[intervalBin(interval)]++
		if !c.IsNew() {
			easeCounts[easeBin(c.EaseFactor)]++
		}

		// An unscheduled card counts as due today.
		due := c.NextReview
		if due.IsZero() {
			due = day
		}
		if !due.After(day) {
			snap.DueToday++
		}
		if due.Equal(tomorrow) {
			snap.DueTomorrow++
		}
		if due.After(day) && !due.After(week) {
			snap.DueNext7Days++
		}
		if !due.Before(day) && !due.After(horizon) {
			forecast[due]++
		}
	}

	if seen > 0 {
		snap.AverageIntervalSeen = round1(intervalSeenSum / float64(seen))
		snap.AverageEase = round2(easeSum / float64(seen))
	}
	if snap.MatureCards > 0 {
		snap.AverageIntervalMature = round1(intervalMatureSum / float64(snap.MatureCards))
	}
	if snap.TotalCards > 0 {
		snap.AverageReviewsPerCard = round1(float64(snap.TotalReviews) / float64(snap.TotalCards))
		snap.AverageLapsesPerCard = round1(float64(snap.TotalLapses) / float64(snap.TotalCards))
	}

	snap.Forecast = make([]ForecastDay, forecastDays+1)
	for i := 0; i <= forecastDays; i++ {
		d := day.AddDate(0, 0, i)
		snap.Forecast[i] = ForecastDay{Date: d, Count: forecast[d]}
	}

	snap.IntervalRanges = make([]RangeCount, len(intervalLabels))
	for i, label := range intervalLabels {
		snap.IntervalRanges[i] = RangeCount{Label: label, Count: intervalCounts[i]}
	}
	snap.EaseRanges = make([]RangeCount, len(easeLabels))
	for i, label := range easeLabels {
		snap.EaseRanges[i] = RangeCount{Label: label, Count: easeCounts[i]}
	}

	return snap
}

// intervalBin maps an interval to its histogram bin index. Bin 0 is the
// exact-zero bin; interior bins are (edge[i-1], edge[i]]; the last is
// open past a year.
func intervalBin(interval float64) int {
	if interval <= 0 {
		return 0
	}
	for i, edge := range intervalEdges {
		if interval <= edge {
			return i + 1
		}
	}
	return len(intervalLabels) - 1
}

// easeBin maps an ease factor to its band. Bands are half-open
// [lo, hi); everything at or above 3.0 lands in the top band.
func easeBin(ease float64) int {
	for i, edge := range easeEdges {
		if ease < edge {
			return i
		}
	}
	return len(easeLabels) - 1
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
