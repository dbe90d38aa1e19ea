package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conorfennell/deckard/internal/stats"
)

// StatsCmd returns the stats command.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [deck]",
		Short: "Show collection statistics and a review forecast",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			today := time.Now()

			var deckName string
			if len(args) == 1 {
				deckName = args[0]
			}
			decks, err := openDecks(cfg, deckName, today)
			if err != nil {
				return err
			}

			snap := stats.Compute(allCards(decks), today, cfg.ForecastDays)
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func printSnapshot(out io.Writer, snap stats.Snapshot) {
	bold := color.New(color.Bold)

	bold.Fprintln(out, "Collection")
	fmt.Fprintf(out, "  Total cards:  %d\n", snap.TotalCards)
	fmt.Fprintf(out, "  New:          %d\n", snap.NewCards)
	fmt.Fprintf(out, "  Learning:     %d  (interval under 21d)\n", snap.LearningCards)
	fmt.Fprintf(out, "  Young:        %d  (interval under 90d)\n", snap.YoungCards)
	fmt.Fprintf(out, "  Mature:       %d  (interval 90d and up)\n", snap.MatureCards)

	fmt.Fprintln(out)
	bold.Fprintln(out, "Due")
	due := fmt.Sprintf("%d", snap.DueToday)
	if snap.DueToday > 0 {
		due = color.New(color.FgGreen).Sprint(due)
	}
	fmt.Fprintf(out, "  Today (incl. overdue): %s\n", due)
	fmt.Fprintf(out, "  Tomorrow:              %d\n", snap.DueTomorrow)
	fmt.Fprintf(out, "  Next 7 days:           %d\n", snap.DueNext7Days)

	fmt.Fprintln(out)
	bold.Fprintf(out, "Forecast (%d days)\n", len(snap.Forecast)-1)
	printForecast(out, snap.Forecast)

	fmt.Fprintln(out)
	bold.Fprintln(out, "Intervals")
	fmt.Fprintf(out, "  Average (seen cards): %.1fd\n", snap.AverageIntervalSeen)
	fmt.Fprintf(out, "  Average (mature):     %.1fd\n", snap.AverageIntervalMature)
	fmt.Fprintf(out, "  Longest:              %.1fd\n", snap.LongestInterval)
	printRanges(out, snap.IntervalRanges)

	fmt.Fprintln(out)
	bold.Fprintln(out, "Ease")
	fmt.Fprintf(out, "  Average: %.2f\n", snap.AverageEase)
	printRanges(out, snap.EaseRanges)

	fmt.Fprintln(out)
	bold.Fprintln(out, "History")
	fmt.Fprintf(out, "  Total reviews:     %d\n", snap.TotalReviews)
	fmt.Fprintf(out, "  Total lapses:      %d\n", snap.TotalLapses)
	fmt.Fprintf(out, "  Reviews per card:  %.1f\n", snap.AverageReviewsPerCard)
	fmt.Fprintf(out, "  Lapses per card:   %.1f\n", snap.AverageLapsesPerCard)
	fmt.Fprintf(out, "  Cards ever lapsed: %d\n", snap.LapsedCards)
}

// printForecast renders one bar per day, scaled to the busiest day.
func printForecast(out io.Writer, forecast []stats.ForecastDay) {
	const barWidth = 40

	max := 0
	for _, day := range forecast {
		if day.Count > max {
			max = day.Count
		}
	}
	if max == 0 {
		fmt.Fprintln(out, "  nothing scheduled in this window")
		return
	}

	for _, day := range forecast {
		bar := strings.Repeat("#", day.Count*barWidth/max)
		if day.Count > 0 && bar == "" {
			bar = "#"
		}
		fmt.Fprintf(out, "  %s %3d %s\n", day.Date.Format("Jan 02"), day.Count, bar)
	}
}

func printRanges(out io.Writer, ranges []stats.RangeCount) {
	for _, r := range ranges {
		if r.Count == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-8s %d\n", r.Label, r.Count)
	}
}
