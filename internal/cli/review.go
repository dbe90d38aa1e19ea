package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conorfennell/deckard/internal/cardid"
	"github.com/conorfennell/deckard/internal/deck"
	"github.com/conorfennell/deckard/internal/domain"
	"github.com/conorfennell/deckard/internal/session"
	"github.com/conorfennell/deckard/internal/sm2"
	"github.com/conorfennell/deckard/internal/storage"
)

// reviewLogger is the slice of storage.DB the review loop needs.
type reviewLogger interface {
	InsertReview(storage.Review) error
}

// ReviewCmd returns the review command.
func ReviewCmd() *cobra.Command {
	var noShuffle bool

	cmd := &cobra.Command{
		Use:   "review [deck]",
		Short: "Review the cards that are due today",
		Long: `Show each due card, reveal its answer, and reschedule it from your
rating. A card rated Again stays in the session and comes back after
the remaining cards. Ratings:

  1  Again   forgot it, see it again this session
  2  Hard    recalled with difficulty
  3  Good    recalled correctly (default, just press Enter)
  4  Easy    recalled effortlessly`,
		Args: cobra.MaximumNArgs(1),
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

			due := session.SelectDue(allCards(decks), today)
			if len(due) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing due today. Come back tomorrow.")
				return nil
			}

			queue := session.NewQueue(due)
			if cfg.Shuffle && !noShuffle {
				queue.Shuffle(nil)
			}

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			owners := deckOwners(decks)
			answered, err := runSession(cmd.InOrStdin(), cmd.OutOrStdout(), queue, sm2.DefaultParams(), db, owners, today)
			if err != nil {
				return err
			}

			for _, d := range decks {
				if err := d.Save(); err != nil {
					return fmt.Errorf("failed to save deck %s: %w", d.Path, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nSession done: %d reviews. Progress saved.\n", answered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noShuffle, "in-order", false, "review cards in deck order instead of shuffled")

	return cmd
}

// deckOwners maps each card back to the deck it was loaded from so the
// right file can be marked dirty after a review.
func deckOwners(decks []*deck.Deck) map[*domain.Card]*deck.Deck {
	owners := make(map[*domain.Card]*deck.Deck)
	for _, d := range decks {
		for _, c := range d.Cards {
			owners[c] = d
		}
	}
	return owners
}

// runSession drives the interactive review loop until the queue is
// exhausted or the user quits.
func runSession(in io.Reader, out io.Writer, queue *session.Queue, params *sm2.Params, log reviewLogger, owners map[*domain.Card]*deck.Deck, today time.Time) (int, error) {
	reader := bufio.NewReader(in)
	sessionID := uuid.NewString()
	answered := 0
	total := queue.Len()

	for {
		card := queue.Current()
		if card == nil {
			break
		}

		fmt.Fprintf(out, "\n[%d remaining of %d]\n", queue.Len(), total)
		fmt.Fprintf(out, "Q: %s\n", card.Front)
		fmt.Fprint(out, "Press Enter to reveal the answer (q to quit): ")
		line, err := readLine(reader)
		if err != nil {
			return answered, err
		}
		if isQuit(line) {
			fmt.Fprintln(out, "Session ended early. Progress saved.")
			return answered, nil
		}

		fmt.Fprintf(out, "A: %s\n", card.Back)

		rating, quit, err := readRating(reader, out)
		if err != nil {
			return answered, err
		}
		if quit {
			fmt.Fprintln(out, "Session ended early. Progress saved.")
			return answered, nil
		}

		before := card.IntervalDays
		outcome, err := params.Advance(*card, rating, today)
		if err != nil {
			return answered, err
		}
		*card = outcome.Card
		if outcome.Changed {
			if d := owners[card]; d != nil {
				d.MarkDirty()
			}
		}
		answered++

		if err := log.InsertReview(storage.Review{
			SessionID:      sessionID,
			CardHash:       cardid.Hash(*card),
			Deck:           ownerPath(owners, card),
			Rating:         int(rating),
			IntervalBefore: before,
			IntervalAfter:  card.IntervalDays,
			EaseAfter:      card.EaseFactor,
			ReviewedAt:     time.Now(),
		}); err != nil {
			slog.Warn("failed to log review", "error", err)
		}

		fmt.Fprintln(out, outcomeLine(rating, card))

		if rating == sm2.Again {
			queue.Requeue()
		} else {
			queue.Advance()
		}
	}

	return answered, nil
}

// readRating prompts until it gets a valid rating, Enter for Good, or a
// quit request.
func readRating(reader *bufio.Reader, out io.Writer) (sm2.Rating, bool, error) {
	prompt := fmt.Sprintf("Rate: %s %s %s %s (Enter=Good, q=quit): ",
		color.New(color.FgRed).Sprint("1) Again"),
		color.New(color.FgYellow).Sprint("2) Hard"),
		color.New(color.FgCyan).Sprint("3) Good"),
		color.New(color.FgGreen).Sprint("4) Easy"),
	)

	for {
		fmt.Fprint(out, prompt)
		line, err := readLine(reader)
		if err != nil {
			return 0, false, err
		}
		if isQuit(line) {
			return 0, true, nil
		}
		if line == "" {
			return sm2.Good, false, nil
		}

		var rating sm2.Rating
		if err := rating.UnmarshalText([]byte(line)); err == nil {
			return rating, false, nil
		}
		fmt.Fprintln(out, "Please answer 1-4, Enter for Good, or q to quit.")
	}
}

func outcomeLine(rating sm2.Rating, card *domain.Card) string {
	next := fmt.Sprintf("next in %s (due %s, ease %.2f)",
		formatInterval(card.IntervalDays), card.NextReview.Format(domain.DateFormat), card.EaseFactor)
	switch rating {
	case sm2.Again:
		return color.New(color.FgRed).Sprint("Again: ") + "back later this session, " + next
	case sm2.Hard:
		return color.New(color.FgYellow).Sprint("Hard: ") + next
	case sm2.Easy:
		return color.New(color.FgGreen).Sprint("Easy: ") + next
	default:
		return color.New(color.FgCyan).Sprint("Good: ") + next
	}
}

func formatInterval(days float64) string {
	if days < 1.5 {
		return "1 day"
	}
	return fmt.Sprintf("%.0f days", days)
}

func ownerPath(owners map[*domain.Card]*deck.Deck, card *domain.Card) string {
	if d := owners[card]; d != nil {
		return d.Path
	}
	return ""
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err == io.EOF {
		// Treat end of input as a quit so piped sessions finish cleanly.
		return "q", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

var _ reviewLogger = (*storage.DB)(nil)
