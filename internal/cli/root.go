// Package cli implements the deckard command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/deckard/internal/config"
	"github.com/conorfennell/deckard/internal/deck"
	"github.com/conorfennell/deckard/internal/domain"
)

// RootCmd builds the root command with every subcommand attached.
func RootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "deckard",
		Short: "Spaced-repetition flashcards stored in plain CSV files",
		Long: `deckard schedules flashcard reviews using an SM-2 derived algorithm.
Decks are ordinary CSV files you can edit with any tool; scheduling
state lives in columns alongside each card.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(ReviewCmd())
	cmd.AddCommand(StatsCmd())
	cmd.AddCommand(DecksCmd())
	cmd.AddCommand(AddCmd())
	cmd.AddCommand(ImportCmd())
	cmd.AddCommand(SourceCmd())

	return cmd
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// openDecks loads the named deck, or every deck in the decks directory
// when name is empty. Missing directories are seeded with a starter deck.
func openDecks(cfg *config.Config, name string, today time.Time) ([]*deck.Deck, error) {
	names, err := deck.Find(cfg.DecksDir)
	if err != nil {
		return nil, err
	}

	if name != "" {
		if filepath.Ext(name) == "" {
			name += ".csv"
		}
		d, err := deck.Load(filepath.Join(cfg.DecksDir, name), today)
		if err != nil {
			return nil, fmt.Errorf("failed to open deck %s: %w", name, err)
		}
		return []*deck.Deck{d}, nil
	}

	var decks []*deck.Deck
	for _, n := range names {
		d, err := deck.Load(filepath.Join(cfg.DecksDir, n), today)
		if err != nil {
			slog.Warn("skipping unreadable deck", "deck", n, "error", err)
			continue
		}
		decks = append(decks, d)
	}
	if len(decks) == 0 {
		return nil, fmt.Errorf("no usable decks in %s", cfg.DecksDir)
	}
	return decks, nil
}

func allCards(decks []*deck.Deck) []*domain.Card {
	var cards []*domain.Card
	for _, d := range decks {
		cards = append(cards, d.Cards...)
	}
	return cards
}
