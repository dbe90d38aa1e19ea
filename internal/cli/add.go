package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/deckard/internal/deck"
)

// AddCmd returns the add command.
func AddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <deck> <front> <back>",
		Short: "Add a new card to a deck",
		Long: `Add a card to the named deck. The card is due immediately. If the
deck file does not exist yet it is created.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			today := time.Now()

			name, front, back := args[0], args[1], args[2]
			if front == "" || back == "" {
				return fmt.Errorf("front and back must not be empty")
			}
			if filepath.Ext(name) == "" {
				name += ".csv"
			}
			if err := os.MkdirAll(cfg.DecksDir, 0o755); err != nil {
				return fmt.Errorf("failed to create decks directory: %w", err)
			}
			path := filepath.Join(cfg.DecksDir, name)

			d, err := deck.Load(path, today)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				d = deck.New(path)
			}
			d.AddCard(front, back, today)
			if err := d.Save(); err != nil {
				return fmt.Errorf("failed to save deck %s: %w", name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added card to %s (%d cards).\n", name, len(d.Cards))
			return nil
		},
	}
}
