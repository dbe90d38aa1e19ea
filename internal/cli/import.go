package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/deckard/internal/cardid"
	"github.com/conorfennell/deckard/internal/deck"
	"github.com/conorfennell/deckard/internal/parser"
)

// ImportCmd returns the import command.
func ImportCmd() *cobra.Command {
	var deckName string

	cmd := &cobra.Command{
		Use:   "import <notes.txt> [more files...]",
		Short: "Import Q:/A: note files into a deck",
		Long: `Extract cards from plain-text note files and append them to a deck.
Cards already present in the deck (matched on normalized front and
back text) are skipped, so re-importing the same notes is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			today := time.Now()

			name := deckName
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

			known := make(map[string]bool, len(d.Cards))
			for _, c := range d.Cards {
				known[cardid.Hash(*c)] = true
			}

			added, skipped := 0, 0
			for _, file := range args {
				cards, err := parser.ParseFile(file)
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", file, err)
				}
				for _, c := range cards {
					if known[cardid.Hash(c)] {
						skipped++
						continue
					}
					known[cardid.Hash(c)] = true
					card := d.AddCard(c.Front, c.Back, today)
					if ctx, ok := c.ExtraValue(parser.ContextColumn); ok {
						card.SetExtra(parser.ContextColumn, ctx)
					}
					added++
				}
			}

			if err := d.Save(); err != nil {
				return fmt.Errorf("failed to save deck %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new cards into %s (%d duplicates skipped).\n", added, name, skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&deckName, "deck", "imported", "deck to add the cards to")

	return cmd
}
