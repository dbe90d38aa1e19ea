package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conorfennell/deckard/internal/session"
)

// DecksCmd returns the decks command.
func DecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List decks with their due and new counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			today := time.Now()

			decks, err := openDecks(cfg, "", today)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-30s %6s %6s %6s\n", "DECK", "DUE", "NEW", "TOTAL")
			for _, d := range decks {
				due := len(session.SelectDue(d.Cards, today))
				newCount := 0
				for _, c := range d.Cards {
					if c.IsNew() {
						newCount++
					}
				}

				dueCol := fmt.Sprintf("%6d", due)
				if due > 0 {
					dueCol = color.New(color.FgGreen).Sprintf("%6d", due)
				}
				fmt.Fprintf(out, "%-30s %s %6d %6d\n", filepath.Base(d.Path), dueCol, newCount, len(d.Cards))
			}
			return nil
		},
	}
}
