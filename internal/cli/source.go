package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/deckard/internal/storage"
	"github.com/conorfennell/deckard/internal/sync"
)

// SourceCmd returns the source command and its subcommands.
func SourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage deck sources (local directories and git repositories)",
	}

	cmd.AddCommand(sourceAddCmd())
	cmd.AddCommand(sourceListCmd())
	cmd.AddCommand(sourceRemoveCmd())
	cmd.AddCommand(sourceSyncCmd())

	return cmd
}

func sourceAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path-or-git-url>",
		Short: "Register a new deck source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			path := args[0]
			kind := storage.SourceLocal
			if isGitURL(path) {
				kind = storage.SourceGit
			} else {
				if path, err = filepath.Abs(path); err != nil {
					return err
				}
			}

			existing, err := db.FindSourceByPath(path)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("source already registered: %s", path)
			}

			id, err := db.InsertSource(path, kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s source %d: %s\n", kind, id, path)
			return nil
		},
	}
}

func sourceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			sources, err := db.GetAllSources()
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sources registered. Add one with: deckard source add <path-or-url>")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-4s %-6s %-20s %s\n", "ID", "KIND", "LAST SYNCED", "PATH")
			for _, s := range sources {
				synced := "never"
				if s.LastSynced.Valid {
					synced = s.LastSynced.Time.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "%-4d %-6s %-20s %s\n", s.ID, s.Kind, synced, s.Path)
			}
			return nil
		},
	}
}

func sourceRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path-or-git-url>",
		Short: "Remove a registered source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			path := args[0]
			src, err := db.FindSourceByPath(path)
			if err != nil {
				return err
			}
			if src == nil {
				if abs, absErr := filepath.Abs(path); absErr == nil {
					src, err = db.FindSourceByPath(abs)
					if err != nil {
						return err
					}
				}
			}
			if src == nil {
				return fmt.Errorf("no such source: %s", path)
			}

			if err := db.DeleteSource(src.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed source %d: %s\n", src.ID, src.Path)
			return nil
		},
	}
}

func sourceSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync every source and list the decks they provide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := sync.Run(db, filepath.Join(cfg.DecksDir, "repos"), time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range res.Decks {
				fmt.Fprintln(out, d)
			}
			fmt.Fprintf(out, "Synced: %d decks found", len(res.Decks))
			if res.Failed > 0 {
				fmt.Fprintf(out, ", %d sources failed", res.Failed)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func isGitURL(s string) bool {
	if strings.HasSuffix(s, ".git") {
		return true
	}
	for _, prefix := range []string{"https://", "http://", "git://", "ssh://", "git@"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
