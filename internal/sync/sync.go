// Package sync reconciles registered deck sources with the local
// filesystem: git sources are cloned or pulled under the repos
// directory, then every source is scanned for CSV decks.
package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/conorfennell/deckard/internal/gitsource"
	"github.com/conorfennell/deckard/internal/storage"
)

// Result summarizes one sync run.
type Result struct {
	Decks  []string // absolute paths of every CSV deck found across sources
	Failed int      // sources that could not be synced
}

// Run syncs every registered source and returns the decks they contain.
// A failing source is logged and skipped rather than aborting the run.
func Run(db *storage.DB, reposDir string, now time.Time) (Result, error) {
	var res Result

	sources, err := db.GetAllSources()
	if err != nil {
		return res, fmt.Errorf("failed to load sources: %w", err)
	}
	if len(sources) == 0 {
		slog.Info("no sources configured")
		return res, nil
	}

	if err := os.MkdirAll(reposDir, 0o755); err != nil {
		return res, fmt.Errorf("failed to create repos directory: %w", err)
	}

	for _, source := range sources {
		slog.Info("syncing source", "id", source.ID, "kind", source.Kind, "path", source.Path)

		localPath := source.Path
		if source.Kind == storage.SourceGit {
			localPath = filepath.Join(reposDir, gitsource.DirName(source.Path))
			if err := gitsource.Sync(source.Path, localPath); err != nil {
				slog.Error("failed to sync git source", "url", source.Path, "error", err)
				res.Failed++
				continue
			}
		}

		decks, err := findDecks(localPath)
		if err != nil {
			slog.Error("failed to scan source for decks", "path", localPath, "error", err)
			res.Failed++
			continue
		}
		slog.Info("source scanned", "path", localPath, "decks", len(decks))
		res.Decks = append(res.Decks, decks...)

		if err := db.UpdateSourceLastSynced(source.ID, now); err != nil {
			slog.Warn("failed to stamp source sync time", "id", source.ID, "error", err)
		}
	}

	sort.Strings(res.Decks)
	return res, nil
}

// findDecks walks root and collects every .csv file, skipping dot
// directories such as .git.
func findDecks(root string) ([]string, error) {
	var decks []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".csv") {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			decks = append(decks, abs)
		}
		return nil
	})
	return decks, err
}
