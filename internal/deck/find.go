package deck

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const exampleDeckName = "example_deck.csv"

var exampleDeckRows = [][]string{
	{"front", "back", "next_review_date", "interval_days", "ease_factor", "lapses", "reviews"},
	{"What does SRS stand for?", "Spaced repetition system.", "", "", "2.5", "0", "0"},
	{"Capital of France?", "Paris.", "", "", "2.5", "0", "0"},
}

// Find lists the .csv decks in dir, sorted by name. A missing directory
// is created and seeded with a starter deck so first-run users have
// something to review.
func Find(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := seedDecksDir(dir); err != nil {
			return nil, err
		}
		return []string{exampleDeckName}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access decks directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("decks path %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read decks directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func seedDecksDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create decks directory %s: %w", dir, err)
	}
	slog.Info("created decks directory", "dir", dir)

	path := filepath.Join(dir, exampleDeckName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create starter deck: %w", err)
	}
	defer f.Close()

	for _, row := range exampleDeckRows {
		if _, err := fmt.Fprintln(f, strings.Join(row, ",")); err != nil {
			return fmt.Errorf("failed to write starter deck: %w", err)
		}
	}
	slog.Info("created starter deck", "path", path)
	return nil
}
