package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/deckard/internal/storage"
)

func TestRunLocalSources(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "deckard.db"))
	require.NoError(t, err)
	defer db.Close()

	srcDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "nested"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, ".git"), 0o755))
	for _, name := range []string{"spanish.csv", "nested/go.csv", ".git/ignored.csv", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), []byte("front,back,next_review_date,interval_days\n"), 0o644))
	}

	_, err = db.InsertSource(srcDir, storage.SourceLocal)
	require.NoError(t, err)

	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	res, err := Run(db, filepath.Join(t.TempDir(), "repos"), now)
	require.NoError(t, err)

	assert.Zero(t, res.Failed)
	require.Len(t, res.Decks, 2, "csv files under dot directories must be skipped")
	assert.Equal(t, "go.csv", filepath.Base(res.Decks[0]))
	assert.Equal(t, "spanish.csv", filepath.Base(res.Decks[1]))

	src, err := db.FindSourceByPath(srcDir)
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.True(t, src.LastSynced.Valid, "a synced source gets a timestamp")
}

func TestRunMissingSourceIsSkipped(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "deckard.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.InsertSource(filepath.Join(t.TempDir(), "gone"), storage.SourceLocal)
	require.NoError(t, err)

	res, err := Run(db, filepath.Join(t.TempDir(), "repos"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, res.Decks)
}

func TestRunNoSources(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "deckard.db"))
	require.NoError(t, err)
	defer db.Close()

	res, err := Run(db, filepath.Join(t.TempDir(), "repos"), time.Now())
	require.NoError(t, err)
	assert.Empty(t, res.Decks)
	assert.Zero(t, res.Failed)
}
