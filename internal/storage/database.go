package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// Source kinds stored in the sources table.
const (
	SourceLocal = "local"
	SourceGit   = "git"
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Source is a deck origin, either a local path or a git URL.
type Source struct {
	ID         int64
	Path       string
	Kind       string
	LastSynced sql.NullTime
}

// InsertSource registers a new deck source and returns its ID.
func (db *DB) InsertSource(path, kind string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO sources (path, kind)
		VALUES (?, ?)
	`, path, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source by its path, or nil when absent.
func (db *DB) FindSourceByPath(path string) (*Source, error) {
	var s Source
	row := db.conn.QueryRow(`
		SELECT id, path, kind, last_synced
		FROM sources WHERE path = ?
	`, path)

	err := row.Scan(&s.ID, &s.Path, &s.Kind, &s.LastSynced)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return &s, nil
}

// GetAllSources retrieves every registered source.
func (db *DB) GetAllSources() ([]Source, error) {
	rows, err := db.conn.Query(`
		SELECT id, path, kind, last_synced
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Kind, &s.LastSynced); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source by its ID.
func (db *DB) DeleteSource(id int64) error {
	_, err := db.conn.Exec(`
		DELETE FROM sources WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source ID %d: %w", id, err)
	}
	return nil
}

// UpdateSourceLastSynced stamps the last_synced timestamp for a source.
func (db *DB) UpdateSourceLastSynced(id int64, at time.Time) error {
	_, err := db.conn.Exec(`
		UPDATE sources
		SET last_synced = ?
		WHERE id = ?
	`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last synced for source ID %d: %w", id, err)
	}
	return nil
}

// Review is one answered card within a review session.
type Review struct {
	ID             int64
	SessionID      string
	CardHash       string
	Deck           string
	Rating         int
	IntervalBefore float64
	IntervalAfter  float64
	EaseAfter      float64
	ReviewedAt     time.Time
}

// InsertReview appends a review to the log.
func (db *DB) InsertReview(r Review) error {
	_, err := db.conn.Exec(`
		INSERT INTO review_log (session_id, card_hash, deck, rating, interval_before, interval_after, ease_after, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.SessionID,
		r.CardHash,
		r.Deck,
		r.Rating,
		r.IntervalBefore,
		r.IntervalAfter,
		r.EaseAfter,
		r.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log review for card %s: %w", r.CardHash, err)
	}
	return nil
}

// ReviewsByCard retrieves the review history for one card, oldest first.
func (db *DB) ReviewsByCard(hash string) ([]Review, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, card_hash, deck, rating, interval_before, interval_after, ease_after, reviewed_at
		FROM review_log WHERE card_hash = ? ORDER BY reviewed_at
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for card %s: %w", hash, err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

// ReviewsSince retrieves every review at or after the given instant.
func (db *DB) ReviewsSince(at time.Time) ([]Review, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, card_hash, deck, rating, interval_before, interval_after, ease_after, reviewed_at
		FROM review_log WHERE reviewed_at >= ? ORDER BY reviewed_at
	`, at)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews since %s: %w", at, err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

// CountReviewsBySession returns the number of logged reviews per session ID.
func (db *DB) CountReviewsBySession(sessionID string) (int, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM review_log WHERE session_id = ?
	`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews for session %s: %w", sessionID, err)
	}
	return n, nil
}

func scanReviews(rows *sql.Rows) ([]Review, error) {
	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(
			&r.ID,
			&r.SessionID,
			&r.CardHash,
			&r.Deck,
			&r.Rating,
			&r.IntervalBefore,
			&r.IntervalAfter,
			&r.EaseAfter,
			&r.ReviewedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
