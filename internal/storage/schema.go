package storage

const schema = `
-- The 'sources' table tracks where decks come from, either a local
-- directory or a git repository that is cloned under the decks dir.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL DEFAULT 'local', -- 'local' or 'git'
    last_synced DATETIME
);

-- The 'review_log' table records every answered card. The CSV deck
-- stays the source of truth for scheduling; this log exists for
-- history and statistics across sessions.
CREATE TABLE IF NOT EXISTS review_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    card_hash TEXT NOT NULL,
    deck TEXT NOT NULL,
    rating INTEGER NOT NULL,
    interval_before REAL NOT NULL,
    interval_after REAL NOT NULL,
    ease_after REAL NOT NULL,
    reviewed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_log_card ON review_log(card_hash);
CREATE INDEX IF NOT EXISTS idx_review_log_session ON review_log(session_id);
`
