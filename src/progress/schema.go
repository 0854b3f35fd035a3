package progress

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS progress (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	unlocked_level INTEGER NOT NULL DEFAULT 1 CHECK(unlocked_level >= 1),
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT OR IGNORE INTO progress (id, unlocked_level) VALUES (1, 1);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	level INTEGER NOT NULL,
	name TEXT NOT NULL,
	won INTEGER NOT NULL CHECK(won IN (0, 1)),
	reason TEXT NOT NULL,
	moves INTEGER NOT NULL,
	notation TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	finished_at_utc DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at_utc DESC);
`
