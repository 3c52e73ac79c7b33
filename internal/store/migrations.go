package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create business tables",
		SQL: `
			CREATE TABLE clients (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				email       TEXT NOT NULL DEFAULT '',
				company     TEXT NOT NULL DEFAULT '',
				source      TEXT NOT NULL DEFAULT '',
				notes       TEXT NOT NULL DEFAULT '',
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE jobs (
				id            TEXT PRIMARY KEY,
				client_id     TEXT REFERENCES clients(id) ON DELETE SET NULL,
				title         TEXT NOT NULL,
				description   TEXT NOT NULL DEFAULT '',
				status        TEXT NOT NULL DEFAULT 'pending',
				agent_type    TEXT NOT NULL DEFAULT '',
				price         REAL NOT NULL DEFAULT 0,
				paid          REAL NOT NULL DEFAULT 0,
				notes         TEXT NOT NULL DEFAULT '',
				created_at    TEXT NOT NULL DEFAULT (datetime('now')),
				started_at    TEXT,
				completed_at  TEXT
			);

			CREATE INDEX idx_jobs_client ON jobs (client_id);
			CREATE INDEX idx_jobs_status ON jobs (status);

			CREATE TABLE transactions (
				id          TEXT PRIMARY KEY,
				job_id      TEXT REFERENCES jobs(id) ON DELETE SET NULL,
				amount      REAL NOT NULL,
				type        TEXT NOT NULL DEFAULT 'income',
				description TEXT NOT NULL DEFAULT '',
				date        TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_transactions_type ON transactions (type);
			CREATE INDEX idx_transactions_date ON transactions (date);

			CREATE TABLE notes (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL DEFAULT '',
				content     TEXT NOT NULL DEFAULT '',
				category    TEXT NOT NULL DEFAULT 'general',
				pinned      INTEGER NOT NULL DEFAULT 0,
				created_at  TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE leads (
				id           TEXT PRIMARY KEY,
				source       TEXT NOT NULL DEFAULT '',
				client_name  TEXT NOT NULL DEFAULT '',
				email        TEXT NOT NULL DEFAULT '',
				description  TEXT NOT NULL DEFAULT '',
				budget       TEXT NOT NULL DEFAULT '',
				status       TEXT NOT NULL DEFAULT 'new',
				notes        TEXT NOT NULL DEFAULT '',
				created_at   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_leads_status ON leads (status);
		`,
	},
}
