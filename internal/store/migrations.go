package store

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE TABLE IF NOT EXISTS notifications (
				id TEXT PRIMARY KEY,
				kind TEXT NOT NULL,
				message TEXT NOT NULL,
				read INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				origin TEXT NOT NULL DEFAULT 'fetch'
			);
			CREATE INDEX IF NOT EXISTS idx_notifications_read
				ON notifications(read);
			CREATE INDEX IF NOT EXISTS idx_notifications_created_at
				ON notifications(created_at);
			INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}
