package registry

const schemaSQL = `
CREATE TABLE IF NOT EXISTS servers (
	address    TEXT PRIMARY KEY,
	pid        INTEGER NOT NULL,
	started_at TEXT NOT NULL
);
`
