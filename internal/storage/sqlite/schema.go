// ABOUTME: SQLite database schema for local slidechat settings
// ABOUTME: Holds named chat presets; conversation history is never stored
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS presets (
    name TEXT PRIMARY KEY,
    model TEXT NOT NULL,
    system_prompt TEXT NOT NULL DEFAULT '',
    max_turns INTEGER NOT NULL CHECK (max_turns > 0),
    max_new_tokens INTEGER NOT NULL CHECK (max_new_tokens > 0),
    temperature REAL NOT NULL,
    top_p REAL NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
`

// SchemaVersion is stored in PRAGMA user_version after initialization
const SchemaVersion = 1
