package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
// Timestamps are stored as Unix nanoseconds so both drivers agree on the
// encoding.
const Schema = `
CREATE TABLE IF NOT EXISTS invocations (
    id TEXT PRIMARY KEY,
    request_id TEXT,
    timestamp INTEGER NOT NULL,

    source TEXT NOT NULL,
    engine TEXT NOT NULL,
    input_bytes INTEGER NOT NULL,
    input_hash TEXT NOT NULL,

    outcome TEXT NOT NULL,
    result TEXT,
    items INTEGER NOT NULL DEFAULT 0,

    error_kind TEXT,
    error_message TEXT,
    error_line INTEGER,
    error_column INTEGER,

    duration_ns INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invocations_timestamp ON invocations(timestamp);
CREATE INDEX IF NOT EXISTS idx_invocations_outcome ON invocations(outcome);
CREATE INDEX IF NOT EXISTS idx_invocations_source ON invocations(source);
`

// InsertSchemaVersion records the schema version.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO invocations (
    id, request_id, timestamp,
    source, engine, input_bytes, input_hash,
    outcome, result, items,
    error_kind, error_message, error_line, error_column,
    duration_ns
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `
    id, request_id, timestamp,
    source, engine, input_bytes, input_hash,
    outcome, result, items,
    error_kind, error_message, error_line, error_column,
    duration_ns
`

const deleteOldest = `
DELETE FROM invocations WHERE id IN (
    SELECT id FROM invocations ORDER BY timestamp DESC, id DESC LIMIT -1 OFFSET ?
)
`
