package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mercator-hq/yamllist/pkg/config"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// BackendSQLite is the backend name of SQLiteStorage.
const BackendSQLite = "sqlite"

// Driver names accepted in SQLiteConfig.Driver.
const (
	// DriverModernc is the pure Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"

	// DriverMattn is the cgo driver registered by github.com/mattn/go-sqlite3.
	DriverMattn = "sqlite3"
)

// SQLiteStorage implements Storage on a SQLite database.
type SQLiteStorage struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at cfg.Path and
// initializes the schema.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Driver == "" {
		cfg.Driver = config.DefaultSQLiteDriver
	}
	if cfg.Path == "" {
		return nil, NewStorageError(BackendSQLite, "open", fmt.Errorf("database path is empty"))
	}

	logger := slog.Default().With("component", "history.sqlite")

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, NewStorageError(BackendSQLite, "open", err)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, NewStorageError(BackendSQLite, "open", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite storage initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"wal_mode", cfg.WALMode,
	)

	return s, nil
}

// buildDSN encodes the journal mode and busy timeout as connection
// parameters so every pooled connection gets them. The two drivers spell
// them differently.
func buildDSN(cfg config.SQLiteConfig) (string, error) {
	busyMs := cfg.BusyTimeout.Milliseconds()

	var params []string
	switch cfg.Driver {
	case DriverModernc:
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", busyMs))
		if cfg.WALMode {
			params = append(params, "_pragma=journal_mode(WAL)")
		}
	case DriverMattn:
		params = append(params, fmt.Sprintf("_busy_timeout=%d", busyMs))
		if cfg.WALMode {
			params = append(params, "_journal_mode=WAL")
		}
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}

	return cfg.Path + "?" + strings.Join(params, "&"), nil
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(BackendSQLite, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(BackendSQLite, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError(BackendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(BackendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *Record) error {
	_, err := s.db.ExecContext(ctx, insertRecord,
		record.ID, nullString(record.RequestID), record.Timestamp.UnixNano(),
		record.Source, record.Engine, record.InputBytes, record.InputHash,
		record.Outcome, nullString(record.Result), record.Items,
		nullString(record.ErrorKind), nullString(record.ErrorMessage),
		nullInt(record.ErrorLine), nullInt(record.ErrorColumn),
		int64(record.Duration),
	)
	if err != nil {
		return NewStorageError(BackendSQLite, "store", err)
	}
	return nil
}

// Query returns matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query Query) ([]*Record, error) {
	where, args := buildWhereClause(query)

	sqlQuery := "SELECT" + selectColumns + "FROM invocations"
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += " ORDER BY timestamp DESC, id DESC"
	sqlQuery += fmt.Sprintf(" LIMIT %d", query.limit())
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError(BackendSQLite, "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, NewStorageError(BackendSQLite, "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(BackendSQLite, "query", err)
	}

	return records, nil
}

// Count returns the number of matching records.
func (s *SQLiteStorage) Count(ctx context.Context, query Query) (int64, error) {
	where, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM invocations"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, NewStorageError(BackendSQLite, "count", err)
	}
	return count, nil
}

// DeleteBefore removes records older than cutoff.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM invocations WHERE timestamp < ?", cutoff.UnixNano())
	if err != nil {
		return 0, NewStorageError(BackendSQLite, "delete_before", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError(BackendSQLite, "delete_before", err)
	}
	return n, nil
}

// DeleteOldest removes all but the newest keep records.
func (s *SQLiteStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, deleteOldest, keep)
	if err != nil {
		return 0, NewStorageError(BackendSQLite, "delete_oldest", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError(BackendSQLite, "delete_oldest", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(BackendSQLite, "close", err)
	}
	s.logger.Debug("SQLite storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause (without the keyword) from the
// query filters.
func buildWhereClause(query Query) (string, []any) {
	var conditions []string
	var args []any

	if !query.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, query.Since.UnixNano())
	}
	if !query.Until.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, query.Until.UnixNano())
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, query.Outcome)
	}
	if query.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, query.Source)
	}

	return strings.Join(conditions, " AND "), args
}

func scanRow(rows *sql.Rows) (*Record, error) {
	var record Record
	var requestID, result, errorKind, errorMessage sql.NullString
	var errorLine, errorColumn sql.NullInt64
	var timestamp, duration int64

	err := rows.Scan(
		&record.ID, &requestID, &timestamp,
		&record.Source, &record.Engine, &record.InputBytes, &record.InputHash,
		&record.Outcome, &result, &record.Items,
		&errorKind, &errorMessage, &errorLine, &errorColumn,
		&duration,
	)
	if err != nil {
		return nil, err
	}

	record.RequestID = requestID.String
	record.Timestamp = time.Unix(0, timestamp).UTC()
	record.Result = result.String
	record.ErrorKind = errorKind.String
	record.ErrorMessage = errorMessage.String
	record.ErrorLine = int(errorLine.Int64)
	record.ErrorColumn = int(errorColumn.Int64)
	record.Duration = time.Duration(duration)

	return &record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
