package history

import (
	"context"
	"time"
)

// Outcome values stored in Record.Outcome.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Record is one list invocation.
type Record struct {
	// ID is a time-ordered UUID (v7).
	ID string `json:"id"`

	// RequestID correlates the record with HTTP logs. Empty for CLI use.
	RequestID string `json:"request_id,omitempty"`

	// Timestamp is when the invocation started.
	Timestamp time.Time `json:"timestamp"`

	// Source names the document: a file path, "-" for stdin, or "request".
	Source string `json:"source"`

	// Engine is the parsing backend that handled the document.
	Engine string `json:"engine"`

	// InputBytes is the document size.
	InputBytes int `json:"input_bytes"`

	// InputHash is the hex SHA-256 of the document.
	InputHash string `json:"input_hash"`

	// Outcome is OutcomeSuccess or OutcomeError.
	Outcome string `json:"outcome"`

	// Result is the rendered line, truncated to the configured length.
	Result string `json:"result,omitempty"`

	// Items is the number of top-level items rendered.
	Items int `json:"items"`

	// Error fields are set for failed invocations.
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ErrorLine    int    `json:"error_line,omitempty"`
	ErrorColumn  int    `json:"error_column,omitempty"`

	// Duration is the time spent parsing and rendering.
	Duration time.Duration `json:"duration_ns"`
}

// Query filters records. Zero-valued fields do not filter.
type Query struct {
	// Since and Until bound Timestamp (inclusive).
	Since time.Time
	Until time.Time

	Outcome string
	Source  string

	// Limit caps the number of returned records (default 100).
	Limit  int
	Offset int
}

// DefaultQueryLimit is used when Query.Limit is not positive.
const DefaultQueryLimit = 100

// Storage persists invocation records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns matching records, newest first.
	Query(ctx context.Context, query Query) ([]*Record, error)

	// Count returns the number of matching records. Limit and Offset are
	// ignored.
	Count(ctx context.Context, query Query) (int64, error)

	// DeleteBefore removes records older than cutoff and returns how many
	// were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest removes all but the newest keep records.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultQueryLimit
	}
	return q.Limit
}

func (q Query) matches(r *Record) bool {
	if !q.Since.IsZero() && r.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && r.Timestamp.After(q.Until) {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.Source != "" && r.Source != q.Source {
		return false
	}
	return true
}
