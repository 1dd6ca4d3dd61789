package history

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// BackendMemory is the backend name of MemoryStorage.
const BackendMemory = "memory"

// MemoryStorage keeps records in process memory. Records are lost on exit;
// it backs the CLI's default configuration and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
	closed  bool
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists a copy of the record.
func (s *MemoryStorage) Store(ctx context.Context, record *Record) error {
	if err := ctx.Err(); err != nil {
		return NewStorageError(BackendMemory, "store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError(BackendMemory, "store", ErrClosed)
	}

	recordCopy := *record
	s.records = append(s.records, &recordCopy)
	return nil
}

// Query returns matching records, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageError(BackendMemory, "query", ErrClosed)
	}

	results := []*Record{}
	for _, record := range s.newestFirst() {
		if query.matches(record) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	if query.Offset >= len(results) {
		return []*Record{}, nil
	}
	results = results[query.Offset:]
	if limit := query.limit(); len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(ctx context.Context, query Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, NewStorageError(BackendMemory, "count", ErrClosed)
	}

	var n int64
	for _, record := range s.records {
		if query.matches(record) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore removes records older than cutoff.
func (s *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, NewStorageError(BackendMemory, "delete_before", ErrClosed)
	}

	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, func(r *Record) bool {
		return r.Timestamp.Before(cutoff)
	})
	return int64(before - len(s.records)), nil
}

// DeleteOldest removes all but the newest keep records.
func (s *MemoryStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, NewStorageError(BackendMemory, "delete_oldest", ErrClosed)
	}
	if keep < 0 {
		keep = 0
	}
	if int64(len(s.records)) <= keep {
		return 0, nil
	}

	sorted := s.newestFirst()
	removed := int64(len(sorted)) - keep
	s.records = sorted[:keep]
	return removed, nil
}

// Close marks the backend closed and drops all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	return nil
}

// newestFirst returns the records ordered by timestamp then ID, newest
// first. Callers must hold the lock.
func (s *MemoryStorage) newestFirst() []*Record {
	sorted := slices.Clone(s.records)
	slices.SortStableFunc(sorted, func(a, b *Record) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return sorted
}
