package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mercator-hq/yamllist/pkg/config"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRecord(i int, outcome string) *Record {
	r := &Record{
		ID:         fmt.Sprintf("rec-%03d", i),
		Timestamp:  baseTime.Add(time.Duration(i) * time.Minute),
		Source:     "doc.yaml",
		Engine:     "native",
		InputBytes: 10 + i,
		InputHash:  fmt.Sprintf("hash-%d", i),
		Outcome:    outcome,
		Duration:   time.Duration(i) * time.Microsecond,
	}
	if outcome == OutcomeSuccess {
		r.Result = "a, b"
		r.Items = 2
	} else {
		r.ErrorKind = "DuplicateKey"
		r.ErrorMessage = "duplicate mapping key \"a\""
		r.ErrorLine = 2
		r.ErrorColumn = 1
	}
	return r
}

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(config.SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "history.db"),
		Driver:       DriverModernc,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends runs fn against every storage implementation.
func backends(t *testing.T, fn func(t *testing.T, s Storage)) {
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStorage()
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newTestSQLite(t))
	})
}

func seed(t *testing.T, s Storage, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		outcome := OutcomeSuccess
		if i%3 == 2 {
			outcome = OutcomeError
		}
		if err := s.Store(context.Background(), newRecord(i, outcome)); err != nil {
			t.Fatalf("Store(%d) error = %v", i, err)
		}
	}
}

func TestStorage_StoreAndQuery(t *testing.T) {
	backends(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		want := newRecord(1, OutcomeError)
		want.RequestID = "req-1"
		if err := s.Store(ctx, want); err != nil {
			t.Fatalf("Store() error = %v", err)
		}

		got, err := s.Query(ctx, Query{})
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Query() returned %d records, want 1", len(got))
		}

		r := got[0]
		if r.ID != want.ID || r.RequestID != want.RequestID || r.Source != want.Source {
			t.Errorf("identity fields = %+v", r)
		}
		if !r.Timestamp.Equal(want.Timestamp) {
			t.Errorf("Timestamp = %v, want %v", r.Timestamp, want.Timestamp)
		}
		if r.ErrorKind != want.ErrorKind || r.ErrorLine != 2 || r.ErrorColumn != 1 {
			t.Errorf("error fields = %q %d:%d", r.ErrorKind, r.ErrorLine, r.ErrorColumn)
		}
		if r.Duration != want.Duration {
			t.Errorf("Duration = %v, want %v", r.Duration, want.Duration)
		}
	})
}

func TestStorage_QueryFilters(t *testing.T) {
	backends(t, func(t *testing.T, s Storage) {
		seed(t, s, 9)
		ctx := context.Background()

		tests := []struct {
			name    string
			query   Query
			wantIDs []string
		}{
			{
				name:    "errors only",
				query:   Query{Outcome: OutcomeError},
				wantIDs: []string{"rec-008", "rec-005", "rec-002"},
			},
			{
				name:    "time range",
				query:   Query{Since: baseTime.Add(3 * time.Minute), Until: baseTime.Add(5 * time.Minute)},
				wantIDs: []string{"rec-005", "rec-004", "rec-003"},
			},
			{
				name:    "limit and offset",
				query:   Query{Limit: 2, Offset: 1},
				wantIDs: []string{"rec-007", "rec-006"},
			},
			{
				name:    "offset past end",
				query:   Query{Offset: 50},
				wantIDs: []string{},
			},
			{
				name:    "unknown source",
				query:   Query{Source: "other.yaml"},
				wantIDs: []string{},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.Query(ctx, tt.query)
				if err != nil {
					t.Fatalf("Query() error = %v", err)
				}
				ids := make([]string, len(got))
				for i, r := range got {
					ids[i] = r.ID
				}
				if fmt.Sprint(ids) != fmt.Sprint(tt.wantIDs) {
					t.Errorf("Query() ids = %v, want %v", ids, tt.wantIDs)
				}
			})
		}
	})
}

func TestStorage_Count(t *testing.T) {
	backends(t, func(t *testing.T, s Storage) {
		seed(t, s, 9)
		ctx := context.Background()

		total, err := s.Count(ctx, Query{Limit: 1})
		if err != nil {
			t.Fatal(err)
		}
		if total != 9 {
			t.Errorf("Count() = %d, want 9 (limit ignored)", total)
		}

		errs, err := s.Count(ctx, Query{Outcome: OutcomeError})
		if err != nil {
			t.Fatal(err)
		}
		if errs != 3 {
			t.Errorf("Count(errors) = %d, want 3", errs)
		}
	})
}

func TestStorage_DeleteBefore(t *testing.T) {
	backends(t, func(t *testing.T, s Storage) {
		seed(t, s, 6)
		ctx := context.Background()

		deleted, err := s.DeleteBefore(ctx, baseTime.Add(4*time.Minute))
		if err != nil {
			t.Fatal(err)
		}
		if deleted != 4 {
			t.Errorf("DeleteBefore() = %d, want 4", deleted)
		}
		if n, _ := s.Count(ctx, Query{}); n != 2 {
			t.Errorf("remaining = %d, want 2", n)
		}
	})
}

func TestStorage_DeleteOldest(t *testing.T) {
	backends(t, func(t *testing.T, s Storage) {
		seed(t, s, 6)
		ctx := context.Background()

		deleted, err := s.DeleteOldest(ctx, 2)
		if err != nil {
			t.Fatal(err)
		}
		if deleted != 4 {
			t.Errorf("DeleteOldest(2) = %d, want 4", deleted)
		}

		got, _ := s.Query(ctx, Query{})
		if len(got) != 2 || got[0].ID != "rec-005" || got[1].ID != "rec-004" {
			t.Errorf("remaining records = %v", got)
		}

		deleted, err = s.DeleteOldest(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if deleted != 0 {
			t.Errorf("DeleteOldest(10) = %d, want 0", deleted)
		}
	})
}

func TestStorage_ConcurrentStore(t *testing.T) {
	backends(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := s.Store(ctx, newRecord(i, OutcomeSuccess)); err != nil {
					t.Errorf("Store(%d) error = %v", i, err)
				}
			}(i)
		}
		wg.Wait()

		if n, _ := s.Count(ctx, Query{}); n != 20 {
			t.Errorf("Count() = %d, want 20", n)
		}
	})
}

func TestMemoryStorage_Closed(t *testing.T) {
	s := NewMemoryStorage()
	s.Close()

	err := s.Store(context.Background(), newRecord(1, OutcomeSuccess))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Store() after Close error = %v, want ErrClosed", err)
	}

	var storageErr *StorageError
	if !errors.As(err, &storageErr) || storageErr.Backend != BackendMemory || storageErr.Operation != "store" {
		t.Errorf("error is not a memory StorageError: %v", err)
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	cfg := config.SQLiteConfig{Path: path, Driver: DriverModernc, WALMode: true, BusyTimeout: time.Second}

	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatal(err)
	}
	seed(t, s, 3)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	if n, _ := s.Count(context.Background(), Query{}); n != 3 {
		t.Errorf("Count() after reopen = %d, want 3", n)
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SQLiteConfig
		want    string
		wantErr bool
	}{
		{
			name: "modernc with WAL",
			cfg:  config.SQLiteConfig{Path: "h.db", Driver: DriverModernc, WALMode: true, BusyTimeout: 5 * time.Second},
			want: "h.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		},
		{
			name: "mattn without WAL",
			cfg:  config.SQLiteConfig{Path: "h.db", Driver: DriverMattn, BusyTimeout: time.Second},
			want: "h.db?_busy_timeout=1000",
		},
		{
			name:    "unknown driver",
			cfg:     config.SQLiteConfig{Path: "h.db", Driver: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildDSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("buildDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.HistoryConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.HistoryConfig{Backend: "memory"}},
		{name: "sqlite", cfg: config.HistoryConfig{Backend: "sqlite", SQLite: config.SQLiteConfig{
			Path: filepath.Join(t.TempDir(), "h.db"), Driver: DriverModernc,
		}}},
		{name: "unknown", cfg: config.HistoryConfig{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStorage(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
