package history

import (
	"fmt"

	"mercator-hq/yamllist/pkg/config"
)

// NewStorage creates the backend selected by cfg.Backend.
func NewStorage(cfg config.HistoryConfig) (Storage, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStorage(), nil
	case BackendSQLite:
		s, err := NewSQLiteStorage(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
