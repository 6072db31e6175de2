package dataset

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/tessera-analytics/tessera/engine"
)

// ============================================================================
// LOADER — cached, read-only dataset with time-based invalidation
// ============================================================================
// The dataset is loaded once and served as an immutable snapshot; render
// passes only derive views from it. After the staleness window elapses the
// next Snapshot call re-reads the source. A failed re-read keeps serving the
// previous snapshot — stale data beats an empty dashboard.
// ============================================================================

// Snapshot is one immutable load of the dataset.
type Snapshot struct {
	View         engine.RecordView
	Contracts    []Contract
	CategoryKeys []string
	LoadedAt     time.Time
}

// Loader caches dataset snapshots behind a staleness window.
type Loader struct {
	fetch func() ([]Contract, []string, error)
	ttl   time.Duration

	mu      sync.Mutex
	current *Snapshot
}

// NewFileLoader loads contracts from a CSV file at path.
func NewFileLoader(path string, cols ColumnMap, cutoffYear int, ttl time.Duration) *Loader {
	return &Loader{
		ttl: ttl,
		fetch: func() ([]Contract, []string, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, nil, fmt.Errorf("open dataset: %w", err)
			}
			defer f.Close()
			return ParseCSV(f, cols, cutoffYear)
		},
	}
}

// NewSQLLoader loads contracts from a database table.
func NewSQLLoader(db *sql.DB, table string, cols ColumnMap, cutoffYear int, ttl time.Duration) *Loader {
	return &Loader{
		ttl: ttl,
		fetch: func() ([]Contract, []string, error) {
			return FetchContracts(db, table, cols, cutoffYear)
		},
	}
}

// Snapshot returns the current dataset, reloading when the staleness window
// has elapsed. The first load is fatal on error; later reload failures fall
// back to the cached snapshot.
func (l *Loader) Snapshot() (*Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && (l.ttl <= 0 || time.Since(l.current.LoadedAt) < l.ttl) {
		return l.current, nil
	}

	contracts, extraKeys, err := l.fetch()
	if err != nil {
		if l.current != nil {
			log.Printf("dataset reload failed, serving cached snapshot: %v", err)
			return l.current, nil
		}
		return nil, err
	}

	l.current = &Snapshot{
		View:         NewView(contracts, extraKeys),
		Contracts:    contracts,
		CategoryKeys: extraKeys,
		LoadedAt:     time.Now(),
	}
	log.Printf("dataset loaded: %d rows, %d category columns", len(contracts), len(extraKeys))
	return l.current, nil
}

// Invalidate drops the cached snapshot; the next Snapshot call re-reads.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
}
