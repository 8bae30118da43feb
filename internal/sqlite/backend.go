// Package sqlite implements the SQLite storage backend for Buxgalter.
// SQLite is the query engine; one JSONL file per table is the source of
// truth, loaded on Attach and rewritten atomically after every change.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// dbFileName is the SQLite file created inside DataDir. It is rebuilt from
// the JSONL files on every Attach.
const dbFileName = "buxgalter.db"

// Backend implements types.Cupboard using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]*Table
	now      func() time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]*Table),
		now:    time.Now,
	}
}

// GetTable returns the Table for the specified name.
// Returns ErrCupboardDetached if the backend is not attached and
// ErrTableNotFound if the name is not recognized.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrCupboardDetached
	}
	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration. It creates
// DataDir if needed, builds a fresh SQLite schema, loads the JSONL files and
// seeds demo data into an empty store unless config.SkipSeed is set.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	config.DataDir = dataDir

	dbPath := filepath.Join(dataDir, dbFileName)
	// JSONL is authoritative; the database is rebuilt each time.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL(types.StandardTableNames) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for _, name := range types.StandardTableNames {
		if err := ensureJSONLFile(jsonlPath(dataDir, name)); err != nil {
			db.Close()
			return err
		}
	}

	if err := loadAllJSONL(db, dataDir, types.StandardTableNames); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	for _, name := range types.StandardTableNames {
		b.tables[name] = newTable(b, name)
	}

	if !config.SkipSeed {
		if err := b.seedIfEmptyLocked(); err != nil {
			db.Close()
			b.db = nil
			b.tables = make(map[string]*Table)
			return fmt.Errorf("seed data: %w", err)
		}
	}

	b.attached = true
	return nil
}

// Detach closes the SQLite connection. After Detach, all operations return
// ErrCupboardDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.tables = make(map[string]*Table)
	return nil
}

// DataDir returns the directory holding the JSONL files.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
