// Package sqlite exposes the SQLite store behind the types.Cupboard
// interface. The implementation lives in internal/sqlite.
package sqlite

import (
	"github.com/mesh-intelligence/buxgalter/internal/sqlite"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// NewBackend creates a detached SQLite backend. Call Attach before use:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".buxgalter-db",
//	})
//	defer store.Detach()
func NewBackend() types.Cupboard {
	return sqlite.NewBackend()
}
