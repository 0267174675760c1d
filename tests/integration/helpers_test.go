// Package integration exercises the write path end to end through the
// public store API, asserting on the persisted SQLite files directly.
package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/contextgrid/ngsistore/internal/store"
	"github.com/contextgrid/ngsistore/pkg/types"
)

// setupStore opens a store over an isolated temp data dir.
// Each test case gets its own instance for isolation.
func setupStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(types.Config{DataDir: dir}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

// openRaw opens a read-only handle straight onto a database file,
// bypassing the store, so tests observe exactly what was persisted.
func openRaw(t *testing.T, dir, dbName string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(dir, dbName+".db"))
	if err != nil {
		t.Fatalf("opening %s: %v", dbName, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// mustCount runs a COUNT(*) query or fails the test.
func mustCount(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return n
}

// mustWriteEntity writes one entity snapshot with identical projections.
func mustWriteEntity(t *testing.T, s *store.Store, tenant, id, doc string) {
	t.Helper()
	err := s.WriteEntity(context.Background(), types.EntityRequest{
		ID:              id,
		Tenant:          tenant,
		WithSysAttrs:    types.UpsertDocument([]byte(doc)),
		WithoutSysAttrs: json.RawMessage(doc),
		KeyValues:       json.RawMessage(doc),
	})
	if err != nil {
		t.Fatalf("WriteEntity %q: %v", id, err)
	}
}
