package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/contextgrid/ngsistore/pkg/types"
)

// Store is the write coordinator. It owns the default database handle and
// an insert-only registry of tenant-bound connection pools keyed by logical
// database name. Handles are resolved per call; the registry lock covers
// only first-use provisioning, never a transaction.
type Store struct {
	mu     sync.RWMutex
	closed bool
	cfg    types.Config
	log    zerolog.Logger
	def    *sql.DB
	pools  map[string]*sql.DB
}

// Open creates the data directory if needed, opens the default database,
// applies the schema and the tenant mapping table, and returns a ready
// Store.
func Open(cfg types.Config, log zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	s := &Store{
		cfg:   cfg,
		log:   log,
		pools: make(map[string]*sql.DB),
	}

	def, err := s.openDatabase(cfg.Database())
	if err != nil {
		return nil, err
	}
	if _, err := def.Exec(createTenant); err != nil {
		def.Close()
		return nil, fmt.Errorf("creating tenant table: %w", err)
	}

	s.def = def
	s.pools[cfg.Database()] = def
	return s, nil
}

// Close releases the default handle and every tenant pool. Idempotent.
// After Close, all writes return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	var firstErr error
	for name, db := range s.pools {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", name, err)
		}
	}
	s.pools = make(map[string]*sql.DB)
	s.def = nil
	s.closed = true
	return firstErr
}

// openDatabase opens the SQLite file for a logical database name and
// applies the data-table schema. This is the physical CREATE DATABASE
// analog: one file per logical database under DataDir.
func (s *Store) openDatabase(name string) (*sql.DB, error) {
	if !types.ValidDatabaseName(name) {
		return nil, types.ErrDatabaseNameInvalid
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	path := filepath.Join(s.cfg.DataDir, name+".db")
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", name, err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema to %s: %w", name, err)
		}
	}
	return db, nil
}

// handleFor resolves the database handle for a request's tenant. An empty
// tenant selects the default/shared database. A non-empty tenant ensures
// the registry mapping exists (provisioning the physical database on first
// use) and returns the pooled handle for its database name.
func (s *Store) handleFor(ctx context.Context, tenant string) (*sql.DB, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, types.ErrStoreClosed
	}
	if tenant == "" {
		db := s.def
		s.mu.RUnlock()
		return db, nil
	}

	dbName := types.TenantDatabase(tenant)
	if db, ok := s.pools[dbName]; ok {
		s.mu.RUnlock()
		return db, nil
	}
	s.mu.RUnlock()

	// First use of this tenant: record the mapping, then provision the
	// pool under the write lock.
	if err := s.StoreTenant(ctx, tenant, dbName); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrTenantResolution, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	if db, ok := s.pools[dbName]; ok {
		return db, nil
	}
	db, err := s.openDatabase(dbName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrTenantResolution, err)
	}
	s.pools[dbName] = db
	s.log.Debug().Str("tenant", tenant).Str("database", dbName).Msg("provisioned tenant database")
	return db, nil
}

// txContext derives the bounded per-transaction context.
func (s *Store) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Timeout())
}

// classify maps driver and context errors onto the write-path taxonomy so
// callers can tell retryable failures from fatal ones.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, sql.ErrTxDone):
		return fmt.Errorf("%w: %v", types.ErrTransientConnection, err)
	case strings.Contains(err.Error(), "constraint"):
		return fmt.Errorf("%w: %v", types.ErrConstraintViolation, err)
	default:
		return err
	}
}
