package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contextgrid/ngsistore/pkg/types"
)

// StoreTenant records the tenant-to-database mapping in the default
// database, inserting or updating on conflict. An empty tenant id removes
// any existing mapping row for the database name instead.
func (s *Store) StoreTenant(ctx context.Context, tenant, databaseName string) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return types.ErrStoreClosed
	}
	def := s.def
	s.mu.RUnlock()

	if !types.ValidDatabaseName(databaseName) {
		return types.ErrDatabaseNameInvalid
	}

	var res sql.Result
	var err error
	if tenant != "" {
		res, err = def.ExecContext(ctx, `
			INSERT INTO tenant (tenant_id, database_name)
			VALUES (?, ?)
			ON CONFLICT(tenant_id) DO UPDATE SET
				database_name = excluded.database_name`,
			tenant, databaseName)
	} else {
		res, err = def.ExecContext(ctx,
			"DELETE FROM tenant WHERE database_name = ?", databaseName)
	}
	if err != nil {
		s.log.Error().Err(err).Str("tenant", tenant).Msg("storing tenant mapping")
		return fmt.Errorf("storing tenant mapping: %w", classify(err))
	}

	if n, err := res.RowsAffected(); err == nil {
		s.log.Trace().Int64("rows", n).Str("tenant", tenant).Msg("tenant mapping written")
	}
	return nil
}

// LookupTenantDatabase returns the database name mapped to a tenant id.
// If the mapping exists but the physical database has not been created yet,
// it is created and the schema applied. A missing mapping returns
// ErrTenantNotFound: the caller falls back to the default/shared store.
func (s *Store) LookupTenantDatabase(ctx context.Context, tenant string) (string, error) {
	if tenant == "" {
		return "", types.ErrTenantEmpty
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", types.ErrStoreClosed
	}
	def := s.def
	s.mu.RUnlock()

	var databaseName string
	err := def.QueryRowContext(ctx,
		"SELECT database_name FROM tenant WHERE tenant_id = ?", tenant).
		Scan(&databaseName)
	if err == sql.ErrNoRows {
		return "", types.ErrTenantNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: looking up tenant %s: %v", types.ErrTenantResolution, tenant, err)
	}

	if !s.databaseExists(databaseName) {
		s.log.Debug().Str("database", databaseName).Msg("creating missing tenant database")
	}
	if _, err := s.ensureDatabase(databaseName); err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrTenantResolution, err)
	}
	return databaseName, nil
}

// DeleteTenant removes the mapping row for a tenant id. The physical
// database is left in place; removing data is a distinct operation.
func (s *Store) DeleteTenant(ctx context.Context, tenant string) error {
	if tenant == "" {
		return types.ErrTenantEmpty
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return types.ErrStoreClosed
	}
	def := s.def
	s.mu.RUnlock()

	if _, err := def.ExecContext(ctx,
		"DELETE FROM tenant WHERE tenant_id = ?", tenant); err != nil {
		return fmt.Errorf("deleting tenant mapping: %w", classify(err))
	}
	return nil
}

// ensureDatabase returns the pooled handle for a logical database name,
// creating the physical database file and pool on first use. The write
// lock covers only registry insertion.
func (s *Store) ensureDatabase(name string) (*sql.DB, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, types.ErrStoreClosed
	}
	if db, ok := s.pools[name]; ok {
		s.mu.RUnlock()
		return db, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	if db, ok := s.pools[name]; ok {
		return db, nil
	}
	db, err := s.openDatabase(name)
	if err != nil {
		return nil, err
	}
	s.pools[name] = db
	return db, nil
}

// databaseExists reports whether the physical database file is present.
func (s *Store) databaseExists(name string) bool {
	_, err := os.Stat(filepath.Join(s.cfg.DataDir, name+".db"))
	return err == nil
}
