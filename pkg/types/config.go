// Package types defines the request models, write documents, configuration,
// and standard errors for the ngsistore write path.
package types

import (
	"errors"
	"strings"
	"time"
)

// DefaultDatabase is the logical name of the shared store used when a
// request carries no tenant.
const DefaultDatabase = "ngb"

// DefaultTxTimeout bounds each write transaction when Config.TxTimeout is
// unset.
const DefaultTxTimeout = 30 * time.Second

// Config holds parameters for opening a Store.
type Config struct {
	// DataDir is the directory holding one database file per logical
	// database name.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DefaultDatabase names the shared database. Defaults to "ngb".
	DefaultDatabase string `json:"default_database" yaml:"default_database"`

	// TxTimeout bounds each write transaction. Zero selects
	// DefaultTxTimeout; a deadline hit surfaces as ErrTransientConnection.
	TxTimeout time.Duration `json:"tx_timeout" yaml:"tx_timeout"`
}

// Config validation errors.
var (
	ErrDataDirEmpty        = errors.New("data dir must not be empty")
	ErrDatabaseNameInvalid = errors.New("invalid database name")
	ErrTxTimeoutNegative   = errors.New("tx timeout must not be negative")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.DefaultDatabase != "" && !ValidDatabaseName(c.DefaultDatabase) {
		return ErrDatabaseNameInvalid
	}
	if c.TxTimeout < 0 {
		return ErrTxTimeoutNegative
	}
	return nil
}

// Database returns the effective default database name.
func (c Config) Database() string {
	if c.DefaultDatabase == "" {
		return DefaultDatabase
	}
	return c.DefaultDatabase
}

// Timeout returns the effective per-transaction timeout.
func (c Config) Timeout() time.Duration {
	if c.TxTimeout == 0 {
		return DefaultTxTimeout
	}
	return c.TxTimeout
}

// ValidDatabaseName reports whether name is safe to use as a logical
// database name (it becomes a file name under DataDir).
func ValidDatabaseName(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}

// TenantDatabase returns the logical database name for a tenant id,
// following the "ngb" + tenant convention.
func TenantDatabase(tenant string) string {
	return TenantDatabasePrefix + tenant
}
