package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"minimal", Config{DataDir: "/tmp/data"}, nil},
		{"full", Config{DataDir: "/tmp/data", DefaultDatabase: "ngb", TxTimeout: time.Second}, nil},
		{"empty data dir", Config{}, ErrDataDirEmpty},
		{"database name with separator", Config{DataDir: "/tmp/data", DefaultDatabase: "a/b"}, ErrDatabaseNameInvalid},
		{"negative timeout", Config{DataDir: "/tmp/data", TxTimeout: -time.Second}, ErrTxTimeoutNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{DataDir: "/tmp/data"}
	assert.Equal(t, DefaultDatabase, cfg.Database())
	assert.Equal(t, DefaultTxTimeout, cfg.Timeout())

	cfg.DefaultDatabase = "other"
	cfg.TxTimeout = time.Minute
	assert.Equal(t, "other", cfg.Database())
	assert.Equal(t, time.Minute, cfg.Timeout())
}

func TestValidDatabaseName(t *testing.T) {
	valid := []string{"ngb", "ngbacme", "ngb-t1", "ngb_t1", "ngb.t1", "NGB2"}
	for _, name := range valid {
		assert.True(t, ValidDatabaseName(name), name)
	}

	invalid := []string{"", "a/b", `a\b`, "a b", "../escape", "ngb..x", "ngb;drop"}
	for _, name := range invalid {
		assert.False(t, ValidDatabaseName(name), name)
	}
}

func TestTenantDatabase(t *testing.T) {
	assert.Equal(t, "ngbacme", TenantDatabase("acme"))
}
