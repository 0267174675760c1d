// Shared helpers for ngsistore CLI commands.
package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/contextgrid/ngsistore/internal/logger"
	"github.com/contextgrid/ngsistore/internal/store"
)

// openStore resolves config and data directories, builds the logger, and
// opens the store. The caller must defer st.Close().
func openStore() (*store.Store, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	cfg, err := storeConfig(v)
	if err != nil {
		return nil, err
	}

	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	log, err := logger.New().Level(level).Make()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	st, err := store.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
