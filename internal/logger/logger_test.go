package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeToWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New().ToWriter(&buf).Level(zerolog.DebugLevel).Make()
	require.NoError(t, err)

	log.Debug().Str("tenant", "acme").Msg("provisioned tenant database")

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"tenant":"acme"`)
	assert.Contains(t, out, "provisioned tenant database")
}

func TestMakeFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New().ToWriter(&buf).Level(zerolog.WarnLevel).Make()
	require.NoError(t, err)

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestMakeToPathAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ngsistore.log")

	for _, msg := range []string{"first", "second"} {
		log, err := New().ToPath(path).Make()
		require.NoError(t, err)
		log.Info().Msg(msg)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}
