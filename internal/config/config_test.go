package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OSCD_HOST", "")
	t.Setenv("OSCD_PORT", "")
	t.Setenv("OSCD_READ_TIMEOUT", "")
	t.Setenv("OSCD_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.ReadTimeout)
	assert.Equal(t, "oscd", cfg.Name)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OSCD_HOST", "0.0.0.0")
	t.Setenv("OSCD_PORT", "9001")
	t.Setenv("OSCD_READ_TIMEOUT", "250ms")
	t.Setenv("OSCD_NAME", "studio-rig")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	assert.Equal(t, "studio-rig", cfg.Name)
	assert.Equal(t, "0.0.0.0:9001", cfg.Addr())
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("OSCD_PORT", "not-a-port")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("OSCD_PORT", "70000")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("OSCD_PORT", "8000")
	t.Setenv("OSCD_READ_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}
