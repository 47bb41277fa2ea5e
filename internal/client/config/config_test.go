package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.ServerURL)
	assert.Equal(t, 60*time.Second, c.RequestTimeout)
	assert.Equal(t, ".", c.DataDir)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}
