// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000/api/")
	t.Setenv("SESSION_FILE", "/tmp/dizesi-test/session.json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, "http://localhost:8000", cfg.AssetBaseURL())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, config.SessionBackendFile, cfg.SessionBackend)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RedisRequiresURL(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "cookie")

	_, err := config.Load()
	assert.Error(t, err)
}
