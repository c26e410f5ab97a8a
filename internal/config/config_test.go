package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 25*time.Second, cfg.PingPeriod)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
	assert.Equal(t, 64, cfg.SendQueue)
	assert.Equal(t, 2000, cfg.MaxChatLen)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "drop", cfg.BackpressurePolicy)
	assert.Zero(t, cfg.RateLimit, "inbound limiting is off unless configured")
	assert.Empty(t, cfg.AdminToken)
	require.Len(t, cfg.ICEServers, 1)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.ICEServers[0].URLs)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9000
ping_period: 10s
pong_wait: 30s
send_queue: 8
backpressure_policy: kick
cors_origins:
  - https://example.com
ice_servers:
  - urls: ["turn:turn.example.com:3478"]
    username: u
    credential: p
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.PingPeriod)
	assert.Equal(t, 8, cfg.SendQueue)
	assert.Equal(t, "kick", cfg.BackpressurePolicy)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORSOrigins)
	require.Len(t, cfg.ICEServers, 1)
	assert.Equal(t, "u", cfg.ICEServers[0].Username)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv("HUDDLE_PORT", "9191")
	t.Setenv("HUDDLE_BACKPRESSURE_POLICY", "kick")

	cfg, err := LoadFile(writeConfig(t, "port: 9000\n"))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "kick", cfg.BackpressurePolicy)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "pong before ping", body: "ping_period: 30s\npong_wait: 10s\n"},
		{name: "unknown policy", body: "backpressure_policy: shrug\n"},
		{name: "bad port", body: "port: 0\n"},
		{name: "empty ice urls", body: "ice_servers:\n  - username: x\n"},
		{name: "malformed yaml", body: "port: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UsesConfigEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.staging.yaml"), []byte("port: 7070\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "staging")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}
