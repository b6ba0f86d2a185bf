package config_test

import (
	"accessgate/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  projectId: gate-project
  apiKey: key-1
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.Equal(t, "gate-project", cfg.Auth.ProjectID)
	require.Equal(t, "key-1", cfg.Auth.APIKey)
	require.Equal(t, config.PersistenceLocal, cfg.Auth.Persistence)
	require.Equal(t, "https://identitytoolkit.googleapis.com", cfg.Auth.IdentityURL)
	require.Equal(t, 10*time.Second, cfg.Auth.RequestTimeout)
	require.Equal(t, "/", cfg.Router.BasePath)
	require.Equal(t, 4, cfg.Worker.MaxWorkers)
	require.Equal(t, 10*time.Second, cfg.GracefulShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
environment: production
http:
  addr: ":9090"
router:
  basePath: /console/
auth:
  projectId: gate-project
  persistence: memory
`)
	t.Setenv("AUTH_STATE_PATH", "/var/lib/accessgate/session.json")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, "/console/", cfg.Router.BasePath)
	require.Equal(t, config.PersistenceMemory, cfg.Auth.Persistence)
	require.Equal(t, "/var/lib/accessgate/session.json", cfg.Auth.StatePath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown persistence", body: "auth:\n  projectId: p\n  persistence: cookie\n"},
		{name: "missing project", body: "auth:\n  apiKey: k\n"},
		{name: "no workers", body: "auth:\n  projectId: p\nworker:\n  maxWorkers: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
