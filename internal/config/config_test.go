package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborcms/harbor/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harbor.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "org-demo", cfg.Server.DefaultOrganization)
	require.Empty(t, cfg.Mongo.URI)
	require.Empty(t, cfg.Redis.URL)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"

[mongo]
uri = "mongodb://localhost:27017"
database = "cms"

[redis]
url = "redis://localhost:6379/0"
key_prefix = "staging:"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Addr)
	// Unset fields keep their defaults.
	require.Equal(t, "org-demo", cfg.Server.DefaultOrganization)
	require.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	require.Equal(t, "cms", cfg.Mongo.Database)
	require.Equal(t, "staging:", cfg.Redis.KeyPrefix)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed toml", `[server`},
		{"empty addr", "[server]\naddr = \"\""},
		{"mongo uri without database", "[mongo]\nuri = \"mongodb://x\"\ndatabase = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			require.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.toml")
	require.Error(t, err)
}
