package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usagelog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "db: /var/lib/usage.db\nworkspace: main\nlog_level: debug\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{DB: "/var/lib/usage.db", Workspace: "main", LogLevel: "debug"}, c)
}

func TestLoad_Empty(t *testing.T) {
	c, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, c)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "database: x\n", "database"},
		{"bad format", "format: xml\n", "format"},
		{"bad level", "log_level: loud\n", "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMergePrecedence(t *testing.T) {
	env := FromEnv(func(key string) string {
		if key == EnvDB {
			return " /env/usage.db "
		}
		return ""
	})
	file := Config{Workspace: "from-file", LogLevel: "warn"}
	flags := Config{Format: "json"}

	c := Default().Merge(env).Merge(file).Merge(flags)
	assert.Equal(t, Config{
		DB:        "/env/usage.db",
		Workspace: "from-file",
		Format:    "json",
		LogLevel:  "warn",
	}, c)
}

func TestLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := Config{LogLevel: in}.Level()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
