package htstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auth.yaml")
	yaml := "file: .htpasswd\ngroup_file: .htgroup\nmax_users: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ".htpasswd", cfg.File)
	require.Equal(t, ".htgroup", cfg.GroupFile)
	require.NotNil(t, cfg.MaxUsers)
	require.Equal(t, 100, *cfg.MaxUsers)
	require.Equal(t, dir, cfg.BaseDir)
}

func TestLoadConfigUnlimitedByDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("file: .htpasswd\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Nil(t, cfg.MaxUsers)
}

func TestConfigResolve(t *testing.T) {
	cfg := Config{BaseDir: "/etc/htstore"}
	require.Equal(t, filepath.Join("/etc/htstore", ".htpasswd"), cfg.resolve(".htpasswd"))
	require.Equal(t, "/abs/.htpasswd", cfg.resolve("/abs/.htpasswd"))
	require.Equal(t, "", cfg.resolve(""))

	// Without a base dir paths pass through untouched.
	require.Equal(t, ".htpasswd", Config{}.resolve(".htpasswd"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
