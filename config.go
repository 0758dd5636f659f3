package htstore

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hnrobert/htstore/internal/logger"
)

// WarnFunc receives non-fatal warnings (dropped group entries, best-effort
// cleanup failures). Hosts may install their own sink via Config.Warn.
type WarnFunc func(format string, args ...interface{})

// Config describes the backing files and limits for a Store. Relative
// paths are resolved against BaseDir, so a host can hand through paths
// exactly as they appear in its own configuration.
type Config struct {
	// File is the htpasswd-format user file. Required.
	File string `yaml:"file"`

	// GroupFile is the htgroup-format membership file. Optional; without
	// it users only ever belong to their implicit self group.
	GroupFile string `yaml:"group_file"`

	// MaxUsers caps the user count. Nil means unlimited.
	MaxUsers *int `yaml:"max_users"`

	// LockTimeout bounds the wait for the advisory file lock. Zero keeps
	// the legacy behavior of blocking until the lock is granted.
	LockTimeout time.Duration `yaml:"-"`

	// BaseDir anchors relative File/GroupFile paths. LoadConfig defaults
	// it to the config file's directory.
	BaseDir string `yaml:"-"`

	// Warn is the sink for non-fatal warnings. Defaults to the package
	// logger.
	Warn WarnFunc `yaml:"-"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	return cfg, nil
}

func (c Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

func (c Config) warnFunc() WarnFunc {
	if c.Warn != nil {
		return c.Warn
	}
	return logger.Warn
}
