package history

import (
	"time"

	"codeberg.org/mutker/envsensed/internal/errors"
)

const (
	// File system permissions and paths
	defaultDirPerm = 0o755
	DefaultDBPath  = "/var/lib/envsensed/history.db"

	defaultBatchSize    = 16
	defaultBatchTimeout = 30 * time.Second
)

type Config struct {
	DBPath       string
	Enabled      bool
	BatchSize    int
	BatchTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		DBPath:       DefaultDBPath,
		Enabled:      false, // Disabled by default
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if history is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 0 || c.BatchTimeout < 0 {
		return errFactory.WithData(ErrInvalidConfig, c)
	}
	return nil
}
