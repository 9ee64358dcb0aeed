package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ModeMemory   = "memory"
	ModeSQLite   = "sqlite"
	ModePostgres = "postgres"
	ModeRedis    = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Mode        string
	SQLitePath  string
	DatabaseURL string
	RedisAddr   string
	RedisTTL    time.Duration
}

func normalizeMode(raw string) string {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "", ModeMemory, "mem":
		return ModeMemory
	case ModeSQLite, "local":
		return ModeSQLite
	case ModePostgres, "postgresql", "db":
		return ModePostgres
	default:
		return mode
	}
}

// Open returns the backend named by opts.Mode and the normalized mode.
func Open(opts Options) (Store, string, error) {
	mode := normalizeMode(opts.Mode)
	switch mode {
	case ModeMemory:
		return NewMemoryStore(), mode, nil
	case ModeSQLite:
		path := opts.SQLitePath
		if path == "" {
			p, err := localDatabasePath()
			if err != nil {
				return nil, mode, err
			}
			path = p
		}
		s, err := NewSQLiteStore(path)
		return s, mode, err
	case ModePostgres:
		s, err := NewPostgresStore(opts.DatabaseURL)
		return s, mode, err
	case ModeRedis:
		s, err := NewRedisStore(opts.RedisAddr, opts.RedisTTL)
		return s, mode, err
	default:
		return nil, mode, fmt.Errorf("invalid STORE_MODE %q (supported: %s, %s, %s, %s)",
			mode, ModeMemory, ModeSQLite, ModePostgres, ModeRedis)
	}
}

// NewFromEnv reads STORE_MODE, SQLITE_PATH, DATABASE_URL and REDIS_ADDR.
func NewFromEnv() (Store, string, error) {
	return Open(Options{
		Mode:        os.Getenv("STORE_MODE"),
		SQLitePath:  strings.TrimSpace(os.Getenv("SQLITE_PATH")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	})
}

func localDatabasePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "TrucoLite", defaultLocalDBName), nil
}
