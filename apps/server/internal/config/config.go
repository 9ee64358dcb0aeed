// Package config reads process settings from an optional .env file and the
// environment. Real environment variables win over .env values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"truco-lite/store"
	"truco-lite/truco/npc"
)

type Config struct {
	Addr         string
	Store        store.Options
	Think        npc.ThinkConfig
	PersonasFile string
	NPCTier      int
	LogLevel     logrus.Level
	Seed         int64
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		Store:    store.Options{Mode: store.ModeMemory},
		Think:    npc.DefaultThinkConfig(),
		LogLevel: logrus.InfoLevel,
	}
}

// Load reads envFiles (default ".env"); missing files are skipped.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	fileValues := map[string]string{}
	for _, f := range envFiles {
		values, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range values {
			fileValues[k] = v
		}
	}
	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	})
}

// FromLookup builds a Config from a key lookup.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get("TRUCO_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.Store = store.Options{
		Mode:        get("STORE_MODE"),
		SQLitePath:  get("SQLITE_PATH"),
		DatabaseURL: get("DATABASE_URL"),
		RedisAddr:   get("REDIS_ADDR"),
	}
	if v := get("REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("REDIS_TTL: %w", err)
		}
		cfg.Store.RedisTTL = ttl
	}

	var err error
	if cfg.Think.Min, err = duration(get("NPC_THINK_MIN"), cfg.Think.Min); err != nil {
		return cfg, fmt.Errorf("NPC_THINK_MIN: %w", err)
	}
	if cfg.Think.Max, err = duration(get("NPC_THINK_MAX"), cfg.Think.Max); err != nil {
		return cfg, fmt.Errorf("NPC_THINK_MAX: %w", err)
	}
	if cfg.Think.Max < cfg.Think.Min {
		return cfg, fmt.Errorf("NPC_THINK_MAX %s is below NPC_THINK_MIN %s", cfg.Think.Max, cfg.Think.Min)
	}
	cfg.PersonasFile = get("NPC_PERSONAS_FILE")
	if v := get("NPC_TIER"); v != "" {
		tier, err := strconv.Atoi(v)
		if err != nil || tier < 0 || tier > 3 {
			return cfg, fmt.Errorf("NPC_TIER %q: want 0-3", v)
		}
		cfg.NPCTier = tier
	}

	if v := get("LOG_LEVEL"); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if v := get("TRUCO_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TRUCO_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

// duration accepts Go durations ("1.5s") or plain milliseconds ("1500").
func duration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(raw)
}
