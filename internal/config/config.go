package config

import (
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	// Dialect selects the position/history encoding: "fen4" or "chesscom".
	Dialect string
	// Variant selects the rule set: "teams" or "ffa".
	Variant string

	RedisURL    string
	DatabaseURL string

	// PositionsDir adds named start positions on top of the embedded
	// catalog.
	PositionsDir    string
	DefaultPosition string

	RecentLimit int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Dialect:         "fen4",
		Variant:         "teams",
		DefaultPosition: "default",
		RecentLimit:     10,
	}

	if v := strings.TrimSpace(os.Getenv("FPC_DIALECT")); v != "" {
		cfg.Dialect = v
	}
	if v := strings.TrimSpace(os.Getenv("FPC_VARIANT")); v != "" {
		cfg.Variant = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.PositionsDir = strings.TrimSpace(os.Getenv("FPC_POSITIONS_DIR"))
	if v := strings.TrimSpace(os.Getenv("FPC_DEFAULT_POSITION")); v != "" {
		cfg.DefaultPosition = v
	}
	if v := strings.TrimSpace(os.Getenv("FPC_RECENT_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecentLimit = n
		}
	}

	return cfg, nil
}
