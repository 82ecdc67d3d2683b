package dbmigrate

import (
	"errors"

	"github.com/fdg312/diet-planner/internal/config"
)

// EmbeddedMigrations tells Run to use the SQL files compiled into the binary.
const EmbeddedMigrations = ""

const pooledDDLWarning = "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT"

var (
	ErrDirectURLRequired = errors.New("DATABASE_URL_DIRECT is required for DDL/migrations")
	ErrNoDatabaseURL     = errors.New("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
)

// SelectDatabaseURL picks the URL goose runs against: direct, then plain,
// then pooled with a warning. requireDirect accepts only the direct URL,
// which is what startup migrations use.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL string, source string, warning string, err error) {
	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return "", "", "", ErrDirectURLRequired
		}
		return cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", "", nil
	}

	candidates := []struct {
		url, source, warning string
	}{
		{cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", ""},
		{cfg.DatabaseURLRaw, "DATABASE_URL", ""},
		{cfg.DatabaseURLPooled, "DATABASE_URL_POOLED", pooledDDLWarning},
	}
	for _, c := range candidates {
		if c.url != "" {
			return c.url, c.source, c.warning, nil
		}
	}
	return "", "", "", ErrNoDatabaseURL
}
