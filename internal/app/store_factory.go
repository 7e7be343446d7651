package app

import (
	"strings"

	"github.com/shrimpsizemoose/studyplan/internal/store"
	"github.com/shrimpsizemoose/studyplan/internal/store/memory"
	"github.com/shrimpsizemoose/studyplan/internal/store/postgres"
	"github.com/shrimpsizemoose/studyplan/internal/store/sqlite"
)

// DetectDatabaseType maps a DSN to its backend; anything unrecognised is a sqlite path.
func DetectDatabaseType(dsn string) store.DatabaseType {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return store.DBTypePostgres
	case strings.HasPrefix(dsn, "memory://"):
		return store.DBTypeMemory
	default:
		return store.DBTypeSQLite
	}
}

func NewStore(cfg store.DBConfig) (store.PlannerStore, error) {
	if cfg.Type == "" {
		cfg.Type = DetectDatabaseType(cfg.DSN)
	}

	switch cfg.Type {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(cfg.DSN, cfg.MigrationsDir)
	case store.DBTypeMemory:
		return memory.NewMemoryStore(), nil
	default:
		return sqlite.NewSQLiteStore(strings.TrimPrefix(cfg.DSN, "sqlite://"), cfg.MigrationsDir)
	}
}

func (c *Config) DBConfig() store.DBConfig {
	return store.DBConfig{
		DSN:           c.Database.DSN,
		Type:          DetectDatabaseType(c.Database.DSN),
		MigrationsDir: c.Database.MigrationsDir,
	}
}
