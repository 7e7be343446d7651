package store

import "errors"

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
	DBTypeMemory   DatabaseType = "memory"
)

// ErrNotFound is returned when a record addressed by ID does not exist.
var ErrNotFound = errors.New("record not found")

type DBConfig struct {
	DSN           string
	Type          DatabaseType
	MigrationsDir string
}
