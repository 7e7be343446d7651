package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/studyplan/internal/store"
	"github.com/shrimpsizemoose/studyplan/internal/store/storetest"
)

// setupTestDB starts a throwaway Postgres container and applies the migrations
func setupTestDB(t *testing.T) (store.PlannerStore, func()) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "planner",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() || os.Getenv("PLANNER_POSTGRES_TESTS") == "" {
		log.Println("Skipping Postgres integration tests. Set PLANNER_POSTGRES_TESTS=1 and drop -short to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestPostgresStore(t *testing.T) {
	storetest.Run(t, setupTestDB)
}

func TestToDollarPlaceholders(t *testing.T) {
	assert.Equal(t, "SELECT 1", toDollarPlaceholders("SELECT 1"))
	assert.Equal(t,
		"DELETE FROM grades WHERE course_id = $1 AND id = $2",
		toDollarPlaceholders("DELETE FROM grades WHERE course_id = ? AND id = ?"))
}
