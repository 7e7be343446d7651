// internal/store/sqlite/store_test.go
package sqlite

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/store"
	"github.com/shrimpsizemoose/studyplan/internal/store/storetest"
)

// setupTestDB creates an in-memory SQLite database with the shared migrations applied
func setupTestDB(t *testing.T) (store.PlannerStore, func()) {
	s, err := NewSQLiteStore(":memory:", "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, setupTestDB)
}

func TestTranslateToSQLite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "serial key",
			in:   "id BIGSERIAL PRIMARY KEY,",
			want: "id INTEGER PRIMARY KEY AUTOINCREMENT,",
		},
		{
			name: "bigint reference",
			in:   "course_id BIGINT NOT NULL",
			want: "course_id INTEGER NOT NULL",
		},
		{
			name: "float and time types",
			in:   "score DOUBLE PRECISION, due_date TIMESTAMPTZ",
			want: "score REAL, due_date DATETIME",
		},
		{
			name: "json column with default",
			in:   "schedule JSONB NOT NULL DEFAULT '[]'",
			want: "schedule TEXT NOT NULL DEFAULT '[]'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateToSQLite(tt.in))
		})
	}
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", withForeignKeys(":memory:"))
	assert.Equal(t, "file:planner.db?cache=shared&_pragma=foreign_keys(1)", withForeignKeys("file:planner.db?cache=shared"))
	assert.Equal(t, "x.db?_pragma=foreign_keys(0)", withForeignKeys("x.db?_pragma=foreign_keys(0)"))
}

func TestUndefinedScheduleReadsAsEmpty(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", "../../../migrations")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.DB.Exec(`INSERT INTO courses (name, instructor, credits, color, semester, schedule)
		VALUES ('Legacy', '', 3, '', 'Fall', 'undefined')`)
	require.NoError(t, err)

	courses, err := s.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Empty(t, courses[0].Schedule)
}

func TestDueDateRoundTrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	course := models.Course{Name: "History", Credits: 3}
	require.NoError(t, s.CreateCourse(ctx, &course))

	due := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	a := models.Assignment{CourseID: course.ID, Title: "Essay", DueDate: due}
	require.NoError(t, s.CreateAssignment(ctx, &a))

	got, err := s.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, due, got.DueDate, time.Second)
}
