package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/store"
	"github.com/shrimpsizemoose/studyplan/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (store.PlannerStore, func()) {
		return NewMemoryStore(), func() {}
	})
}

func TestReturnedCoursesAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	course := models.Course{
		Name:     "Logic",
		Credits:  3,
		Schedule: models.Schedule{{Day: 1, Start: 600, End: 660}},
	}
	require.NoError(t, s.CreateCourse(ctx, &course))

	got, err := s.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	got.Schedule[0].Day = 5

	again, err := s.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Schedule[0].Day)
}

func TestInstancesAreIsolated(t *testing.T) {
	a, b := NewMemoryStore(), NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, a.CreateCourse(ctx, &models.Course{Name: "Art", Credits: 1}))

	courses, err := b.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestConcurrentGradeWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	course := models.Course{Name: "Parallelism", Credits: 4}
	require.NoError(t, s.CreateCourse(ctx, &course))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := models.Grade{CourseID: course.ID, Score: 1, MaxScore: 1, Category: "Quiz", Weight: 0.1}
			assert.NoError(t, s.CreateGrade(ctx, &g))
		}()
	}
	wg.Wait()

	grades, err := s.ListGradesByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, grades, 50)
}
