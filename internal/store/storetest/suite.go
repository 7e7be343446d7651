// Package storetest holds behaviour checks every PlannerStore backend must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/store"
)

type Factory func(t *testing.T) (store.PlannerStore, func())

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func Run(t *testing.T, newStore Factory) {
	t.Run("courses", func(t *testing.T) { testCourses(t, newStore) })
	t.Run("assignments", func(t *testing.T) { testAssignments(t, newStore) })
	t.Run("grades", func(t *testing.T) { testGrades(t, newStore) })
	t.Run("course delete cascades", func(t *testing.T) { testCascade(t, newStore) })
}

func seedCourse(t *testing.T, s store.PlannerStore, name string) models.Course {
	course := models.Course{
		Name:       name,
		Instructor: "Dr. Hopper",
		Credits:    3,
		Color:      "#4f46e5",
		Semester:   "Fall 2024",
		Schedule: models.Schedule{
			{Day: 1, Start: 540, End: 630},
			{Day: 3, Start: 540, End: 630},
		},
	}
	require.NoError(t, s.CreateCourse(context.Background(), &course))
	require.NotZero(t, course.ID)
	return course
}

func testCourses(t *testing.T, newStore Factory) {
	s, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	course := seedCourse(t, s, "Compilers")

	t.Run("get course", func(t *testing.T) {
		got, err := s.GetCourse(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, course.Name, got.Name)
		assert.Equal(t, course.Credits, got.Credits)
		assert.Equal(t, course.Semester, got.Semester)
		assert.Equal(t, course.Schedule, got.Schedule)
	})

	t.Run("empty semester gets default", func(t *testing.T) {
		c := models.Course{Name: "Ethics", Credits: 2}
		require.NoError(t, s.CreateCourse(ctx, &c))
		got, err := s.GetCourse(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultSemester, got.Semester)
		assert.Empty(t, got.Schedule)
	})

	t.Run("update course", func(t *testing.T) {
		course.Credits = 5
		course.Schedule = models.Schedule{{Day: 2, Start: 600, End: 660}}
		require.NoError(t, s.UpdateCourse(ctx, &course))

		got, err := s.GetCourse(ctx, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Credits)
		assert.Equal(t, course.Schedule, got.Schedule)
	})

	t.Run("list courses", func(t *testing.T) {
		courses, err := s.ListCourses(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, "Compilers", courses[0].Name)
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := s.GetCourse(ctx, 9999)
		assert.ErrorIs(t, err, store.ErrNotFound)

		err = s.UpdateCourse(ctx, &models.Course{ID: 9999, Name: "x", Credits: 1})
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.ErrorIs(t, s.DeleteCourse(ctx, 9999), store.ErrNotFound)
	})
}

func testAssignments(t *testing.T, newStore Factory) {
	s, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	course := seedCourse(t, s, "Networks")
	other := seedCourse(t, s, "Statistics")

	later := models.Assignment{
		CourseID: course.ID,
		Title:    "Socket lab",
		DueDate:  now.Add(48 * time.Hour),
		Priority: models.PriorityHigh,
		Type:     models.TypeLab,
	}
	sooner := models.Assignment{
		CourseID:    other.ID,
		Title:       "Problem set",
		DueDate:     now.Add(24 * time.Hour),
		Description: "chapters 1-3",
	}
	require.NoError(t, s.CreateAssignment(ctx, &later))
	require.NoError(t, s.CreateAssignment(ctx, &sooner))

	t.Run("defaults applied", func(t *testing.T) {
		got, err := s.GetAssignment(ctx, sooner.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PriorityMedium, got.Priority)
		assert.Equal(t, models.TypeAssignment, got.Type)
		assert.Equal(t, "chapters 1-3", got.Description)
		assert.True(t, sooner.DueDate.Equal(got.DueDate))
		assert.False(t, got.Completed)
	})

	t.Run("list ordered by due date", func(t *testing.T) {
		list, err := s.ListAssignments(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, sooner.ID, list[0].ID)
		assert.Equal(t, later.ID, list[1].ID)
	})

	t.Run("list orders due dates across utc offsets", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		late := models.Assignment{
			CourseID: course.ID,
			Title:    "Reading response",
			DueDate:  time.Date(2024, 9, 5, 10, 0, 0, 0, est),
		}
		early := models.Assignment{
			CourseID: course.ID,
			Title:    "Lab writeup",
			DueDate:  time.Date(2024, 9, 5, 12, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.CreateAssignment(ctx, &late))
		require.NoError(t, s.CreateAssignment(ctx, &early))
		defer func() {
			require.NoError(t, s.DeleteAssignment(ctx, late.ID))
			require.NoError(t, s.DeleteAssignment(ctx, early.ID))
		}()

		list, err := s.ListAssignments(ctx)
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, early.ID, list[2].ID)
		assert.Equal(t, late.ID, list[3].ID)

		got, err := s.GetAssignment(ctx, late.ID)
		require.NoError(t, err)
		assert.True(t, got.DueDate.Equal(time.Date(2024, 9, 5, 15, 0, 0, 0, time.UTC)))
	})

	t.Run("list by course", func(t *testing.T) {
		list, err := s.ListAssignmentsByCourse(ctx, course.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Socket lab", list[0].Title)
	})

	t.Run("toggle completion", func(t *testing.T) {
		got, err := s.ToggleAssignmentComplete(ctx, later.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)

		got, err = s.ToggleAssignmentComplete(ctx, later.ID)
		require.NoError(t, err)
		assert.False(t, got.Completed)

		_, err = s.ToggleAssignmentComplete(ctx, 9999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		later.Title = "Socket lab v2"
		later.Completed = true
		require.NoError(t, s.UpdateAssignment(ctx, &later))

		got, err := s.GetAssignment(ctx, later.ID)
		require.NoError(t, err)
		assert.Equal(t, "Socket lab v2", got.Title)
		assert.True(t, got.Completed)

		require.NoError(t, s.DeleteAssignment(ctx, later.ID))
		_, err = s.GetAssignment(ctx, later.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteAssignment(ctx, later.ID), store.ErrNotFound)
	})
}

func testGrades(t *testing.T, newStore Factory) {
	s, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	course := seedCourse(t, s, "Databases")
	assignment := models.Assignment{CourseID: course.ID, Title: "Midterm", DueDate: now}
	require.NoError(t, s.CreateAssignment(ctx, &assignment))

	exam := models.Grade{
		CourseID:     course.ID,
		AssignmentID: &assignment.ID,
		Score:        90,
		MaxScore:     100,
		Category:     "Exam",
		Weight:       0.6,
	}
	homework := models.Grade{
		CourseID: course.ID,
		Score:    8,
		MaxScore: 10,
		Category: "Homework",
		Weight:   0.4,
	}
	require.NoError(t, s.CreateGrade(ctx, &exam))
	require.NoError(t, s.CreateGrade(ctx, &homework))

	t.Run("get grade", func(t *testing.T) {
		got, err := s.GetGrade(ctx, exam.ID)
		require.NoError(t, err)
		require.NotNil(t, got.AssignmentID)
		assert.Equal(t, assignment.ID, *got.AssignmentID)
		assert.Equal(t, 90.0, got.Score)
		assert.Equal(t, 0.6, got.Weight)

		got, err = s.GetGrade(ctx, homework.ID)
		require.NoError(t, err)
		assert.Nil(t, got.AssignmentID)
	})

	t.Run("list keeps insertion order within a course", func(t *testing.T) {
		grades, err := s.ListGradesByCourse(ctx, course.ID)
		require.NoError(t, err)
		require.Len(t, grades, 2)
		assert.Equal(t, "Exam", grades[0].Category)
		assert.Equal(t, "Homework", grades[1].Category)

		all, err := s.ListGrades(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("update grade", func(t *testing.T) {
		homework.Score = 10
		require.NoError(t, s.UpdateGrade(ctx, &homework))
		got, err := s.GetGrade(ctx, homework.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, got.Score)

		err = s.UpdateGrade(ctx, &models.Grade{ID: 9999, CourseID: course.ID, MaxScore: 1, Category: "x"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("deleting the assignment detaches the grade", func(t *testing.T) {
		require.NoError(t, s.DeleteAssignment(ctx, assignment.ID))
		got, err := s.GetGrade(ctx, exam.ID)
		require.NoError(t, err)
		assert.Nil(t, got.AssignmentID)
	})

	t.Run("delete grade", func(t *testing.T) {
		require.NoError(t, s.DeleteGrade(ctx, homework.ID))
		_, err := s.GetGrade(ctx, homework.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func testCascade(t *testing.T, newStore Factory) {
	s, cleanup := newStore(t)
	defer cleanup()
	ctx := context.Background()

	doomed := seedCourse(t, s, "Alchemy")
	kept := seedCourse(t, s, "Chemistry")

	for _, c := range []models.Course{doomed, kept} {
		a := models.Assignment{CourseID: c.ID, Title: "Essay", DueDate: now, Type: models.TypeEssay}
		require.NoError(t, s.CreateAssignment(ctx, &a))
		g := models.Grade{CourseID: c.ID, Score: 1, MaxScore: 2, Category: "Essay", Weight: 1}
		require.NoError(t, s.CreateGrade(ctx, &g))
	}

	require.NoError(t, s.DeleteCourse(ctx, doomed.ID))

	assignments, err := s.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, kept.ID, assignments[0].CourseID)

	grades, err := s.ListGrades(ctx)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, kept.ID, grades[0].CourseID)
}
