package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

var base = time.Date(2024, 9, 4, 10, 0, 0, 0, time.UTC) // Wednesday

func fixtures() ([]models.Course, []models.Assignment) {
	courses := []models.Course{
		{ID: 1, Name: "Physics", Instructor: "Dr. Bohr", Color: "#4f46e5", Credits: 4, Schedule: models.Schedule{
			{Day: 1, Start: 600, End: 690},
			{Day: 3, Start: 600, End: 690},
		}},
		{ID: 2, Name: "Algebra", Instructor: "Dr. Noether", Color: "#10b981", Credits: 3, Schedule: models.Schedule{
			{Day: 3, Start: 540, End: 590},
		}},
	}
	assignments := []models.Assignment{
		{ID: 1, CourseID: 1, Title: "Lab report", DueDate: base.Add(72 * time.Hour), Priority: models.PriorityLow},
		{ID: 2, CourseID: 2, Title: "Problem set 3", DueDate: base.Add(24 * time.Hour), Priority: models.PriorityHigh},
		{ID: 3, CourseID: 1, Title: "Midterm review", DueDate: base.Add(-24 * time.Hour), Priority: models.PriorityMedium, Completed: true},
		{ID: 4, CourseID: 2, Title: "problem set 4", DueDate: base.Add(48 * time.Hour), Priority: models.PriorityMedium},
	}
	return courses, assignments
}

func ids(list []models.Assignment) []int64 {
	out := make([]int64, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterAssignments(t *testing.T) {
	_, assignments := fixtures()

	testCases := []struct {
		name     string
		filter   Filter
		expected []int64
	}{
		{"Empty filter keeps everything", Filter{}, []int64{1, 2, 3, 4}},
		{"Search is case insensitive", Filter{Query: "PROBLEM"}, []int64{2, 4}},
		{"Pending only", Filter{Status: StatusPending}, []int64{1, 2, 4}},
		{"Completed only", Filter{Status: StatusCompleted}, []int64{3}},
		{"By course", Filter{CourseID: 1}, []int64{1, 3}},
		{"By priority", Filter{Priority: models.PriorityMedium}, []int64{3, 4}},
		{"Combined", Filter{Query: "set", Status: StatusPending, Priority: models.PriorityHigh}, []int64{2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ids(FilterAssignments(assignments, tc.filter)))
		})
	}
}

func TestSortAssignments(t *testing.T) {
	courses, assignments := fixtures()

	testCases := []struct {
		name     string
		by       SortKey
		expected []int64
	}{
		{"Due date ascending", SortByDueDate, []int64{3, 2, 4, 1}},
		{"Title", SortByTitle, []int64{1, 3, 2, 4}},
		{"Priority high first", SortByPriority, []int64{2, 3, 4, 1}},
		{"Course name", SortByCourse, []int64{2, 4, 1, 3}},
		{"Unknown key keeps order", SortKey("bogus"), []int64{1, 2, 3, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			list := append([]models.Assignment(nil), assignments...)
			SortAssignments(list, tc.by, courses)
			assert.Equal(t, tc.expected, ids(list))
		})
	}
}

func TestUpcoming(t *testing.T) {
	_, assignments := fixtures()

	assert.Equal(t, []int64{2, 4}, ids(Upcoming(assignments, 2)))
	assert.Equal(t, []int64{2, 4, 1}, ids(Upcoming(assignments, 5)))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(assignments), "input must not be reordered")
}

func TestComputeStats(t *testing.T) {
	courses, assignments := fixtures()
	grades := []models.Grade{{CourseID: 1}, {CourseID: 2}}

	stats := ComputeStats(courses, assignments, grades)
	assert.Equal(t, Stats{
		Courses:        2,
		Assignments:    4,
		Completed:      1,
		Pending:        3,
		CompletionRate: 25,
		Grades:         2,
	}, stats)

	assert.Equal(t, 0, ComputeStats(nil, nil, nil).CompletionRate)
}

func TestDueLabel(t *testing.T) {
	testCases := []struct {
		name string
		due  time.Time
		want DueInfo
	}{
		{"Past", base.Add(-time.Minute), DueInfo{"Overdue", ToneError}},
		{"Later today", base.Add(5 * time.Hour), DueInfo{"Due Today", ToneWarning}},
		{"Tomorrow", base.Add(20 * time.Hour), DueInfo{"Due Tomorrow", ToneWarning}},
		{"Same week", base.Add(72 * time.Hour), DueInfo{"Sat", ToneInfo}},
		{"Next week", base.Add(5 * 24 * time.Hour), DueInfo{"Sep 9", ToneDefault}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DueLabel(tc.due, base))
		})
	}
}

func TestClassesForDay(t *testing.T) {
	courses, _ := fixtures()

	wednesday := ClassesForDay(courses, 3)
	require.Len(t, wednesday, 2)
	assert.Equal(t, "Algebra", wednesday[0].Course)
	assert.Equal(t, "Wed 09:00-09:50", wednesday[0].Display)
	assert.Equal(t, "Physics", wednesday[1].Course)
	assert.Equal(t, "Dr. Bohr", wednesday[1].Instructor)

	assert.Empty(t, ClassesForDay(courses, 0))

	week := Week(courses)
	assert.Len(t, week[1], 1)
	assert.Len(t, week[3], 2)
}
