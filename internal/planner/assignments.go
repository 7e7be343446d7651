package planner

import (
	"sort"
	"strings"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type SortKey string

const (
	SortByDueDate  SortKey = "due_date"
	SortByTitle    SortKey = "title"
	SortByPriority SortKey = "priority"
	SortByCourse   SortKey = "course"
)

// Filter zero values match everything.
type Filter struct {
	Query    string
	Status   Status
	CourseID int64
	Priority models.Priority
}

func (f Filter) Match(a models.Assignment) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.Query)) {
		return false
	}
	switch f.Status {
	case StatusPending:
		if a.Completed {
			return false
		}
	case StatusCompleted:
		if !a.Completed {
			return false
		}
	}
	if f.CourseID != 0 && a.CourseID != f.CourseID {
		return false
	}
	if f.Priority != "" && a.Priority != f.Priority {
		return false
	}
	return true
}

func FilterAssignments(list []models.Assignment, f Filter) []models.Assignment {
	out := make([]models.Assignment, 0, len(list))
	for _, a := range list {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// SortAssignments sorts in place. Unknown keys keep the input order.
func SortAssignments(list []models.Assignment, by SortKey, courses []models.Course) {
	var less func(a, b models.Assignment) bool

	switch by {
	case SortByDueDate:
		less = func(a, b models.Assignment) bool { return a.DueDate.Before(b.DueDate) }
	case SortByTitle:
		less = func(a, b models.Assignment) bool { return a.Title < b.Title }
	case SortByPriority:
		less = func(a, b models.Assignment) bool { return a.Priority.Rank() > b.Priority.Rank() }
	case SortByCourse:
		names := courseNames(courses)
		less = func(a, b models.Assignment) bool { return names[a.CourseID] < names[b.CourseID] }
	default:
		return
	}

	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}

// Upcoming returns the n pending assignments due soonest.
func Upcoming(list []models.Assignment, n int) []models.Assignment {
	pending := FilterAssignments(list, Filter{Status: StatusPending})
	SortAssignments(pending, SortByDueDate, nil)
	if n >= 0 && len(pending) > n {
		pending = pending[:n]
	}
	return pending
}

func courseNames(courses []models.Course) map[int64]string {
	names := make(map[int64]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}
	return names
}
