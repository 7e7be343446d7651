// Package memory keeps planner records in process memory. Each MemoryStore
// owns its data; nothing is shared between instances.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/store"
)

type MemoryStore struct {
	mu          sync.RWMutex
	courses     map[int64]models.Course
	assignments map[int64]models.Assignment
	grades      map[int64]models.Grade
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:     make(map[int64]models.Course),
		assignments: make(map[int64]models.Assignment),
		grades:      make(map[int64]models.Grade),
	}
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) ApplyMigrations(dir string) error {
	return nil
}

// nextID follows max+1 so ids of deleted tail records get reused.
func nextID[T any](records map[int64]T) int64 {
	var top int64
	for id := range records {
		if id > top {
			top = id
		}
	}
	return top + 1
}

func sortedValues[T any](records map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(records))
	for id, r := range records {
		if keep == nil || keep(r) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, records[id])
	}
	return out
}

func copyCourse(c models.Course) models.Course {
	c.Schedule = append(models.Schedule{}, c.Schedule...)
	return c
}

func copyGrade(g models.Grade) models.Grade {
	if g.AssignmentID != nil {
		id := *g.AssignmentID
		g.AssignmentID = &id
	}
	return g
}

func (s *MemoryStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := sortedValues(s.courses, nil)
	for i := range courses {
		courses[i] = copyCourse(courses[i])
	}
	return courses, nil
}

func (s *MemoryStore) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c = copyCourse(c)
	return &c, nil
}

func (s *MemoryStore) CreateCourse(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course.Normalize()
	course.ID = nextID(s.courses)
	s.courses[course.ID] = copyCourse(*course)
	return nil
}

func (s *MemoryStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[course.ID]; !ok {
		return store.ErrNotFound
	}
	course.Normalize()
	s.courses[course.ID] = copyCourse(*course)
	return nil
}

func (s *MemoryStore) DeleteCourse(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.courses, id)
	for aid, a := range s.assignments {
		if a.CourseID == id {
			delete(s.assignments, aid)
		}
	}
	for gid, g := range s.grades {
		if g.CourseID == id {
			delete(s.grades, gid)
		}
	}
	return nil
}

func (s *MemoryStore) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return byDueDate(sortedValues(s.assignments, nil)), nil
}

func (s *MemoryStore) ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return byDueDate(sortedValues(s.assignments, func(a models.Assignment) bool {
		return a.CourseID == courseID
	})), nil
}

func byDueDate(list []models.Assignment) []models.Assignment {
	sort.SliceStable(list, func(i, j int) bool { return list[i].DueDate.Before(list[j].DueDate) })
	return list
}

func (s *MemoryStore) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStore) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment.Normalize()
	assignment.ID = nextID(s.assignments)
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *MemoryStore) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assignments[assignment.ID]; !ok {
		return store.ErrNotFound
	}
	assignment.Normalize()
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *MemoryStore) DeleteAssignment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assignments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.assignments, id)
	for gid, g := range s.grades {
		if g.AssignmentID != nil && *g.AssignmentID == id {
			g.AssignmentID = nil
			s.grades[gid] = g
		}
	}
	return nil
}

func (s *MemoryStore) ToggleAssignmentComplete(ctx context.Context, id int64) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.Completed = !a.Completed
	s.assignments[id] = a
	return &a, nil
}

func (s *MemoryStore) ListGrades(ctx context.Context) ([]models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grades := sortedValues(s.grades, nil)
	sort.SliceStable(grades, func(i, j int) bool { return grades[i].CourseID < grades[j].CourseID })
	for i := range grades {
		grades[i] = copyGrade(grades[i])
	}
	return grades, nil
}

func (s *MemoryStore) ListGradesByCourse(ctx context.Context, courseID int64) ([]models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grades := sortedValues(s.grades, func(g models.Grade) bool { return g.CourseID == courseID })
	for i := range grades {
		grades[i] = copyGrade(grades[i])
	}
	return grades, nil
}

func (s *MemoryStore) GetGrade(ctx context.Context, id int64) (*models.Grade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.grades[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	g = copyGrade(g)
	return &g, nil
}

func (s *MemoryStore) CreateGrade(ctx context.Context, grade *models.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grade.ID = nextID(s.grades)
	s.grades[grade.ID] = copyGrade(*grade)
	return nil
}

func (s *MemoryStore) UpdateGrade(ctx context.Context, grade *models.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.grades[grade.ID]; !ok {
		return store.ErrNotFound
	}
	s.grades[grade.ID] = copyGrade(*grade)
	return nil
}

func (s *MemoryStore) DeleteGrade(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.grades[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.grades, id)
	return nil
}

var _ store.PlannerStore = (*MemoryStore)(nil)
