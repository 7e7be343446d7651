package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/metrics"
	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/planner"
	"github.com/shrimpsizemoose/studyplan/internal/scoring"
	"github.com/shrimpsizemoose/studyplan/internal/store"
)

const (
	reportCacheKey   = "report"
	upcomingOnBoard  = 5
	cacheCleanupTick = 10 * time.Minute
)

var (
	// ErrFetchFailed marks store failures other than a missing record.
	ErrFetchFailed  = errors.New("fetch failed")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	Config *Config
	Store  store.PlannerStore
	Auth   *Auth
	Grader *scoring.Grader

	reports *cache.Cache
	// writes counts invalidations so a report read across a write is not cached.
	cacheMu sync.Mutex
	writes  uint64
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.DBConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return NewServiceWith(config, store, auth), nil
}

// NewServiceWith assembles a service from already constructed parts.
func NewServiceWith(config *Config, st store.PlannerStore, auth *Auth) *Service {
	if auth == nil {
		auth = &Auth{tokenHeader: config.Auth.TokenHeader}
	}
	return &Service{
		Config:  config,
		Store:   st,
		Auth:    auth,
		Grader:  config.Grader(),
		reports: cache.New(config.CacheTTL(), cacheCleanupTick),
	}
}

func fetchErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrFetchFailed, op, err)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func (s *Service) invalidate(entity, op string) {
	s.cacheMu.Lock()
	s.writes++
	s.reports.Flush()
	s.cacheMu.Unlock()
	metrics.RecordWritesTotal.WithLabelValues(entity, op).Inc()
}

// CourseReport summarizes every course plus the overall GPA. Results are
// cached until the TTL passes or any record changes.
func (s *Service) CourseReport(ctx context.Context) (*scoring.Report, error) {
	if cached, ok := s.reports.Get(reportCacheKey); ok {
		return cached.(*scoring.Report), nil
	}
	started := s.writeCount()

	courses, err := s.Store.ListCourses(ctx)
	if err != nil {
		return nil, fetchErr("list courses", err)
	}
	grades, err := s.Store.ListGrades(ctx)
	if err != nil {
		return nil, fetchErr("list grades", err)
	}

	report := s.Grader.Report(courses, grades)
	for _, c := range report.Courses {
		if c.Average != nil {
			metrics.CourseAverageHistogram.Observe(*c.Average)
		}
	}

	s.storeReport(started, &report)
	return &report, nil
}

func (s *Service) writeCount() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.writes
}

func (s *Service) storeReport(started uint64, report *scoring.Report) {
	if s.Config.CacheTTL() <= 0 {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.writes != started {
		logger.Debug.Printf("report skipped cache: %d writes while reading", s.writes-started)
		return
	}
	s.reports.SetDefault(reportCacheKey, report)
}

func (s *Service) CourseSummary(ctx context.Context, id int64) (*scoring.CourseSummary, error) {
	course, err := s.Store.GetCourse(ctx, id)
	if err != nil {
		return nil, fetchErr("get course", err)
	}
	grades, err := s.Store.ListGradesByCourse(ctx, id)
	if err != nil {
		return nil, fetchErr("list grades", err)
	}

	summary := s.Grader.Summarize(*course, grades)
	return &summary, nil
}

type UpcomingItem struct {
	models.Assignment
	CourseName string          `json:"course_name"`
	Due        planner.DueInfo `json:"due"`
}

type Dashboard struct {
	Stats    planner.Stats          `json:"stats"`
	GPA      string                 `json:"gpa"`
	Upcoming []UpcomingItem         `json:"upcoming"`
	Today    []planner.ClassSession `json:"today"`
}

func (s *Service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	courses, err := s.Store.ListCourses(ctx)
	if err != nil {
		return nil, fetchErr("list courses", err)
	}
	assignments, err := s.Store.ListAssignments(ctx)
	if err != nil {
		return nil, fetchErr("list assignments", err)
	}
	grades, err := s.Store.ListGrades(ctx)
	if err != nil {
		return nil, fetchErr("list grades", err)
	}

	names := make(map[int64]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}

	board := &Dashboard{
		Stats:    planner.ComputeStats(courses, assignments, grades),
		GPA:      s.Grader.OverallGPA(courses, grades),
		Upcoming: []UpcomingItem{},
		Today:    planner.ClassesForDay(courses, int(now.Weekday())),
	}
	for _, a := range planner.Upcoming(assignments, upcomingOnBoard) {
		board.Upcoming = append(board.Upcoming, UpcomingItem{
			Assignment: a,
			CourseName: names[a.CourseID],
			Due:        planner.DueLabel(a.DueDate, now),
		})
	}
	return board, nil
}

func (s *Service) Schedule(ctx context.Context, day int) ([]planner.ClassSession, error) {
	if day < 0 || day > 6 {
		return nil, invalid(fmt.Errorf("day %d out of range 0..6", day))
	}
	courses, err := s.Store.ListCourses(ctx)
	if err != nil {
		return nil, fetchErr("list courses", err)
	}
	return planner.ClassesForDay(courses, day), nil
}

// WeekSchedule lists classes for every weekday, Sunday first.
func (s *Service) WeekSchedule(ctx context.Context) ([7][]planner.ClassSession, error) {
	courses, err := s.Store.ListCourses(ctx)
	if err != nil {
		return [7][]planner.ClassSession{}, fetchErr("list courses", err)
	}
	return planner.Week(courses), nil
}

func (s *Service) Courses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.Store.ListCourses(ctx)
	if err != nil {
		return nil, fetchErr("list courses", err)
	}
	return courses, nil
}

func (s *Service) Course(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.Store.GetCourse(ctx, id)
	if err != nil {
		return nil, fetchErr("get course", err)
	}
	return course, nil
}

func (s *Service) SaveCourse(ctx context.Context, course *models.Course) error {
	course.Normalize()
	if err := course.Validate(); err != nil {
		return invalid(err)
	}

	op := "update"
	if course.ID == 0 {
		op = "create"
		err := s.Store.CreateCourse(ctx, course)
		if err != nil {
			return fetchErr("create course", err)
		}
	} else if err := s.Store.UpdateCourse(ctx, course); err != nil {
		return fetchErr("update course", err)
	}

	s.invalidate("course", op)
	return nil
}

func (s *Service) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.Store.DeleteCourse(ctx, id); err != nil {
		return fetchErr("delete course", err)
	}
	logger.Info.Printf("Deleted course %d with its assignments and grades", id)
	s.invalidate("course", "delete")
	return nil
}

func (s *Service) Assignments(ctx context.Context, filter planner.Filter, sortBy planner.SortKey) ([]models.Assignment, error) {
	assignments, err := s.Store.ListAssignments(ctx)
	if err != nil {
		return nil, fetchErr("list assignments", err)
	}
	assignments = planner.FilterAssignments(assignments, filter)
	planner.SortAssignments(assignments, planner.SortByDueDate, nil)

	if sortBy != "" && sortBy != planner.SortByDueDate {
		var courses []models.Course
		if sortBy == planner.SortByCourse {
			if courses, err = s.Store.ListCourses(ctx); err != nil {
				return nil, fetchErr("list courses", err)
			}
		}
		planner.SortAssignments(assignments, sortBy, courses)
	}
	return assignments, nil
}

func (s *Service) Assignment(ctx context.Context, id int64) (*models.Assignment, error) {
	a, err := s.Store.GetAssignment(ctx, id)
	if err != nil {
		return nil, fetchErr("get assignment", err)
	}
	return a, nil
}

func (s *Service) requireCourse(ctx context.Context, id int64) error {
	_, err := s.Store.GetCourse(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return invalid(fmt.Errorf("course %d does not exist", id))
	}
	if err != nil {
		return fetchErr("get course", err)
	}
	return nil
}

func (s *Service) SaveAssignment(ctx context.Context, a *models.Assignment) error {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	if err := s.requireCourse(ctx, a.CourseID); err != nil {
		return err
	}

	op := "update"
	if a.ID == 0 {
		op = "create"
		if err := s.Store.CreateAssignment(ctx, a); err != nil {
			return fetchErr("create assignment", err)
		}
	} else if err := s.Store.UpdateAssignment(ctx, a); err != nil {
		return fetchErr("update assignment", err)
	}

	s.invalidate("assignment", op)
	return nil
}

func (s *Service) ToggleAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	a, err := s.Store.ToggleAssignmentComplete(ctx, id)
	if err != nil {
		return nil, fetchErr("toggle assignment", err)
	}
	s.invalidate("assignment", "toggle")
	return a, nil
}

func (s *Service) DeleteAssignment(ctx context.Context, id int64) error {
	if err := s.Store.DeleteAssignment(ctx, id); err != nil {
		return fetchErr("delete assignment", err)
	}
	s.invalidate("assignment", "delete")
	return nil
}

func (s *Service) Grades(ctx context.Context, courseID int64) ([]models.Grade, error) {
	var (
		grades []models.Grade
		err    error
	)
	if courseID == 0 {
		grades, err = s.Store.ListGrades(ctx)
	} else {
		if _, err := s.Store.GetCourse(ctx, courseID); err != nil {
			return nil, fetchErr("get course", err)
		}
		grades, err = s.Store.ListGradesByCourse(ctx, courseID)
	}
	if err != nil {
		return nil, fetchErr("list grades", err)
	}
	return grades, nil
}

func (s *Service) Grade(ctx context.Context, id int64) (*models.Grade, error) {
	g, err := s.Store.GetGrade(ctx, id)
	if err != nil {
		return nil, fetchErr("get grade", err)
	}
	return g, nil
}

func (s *Service) SaveGrade(ctx context.Context, g *models.Grade) error {
	if err := g.Validate(); err != nil {
		return invalid(err)
	}
	if err := s.requireCourse(ctx, g.CourseID); err != nil {
		return err
	}
	if g.AssignmentID != nil {
		a, err := s.Store.GetAssignment(ctx, *g.AssignmentID)
		if errors.Is(err, store.ErrNotFound) {
			return invalid(fmt.Errorf("assignment %d does not exist", *g.AssignmentID))
		}
		if err != nil {
			return fetchErr("get assignment", err)
		}
		if a.CourseID != g.CourseID {
			return invalid(fmt.Errorf("assignment %d belongs to course %d", a.ID, a.CourseID))
		}
	}

	op := "update"
	if g.ID == 0 {
		op = "create"
		if err := s.Store.CreateGrade(ctx, g); err != nil {
			return fetchErr("create grade", err)
		}
	} else if err := s.Store.UpdateGrade(ctx, g); err != nil {
		return fetchErr("update grade", err)
	}

	s.invalidate("grade", op)
	return nil
}

func (s *Service) DeleteGrade(ctx context.Context, id int64) error {
	if err := s.Store.DeleteGrade(ctx, id); err != nil {
		return fetchErr("delete grade", err)
	}
	s.invalidate("grade", "delete")
	return nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
