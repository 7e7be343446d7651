package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

type PlannerStore interface {
	Close() error
	ApplyMigrations(dir string) error

	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error

	ListAssignments(ctx context.Context) ([]models.Assignment, error)
	ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error
	DeleteAssignment(ctx context.Context, id int64) error
	ToggleAssignmentComplete(ctx context.Context, id int64) (*models.Assignment, error)

	ListGrades(ctx context.Context) ([]models.Grade, error)
	ListGradesByCourse(ctx context.Context, courseID int64) ([]models.Grade, error)
	GetGrade(ctx context.Context, id int64) (*models.Grade, error)
	CreateGrade(ctx context.Context, grade *models.Grade) error
	UpdateGrade(ctx context.Context, grade *models.Grade) error
	DeleteGrade(ctx context.Context, id int64) error
}

// BaseStore provides common functionality for different DB implementations.
// Queries are written with ? placeholders and passed through Converter.
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory in file name order,
// translating dialect if needed.
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Info.Printf("Applying migration: %s", name)
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *BaseStore) insertReturningID(ctx context.Context, query string, arg interface{}) (int64, error) {
	stmt, err := s.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var id int64
	if err := stmt.GetContext(ctx, &id, arg); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *BaseStore) execAffecting(ctx context.Context, query string, arg interface{}) error {
	res, err := s.DB.NamedExecContext(ctx, query, arg)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := s.DB.ExecContext(ctx, s.Converter(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const courseColumns = `id, name, instructor, credits, color, semester, schedule`

func (s *BaseStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	err := s.DB.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *BaseStore) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	query := s.Converter(`SELECT ` + courseColumns + ` FROM courses WHERE id = ?`)

	err := s.DB.GetContext(ctx, &course, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course %d: %w", id, err)
	}
	return &course, nil
}

func (s *BaseStore) CreateCourse(ctx context.Context, course *models.Course) error {
	course.Normalize()
	id, err := s.insertReturningID(ctx, `
		INSERT INTO courses (name, instructor, credits, color, semester, schedule)
		VALUES (:name, :instructor, :credits, :color, :semester, :schedule)
		RETURNING id
	`, course)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	course.ID = id
	return nil
}

func (s *BaseStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	course.Normalize()
	err := s.execAffecting(ctx, `
		UPDATE courses SET
			name = :name,
			instructor = :instructor,
			credits = :credits,
			color = :color,
			semester = :semester,
			schedule = :schedule
		WHERE id = :id
	`, course)
	if err == ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update course %d: %w", course.ID, err)
	}
	return nil
}

// DeleteCourse removes a course together with its assignments and grades.
func (s *BaseStore) DeleteCourse(ctx context.Context, id int64) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin course delete: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"grades", "assignments"} {
		query := s.Converter(fmt.Sprintf("DELETE FROM %s WHERE course_id = ?", table))
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("failed to delete %s of course %d: %w", table, id, err)
		}
	}

	res, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM courses WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete course %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit course delete: %w", err)
	}
	return nil
}

const assignmentColumns = `id, course_id, title, due_date, priority, type, description, completed`

func (s *BaseStore) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	err := s.DB.SelectContext(ctx, &assignments, `
		SELECT `+assignmentColumns+`
		FROM assignments
		ORDER BY due_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *BaseStore) ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	query := s.Converter(`
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE course_id = ?
		ORDER BY due_date, id
	`)
	if err := s.DB.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to list assignments of course %d: %w", courseID, err)
	}
	return assignments, nil
}

func (s *BaseStore) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	var assignment models.Assignment
	query := s.Converter(`SELECT ` + assignmentColumns + ` FROM assignments WHERE id = ?`)

	err := s.DB.GetContext(ctx, &assignment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment %d: %w", id, err)
	}
	return &assignment, nil
}

func (s *BaseStore) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	assignment.Normalize()
	id, err := s.insertReturningID(ctx, `
		INSERT INTO assignments (course_id, title, due_date, priority, type, description, completed)
		VALUES (:course_id, :title, :due_date, :priority, :type, :description, :completed)
		RETURNING id
	`, assignment)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	assignment.ID = id
	return nil
}

func (s *BaseStore) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	assignment.Normalize()
	err := s.execAffecting(ctx, `
		UPDATE assignments SET
			course_id = :course_id,
			title = :title,
			due_date = :due_date,
			priority = :priority,
			type = :type,
			description = :description,
			completed = :completed
		WHERE id = :id
	`, assignment)
	if err == ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update assignment %d: %w", assignment.ID, err)
	}
	return nil
}

func (s *BaseStore) DeleteAssignment(ctx context.Context, id int64) error {
	err := s.deleteByID(ctx, "assignments", id)
	if err == ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete assignment %d: %w", id, err)
	}
	return nil
}

func (s *BaseStore) ToggleAssignmentComplete(ctx context.Context, id int64) (*models.Assignment, error) {
	res, err := s.DB.ExecContext(ctx, s.Converter(`
		UPDATE assignments SET completed = NOT completed WHERE id = ?
	`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle assignment %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetAssignment(ctx, id)
}

const gradeColumns = `id, course_id, assignment_id, score, max_score, category, weight`

func (s *BaseStore) ListGrades(ctx context.Context) ([]models.Grade, error) {
	grades := []models.Grade{}
	err := s.DB.SelectContext(ctx, &grades, `SELECT `+gradeColumns+` FROM grades ORDER BY course_id, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func (s *BaseStore) ListGradesByCourse(ctx context.Context, courseID int64) ([]models.Grade, error) {
	grades := []models.Grade{}
	query := s.Converter(`SELECT ` + gradeColumns + ` FROM grades WHERE course_id = ? ORDER BY id`)
	if err := s.DB.SelectContext(ctx, &grades, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to list grades of course %d: %w", courseID, err)
	}
	return grades, nil
}

func (s *BaseStore) GetGrade(ctx context.Context, id int64) (*models.Grade, error) {
	var grade models.Grade
	query := s.Converter(`SELECT ` + gradeColumns + ` FROM grades WHERE id = ?`)

	err := s.DB.GetContext(ctx, &grade, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grade %d: %w", id, err)
	}
	return &grade, nil
}

func (s *BaseStore) CreateGrade(ctx context.Context, grade *models.Grade) error {
	id, err := s.insertReturningID(ctx, `
		INSERT INTO grades (course_id, assignment_id, score, max_score, category, weight)
		VALUES (:course_id, :assignment_id, :score, :max_score, :category, :weight)
		RETURNING id
	`, grade)
	if err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}
	grade.ID = id
	return nil
}

func (s *BaseStore) UpdateGrade(ctx context.Context, grade *models.Grade) error {
	err := s.execAffecting(ctx, `
		UPDATE grades SET
			course_id = :course_id,
			assignment_id = :assignment_id,
			score = :score,
			max_score = :max_score,
			category = :category,
			weight = :weight
		WHERE id = :id
	`, grade)
	if err == ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update grade %d: %w", grade.ID, err)
	}
	return nil
}

func (s *BaseStore) DeleteGrade(ctx context.Context, id int64) error {
	err := s.deleteByID(ctx, "grades", id)
	if err == ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete grade %d: %w", id, err)
	}
	return nil
}
