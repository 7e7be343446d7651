package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities so that high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type AssignmentType string

const (
	TypeAssignment AssignmentType = "Assignment"
	TypeQuiz       AssignmentType = "Quiz"
	TypeExam       AssignmentType = "Exam"
	TypeProject    AssignmentType = "Project"
	TypeLab        AssignmentType = "Lab"
	TypeEssay      AssignmentType = "Essay"
)

type Assignment struct {
	ID          int64          `db:"id" json:"id"`
	CourseID    int64          `db:"course_id" json:"course_id" validate:"required,gt=0"`
	Title       string         `db:"title" json:"title" validate:"required,max=200"`
	DueDate     time.Time      `db:"due_date" json:"due_date" validate:"required"`
	Priority    Priority       `db:"priority" json:"priority" validate:"oneof=low medium high"`
	Type        AssignmentType `db:"type" json:"type" validate:"oneof=Assignment Quiz Exam Project Lab Essay"`
	Description string         `db:"description" json:"description"`
	Completed   bool           `db:"completed" json:"completed"`
}

// Normalize fills defaults and stores the due date in UTC so text-backed
// columns order by instant.
func (a *Assignment) Normalize() {
	a.DueDate = a.DueDate.UTC()
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.Type == "" {
		a.Type = TypeAssignment
	}
}

func (a *Assignment) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}
