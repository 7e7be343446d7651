package models

import (
	"github.com/go-playground/validator/v10"
)

type Grade struct {
	ID           int64   `db:"id" json:"id"`
	CourseID     int64   `db:"course_id" json:"course_id" validate:"required,gt=0"`
	AssignmentID *int64  `db:"assignment_id" json:"assignment_id,omitempty"`
	Score        float64 `db:"score" json:"score" validate:"gte=0"`
	MaxScore     float64 `db:"max_score" json:"max_score" validate:"gt=0"`
	Category     string  `db:"category" json:"category" validate:"required,max=60"`
	Weight       float64 `db:"weight" json:"weight" validate:"gte=0,lte=1"`
}

// Percent is score over max score on a 0..100 scale. Callers must check MaxScore first.
func (g Grade) Percent() float64 {
	return g.Score / g.MaxScore * 100
}

// Validate does not require Score <= MaxScore: extra credit is kept as entered.
func (g *Grade) Validate() error {
	validate := validator.New()
	return validate.Struct(g)
}
