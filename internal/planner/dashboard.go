package planner

import (
	"math"
	"time"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

type Stats struct {
	Courses        int `json:"courses"`
	Assignments    int `json:"assignments"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completion_rate"`
	Grades         int `json:"grades"`
}

func ComputeStats(courses []models.Course, assignments []models.Assignment, grades []models.Grade) Stats {
	s := Stats{
		Courses:     len(courses),
		Assignments: len(assignments),
		Grades:      len(grades),
	}
	for _, a := range assignments {
		if a.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Assignments - s.Completed
	if s.Assignments > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Assignments) * 100))
	}
	return s
}

type DueTone string

const (
	ToneError   DueTone = "error"
	ToneWarning DueTone = "warning"
	ToneInfo    DueTone = "info"
	ToneDefault DueTone = "default"
)

type DueInfo struct {
	Text string  `json:"text"`
	Tone DueTone `json:"tone"`
}

// DueLabel describes a due date relative to now, in now's location. Weeks start on Sunday.
func DueLabel(due, now time.Time) DueInfo {
	due = due.In(now.Location())
	today := startOfDay(now)

	switch {
	case now.After(due):
		return DueInfo{Text: "Overdue", Tone: ToneError}
	case startOfDay(due).Equal(today):
		return DueInfo{Text: "Due Today", Tone: ToneWarning}
	case startOfDay(due).Equal(today.AddDate(0, 0, 1)):
		return DueInfo{Text: "Due Tomorrow", Tone: ToneWarning}
	}

	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	if due.Before(weekStart.AddDate(0, 0, 7)) {
		return DueInfo{Text: due.Format("Mon"), Tone: ToneInfo}
	}
	return DueInfo{Text: due.Format("Jan 2"), Tone: ToneDefault}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
