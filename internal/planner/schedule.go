package planner

import (
	"sort"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

type ClassSession struct {
	CourseID   int64  `json:"course_id"`
	Course     string `json:"course"`
	Instructor string `json:"instructor"`
	Color      string `json:"color"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Display    string `json:"display"`
}

// ClassesForDay lists every slot meeting on day (0 = Sunday), earliest first.
func ClassesForDay(courses []models.Course, day int) []ClassSession {
	sessions := []ClassSession{}
	for _, c := range courses {
		for _, slot := range c.Schedule {
			if slot.Day != day {
				continue
			}
			sessions = append(sessions, ClassSession{
				CourseID:   c.ID,
				Course:     c.Name,
				Instructor: c.Instructor,
				Color:      c.Color,
				Start:      slot.Start,
				End:        slot.End,
				Display:    slot.Display(),
			})
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start < sessions[j].Start
	})
	return sessions
}

// Week groups sessions by weekday, Sunday first.
func Week(courses []models.Course) [7][]ClassSession {
	var week [7][]ClassSession
	for day := range week {
		week[day] = ClassesForDay(courses, day)
	}
	return week
}
