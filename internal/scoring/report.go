package scoring

import (
	"github.com/shrimpsizemoose/studyplan/internal/models"
)

type CourseSummary struct {
	CourseID   int64    `json:"course_id"`
	Name       string   `json:"name"`
	Credits    int      `json:"credits"`
	GradeCount int      `json:"grade_count"`
	Average    *float64 `json:"average,omitempty"`
	Letter     string   `json:"letter,omitempty"`
	Points     *float64 `json:"points,omitempty"`
	Standing   Standing `json:"standing,omitempty"`
}

type Report struct {
	GPA          string          `json:"gpa"`
	Courses      []CourseSummary `json:"courses"`
	GradedCount  int             `json:"graded_courses"`
	RecordedRows int             `json:"recorded_grades"`
}

func (g *Grader) Summarize(course models.Course, grades []models.Grade) CourseSummary {
	summary := CourseSummary{
		CourseID:   course.ID,
		Name:       course.Name,
		Credits:    course.Credits,
		GradeCount: len(grades),
	}

	avg, ok := CourseAverage(grades)
	if !ok {
		return summary
	}

	band := BandFor(avg)
	summary.Average = &avg
	summary.Letter = band.Letter
	summary.Points = &band.Points
	summary.Standing = StandingFor(avg)
	return summary
}

// Report summarizes every course in input order and the overall GPA. Each
// course is averaged once; the GPA is derived from the summaries.
func (g *Grader) Report(courses []models.Course, grades []models.Grade) Report {
	byCourse := GroupByCourse(grades)

	report := Report{
		Courses:      make([]CourseSummary, 0, len(courses)),
		RecordedRows: len(grades),
	}

	var totalPoints float64
	var totalCredits int
	for _, course := range courses {
		summary := g.Summarize(course, byCourse[course.ID])
		if summary.Points != nil {
			report.GradedCount++
			totalPoints += *summary.Points * float64(course.Credits)
			totalCredits += course.Credits
		}
		report.Courses = append(report.Courses, summary)
	}
	report.GPA = g.formatGPA(totalPoints, totalCredits)
	return report
}
