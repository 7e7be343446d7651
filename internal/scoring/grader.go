// internal/scoring/grader.go
package scoring

import (
	"math"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/metrics"
	"github.com/shrimpsizemoose/studyplan/internal/models"
)

const (
	DefaultPrecision = 2
	DefaultEmptyGPA  = "4.0"
)

type Grader struct {
	Precision int    `toml:"precision"`
	EmptyGPA  string `toml:"empty_gpa"`
}

func NewGrader(precision int, emptyGPA string) *Grader {
	if precision < 0 {
		precision = DefaultPrecision
	}
	if emptyGPA == "" {
		emptyGPA = DefaultEmptyGPA
	}
	return &Grader{
		Precision: precision,
		EmptyGPA:  emptyGPA,
	}
}

var defaultGrader = NewGrader(DefaultPrecision, DefaultEmptyGPA)

type category struct {
	name   string
	weight float64
	sum    float64
	count  int
}

// CourseAverage folds one course's grades into a percentage. ok is false when
// no usable grade exists; that result must not be averaged as zero.
func CourseAverage(grades []models.Grade) (avg float64, ok bool) {
	var order []*category
	byName := make(map[string]*category)

	for _, g := range grades {
		if !usable(g) {
			logger.Error.Printf(
				"Skipping grade %d of course %d: score=%v max_score=%v weight=%v",
				g.ID, g.CourseID, g.Score, g.MaxScore, g.Weight,
			)
			metrics.GradesSkipped.WithLabelValues(reasonFor(g)).Inc()
			continue
		}

		c, seen := byName[g.Category]
		if !seen {
			c = &category{name: g.Category, weight: g.Weight}
			byName[g.Category] = c
			order = append(order, c)
		} else if c.weight != g.Weight {
			logger.Debug.Printf(
				"Course %d category %q mixes weights %v and %v, using %v",
				g.CourseID, g.Category, c.weight, g.Weight, c.weight,
			)
		}
		c.sum += g.Percent()
		c.count++
	}

	if len(order) == 0 {
		return 0, false
	}

	var weighted, totalWeight float64
	for _, c := range order {
		weighted += c.sum / float64(c.count) * c.weight
		totalWeight += c.weight
	}

	if totalWeight == 0 {
		return 0, true
	}
	return weighted / totalWeight, true
}

func usable(g models.Grade) bool {
	if g.MaxScore <= 0 || g.Weight < 0 {
		return false
	}
	for _, v := range []float64{g.Score, g.MaxScore, g.Weight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func reasonFor(g models.Grade) string {
	switch {
	case g.MaxScore <= 0:
		return "max_score"
	case g.Weight < 0:
		return "weight"
	default:
		return "non_finite"
	}
}

func OverallGPA(courses []models.Course, grades []models.Grade) string {
	return defaultGrader.OverallGPA(courses, grades)
}

// OverallGPA weights each graded course's points by its credits. Courses
// without grades contribute neither points nor credits.
func (g *Grader) OverallGPA(courses []models.Course, grades []models.Grade) string {
	byCourse := GroupByCourse(grades)

	var totalPoints float64
	var totalCredits int
	for _, course := range courses {
		avg, ok := CourseAverage(byCourse[course.ID])
		if !ok {
			continue
		}
		totalPoints += GradePoints(avg) * float64(course.Credits)
		totalCredits += course.Credits
	}
	return g.formatGPA(totalPoints, totalCredits)
}

func (g *Grader) formatGPA(totalPoints float64, totalCredits int) string {
	metrics.GPAComputations.Inc()

	if totalCredits == 0 {
		return g.EmptyGPA
	}
	return strconv.FormatFloat(totalPoints/float64(totalCredits), 'f', g.Precision, 64)
}

func GroupByCourse(grades []models.Grade) map[int64][]models.Grade {
	out := make(map[int64][]models.Grade)
	for _, g := range grades {
		out[g.CourseID] = append(out[g.CourseID], g)
	}
	return out
}
