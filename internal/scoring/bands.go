package scoring

// Band is one row of the grading scale. A percentage falls into the first
// band whose Min it reaches.
type Band struct {
	Min    float64
	Letter string
	Points float64
}

// The scale keeps a bare D at 65 with no grade points, so GradePoints and
// LetterGrade read from the same rows.
var scale = []Band{
	{Min: 97, Letter: "A+", Points: 4.0},
	{Min: 93, Letter: "A", Points: 3.7},
	{Min: 90, Letter: "A-", Points: 3.3},
	{Min: 87, Letter: "B+", Points: 3.0},
	{Min: 83, Letter: "B", Points: 2.7},
	{Min: 80, Letter: "B-", Points: 2.3},
	{Min: 77, Letter: "C+", Points: 2.0},
	{Min: 73, Letter: "C", Points: 1.7},
	{Min: 70, Letter: "C-", Points: 1.3},
	{Min: 67, Letter: "D+", Points: 1.0},
	{Min: 65, Letter: "D", Points: 0.0},
}

var failing = Band{Min: 0, Letter: "F", Points: 0.0}

func BandFor(pct float64) Band {
	for _, b := range scale {
		if pct >= b.Min {
			return b
		}
	}
	return failing
}

func GradePoints(pct float64) float64 {
	return BandFor(pct).Points
}

func LetterGrade(pct float64) string {
	return BandFor(pct).Letter
}

type Standing string

const (
	StandingSuccess Standing = "success"
	StandingInfo    Standing = "info"
	StandingWarning Standing = "warning"
	StandingError   Standing = "error"
)

// StandingFor is the coarse tier used to color a course average.
func StandingFor(pct float64) Standing {
	switch {
	case pct >= 90:
		return StandingSuccess
	case pct >= 80:
		return StandingInfo
	case pct >= 70:
		return StandingWarning
	default:
		return StandingError
	}
}
