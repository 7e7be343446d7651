package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shrimpsizemoose/trekker/logger"
)

const DefaultSemester = "Not Specified"

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type Course struct {
	ID         int64    `db:"id" json:"id"`
	Name       string   `db:"name" json:"name" validate:"required,max=120"`
	Instructor string   `db:"instructor" json:"instructor" validate:"max=120"`
	Credits    int      `db:"credits" json:"credits" validate:"gt=0,lte=30"`
	Color      string   `db:"color" json:"color" validate:"omitempty,hexcolor"`
	Semester   string   `db:"semester" json:"semester"`
	Schedule   Schedule `db:"schedule" json:"schedule" validate:"dive"`
}

// ScheduleSlot is one weekly meeting. Start and End are minutes since midnight.
type ScheduleSlot struct {
	Day   int `json:"day" validate:"gte=0,lte=6"`
	Start int `json:"start" validate:"gte=0,lt=1440"`
	End   int `json:"end" validate:"gt=0,lte=1440,gtfield=Start"`
}

func (s ScheduleSlot) Display() string {
	return fmt.Sprintf("%s %s-%s", DayName(s.Day), MinutesToClock(s.Start), MinutesToClock(s.End))
}

func DayName(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return dayNames[day]
}

func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Schedule is persisted as a single JSON column.
type Schedule []ScheduleSlot

func (s Schedule) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]ScheduleSlot(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	return string(data), nil
}

func (s *Schedule) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Schedule{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported schedule column type %T", src)
	}

	if len(raw) == 0 || string(raw) == "undefined" {
		*s = Schedule{}
		return nil
	}

	var slots []ScheduleSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		logger.Info.Printf("Invalid schedule JSON %q, treating as empty: %v", string(raw), err)
		*s = Schedule{}
		return nil
	}
	*s = slots
	return nil
}

// Normalize fills defaults the record store expects.
func (c *Course) Normalize() {
	if c.Semester == "" {
		c.Semester = DefaultSemester
	}
	if c.Schedule == nil {
		c.Schedule = Schedule{}
	}
}

func (c *Course) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
