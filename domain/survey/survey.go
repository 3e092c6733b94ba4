package survey

import (
	"fmt"
	"time"
)

// DateLayout is the storage form of a survey date.
const DateLayout = "2006-01-02"

// Survey is one collection round, identified by its response date.
type Survey struct {
	id        int64
	date      time.Time
	name      string
	createdAt time.Time
}

// NewSurvey creates a survey for the given date with a derived name.
func NewSurvey(date time.Time) Survey {
	day := Day(date)
	return Survey{date: day, name: Name(day), createdAt: time.Now()}
}

// ReconstructSurvey recreates a survey from persistence.
func ReconstructSurvey(id int64, date time.Time, name string, createdAt time.Time) Survey {
	return Survey{id: id, date: date, name: name, createdAt: createdAt}
}

// ID returns the survey ID.
func (s Survey) ID() int64 { return s.id }

// Date returns the response date.
func (s Survey) Date() time.Time { return s.date }

// Name returns the display name.
func (s Survey) Name() string { return s.name }

// CreatedAt returns the creation timestamp.
func (s Survey) CreatedAt() time.Time { return s.createdAt }

// Name derives the display name of the survey taken on date.
func Name(date time.Time) string {
	return fmt.Sprintf("Survey %02d/%04d", int(date.Month()), date.Year())
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey returns the storage key for a survey date.
func DateKey(t time.Time) string {
	return Day(t).Format(DateLayout)
}
