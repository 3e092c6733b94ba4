package ingest

import (
	"time"

	"github.com/helixml/pulse/domain/survey"
)

// Row is one data row of an export, keyed by the raw column header.
// Number is the 1-based position among data rows.
type Row struct {
	Number int
	Values map[string]string
}

// Record is a validated row.
type Record struct {
	Row        int
	Email      string
	Department string
	Profile    survey.Profile
	Date       time.Time
	Scores     survey.Scores
	Texts      survey.Texts
}
