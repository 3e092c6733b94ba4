package sentiment

import (
	"time"

	"github.com/helixml/pulse/domain/survey"
)

// Record is the stored sentiment of one text field of one response.
// At most one record exists per (response, field).
type Record struct {
	id         int64
	responseID int64
	field      survey.TextField
	label      Label
	score      float64
	rating     int
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRecord creates a record that has not been persisted yet.
func NewRecord(responseID int64, field survey.TextField, c Classification) Record {
	now := time.Now()
	return Record{
		responseID: responseID,
		field:      field,
		label:      c.Label(),
		score:      c.Score(),
		rating:     c.Rating(),
		createdAt:  now,
		updatedAt:  now,
	}
}

// ReconstructRecord recreates a record from persistence.
func ReconstructRecord(
	id, responseID int64,
	field survey.TextField,
	label Label,
	score float64,
	rating int,
	createdAt, updatedAt time.Time,
) Record {
	return Record{
		id:         id,
		responseID: responseID,
		field:      field,
		label:      label,
		score:      score,
		rating:     rating,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the record ID.
func (r Record) ID() int64 { return r.id }

// ResponseID returns the owning response.
func (r Record) ResponseID() int64 { return r.responseID }

// Field returns the analysed text field.
func (r Record) Field() survey.TextField { return r.field }

// Label returns the three-way label.
func (r Record) Label() Label { return r.label }

// Score returns the engine confidence.
func (r Record) Score() float64 { return r.score }

// Rating returns the 1-5 rating.
func (r Record) Rating() int { return r.rating }

// CreatedAt returns the creation timestamp.
func (r Record) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last update timestamp.
func (r Record) UpdatedAt() time.Time { return r.updatedAt }
