package survey

import "time"

// Response is one employee's answers to one survey. At most one response
// exists per (employee, survey) pair.
type Response struct {
	id         int64
	employeeID int64
	surveyID   int64
	scores     Scores
	texts      Texts
	createdAt  time.Time
	updatedAt  time.Time
}

// NewResponse creates a response that has not been persisted yet.
func NewResponse(employeeID, surveyID int64, scores Scores, texts Texts) Response {
	now := time.Now()
	return Response{
		employeeID: employeeID,
		surveyID:   surveyID,
		scores:     scores,
		texts:      texts,
		createdAt:  now,
		updatedAt:  now,
	}
}

// ReconstructResponse recreates a response from persistence.
func ReconstructResponse(
	id, employeeID, surveyID int64,
	scores Scores,
	texts Texts,
	createdAt, updatedAt time.Time,
) Response {
	return Response{
		id:         id,
		employeeID: employeeID,
		surveyID:   surveyID,
		scores:     scores,
		texts:      texts,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the response ID.
func (r Response) ID() int64 { return r.id }

// EmployeeID returns the respondent.
func (r Response) EmployeeID() int64 { return r.employeeID }

// SurveyID returns the survey answered.
func (r Response) SurveyID() int64 { return r.surveyID }

// Scores returns the metric answers.
func (r Response) Scores() Scores { return r.scores }

// Texts returns the free-text answers.
func (r Response) Texts() Texts { return r.texts }

// CreatedAt returns the creation timestamp.
func (r Response) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last update timestamp.
func (r Response) UpdatedAt() time.Time { return r.updatedAt }

// WithAnswers returns a copy carrying the given answers in full.
func (r Response) WithAnswers(scores Scores, texts Texts) Response {
	r.scores = scores
	r.texts = texts
	r.updatedAt = time.Now()
	return r
}

// Change describes how incoming answers differ from a stored response.
// The two predicates are independent: only TextChanged calls for new
// sentiment analysis.
type Change struct {
	MetricsChanged bool
	TextChanged    bool
}

// Any reports whether anything differs.
func (c Change) Any() bool { return c.MetricsChanged || c.TextChanged }

// Diff compares incoming answers against r. Call it before applying the
// answers: once r carries them the comparison is always empty.
func (r Response) Diff(scores Scores, texts Texts) Change {
	return Change{
		MetricsChanged: !r.scores.Equal(scores),
		TextChanged:    !r.texts.EqualTrimmed(texts),
	}
}
