// Package survey provides the domain types for survey snapshots: departments,
// employees, surveys, and the responses that tie them together.
package survey

import (
	"maps"
	"strings"
)

// Metric identifies one of the integer answer columns of a response.
type Metric string

// Metric keys.
const (
	MetricRoleInterest       Metric = "role_interest"
	MetricContribution       Metric = "contribution"
	MetricLearning           Metric = "learning"
	MetricFeedback           Metric = "feedback_score"
	MetricManagerInteraction Metric = "manager_interaction"
	MetricCareerClarity      Metric = "career_clarity"
	MetricPermanence         Metric = "permanence"
	MetricENPS               Metric = "enps"
)

// TextField identifies one of the qualitative comment columns of a response.
type TextField string

// Text field keys. Sentiment records are keyed by these values.
const (
	TextRoleInterest       TextField = "role_interest_comment"
	TextContribution       TextField = "contribution_comment"
	TextLearning           TextField = "learning_comment"
	TextFeedback           TextField = "feedback_comment"
	TextManagerInteraction TextField = "manager_interaction_comment"
	TextCareerClarity      TextField = "career_clarity_comment"
	TextPermanence         TextField = "permanence_comment"
	TextENPS               TextField = "enps_comment"
)

var allMetrics = []Metric{
	MetricRoleInterest,
	MetricContribution,
	MetricLearning,
	MetricFeedback,
	MetricManagerInteraction,
	MetricCareerClarity,
	MetricPermanence,
	MetricENPS,
}

var allTextFields = []TextField{
	TextRoleInterest,
	TextContribution,
	TextLearning,
	TextFeedback,
	TextManagerInteraction,
	TextCareerClarity,
	TextPermanence,
	TextENPS,
}

// AllMetrics returns the eight metric keys in column order.
func AllMetrics() []Metric {
	return append([]Metric(nil), allMetrics...)
}

// AllTextFields returns the eight text field keys in column order.
func AllTextFields() []TextField {
	return append([]TextField(nil), allTextFields...)
}

// IsValid reports whether f is one of the known text fields.
func (f TextField) IsValid() bool {
	for _, known := range allTextFields {
		if f == known {
			return true
		}
	}
	return false
}

// Scores holds the metric answers of a response. A metric that was not
// answered is absent rather than zero.
type Scores struct {
	values map[Metric]int
}

// NewScores creates Scores from a map; the map is copied.
func NewScores(values map[Metric]int) Scores {
	return Scores{values: maps.Clone(values)}
}

// Get returns the value for m and whether it is present.
func (s Scores) Get(m Metric) (int, bool) {
	v, ok := s.values[m]
	return v, ok
}

// Len returns the number of answered metrics.
func (s Scores) Len() int { return len(s.values) }

// Equal reports whether both sides hold the same metrics with the same
// values. Absent on one side and present on the other is a difference.
func (s Scores) Equal(other Scores) bool {
	for _, m := range allMetrics {
		a, okA := s.values[m]
		b, okB := other.values[m]
		if okA != okB || a != b {
			return false
		}
	}
	return true
}

// Texts holds the free-text answers of a response.
type Texts struct {
	values map[TextField]string
}

// NewTexts creates Texts from a map; the map is copied.
func NewTexts(values map[TextField]string) Texts {
	return Texts{values: maps.Clone(values)}
}

// Get returns the text for f and whether it is present.
func (t Texts) Get(f TextField) (string, bool) {
	v, ok := t.values[f]
	return v, ok
}

// Len returns the number of present text answers.
func (t Texts) Len() int { return len(t.values) }

// EqualTrimmed compares both sides field by field after trimming
// surrounding whitespace. An absent field compares as empty text.
func (t Texts) EqualTrimmed(other Texts) bool {
	for _, f := range allTextFields {
		if strings.TrimSpace(t.values[f]) != strings.TrimSpace(other.values[f]) {
			return false
		}
	}
	return true
}
