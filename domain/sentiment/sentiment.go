// Package sentiment provides the domain types for sentiment enrichment of
// free-text survey answers.
package sentiment

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Label is the three-way sentiment classification.
type Label string

// Label values.
const (
	LabelPositive Label = "POSITIVE"
	LabelNeutral  Label = "NEUTRAL"
	LabelNegative Label = "NEGATIVE"
)

// Rating bounds and the rating used when the engine label has no number.
const (
	MinRating     = 1
	MaxRating     = 5
	NeutralRating = 3
)

// MinTextLength is the shortest trimmed text, in characters, worth sending
// to the engine. Shorter answers are placeholders such as "-" or "ok".
const MinTextLength = 3

// Prediction is the raw output of an inference engine: a label such as
// "4 stars" and the model's confidence in it.
type Prediction struct {
	Label string
	Score float64
}

// Engine classifies a single text.
type Engine interface {
	Predict(ctx context.Context, text string) (Prediction, error)
}

// Eligible reports whether text is long enough to analyse.
func Eligible(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinTextLength
}

// ParseRating reads the star count from the first token of a label such as
// "4 stars". The result is clamped to the rating bounds.
func ParseRating(label string) (int, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return min(max(n, MinRating), MaxRating), true
}

// LabelForRating maps a 1-5 rating onto the three-way label.
func LabelForRating(rating int) Label {
	switch {
	case rating >= 4:
		return LabelPositive
	case rating <= 2:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Classification is a normalised prediction.
type Classification struct {
	label  Label
	rating int
	score  float64
}

// Classify normalises a prediction. A label without a leading number is
// NEUTRAL with the neutral rating.
func Classify(p Prediction) Classification {
	rating, ok := ParseRating(p.Label)
	if !ok {
		return Classification{label: LabelNeutral, rating: NeutralRating, score: p.Score}
	}
	return Classification{label: LabelForRating(rating), rating: rating, score: p.Score}
}

// Label returns the three-way label.
func (c Classification) Label() Label { return c.label }

// Rating returns the 1-5 rating.
func (c Classification) Rating() int { return c.rating }

// Score returns the engine confidence.
func (c Classification) Score() float64 { return c.score }
