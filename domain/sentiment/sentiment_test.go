package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label      string
		wantLabel  Label
		wantRating int
	}{
		{"5 stars", LabelPositive, 5},
		{"4 stars", LabelPositive, 4},
		{"3 stars", LabelNeutral, 3},
		{"2 stars", LabelNegative, 2},
		{"1 star", LabelNegative, 1},
		{"9 stars", LabelPositive, 5},
		{"0 stars", LabelNegative, 1},
		{"positive", LabelNeutral, NeutralRating},
		{"", LabelNeutral, NeutralRating},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			c := Classify(Prediction{Label: tt.label, Score: 0.8})
			assert.Equal(t, tt.wantLabel, c.Label())
			assert.Equal(t, tt.wantRating, c.Rating())
			assert.InDelta(t, 0.8, c.Score(), 1e-9)
		})
	}
}

func TestEligible(t *testing.T) {
	assert.False(t, Eligible(""))
	assert.False(t, Eligible("-"))
	assert.False(t, Eligible("  ok  "))
	assert.False(t, Eligible("ñã"))
	assert.True(t, Eligible("bom"))
	assert.True(t, Eligible("Great place!"))
}
