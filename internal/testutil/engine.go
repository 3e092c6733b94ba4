// Package testutil provides deterministic collaborators for service tests.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/helixml/pulse/domain/sentiment"
)

// ErrStubFailure is returned by StubEngine for texts it was told to fail on.
var ErrStubFailure = errors.New("stub engine failure")

// StubEngine is a deterministic sentiment engine. Texts containing a
// negative keyword score "1 star", a positive keyword "5 stars", and
// anything else "3 stars". Every call is recorded.
type StubEngine struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]struct{}
}

var (
	negativeWords = []string{"terrible", "awful", "bad", "péssimo", "ruim"}
	positiveWords = []string{"great", "excellent", "good", "ótimo", "bom"}
)

// NewStubEngine creates a StubEngine. Predict fails for any text in failOn.
func NewStubEngine(failOn ...string) *StubEngine {
	e := &StubEngine{failOn: make(map[string]struct{}, len(failOn))}
	for _, text := range failOn {
		e.failOn[text] = struct{}{}
	}
	return e
}

// Predict implements sentiment.Engine.
func (e *StubEngine) Predict(ctx context.Context, text string) (sentiment.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return sentiment.Prediction{}, err
	}

	e.mu.Lock()
	e.calls = append(e.calls, text)
	_, fail := e.failOn[text]
	e.mu.Unlock()

	if fail {
		return sentiment.Prediction{}, ErrStubFailure
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, negativeWords):
		return sentiment.Prediction{Label: "1 star", Score: 0.9}, nil
	case containsAny(lower, positiveWords):
		return sentiment.Prediction{Label: "5 stars", Score: 0.9}, nil
	default:
		return sentiment.Prediction{Label: "3 stars", Score: 0.6}, nil
	}
}

// Calls returns the texts passed to Predict, in order.
func (e *StubEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// CallCount returns how many times Predict ran.
func (e *StubEngine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// Reset clears the recorded calls.
func (e *StubEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

var _ sentiment.Engine = (*StubEngine)(nil)
