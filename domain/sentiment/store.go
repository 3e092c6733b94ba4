package sentiment

import (
	"context"

	"github.com/helixml/pulse/domain/repository"
	"github.com/helixml/pulse/domain/survey"
)

// Store persists sentiment records. Save upserts on (response, field).
type Store interface {
	repository.Store[Record]
	repository.Deleter[Record]
	DeleteBy(ctx context.Context, options ...repository.Option) error
}

// WithResponseID filters by the "response_id" column.
func WithResponseID(id int64) repository.Option {
	return repository.WithCondition("response_id", id)
}

// WithField filters by the "field_name" column.
func WithField(field survey.TextField) repository.Option {
	return repository.WithCondition("field_name", string(field))
}
