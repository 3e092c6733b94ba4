package persistence

import (
	"context"
	"fmt"

	"github.com/helixml/pulse/domain/sentiment"
	"github.com/helixml/pulse/internal/database"
	"gorm.io/gorm/clause"
)

// SentimentStore implements sentiment.Store using GORM.
type SentimentStore struct {
	database.Repository[sentiment.Record, SentimentModel]
}

// NewSentimentStore creates a new SentimentStore.
func NewSentimentStore(db database.Database) SentimentStore {
	return SentimentStore{
		Repository: database.NewRepository[sentiment.Record, SentimentModel](db, SentimentMapper{}, "sentiment"),
	}
}

// Save upserts the record by (response, field), replacing any earlier
// classification of the same text field.
func (s SentimentStore) Save(ctx context.Context, record sentiment.Record) (sentiment.Record, error) {
	model := s.Mapper().ToModel(record)

	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "response_id"}, {Name: "field_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sentiment_label", "sentiment_score", "sentiment_rating", "updated_at",
		}),
	}).Create(&model)
	if result.Error != nil {
		return sentiment.Record{}, fmt.Errorf("save sentiment: %w", result.Error)
	}

	var stored SentimentModel
	err := s.DB(ctx).
		Where("response_id = ? AND field_name = ?", model.ResponseID, model.FieldName).
		First(&stored).Error
	if err != nil {
		return sentiment.Record{}, fmt.Errorf("reload sentiment: %w", err)
	}
	return s.Mapper().ToDomain(stored), nil
}

// Delete removes a sentiment record.
func (s SentimentStore) Delete(ctx context.Context, record sentiment.Record) error {
	result := s.DB(ctx).Delete(&SentimentModel{}, record.ID())
	if result.Error != nil {
		return fmt.Errorf("delete sentiment: %w", result.Error)
	}
	return nil
}
