package persistence

import (
	"context"
	"fmt"

	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
	"gorm.io/gorm/clause"
)

// SurveyStore implements survey.SurveyStore using GORM.
type SurveyStore struct {
	database.Repository[survey.Survey, SurveyModel]
}

// NewSurveyStore creates a new SurveyStore.
func NewSurveyStore(db database.Database) SurveyStore {
	return SurveyStore{
		Repository: database.NewRepository[survey.Survey, SurveyModel](db, SurveyMapper{}, "survey"),
	}
}

// Save inserts the survey unless one exists for the same date, and returns
// the stored row either way.
func (s SurveyStore) Save(ctx context.Context, sv survey.Survey) (survey.Survey, error) {
	model := s.Mapper().ToModel(sv)

	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(&model)
	if result.Error != nil {
		return survey.Survey{}, fmt.Errorf("save survey: %w", result.Error)
	}

	var stored SurveyModel
	if err := s.DB(ctx).Where("date = ?", model.Date).First(&stored).Error; err != nil {
		return survey.Survey{}, fmt.Errorf("reload survey: %w", err)
	}
	return s.Mapper().ToDomain(stored), nil
}
