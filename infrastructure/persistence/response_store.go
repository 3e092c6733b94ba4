package persistence

import (
	"context"
	"fmt"

	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var responseUpdateColumns = []string{
	"role_interest", "contribution", "learning", "feedback_score",
	"manager_interaction", "career_clarity", "permanence", "enps",
	"role_interest_comment", "contribution_comment", "learning_comment",
	"feedback_comment", "manager_interaction_comment", "career_clarity_comment",
	"permanence_comment", "enps_comment", "updated_at",
}

// ResponseStore implements survey.ResponseStore using GORM.
type ResponseStore struct {
	database.Repository[survey.Response, ResponseModel]
}

// NewResponseStore creates a new ResponseStore.
func NewResponseStore(db database.Database) ResponseStore {
	return ResponseStore{
		Repository: database.NewRepository[survey.Response, ResponseModel](db, ResponseMapper{}, "response"),
	}
}

// Save upserts the response by (employee, survey). Every answer column is
// written, so absent answers are stored as NULL.
func (s ResponseStore) Save(ctx context.Context, response survey.Response) (survey.Response, error) {
	model := s.Mapper().ToModel(response)

	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "survey_id"}},
		DoUpdates: clause.AssignmentColumns(responseUpdateColumns),
	}).Create(&model)
	if result.Error != nil {
		return survey.Response{}, fmt.Errorf("save response: %w", result.Error)
	}

	var stored ResponseModel
	err := s.DB(ctx).
		Where("employee_id = ? AND survey_id = ?", model.EmployeeID, model.SurveyID).
		First(&stored).Error
	if err != nil {
		return survey.Response{}, fmt.Errorf("reload response: %w", err)
	}
	return s.Mapper().ToDomain(stored), nil
}

// Delete removes a response together with its sentiment records.
func (s ResponseStore) Delete(ctx context.Context, response survey.Response) error {
	err := s.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("response_id = ?", response.ID()).Delete(&SentimentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ResponseModel{}, response.ID()).Error
	})
	if err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	return nil
}
