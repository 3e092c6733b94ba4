package persistence

import (
	"context"
	"fmt"

	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
	"gorm.io/gorm/clause"
)

// DepartmentStore implements survey.DepartmentStore using GORM.
type DepartmentStore struct {
	database.Repository[survey.Department, DepartmentModel]
}

// NewDepartmentStore creates a new DepartmentStore.
func NewDepartmentStore(db database.Database) DepartmentStore {
	return DepartmentStore{
		Repository: database.NewRepository[survey.Department, DepartmentModel](db, DepartmentMapper{}, "department"),
	}
}

// Save inserts the department unless one with the same name exists, and
// returns the stored row either way.
func (s DepartmentStore) Save(ctx context.Context, department survey.Department) (survey.Department, error) {
	model := s.Mapper().ToModel(department)

	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&model)
	if result.Error != nil {
		return survey.Department{}, fmt.Errorf("save department: %w", result.Error)
	}

	var stored DepartmentModel
	if err := s.DB(ctx).Where("name = ?", model.Name).First(&stored).Error; err != nil {
		return survey.Department{}, fmt.Errorf("reload department: %w", err)
	}
	return s.Mapper().ToDomain(stored), nil
}
