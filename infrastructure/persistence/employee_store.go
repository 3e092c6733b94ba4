package persistence

import (
	"context"
	"fmt"

	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
	"gorm.io/gorm/clause"
)

var employeeUpdateColumns = []string{
	"name", "corporate_email", "phone", "department_id", "role", "function",
	"location", "tenure", "tenure_rank", "gender", "generation",
	"company_level_0", "directorate_level_1", "management_level_2",
	"coordination_level_3", "area_level_4", "updated_at",
}

// EmployeeStore implements survey.EmployeeStore using GORM.
type EmployeeStore struct {
	database.Repository[survey.Employee, EmployeeModel]
}

// NewEmployeeStore creates a new EmployeeStore.
func NewEmployeeStore(db database.Database) EmployeeStore {
	return EmployeeStore{
		Repository: database.NewRepository[survey.Employee, EmployeeModel](db, EmployeeMapper{}, "employee"),
	}
}

// Save upserts the employee by email. The whole profile is overwritten.
func (s EmployeeStore) Save(ctx context.Context, employee survey.Employee) (survey.Employee, error) {
	model := s.Mapper().ToModel(employee)

	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns(employeeUpdateColumns),
	}).Create(&model)
	if result.Error != nil {
		return survey.Employee{}, fmt.Errorf("save employee: %w", result.Error)
	}

	var stored EmployeeModel
	if err := s.DB(ctx).Where("email = ?", model.Email).First(&stored).Error; err != nil {
		return survey.Employee{}, fmt.Errorf("reload employee: %w", err)
	}
	return s.Mapper().ToDomain(stored), nil
}
