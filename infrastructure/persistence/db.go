// Package persistence provides database storage implementations.
package persistence

import (
	"fmt"

	"github.com/helixml/pulse/internal/database"
)

// AutoMigrate creates or updates the schema for every model. It is safe to
// run on every startup.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(
		&DepartmentModel{},
		&SurveyModel{},
		&EmployeeModel{},
		&ResponseModel{},
		&SentimentModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
