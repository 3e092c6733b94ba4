package testutil

import (
	"github.com/helixml/pulse/application/service"
	"github.com/helixml/pulse/infrastructure/persistence"
	"github.com/helixml/pulse/internal/database"
)

// Stores binds the GORM stores to db.
func Stores(db database.Database) service.Stores {
	return service.Stores{
		Departments: persistence.NewDepartmentStore(db),
		Employees:   persistence.NewEmployeeStore(db),
		Surveys:     persistence.NewSurveyStore(db),
		Responses:   persistence.NewResponseStore(db),
		Sentiments:  persistence.NewSentimentStore(db),
	}
}
