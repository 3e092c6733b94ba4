package service

import (
	"github.com/helixml/pulse/domain/sentiment"
	"github.com/helixml/pulse/domain/survey"
	"github.com/helixml/pulse/internal/database"
)

// Stores groups the stores a run reads and writes through.
type Stores struct {
	Departments survey.DepartmentStore
	Employees   survey.EmployeeStore
	Surveys     survey.SurveyStore
	Responses   survey.ResponseStore
	Sentiments  sentiment.Store
}

// StoreFactory binds a set of stores to a database handle. Services call
// it with transaction and savepoint handles so every write lands in the
// enclosing unit of work.
type StoreFactory func(db database.Database) Stores
