package survey

import (
	"time"

	"github.com/helixml/pulse/domain/repository"
)

// WithName filters departments by the "name" column.
func WithName(name string) repository.Option {
	return repository.WithCondition("name", name)
}

// WithEmail filters employees by the "email" column.
func WithEmail(email string) repository.Option {
	return repository.WithCondition("email", email)
}

// WithDate filters surveys by calendar date.
func WithDate(date time.Time) repository.Option {
	return repository.WithCondition("date", DateKey(date))
}

// WithEmployeeID filters by the "employee_id" column.
func WithEmployeeID(id int64) repository.Option {
	return repository.WithCondition("employee_id", id)
}

// WithSurveyID filters by the "survey_id" column.
func WithSurveyID(id int64) repository.Option {
	return repository.WithCondition("survey_id", id)
}

// WithDepartmentID filters by the "department_id" column.
func WithDepartmentID(id int64) repository.Option {
	return repository.WithCondition("department_id", id)
}
