package survey

import "github.com/helixml/pulse/domain/repository"

// DepartmentStore persists departments. Departments, employees, and surveys
// are never removed, so their stores have no Delete.
type DepartmentStore interface {
	repository.Store[Department]
}

// EmployeeStore persists employees.
type EmployeeStore interface {
	repository.Store[Employee]
}

// SurveyStore persists surveys.
type SurveyStore interface {
	repository.Store[Survey]
}

// ResponseStore persists responses. Delete also removes the response's
// sentiment records.
type ResponseStore interface {
	repository.Store[Response]
	repository.Deleter[Response]
}
