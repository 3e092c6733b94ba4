package survey

import "time"

// Department is an organisational unit, identified by its name.
type Department struct {
	id        int64
	name      string
	createdAt time.Time
}

// NewDepartment creates a department that has not been persisted yet.
func NewDepartment(name string) Department {
	return Department{name: name, createdAt: time.Now()}
}

// ReconstructDepartment recreates a department from persistence.
func ReconstructDepartment(id int64, name string, createdAt time.Time) Department {
	return Department{id: id, name: name, createdAt: createdAt}
}

// ID returns the department ID.
func (d Department) ID() int64 { return d.id }

// Name returns the department name.
func (d Department) Name() string { return d.name }

// CreatedAt returns the creation timestamp.
func (d Department) CreatedAt() time.Time { return d.createdAt }
