package employee

import "context"

// EmployeeRepository is the roster collaborator: it supplies the current
// employee list and accepts mutations with simple upsert semantics.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByTimeRecorderID(ctx context.Context, timeRecorderID string) (Employee, error)

	// List returns the roster. With activeOnly false it includes separated
	// employees, which the matcher needs for exact-id matching.
	List(ctx context.Context, activeOnly bool) ([]Employee, error)

	// Retire flags the employee as separated. Employees are never physically
	// deleted while payroll history references them.
	Retire(ctx context.Context, id string, separationDate string) error
}
