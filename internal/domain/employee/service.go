package employee

import "context"

// EmployeeService defines business logic for roster management.
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, activeOnly bool) (ListEmployeeResponse, error)

	// Retire marks an employee as separated effective the given date.
	Retire(ctx context.Context, id string, separationDate string) error
}
