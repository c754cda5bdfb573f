package policy

import "context"

// Repository resolves department policies. Lookup only; the engine never
// writes policies.
type Repository interface {
	GetByDepartment(ctx context.Context, department string) (DepartmentPolicy, error)
}
