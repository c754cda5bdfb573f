package employee

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Employee, error)
}
