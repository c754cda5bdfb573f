package office

import "context"

// Repository reads the office perimeter registry.
type Repository interface {
	ListActive(ctx context.Context) ([]OfficeLocation, error)
}
