package postgresql

import (
	"context"
	"fmt"

	"github.com/clockport/attendance-backend-go/internal/domain/office"
	"github.com/clockport/attendance-backend-go/internal/pkg/database"
)

type OfficeRepository struct {
	db *database.DB
}

func NewOfficeRepository(db *database.DB) *OfficeRepository {
	return &OfficeRepository{db: db}
}

func (r *OfficeRepository) ListActive(ctx context.Context) ([]office.OfficeLocation, error) {
	ctx, cancel := r.db.OpTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, latitude, longitude, radius_meters
		FROM office_locations
		WHERE is_active = true
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list office locations: %w", database.ClassifyErr(err))
	}
	defer rows.Close()

	var offices []office.OfficeLocation
	for rows.Next() {
		var o office.OfficeLocation
		if err := rows.Scan(&o.ID, &o.Name, &o.Latitude, &o.Longitude, &o.RadiusMeters); err != nil {
			return nil, fmt.Errorf("failed to scan office location: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read office locations: %w", database.ClassifyErr(err))
	}
	return offices, nil
}
