package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clockport/attendance-backend-go/internal/domain/policy"
	"github.com/clockport/attendance-backend-go/internal/pkg/database"
)

type PolicyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) GetByDepartment(ctx context.Context, department string) (policy.DepartmentPolicy, error) {
	ctx, cancel := r.db.OpTimeout(ctx)
	defer cancel()

	query := `
		SELECT department, check_in_time, check_out_time, working_hours,
		       overtime_threshold_minutes, grace_period_minutes,
		       allow_remote_work, allow_field_work, is_flexible_timing, timezone
		FROM department_policies
		WHERE department = $1`

	var pol policy.DepartmentPolicy
	err := r.db.QueryRow(ctx, query, department).Scan(
		&pol.Department, &pol.CheckInTime, &pol.CheckOutTime, &pol.WorkingHours,
		&pol.OvertimeThresholdMinutes, &pol.GracePeriodMinutes,
		&pol.AllowRemoteWork, &pol.AllowFieldWork, &pol.IsFlexibleTiming, &pol.Timezone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.DepartmentPolicy{}, policy.ErrPolicyNotConfigured
		}
		return policy.DepartmentPolicy{}, fmt.Errorf("failed to get department policy: %w", database.ClassifyErr(err))
	}
	return pol, nil
}
