package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clockport/attendance-backend-go/internal/domain/employee"
	"github.com/clockport/attendance-backend-go/internal/pkg/database"
)

type EmployeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	ctx, cancel := r.db.OpTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, full_name, department, is_active
		FROM employees
		WHERE user_id = $1`

	var emp employee.Employee
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&emp.ID, &emp.UserID, &emp.FullName, &emp.Department, &emp.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", database.ClassifyErr(err))
	}
	return emp, nil
}
