package response

import (
	"errors"
	"net/http"

	"github.com/clockport/attendance-backend-go/internal/domain/attendance"
	"github.com/clockport/attendance-backend-go/internal/domain/employee"
	"github.com/clockport/attendance-backend-go/internal/domain/policy"
	"github.com/clockport/attendance-backend-go/internal/pkg/database"
	"github.com/clockport/attendance-backend-go/internal/pkg/validator"
	"github.com/clockport/attendance-backend-go/internal/service/geofence"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var verificationErr *attendance.OvertimeVerificationError
	if errors.As(err, &verificationErr) {
		details := make(map[string]string, len(verificationErr.Missing))
		for _, field := range verificationErr.Missing {
			details[field] = "required for overtime checkout"
		}
		UnprocessableEntity(w, "OVERTIME_VERIFICATION_REQUIRED", verificationErr.Error(), details)
		return
	}

	switch {
	case errors.Is(err, attendance.ErrInvalidStateTransition):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrPolicyViolation):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrOutsideOfficeRadius):
		UnprocessableEntity(w, "OUTSIDE_OFFICE_RADIUS", err.Error(), nil)
	case errors.Is(err, attendance.ErrTooEarlyForOvertime):
		UnprocessableEntity(w, "TOO_EARLY_FOR_OVERTIME", err.Error(), nil)
	case errors.Is(err, attendance.ErrEarlyCheckoutReasonRequired):
		UnprocessableEntity(w, "EARLY_CHECKOUT_REASON_REQUIRED", err.Error(), nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, geofence.ErrInvalidLocation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, policy.ErrPolicyNotConfigured), errors.Is(err, policy.ErrPolicyRequired):
		ServiceUnavailable(w, "Department policy is not configured")
	case errors.Is(err, database.ErrPersistenceUnavailable):
		ServiceUnavailable(w, "Storage is temporarily unavailable")
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
