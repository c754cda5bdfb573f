package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockport/attendance-backend-go/internal/domain/attendance"
	"github.com/clockport/attendance-backend-go/internal/pkg/database"
	"github.com/clockport/attendance-backend-go/internal/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "reason", Message: "too short"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "too short", resp.Error.Details["reason"])
}

func TestHandleErrorStateTransition(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &attendance.StateTransitionError{
		Current:   attendance.StateCheckedOut,
		Attempted: "check out",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode(t, rec).Error.Code)
}

func TestHandleErrorOvertimeVerification(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &attendance.OvertimeVerificationError{
		Missing: []string{"overtime_reason", "photo_ref"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "OVERTIME_VERIFICATION_REQUIRED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "overtime_reason")
	assert.Contains(t, resp.Error.Details, "photo_ref")
}

func TestHandleErrorPersistenceUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, database.ErrPersistenceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleErrorUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
