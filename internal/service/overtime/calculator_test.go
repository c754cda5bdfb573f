package overtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockport/attendance-backend-go/internal/domain/policy"
)

func testPolicy() *policy.DepartmentPolicy {
	return &policy.DepartmentPolicy{
		Department:               "engineering",
		CheckInTime:              "09:00",
		CheckOutTime:             "18:00",
		WorkingHours:             8,
		OvertimeThresholdMinutes: 30,
		GracePeriodMinutes:       15,
		Timezone:                 "UTC",
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 16, hour, minute, 0, 0, time.UTC)
}

func TestCalculateOvertimePastBoundary(t *testing.T) {
	checkIn := at(9, 5)

	res, err := Calculate(&checkIn, nil, at(18, 45), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 580, res.WorkedMinutes)
	assert.Equal(t, 45, res.OvertimeMinutes)
	assert.True(t, res.HasOvertime)
	assert.True(t, res.RequiresVerification)
	assert.InDelta(t, 0.75, res.OvertimeHours(), 0.001)
}

func TestCalculateBelowThreshold(t *testing.T) {
	checkIn := at(9, 0)

	res, err := Calculate(&checkIn, nil, at(18, 20), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 20, res.OvertimeMinutes)
	assert.True(t, res.HasOvertime)
	assert.False(t, res.RequiresVerification)
}

func TestCalculateNoOvertimeBeforeBoundary(t *testing.T) {
	checkIn := at(9, 0)

	res, err := Calculate(&checkIn, nil, at(17, 30), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 510, res.WorkedMinutes)
	assert.Zero(t, res.OvertimeMinutes)
	assert.False(t, res.HasOvertime)
}

func TestCalculateOvertimeStartShiftsBoundary(t *testing.T) {
	checkIn := at(9, 0)
	otStart := at(18, 10)

	res, err := Calculate(&checkIn, &otStart, at(23, 55), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 345, res.OvertimeMinutes)
	assert.InDelta(t, 5.75, res.OvertimeHours(), 0.001)
	assert.True(t, res.RequiresVerification)
}

func TestCalculateOvertimeStartBeforeBoundaryIgnored(t *testing.T) {
	checkIn := at(9, 0)
	otStart := at(17, 0)

	res, err := Calculate(&checkIn, &otStart, at(18, 30), testPolicy())
	require.NoError(t, err)

	// The scheduled checkout still wins when overtime was flagged early.
	assert.Equal(t, 30, res.OvertimeMinutes)
}

func TestCalculateCheckInAfterBoundary(t *testing.T) {
	checkIn := at(20, 0)

	res, err := Calculate(&checkIn, nil, at(21, 0), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 60, res.WorkedMinutes)
	assert.Equal(t, 60, res.OvertimeMinutes)
	assert.LessOrEqual(t, res.OvertimeMinutes, res.WorkedMinutes)
}

func TestCalculateOvertimeNeverExceedsWorked(t *testing.T) {
	checkIn := at(19, 30)

	res, err := Calculate(&checkIn, nil, at(19, 45), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 15, res.WorkedMinutes)
	assert.Equal(t, 15, res.OvertimeMinutes)
}

func TestCalculateIsPure(t *testing.T) {
	checkIn := at(9, 0)
	ref := at(19, 0)

	first, err := Calculate(&checkIn, nil, ref, testPolicy())
	require.NoError(t, err)
	second, err := Calculate(&checkIn, nil, ref, testPolicy())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateNilPolicy(t *testing.T) {
	checkIn := at(9, 0)

	_, err := Calculate(&checkIn, nil, at(18, 0), nil)
	assert.ErrorIs(t, err, policy.ErrPolicyRequired)
}

func TestCalculateNilCheckIn(t *testing.T) {
	res, err := Calculate(nil, nil, at(18, 0), testPolicy())
	require.NoError(t, err)

	assert.Zero(t, res.WorkedMinutes)
	assert.Zero(t, res.OvertimeMinutes)
	assert.Equal(t, 480, res.StandardMinutes)
}
