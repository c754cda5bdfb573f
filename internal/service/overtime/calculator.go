package overtime

import (
	"time"

	"github.com/clockport/attendance-backend-go/internal/domain/policy"
)

// Result is one overtime evaluation at a reference instant. Worked time
// counts from check-in; overtime counts only past the scheduled checkout
// boundary, or past the approved overtime start when that came later.
type Result struct {
	WorkedMinutes        int
	StandardMinutes      int
	OvertimeMinutes      int
	HasOvertime          bool
	RequiresVerification bool
}

func (r Result) OvertimeHours() float64 {
	return float64(r.OvertimeMinutes) / 60.0
}

// Calculate evaluates the worked and overtime minutes for a session at
// the given reference instant. It is pure; calling it twice with the same
// inputs yields the same result.
func Calculate(checkIn, overtimeStart *time.Time, reference time.Time, pol *policy.DepartmentPolicy) (Result, error) {
	if pol == nil {
		return Result{}, policy.ErrPolicyRequired
	}

	res := Result{StandardMinutes: pol.StandardMinutes()}
	if checkIn == nil {
		return res, nil
	}

	worked := reference.Sub(*checkIn)
	if worked < 0 {
		worked = 0
	}
	res.WorkedMinutes = int(worked.Minutes())

	boundary, err := pol.CheckOutAt(checkIn.In(pol.Location()))
	if err != nil {
		return Result{}, err
	}
	// A session opened past the scheduled checkout accrues overtime from
	// its own start, never more than it worked.
	if boundary.Before(*checkIn) {
		boundary = *checkIn
	}
	if overtimeStart != nil && overtimeStart.After(boundary) {
		boundary = *overtimeStart
	}

	if reference.After(boundary) {
		res.OvertimeMinutes = int(reference.Sub(boundary).Minutes())
	}
	res.HasOvertime = res.OvertimeMinutes > 0
	res.RequiresVerification = res.HasOvertime &&
		res.OvertimeMinutes >= pol.OvertimeThresholdMinutes

	return res, nil
}
