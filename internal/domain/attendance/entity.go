package attendance

import (
	"time"
)

type Type string

const (
	TypeOffice    Type = "office"
	TypeRemote    Type = "remote"
	TypeFieldWork Type = "field_work"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// State is the lifecycle position of a daily record. It is derived from
// the record's fields, never stored.
type State string

const (
	StateNotStarted     State = "not_started"
	StateCheckedIn      State = "checked_in"
	StateOvertimeActive State = "overtime_active"
	StateCheckedOut     State = "checked_out"
)

// LocationPoint is an already-captured device coordinate.
type LocationPoint struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
}

// LocationValidation is the geofence classifier's verdict for a reading.
type LocationValidation struct {
	Classification  string
	ConfidenceScore float64
	DistanceMeters  float64
	MatchedOfficeID *string
}

// Attendance is one user's record for one calendar day in the policy
// timezone. Created by the first valid check-in, mutated by overtime and
// checkout events, terminal once CheckOutTime is set.
type Attendance struct {
	ID                 string
	UserID             string
	Department         string
	Date               time.Time // working day; local midnight or date as stored
	AttendanceType     Type
	CheckInTime        *time.Time
	CheckOutTime       *time.Time
	CheckInLocation    *LocationPoint
	CheckOutLocation   *LocationPoint
	LocationValidation *LocationValidation
	Reason             *string
	CustomerName       *string
	PhotoRef           *string
	OvertimeReason     *string
	OvertimeRequested  bool
	OvertimeStartTime  *time.Time
	OvertimeEndTime    *time.Time
	OvertimeMinutes    *int
	LateMinutes        *int
	Status             Status
	AutoClosed         bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// State derives the lifecycle state from the set fields.
func (a *Attendance) State() State {
	switch {
	case a == nil || a.CheckInTime == nil:
		return StateNotStarted
	case a.CheckOutTime != nil:
		return StateCheckedOut
	case a.OvertimeRequested:
		return StateOvertimeActive
	default:
		return StateCheckedIn
	}
}

// OvertimeHours is derived from the frozen minutes; it is never settable
// independently.
func (a *Attendance) OvertimeHours() float64 {
	if a.OvertimeMinutes == nil {
		return 0
	}
	return float64(*a.OvertimeMinutes) / 60.0
}
