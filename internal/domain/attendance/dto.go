package attendance

import (
	"github.com/clockport/attendance-backend-go/internal/pkg/validator"
)

const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"

	minReasonLength = 10
)

var validTypes = []string{string(TypeOffice), string(TypeRemote), string(TypeFieldWork)}
var validDevices = []string{DeviceMobile, DeviceDesktop}

type CheckInRequest struct {
	UserID           string  `json:"-"`
	AttendanceType   string  `json:"attendance_type"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	AccuracyMeters   float64 `json:"accuracy_meters"`
	DeviceClass      string  `json:"device_class"`
	Reason           *string `json:"reason,omitempty"`
	CustomerName     *string `json:"customer_name,omitempty"`
	PhotoRef         *string `json:"photo_ref,omitempty"`
	LocationOverride bool    `json:"location_override"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user id is required"})
	}
	if !validator.IsInSlice(r.AttendanceType, validTypes) {
		errs = append(errs, validator.ValidationError{Field: "attendance_type", Message: "attendance type must be office, remote, or field_work"})
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if r.AccuracyMeters < 0 {
		errs = append(errs, validator.ValidationError{Field: "accuracy_meters", Message: "accuracy must be zero or positive"})
	}
	if validator.IsEmpty(r.DeviceClass) {
		r.DeviceClass = DeviceMobile
	} else if !validator.IsInSlice(r.DeviceClass, validDevices) {
		errs = append(errs, validator.ValidationError{Field: "device_class", Message: "device class must be mobile or desktop"})
	}

	switch Type(r.AttendanceType) {
	case TypeRemote:
		if r.Reason == nil || !validator.MinRunes(*r.Reason, minReasonLength) {
			errs = append(errs, validator.ValidationError{Field: "reason", Message: "remote work requires a reason of at least 10 characters"})
		}
	case TypeFieldWork:
		if r.CustomerName == nil || validator.IsEmpty(*r.CustomerName) {
			errs = append(errs, validator.ValidationError{Field: "customer_name", Message: "field work requires a customer name"})
		}
		if r.PhotoRef == nil || validator.IsEmpty(*r.PhotoRef) {
			errs = append(errs, validator.ValidationError{Field: "photo_ref", Message: "field work requires a site photo"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	UserID         string  `json:"-"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	DeviceClass    string  `json:"device_class"`
	Reason         *string `json:"reason,omitempty"`
	OvertimeReason *string `json:"overtime_reason,omitempty"`
	PhotoRef       *string `json:"photo_ref,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user id is required"})
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if r.AccuracyMeters < 0 {
		errs = append(errs, validator.ValidationError{Field: "accuracy_meters", Message: "accuracy must be zero or positive"})
	}
	if validator.IsEmpty(r.DeviceClass) {
		r.DeviceClass = DeviceMobile
	} else if !validator.IsInSlice(r.DeviceClass, validDevices) {
		errs = append(errs, validator.ValidationError{Field: "device_class", Message: "device class must be mobile or desktop"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LocationValidationResponse struct {
	Classification  string  `json:"classification"`
	ConfidenceScore float64 `json:"confidence_score"`
	DistanceMeters  float64 `json:"distance_meters"`
	MatchedOfficeID *string `json:"matched_office_id,omitempty"`
}

type AttendanceResponse struct {
	ID                 string                      `json:"id"`
	UserID             string                      `json:"user_id"`
	Department         string                      `json:"department"`
	Date               string                      `json:"date"`
	AttendanceType     string                      `json:"attendance_type"`
	State              string                      `json:"state"`
	Status             string                      `json:"status"`
	CheckInTime        *string                     `json:"check_in_time,omitempty"`
	CheckOutTime       *string                     `json:"check_out_time,omitempty"`
	LocationValidation *LocationValidationResponse `json:"location_validation,omitempty"`
	Reason             *string                     `json:"reason,omitempty"`
	CustomerName       *string                     `json:"customer_name,omitempty"`
	PhotoRef           *string                     `json:"photo_ref,omitempty"`
	OvertimeRequested  bool                        `json:"overtime_requested"`
	OvertimeReason     *string                     `json:"overtime_reason,omitempty"`
	OvertimeStartTime  *string                     `json:"overtime_start_time,omitempty"`
	OvertimeEndTime    *string                     `json:"overtime_end_time,omitempty"`
	OvertimeMinutes    *int                        `json:"overtime_minutes,omitempty"`
	OvertimeHours      float64                     `json:"overtime_hours"`
	LateMinutes        *int                        `json:"late_minutes,omitempty"`
	AutoClosed         bool                        `json:"auto_closed"`
}

// PolicyWindow is the day's schedule as resolved for the caller's
// department, echoed so clients can render the timeline.
type PolicyWindow struct {
	CheckInTime        string  `json:"check_in_time"`
	CheckOutTime       string  `json:"check_out_time"`
	WorkingHours       float64 `json:"working_hours"`
	GracePeriodMinutes int     `json:"grace_period_minutes"`
	Timezone           string  `json:"timezone"`
}

type TodayResponse struct {
	HasRecord          bool                `json:"has_record"`
	Record             *AttendanceResponse `json:"record,omitempty"`
	CanCheckIn         bool                `json:"can_check_in"`
	CanRequestOvertime bool                `json:"can_request_overtime"`
	CanCheckOut        bool                `json:"can_check_out"`
	Policy             *PolicyWindow       `json:"policy,omitempty"`
}
