package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clockport/attendance-backend-go/internal/domain/attendance"
	"github.com/clockport/attendance-backend-go/internal/domain/employee"
	"github.com/clockport/attendance-backend-go/internal/domain/policy"
	"github.com/clockport/attendance-backend-go/internal/pkg/keylock"
	"github.com/clockport/attendance-backend-go/internal/pkg/validator"
	"github.com/clockport/attendance-backend-go/internal/service/autocheckout"
	"github.com/clockport/attendance-backend-go/internal/service/geofence"
	"github.com/clockport/attendance-backend-go/internal/service/overtime"

	officedomain "github.com/clockport/attendance-backend-go/internal/domain/office"
)

const (
	emergencyHour   = 23
	emergencyMinute = 55

	defaultLinger           = 2 * time.Hour
	minOvertimeReasonLength = 10
)

// CheckoutScheduler is the timer surface the service drives. Satisfied by
// autocheckout.Scheduler.
type CheckoutScheduler interface {
	Arm(userID string, date time.Time, kind autocheckout.Kind, fireAt time.Time)
	Disarm(userID string, date time.Time)
}

type AttendanceServiceImpl struct {
	records    attendance.Repository
	employees  employee.Repository
	policies   policy.Repository
	offices    officedomain.Repository
	classifier *geofence.Classifier
	scheduler  CheckoutScheduler
	locks      *keylock.KeyLock
	linger     time.Duration
	now        func() time.Time
}

func NewAttendanceService(
	records attendance.Repository,
	employees employee.Repository,
	policies policy.Repository,
	offices officedomain.Repository,
	classifier *geofence.Classifier,
	scheduler CheckoutScheduler,
	linger time.Duration,
) *AttendanceServiceImpl {
	if linger <= 0 {
		linger = defaultLinger
	}
	return &AttendanceServiceImpl{
		records:    records,
		employees:  employees,
		policies:   policies,
		offices:    offices,
		classifier: classifier,
		scheduler:  scheduler,
		locks:      keylock.New(),
		linger:     linger,
		now:        time.Now,
	}
}

// dayContext is everything a transition needs resolved up front: who the
// caller is, which policy governs them, and what "today" means in the
// policy timezone.
type dayContext struct {
	emp      employee.Employee
	pol      policy.DepartmentPolicy
	nowUTC   time.Time
	localNow time.Time
	day      time.Time // local midnight of the working day
}

func (s *AttendanceServiceImpl) resolveContext(ctx context.Context, userID string) (*dayContext, error) {
	emp, err := s.employees.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving employee: %w", err)
	}
	if !emp.Active {
		return nil, employee.ErrEmployeeNotFound
	}

	pol, err := s.policies.GetByDepartment(ctx, emp.Department)
	if err != nil {
		return nil, fmt.Errorf("resolving policy for %s: %w", emp.Department, err)
	}

	nowUTC := s.now().UTC()
	loc := pol.Location()
	localNow := nowUTC.In(loc)
	y, m, d := localNow.Date()

	return &dayContext{
		emp:      emp,
		pol:      pol,
		nowUTC:   nowUTC,
		localNow: localNow,
		day:      time.Date(y, m, d, 0, 0, 0, 0, loc),
	}, nil
}

func lockKey(userID string, day time.Time) string {
	return userID + "|" + day.Format("2006-01-02")
}

func emergencyDeadline(day time.Time, pol policy.DepartmentPolicy) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, emergencyHour, emergencyMinute, 0, 0, pol.Location())
}

func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req *attendance.CheckInRequest) (*attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dc, err := s.resolveContext(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(lockKey(req.UserID, dc.day))
	defer unlock()

	existing, err := s.records.GetByUserAndDate(ctx, req.UserID, dc.day)
	if err != nil && !errors.Is(err, attendance.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading today's record: %w", err)
	}
	if existing != nil {
		return nil, &attendance.StateTransitionError{Current: existing.State(), Attempted: "check in"}
	}

	attType := attendance.Type(req.AttendanceType)
	switch attType {
	case attendance.TypeRemote:
		if !dc.pol.AllowRemoteWork {
			return nil, attendance.ErrPolicyViolation
		}
	case attendance.TypeFieldWork:
		if !dc.pol.AllowFieldWork {
			return nil, attendance.ErrPolicyViolation
		}
	}

	offices, err := s.offices.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading office locations: %w", err)
	}

	point := attendance.LocationPoint{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
	}
	validation, err := s.classifier.Classify(point, req.DeviceClass, offices)
	if err != nil {
		return nil, err
	}

	if attType == attendance.TypeOffice && !req.LocationOverride {
		verified := validation.Classification == geofence.ClassificationOfficeMatch &&
			validation.ConfidenceScore >= s.classifier.MinOfficeConfidence()
		if !verified {
			return nil, attendance.ErrOutsideOfficeRadius
		}
	}

	// Resolve the day's full window before any write so a malformed
	// policy fails the transition without persisting anything.
	scheduledOut, err := dc.pol.CheckOutAt(dc.day)
	if err != nil {
		return nil, err
	}

	status := attendance.StatusPresent
	var lateMinutes *int
	if !dc.pol.IsFlexibleTiming {
		scheduledIn, err := dc.pol.CheckInAt(dc.day)
		if err != nil {
			return nil, err
		}
		graceLimit := scheduledIn.Add(time.Duration(dc.pol.GracePeriodMinutes) * time.Minute)
		if dc.localNow.After(graceLimit) {
			status = attendance.StatusLate
			late := int(dc.localNow.Sub(scheduledIn).Minutes())
			lateMinutes = &late
		}
	}

	checkIn := dc.nowUTC
	record := &attendance.Attendance{
		ID:                 uuid.NewString(),
		UserID:             req.UserID,
		Department:         dc.emp.Department,
		Date:               dc.day,
		AttendanceType:     attType,
		CheckInTime:        &checkIn,
		CheckInLocation:    &point,
		LocationValidation: &validation,
		Reason:             req.Reason,
		CustomerName:       req.CustomerName,
		PhotoRef:           req.PhotoRef,
		LateMinutes:        lateMinutes,
		Status:             status,
		CreatedAt:          dc.nowUTC,
		UpdatedAt:          dc.nowUTC,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("creating attendance record: %w", err)
	}

	// A session opened past the scheduled window still gets the full
	// linger before the regular timer closes it.
	fireAt := scheduledOut.Add(s.linger)
	if fireAt.Before(dc.localNow) {
		fireAt = dc.localNow.Add(s.linger)
	}
	s.scheduler.Arm(req.UserID, dc.day, autocheckout.KindRegular, fireAt)

	slog.Info("check-in recorded",
		"user_id", req.UserID,
		"type", string(attType),
		"status", string(status),
		"classification", validation.Classification,
	)
	return mapRecordToResponse(record), nil
}

func (s *AttendanceServiceImpl) RequestOvertime(ctx context.Context, userID string) (*attendance.AttendanceResponse, error) {
	dc, err := s.resolveContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(lockKey(userID, dc.day))
	defer unlock()

	record, err := s.records.GetByUserAndDate(ctx, userID, dc.day)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return nil, &attendance.StateTransitionError{Current: attendance.StateNotStarted, Attempted: "request overtime"}
		}
		return nil, fmt.Errorf("loading today's record: %w", err)
	}
	if state := record.State(); state != attendance.StateCheckedIn {
		return nil, &attendance.StateTransitionError{Current: state, Attempted: "request overtime"}
	}

	scheduledOut, err := dc.pol.CheckOutAt(dc.day)
	if err != nil {
		return nil, err
	}
	if dc.localNow.Before(scheduledOut) {
		return nil, attendance.ErrTooEarlyForOvertime
	}

	start := dc.nowUTC
	record.OvertimeRequested = true
	record.OvertimeStartTime = &start
	record.UpdatedAt = dc.nowUTC

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("updating attendance record: %w", err)
	}

	// The regular timer no longer applies; the emergency cutoff takes over.
	s.scheduler.Disarm(userID, dc.day)
	s.scheduler.Arm(userID, dc.day, autocheckout.KindEmergency, emergencyDeadline(dc.day, dc.pol))

	slog.Info("overtime started", "user_id", userID)
	return mapRecordToResponse(record), nil
}

func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req *attendance.CheckOutRequest) (*attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dc, err := s.resolveContext(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(lockKey(req.UserID, dc.day))
	defer unlock()

	record, err := s.records.GetByUserAndDate(ctx, req.UserID, dc.day)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return nil, &attendance.StateTransitionError{Current: attendance.StateNotStarted, Attempted: "check out"}
		}
		return nil, fmt.Errorf("loading today's record: %w", err)
	}
	state := record.State()
	if state != attendance.StateCheckedIn && state != attendance.StateOvertimeActive {
		return nil, &attendance.StateTransitionError{Current: state, Attempted: "check out"}
	}

	scheduledOut, err := dc.pol.CheckOutAt(dc.day)
	if err != nil {
		return nil, err
	}
	if !dc.pol.IsFlexibleTiming && !record.OvertimeRequested && dc.localNow.Before(scheduledOut) {
		if req.Reason == nil || validator.IsEmpty(*req.Reason) {
			return nil, attendance.ErrEarlyCheckoutReasonRequired
		}
	}

	res, err := overtime.Calculate(record.CheckInTime, record.OvertimeStartTime, dc.nowUTC, &dc.pol)
	if err != nil {
		return nil, err
	}

	if res.RequiresVerification {
		overtimeReason := record.OvertimeReason
		if req.OvertimeReason != nil {
			overtimeReason = req.OvertimeReason
		}
		photoRef := req.PhotoRef
		var missing []string
		if overtimeReason == nil || !validator.MinRunes(*overtimeReason, minOvertimeReasonLength) {
			missing = append(missing, "overtime_reason")
		}
		if photoRef == nil {
			missing = append(missing, "photo_ref")
		}
		if len(missing) > 0 {
			return nil, &attendance.OvertimeVerificationError{Missing: missing}
		}
		record.OvertimeReason = overtimeReason
		record.PhotoRef = photoRef
	}

	// Cancel the pending timer before committing so it cannot race the
	// manual close.
	s.scheduler.Disarm(req.UserID, dc.day)

	out := dc.nowUTC
	point := attendance.LocationPoint{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
	}
	record.CheckOutTime = &out
	record.CheckOutLocation = &point
	if req.Reason != nil {
		record.Reason = req.Reason
	}
	minutes := res.OvertimeMinutes
	record.OvertimeMinutes = &minutes
	if record.OvertimeRequested {
		record.OvertimeEndTime = &out
	}
	record.UpdatedAt = dc.nowUTC

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("updating attendance record: %w", err)
	}

	slog.Info("check-out recorded",
		"user_id", req.UserID,
		"overtime_minutes", res.OvertimeMinutes,
	)
	return mapRecordToResponse(record), nil
}

// AutoCheckOut closes a session the owner never closed. Regular timers use
// the scheduled checkout as the effective close instant; emergency timers
// use the end-of-day cutoff. Finding the session already closed is not an
// error, the timer simply lost the race.
func (s *AttendanceServiceImpl) AutoCheckOut(ctx context.Context, userID string, date time.Time, kind autocheckout.Kind) error {
	dc, err := s.resolveContext(ctx, userID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(lockKey(userID, date))
	defer unlock()

	record, err := s.records.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("loading record for auto-checkout: %w", err)
	}
	if record.State() == attendance.StateCheckedOut {
		return nil
	}

	var boundary time.Time
	if kind == autocheckout.KindEmergency {
		boundary = emergencyDeadline(date, dc.pol)
	} else {
		boundary, err = dc.pol.CheckOutAt(date)
		if err != nil {
			return err
		}
	}
	boundaryUTC := boundary.UTC()
	// A session opened after the scheduled checkout still closes with
	// checkOutTime >= checkInTime.
	if record.CheckInTime != nil && boundaryUTC.Before(*record.CheckInTime) {
		boundaryUTC = *record.CheckInTime
	}

	res, err := overtime.Calculate(record.CheckInTime, record.OvertimeStartTime, boundaryUTC, &dc.pol)
	if err != nil {
		return err
	}

	record.CheckOutTime = &boundaryUTC
	minutes := res.OvertimeMinutes
	record.OvertimeMinutes = &minutes
	if record.OvertimeRequested {
		record.OvertimeEndTime = &boundaryUTC
	}
	record.AutoClosed = true
	record.UpdatedAt = s.now().UTC()

	if err := s.records.Update(ctx, record); err != nil {
		return fmt.Errorf("committing auto-checkout: %w", err)
	}
	return nil
}

func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (*attendance.TodayResponse, error) {
	dc, err := s.resolveContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &attendance.TodayResponse{
		Policy: &attendance.PolicyWindow{
			CheckInTime:        dc.pol.CheckInTime,
			CheckOutTime:       dc.pol.CheckOutTime,
			WorkingHours:       dc.pol.WorkingHours,
			GracePeriodMinutes: dc.pol.GracePeriodMinutes,
			Timezone:           dc.pol.Timezone,
		},
	}

	record, err := s.records.GetByUserAndDate(ctx, userID, dc.day)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			resp.CanCheckIn = true
			return resp, nil
		}
		return nil, fmt.Errorf("loading today's record: %w", err)
	}

	scheduledOut, err := dc.pol.CheckOutAt(dc.day)
	if err != nil {
		return nil, err
	}

	resp.HasRecord = true
	resp.Record = mapRecordToResponse(record)
	switch record.State() {
	case attendance.StateCheckedIn:
		resp.CanCheckOut = true
		resp.CanRequestOvertime = !dc.localNow.Before(scheduledOut)
	case attendance.StateOvertimeActive:
		resp.CanCheckOut = true
	}
	return resp, nil
}

// ReconcileTimers re-arms auto-checkout timers for every open session,
// called once at startup and periodically after that. Deadlines already in
// the past fire immediately, closing sessions orphaned by a restart.
func (s *AttendanceServiceImpl) ReconcileTimers(ctx context.Context) error {
	open, err := s.records.ListOpenSessions(ctx)
	if err != nil {
		return fmt.Errorf("listing open sessions: %w", err)
	}

	for _, record := range open {
		emp, err := s.employees.GetByUserID(ctx, record.UserID)
		if err != nil {
			slog.Warn("skipping timer for unresolved employee", "user_id", record.UserID, "error", err)
			continue
		}
		pol, err := s.policies.GetByDepartment(ctx, emp.Department)
		if err != nil {
			slog.Warn("skipping timer for unresolved policy", "user_id", record.UserID, "department", emp.Department, "error", err)
			continue
		}

		if record.OvertimeRequested {
			s.scheduler.Arm(record.UserID, record.Date, autocheckout.KindEmergency, emergencyDeadline(record.Date, pol))
			continue
		}
		scheduledOut, err := pol.CheckOutAt(record.Date)
		if err != nil {
			slog.Warn("skipping timer for malformed policy window", "user_id", record.UserID, "error", err)
			continue
		}
		s.scheduler.Arm(record.UserID, record.Date, autocheckout.KindRegular, scheduledOut.Add(s.linger))
	}

	slog.Info("auto-checkout timers reconciled", "open_sessions", len(open))
	return nil
}

func mapRecordToResponse(a *attendance.Attendance) *attendance.AttendanceResponse {
	resp := &attendance.AttendanceResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		Department:        a.Department,
		Date:              a.Date.Format("2006-01-02"),
		AttendanceType:    string(a.AttendanceType),
		State:             string(a.State()),
		Status:            string(a.Status),
		CheckInTime:       isoPtr(a.CheckInTime),
		CheckOutTime:      isoPtr(a.CheckOutTime),
		Reason:            a.Reason,
		CustomerName:      a.CustomerName,
		PhotoRef:          a.PhotoRef,
		OvertimeRequested: a.OvertimeRequested,
		OvertimeReason:    a.OvertimeReason,
		OvertimeStartTime: isoPtr(a.OvertimeStartTime),
		OvertimeEndTime:   isoPtr(a.OvertimeEndTime),
		OvertimeMinutes:   a.OvertimeMinutes,
		OvertimeHours:     a.OvertimeHours(),
		LateMinutes:       a.LateMinutes,
		AutoClosed:        a.AutoClosed,
	}
	if a.LocationValidation != nil {
		resp.LocationValidation = &attendance.LocationValidationResponse{
			Classification:  a.LocationValidation.Classification,
			ConfidenceScore: a.LocationValidation.ConfidenceScore,
			DistanceMeters:  a.LocationValidation.DistanceMeters,
			MatchedOfficeID: a.LocationValidation.MatchedOfficeID,
		}
	}
	return resp
}

func isoPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
