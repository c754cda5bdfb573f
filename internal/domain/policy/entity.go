package policy

import (
	"fmt"
	"time"
)

// DepartmentPolicy is the single source of truth for a department's time
// windows. It is read-only to the engine: every early-checkout and overtime
// comparison goes through the resolved policy, never a hardcoded default.
type DepartmentPolicy struct {
	Department               string
	CheckInTime              string // "09:00", policy-local 24h
	CheckOutTime             string // "18:00", policy-local 24h
	WorkingHours             float64
	OvertimeThresholdMinutes int
	GracePeriodMinutes       int
	AllowRemoteWork          bool
	AllowFieldWork           bool
	IsFlexibleTiming         bool
	Timezone                 string // IANA name, e.g. "Asia/Jakarta"
}

// Location resolves the policy timezone, falling back to UTC when the name
// cannot be loaded.
func (p DepartmentPolicy) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CheckInAt anchors the policy check-in time on the given calendar day.
func (p DepartmentPolicy) CheckInAt(day time.Time) (time.Time, error) {
	return p.anchor(day, p.CheckInTime)
}

// CheckOutAt anchors the policy checkout time on the given calendar day.
func (p DepartmentPolicy) CheckOutAt(day time.Time) (time.Time, error) {
	return p.anchor(day, p.CheckOutTime)
}

// anchor uses the calendar date of day as-is; day may be a local midnight or
// a date scanned from the store, both carry the working day's Y/M/D.
func (p DepartmentPolicy) anchor(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed policy time %q: %w", hhmm, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, p.Location()), nil
}

// StandardMinutes is the standard working duration in minutes.
func (p DepartmentPolicy) StandardMinutes() int {
	return int(p.WorkingHours * 60)
}
