package models

import (
	"fmt"
	"time"
)

// Attendance record statuses. Absence has no status: a day with no row
// is absent, so only the two transitions are ever stored.
const (
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
)

// DateLayout is the calendar-day key format for attendance rows.
const DateLayout = "2006-01-02"

// DateOf returns the calendar-day key for a timestamp in local time.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// AttendanceRecord is one employee's check-in/out state for one calendar
// day. At most one row exists per (employee, date); a day with no row is
// interpreted as absent by the aggregator, never materialized.
type AttendanceRecord struct {
	ID                  string     `json:"id"`
	EmployeeID          string     `json:"employee_id"`
	Date                string     `json:"date"`
	CheckIn             *time.Time `json:"check_in,omitempty"`
	CheckOut            *time.Time `json:"check_out,omitempty"`
	Status              string     `json:"status"`
	FingerprintVerified bool       `json:"fingerprint_verified"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// WorkedHours returns the fractional hours between check-in and
// check-out. ok is false unless both timestamps are present.
func (r *AttendanceRecord) WorkedHours() (hours float64, ok bool) {
	if r.CheckIn == nil || r.CheckOut == nil {
		return 0, false
	}
	return r.CheckOut.Sub(*r.CheckIn).Hours(), true
}

// FormatHours renders worked hours to one decimal, or "--" when the day
// is still open.
func (r *AttendanceRecord) FormatHours() string {
	hours, ok := r.WorkedHours()
	if !ok {
		return "--"
	}
	return fmt.Sprintf("%.1fh", hours)
}

// EffectiveTime is the timestamp used for recency ordering: check-out if
// present, else check-in, else the zero time.
func (r *AttendanceRecord) EffectiveTime() time.Time {
	if r.CheckOut != nil {
		return *r.CheckOut
	}
	if r.CheckIn != nil {
		return *r.CheckIn
	}
	return time.Time{}
}

// Terminal reports whether the record has reached its end state for the
// day. Checked-out records accept no further transitions.
func (r *AttendanceRecord) Terminal() bool {
	return r.Status == StatusCheckedOut
}
