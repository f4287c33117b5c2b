package models

import (
	"testing"
	"time"
)

func TestWorkedHours(t *testing.T) {
	t.Parallel()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	out := in.Add(8*time.Hour + 30*time.Minute)

	r := AttendanceRecord{CheckIn: &in, CheckOut: &out, Status: StatusCheckedOut}
	hours, ok := r.WorkedHours()
	if !ok {
		t.Fatal("WorkedHours ok = false with both timestamps present")
	}
	if hours != 8.5 {
		t.Errorf("WorkedHours = %v, want 8.5", hours)
	}
	if got := r.FormatHours(); got != "8.5h" {
		t.Errorf("FormatHours = %q, want 8.5h", got)
	}
	if out.Before(in) {
		t.Error("check-out before check-in")
	}
}

func TestWorkedHoursOpenDay(t *testing.T) {
	t.Parallel()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	open := AttendanceRecord{CheckIn: &in, Status: StatusCheckedIn}
	if _, ok := open.WorkedHours(); ok {
		t.Error("WorkedHours ok = true without check-out")
	}
	if got := open.FormatHours(); got != "--" {
		t.Errorf("FormatHours = %q, want --", got)
	}
}

func TestEffectiveTime(t *testing.T) {
	t.Parallel()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	out := in.Add(8 * time.Hour)

	cases := []struct {
		name string
		rec  AttendanceRecord
		want time.Time
	}{
		{"both timestamps", AttendanceRecord{CheckIn: &in, CheckOut: &out}, out},
		{"check-in only", AttendanceRecord{CheckIn: &in}, in},
		{"no timestamps", AttendanceRecord{}, time.Time{}},
	}
	for _, c := range cases {
		if got := c.rec.EffectiveTime(); !got.Equal(c.want) {
			t.Errorf("%s: EffectiveTime = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()
	if (&AttendanceRecord{Status: StatusCheckedIn}).Terminal() {
		t.Error("checked-in record reported terminal")
	}
	if !(&AttendanceRecord{Status: StatusCheckedOut}).Terminal() {
		t.Error("checked-out record not reported terminal")
	}
}

func TestDateOf(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 2, 23, 59, 0, 0, time.Local)
	if got := DateOf(at); got != "2026-03-02" {
		t.Errorf("DateOf = %q, want 2026-03-02", got)
	}
}
