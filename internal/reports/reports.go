// Package reports derives daily attendance statistics from already
// fetched rows. Everything here is a pure function over (records,
// roster, today); the dashboard service supplies the data and the
// current date.
package reports

import (
	"sort"
	"time"

	"github.com/teamworkhq/teamwork/internal/models"
)

// UnknownEmployee is the placeholder name for activity entries whose
// employee reference no longer resolves against the roster.
const UnknownEmployee = "Unknown Employee"

// RecentLimit caps the recent-activity list.
const RecentLimit = 5

// DailyStats are the headline numbers for one calendar day.
type DailyStats struct {
	PresentCount    int     `json:"present_count"`
	CheckedInCount  int     `json:"checked_in_count"`
	CheckedOutCount int     `json:"checked_out_count"`
	AbsentCount     int     `json:"absent_count"`
	TotalHours      float64 `json:"total_hours"`
}

// EmployeeRow is one roster entry resolved against its today-record for
// the per-employee dashboard table.
type EmployeeRow struct {
	Employee models.Employee `json:"employee"`
	CheckIn  *time.Time      `json:"check_in,omitempty"`
	CheckOut *time.Time      `json:"check_out,omitempty"`
	Hours    string          `json:"hours"`
	Status   string          `json:"status"`
}

// Activity is one recent check-in or check-out, resolved to a display
// name.
type Activity struct {
	RecordID     string    `json:"record_id"`
	EmployeeName string    `json:"employee_name"`
	Action       string    `json:"action"`
	At           time.Time `json:"at"`
	Date         string    `json:"date"`
}

// TodayRecords filters records down to the given calendar day.
func TodayRecords(records []models.AttendanceRecord, today string) []models.AttendanceRecord {
	var out []models.AttendanceRecord
	for _, r := range records {
		if r.Date == today {
			out = append(out, r)
		}
	}
	return out
}

// Summarize computes the day's headline counts. It assumes at most one
// record per employee per day: absent = roster size minus today-record
// count, so an employee with no record today is counted absent whatever
// the reason.
func Summarize(records []models.AttendanceRecord, roster []models.Employee, today string) DailyStats {
	stats := DailyStats{}
	todayRecords := TodayRecords(records, today)

	for _, r := range todayRecords {
		switch r.Status {
		case models.StatusCheckedIn:
			stats.CheckedInCount++
		case models.StatusCheckedOut:
			stats.CheckedOutCount++
		}
		if hours, ok := r.WorkedHours(); ok {
			stats.TotalHours += hours
		}
	}

	stats.PresentCount = stats.CheckedInCount + stats.CheckedOutCount
	stats.AbsentCount = len(roster) - len(todayRecords)
	return stats
}

// EmployeeRows resolves each roster entry against its today-record.
// Lookup is first match in record order; the one-record-per-day
// invariant makes that unambiguous.
func EmployeeRows(records []models.AttendanceRecord, roster []models.Employee, today string) []EmployeeRow {
	todayRecords := TodayRecords(records, today)

	rows := make([]EmployeeRow, 0, len(roster))
	for _, emp := range roster {
		row := EmployeeRow{
			Employee: emp,
			Hours:    "--",
			Status:   "Absent",
		}
		for i := range todayRecords {
			r := &todayRecords[i]
			if r.EmployeeID != emp.ID {
				continue
			}
			row.CheckIn = r.CheckIn
			row.CheckOut = r.CheckOut
			row.Hours = r.FormatHours()
			if r.Status == models.StatusCheckedIn {
				row.Status = "Present"
			} else {
				row.Status = "Completed"
			}
			break
		}
		rows = append(rows, row)
	}
	return rows
}

// RecentActivity orders records by descending effective timestamp
// (check-out if present, else check-in, else the zero time), keeps the
// most recent RecentLimit entries, and resolves each against the
// roster. The sort is stable so ties keep their input order.
func RecentActivity(records []models.AttendanceRecord, roster []models.Employee) []Activity {
	names := make(map[string]string, len(roster))
	for _, emp := range roster {
		names[emp.ID] = emp.Name
	}

	sorted := make([]models.AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveTime().After(sorted[j].EffectiveTime())
	})

	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}

	activity := make([]Activity, 0, len(sorted))
	for _, r := range sorted {
		name, ok := names[r.EmployeeID]
		if !ok {
			name = UnknownEmployee
		}
		action := "checked in"
		if r.CheckOut != nil {
			action = "checked out"
		}
		activity = append(activity, Activity{
			RecordID:     r.ID,
			EmployeeName: name,
			Action:       action,
			At:           r.EffectiveTime(),
			Date:         r.Date,
		})
	}
	return activity
}
