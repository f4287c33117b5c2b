package reports

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/teamworkhq/teamwork/internal/models"
)

const day = "2026-03-02"

func ts(hour, min int) *time.Time {
	t := time.Date(2026, 3, 2, hour, min, 0, 0, time.Local)
	return &t
}

func employee(id, name string) models.Employee {
	return models.Employee{ID: id, Name: name, Department: "General", Role: models.RoleEmployee}
}

func checkedIn(id, employeeID string, in *time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:         id,
		EmployeeID: employeeID,
		Date:       day,
		CheckIn:    in,
		Status:     models.StatusCheckedIn,
	}
}

func checkedOut(id, employeeID string, in, out *time.Time) models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:         id,
		EmployeeID: employeeID,
		Date:       day,
		CheckIn:    in,
		CheckOut:   out,
		Status:     models.StatusCheckedOut,
	}
}

func TestSummarizeScenario(t *testing.T) {
	t.Parallel()
	roster := []models.Employee{employee("a", "Alice"), employee("b", "Bob"), employee("c", "Cara")}
	records := []models.AttendanceRecord{
		checkedIn("r1", "a", ts(9, 0)),
		checkedOut("r2", "c", ts(9, 0), ts(17, 0)),
	}

	stats := Summarize(records, roster, day)

	if stats.PresentCount != 2 {
		t.Errorf("PresentCount = %d, want 2", stats.PresentCount)
	}
	if stats.AbsentCount != 1 {
		t.Errorf("AbsentCount = %d, want 1", stats.AbsentCount)
	}
	if stats.CheckedInCount != 1 {
		t.Errorf("CheckedInCount = %d, want 1", stats.CheckedInCount)
	}
	if stats.CheckedOutCount != 1 {
		t.Errorf("CheckedOutCount = %d, want 1", stats.CheckedOutCount)
	}
	if stats.TotalHours != 8.0 {
		t.Errorf("TotalHours = %v, want 8.0", stats.TotalHours)
	}
}

func TestSummarizePresentPlusAbsentEqualsRoster(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		rosterSize := rng.Intn(20)
		roster := make([]models.Employee, rosterSize)
		for i := range roster {
			roster[i] = employee(string(rune('a'+i)), "Emp")
		}

		var records []models.AttendanceRecord
		for i := 0; i < rosterSize; i++ {
			switch rng.Intn(3) {
			case 0:
				records = append(records, checkedIn("r", roster[i].ID, ts(9, 0)))
			case 1:
				records = append(records, checkedOut("r", roster[i].ID, ts(9, 0), ts(17, 0)))
			}
		}

		stats := Summarize(records, roster, day)
		if stats.PresentCount+stats.AbsentCount != rosterSize {
			t.Fatalf("present %d + absent %d != roster %d",
				stats.PresentCount, stats.AbsentCount, rosterSize)
		}
	}
}

func TestTotalHoursOrderInvariant(t *testing.T) {
	t.Parallel()
	records := []models.AttendanceRecord{
		checkedOut("r1", "a", ts(8, 0), ts(16, 30)),
		checkedOut("r2", "b", ts(9, 15), ts(17, 0)),
		checkedIn("r3", "c", ts(10, 0)),
	}
	roster := []models.Employee{employee("a", "A"), employee("b", "B"), employee("c", "C")}

	forward := Summarize(records, roster, day).TotalHours

	reversed := []models.AttendanceRecord{records[2], records[1], records[0]}
	backward := Summarize(reversed, roster, day).TotalHours

	if math.Abs(forward-backward) > 1e-9 {
		t.Errorf("TotalHours depends on record order: %v vs %v", forward, backward)
	}
}

func TestTotalHoursZeroWithoutBothTimestamps(t *testing.T) {
	t.Parallel()
	records := []models.AttendanceRecord{
		checkedIn("r1", "a", ts(9, 0)),
		checkedIn("r2", "b", ts(10, 0)),
	}
	roster := []models.Employee{employee("a", "A"), employee("b", "B")}

	if got := Summarize(records, roster, day).TotalHours; got != 0 {
		t.Errorf("TotalHours = %v, want 0 when no record has both timestamps", got)
	}
}

func TestRecentActivityOrderingAndLimit(t *testing.T) {
	t.Parallel()
	roster := []models.Employee{employee("a", "Alice")}
	var records []models.AttendanceRecord
	for i := 0; i < 8; i++ {
		records = append(records, checkedOut("r"+string(rune('0'+i)), "a", ts(8, 0), ts(9+i, 0)))
	}

	activity := RecentActivity(records, roster)

	if len(activity) != RecentLimit {
		t.Fatalf("len(activity) = %d, want %d", len(activity), RecentLimit)
	}
	for i := 1; i < len(activity); i++ {
		if activity[i].At.After(activity[i-1].At) {
			t.Errorf("activity not descending at index %d: %v then %v",
				i, activity[i-1].At, activity[i].At)
		}
	}
	if activity[0].RecordID != "r7" {
		t.Errorf("most recent activity = %s, want r7", activity[0].RecordID)
	}
}

func TestRecentActivityStableTies(t *testing.T) {
	t.Parallel()
	roster := []models.Employee{employee("a", "Alice"), employee("b", "Bob")}
	same := ts(12, 0)
	records := []models.AttendanceRecord{
		checkedIn("first", "a", same),
		checkedIn("second", "b", same),
	}

	activity := RecentActivity(records, roster)
	if len(activity) != 2 {
		t.Fatalf("len(activity) = %d, want 2", len(activity))
	}
	if activity[0].RecordID != "first" || activity[1].RecordID != "second" {
		t.Errorf("tie order = [%s, %s], want input order [first, second]",
			activity[0].RecordID, activity[1].RecordID)
	}
}

func TestRecentActivityUnknownEmployee(t *testing.T) {
	t.Parallel()
	records := []models.AttendanceRecord{checkedIn("r1", "dangling", ts(9, 0))}

	activity := RecentActivity(records, nil)
	if len(activity) != 1 {
		t.Fatalf("len(activity) = %d, want 1", len(activity))
	}
	if activity[0].EmployeeName != UnknownEmployee {
		t.Errorf("EmployeeName = %q, want %q", activity[0].EmployeeName, UnknownEmployee)
	}
}

func TestEmployeeRows(t *testing.T) {
	t.Parallel()
	roster := []models.Employee{employee("a", "Alice"), employee("b", "Bob"), employee("c", "Cara")}
	records := []models.AttendanceRecord{
		checkedIn("r1", "a", ts(9, 0)),
		checkedOut("r2", "c", ts(9, 0), ts(17, 0)),
	}

	rows := EmployeeRows(records, roster, day)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	if rows[0].Status != "Present" || rows[0].Hours != "--" {
		t.Errorf("Alice row = (%s, %s), want (Present, --)", rows[0].Status, rows[0].Hours)
	}
	if rows[1].Status != "Absent" {
		t.Errorf("Bob status = %s, want Absent", rows[1].Status)
	}
	if rows[2].Status != "Completed" || rows[2].Hours != "8.0h" {
		t.Errorf("Cara row = (%s, %s), want (Completed, 8.0h)", rows[2].Status, rows[2].Hours)
	}
}
