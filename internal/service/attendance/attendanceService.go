package attendanceService

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/teamworkhq/teamwork/internal/apperr"
	"github.com/teamworkhq/teamwork/internal/database"
	"github.com/teamworkhq/teamwork/internal/logger"
	"github.com/teamworkhq/teamwork/internal/middleware"
	"github.com/teamworkhq/teamwork/internal/models"
	"github.com/teamworkhq/teamwork/pkg/utils"
)

// AttendanceService owns the per-day check-in/check-out lifecycle.
// State machine per (employee, day): absent (no row) -> checked-in ->
// checked-out, checked-out being terminal. The UNIQUE (employee_id,
// date) constraint makes concurrent double check-ins lose cleanly.
type AttendanceService struct {
	DB  *sql.DB
	Log *logger.Logger
	Hub *models.Hub
}

// NewAttendanceService initializes a new attendance service
func NewAttendanceService() *AttendanceService {
	return &AttendanceService{
		DB:  database.DB,
		Log: logger.NewLogger("attendance-service"),
		Hub: models.GetHub(),
	}
}

// CheckIn opens today's attendance record for the caller. The scanner
// UI only calls this after fingerprint verification, so the record is
// inserted with fingerprint_verified set.
func (s *AttendanceService) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employee, err := s.callerEmployee(ctx)
	if err != nil {
		s.respondEmployeeError(w, err)
		return
	}

	now := time.Now()
	record := models.AttendanceRecord{
		ID:                  uuid.NewString(),
		EmployeeID:          employee.ID,
		Date:                models.DateOf(now),
		CheckIn:             &now,
		Status:              models.StatusCheckedIn,
		FingerprintVerified: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO attendance_records (id, employee_id, date, check_in, status, fingerprint_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.EmployeeID, record.Date, record.CheckIn, record.Status,
		record.FingerprintVerified, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		if database.IsDuplicateKey(err) {
			s.Log.Warn("Duplicate check-in rejected", "employee_id", employee.ID, "date", record.Date)
			utils.RespondWithError(w, apperr.Status(apperr.ErrAlreadyCheckedIn), apperr.Message(apperr.ErrAlreadyCheckedIn))
			return
		}
		s.Log.Error("Failed to insert attendance record", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check in")
		return
	}

	s.Hub.PublishEvent(models.FeedEvent{
		Type:         "check-in",
		OrgCode:      employee.OrgCode,
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		At:           now,
	})

	s.Log.Info("Employee checked in", "employee_id", employee.ID, "date", record.Date)
	utils.RespondWithJSON(w, http.StatusCreated, record)
}

// CheckOut closes today's record. NotFound without a today-record,
// conflict when the record is already terminal.
func (s *AttendanceService) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employee, err := s.callerEmployee(ctx)
	if err != nil {
		s.respondEmployeeError(w, err)
		return
	}

	now := time.Now()
	today := models.DateOf(now)

	record, found, err := s.recordForDay(ctx, employee.ID, today)
	if err != nil {
		s.Log.Error("Failed to load today's record", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check out")
		return
	}
	if !found {
		utils.RespondWithError(w, apperr.Status(apperr.ErrNotFound), "No check-in found for today")
		return
	}
	if record.Terminal() {
		utils.RespondWithError(w, apperr.Status(apperr.ErrAlreadyCheckedOut), apperr.Message(apperr.ErrAlreadyCheckedOut))
		return
	}

	_, err = s.DB.ExecContext(ctx, `
		UPDATE attendance_records SET check_out = ?, status = ?, updated_at = ? WHERE id = ?
	`, now, models.StatusCheckedOut, now, record.ID)
	if err != nil {
		s.Log.Error("Failed to update attendance record", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check out")
		return
	}

	record.CheckOut = &now
	record.Status = models.StatusCheckedOut
	record.UpdatedAt = now

	s.Hub.PublishEvent(models.FeedEvent{
		Type:         "check-out",
		OrgCode:      employee.OrgCode,
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		At:           now,
	})

	s.Log.Info("Employee checked out", "employee_id", employee.ID, "date", today)
	utils.RespondWithJSON(w, http.StatusOK, record)
}

// TodayRecord returns the caller's record for today, or a null record
// when the day is still absent. The scanner UI uses this to decide
// between offering check-in and check-out.
func (s *AttendanceService) TodayRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employee, err := s.callerEmployee(ctx)
	if err != nil {
		s.respondEmployeeError(w, err)
		return
	}

	record, found, err := s.recordForDay(ctx, employee.ID, models.DateOf(time.Now()))
	if err != nil {
		s.Log.Error("Failed to load today's record", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load attendance")
		return
	}

	if !found {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"record": nil})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"record": record})
}

// ListRecords returns the caller's attendance history, newest day first.
func (s *AttendanceService) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employee, err := s.callerEmployee(ctx)
	if err != nil {
		s.respondEmployeeError(w, err)
		return
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, employee_id, date, check_in, check_out, status, fingerprint_verified, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = ?
		ORDER BY date DESC
	`, employee.ID)
	if err != nil {
		s.Log.Error("Failed to query attendance records", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load attendance")
		return
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			s.Log.Error("Failed to scan attendance row", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load attendance")
			return
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		s.Log.Error("Error iterating attendance rows", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load attendance")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// callerEmployee resolves the authenticated user to its employee row via
// the role's org code, mirroring the membership resolver's dual lookup.
func (s *AttendanceService) callerEmployee(ctx context.Context) (models.Employee, error) {
	var emp models.Employee

	userID, err := middleware.UserID(ctx)
	if err != nil {
		return emp, errUnauthorized
	}

	var orgCode sql.NullString
	err = s.DB.QueryRowContext(ctx, "SELECT org_code FROM user_roles WHERE user_id = ?", userID).Scan(&orgCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emp, apperr.ErrNotFound
		}
		return emp, apperr.Store(err)
	}
	if orgCode.String == "" {
		return emp, apperr.ErrNotFound
	}

	var empOrgCode sql.NullString
	err = s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, employee_id, name, email, department, role, org_code
		FROM employees
		WHERE user_id = ? AND org_code = ?
	`, userID, orgCode.String).Scan(&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.Name,
		&emp.Email, &emp.Department, &emp.Role, &empOrgCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emp, apperr.ErrNotFound
		}
		return emp, apperr.Store(err)
	}
	emp.OrgCode = empOrgCode.String
	return emp, nil
}

func (s *AttendanceService) recordForDay(ctx context.Context, employeeID, day string) (models.AttendanceRecord, bool, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, employee_id, date, check_in, check_out, status, fingerprint_verified, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = ? AND date = ?
	`, employeeID, day)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, false, nil
		}
		return record, false, err
	}
	return record, true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	var date time.Time
	var checkIn, checkOut sql.NullTime

	err := row.Scan(&record.ID, &record.EmployeeID, &date, &checkIn, &checkOut,
		&record.Status, &record.FingerprintVerified, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return record, err
	}

	record.Date = models.DateOf(date)
	if checkIn.Valid {
		record.CheckIn = &checkIn.Time
	}
	if checkOut.Valid {
		record.CheckOut = &checkOut.Time
	}
	return record, nil
}

var errUnauthorized = errors.New("invalid token")

func (s *AttendanceService) respondEmployeeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnauthorized):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Employee profile not found, complete setup first")
	default:
		s.Log.Error("Failed to resolve employee", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve employee")
	}
}
