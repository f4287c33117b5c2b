package dashboardService

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/teamworkhq/teamwork/internal/apperr"
	"github.com/teamworkhq/teamwork/internal/database"
	"github.com/teamworkhq/teamwork/internal/logger"
	"github.com/teamworkhq/teamwork/internal/middleware"
	"github.com/teamworkhq/teamwork/internal/models"
	"github.com/teamworkhq/teamwork/internal/reports"
	"github.com/teamworkhq/teamwork/pkg/utils"
)

// DashboardService fetches the roster and ledger for the caller's
// organization and hands them to the reports package. All aggregation
// is done in reports over already-fetched rows.
type DashboardService struct {
	DB  *sql.DB
	Log *logger.Logger
}

// NewDashboardService initializes a new dashboard service
func NewDashboardService() *DashboardService {
	return &DashboardService{
		DB:  database.DB,
		Log: logger.NewLogger("dashboard-service"),
	}
}

// SummaryResponse is the admin dashboard payload.
type SummaryResponse struct {
	Date           string                `json:"date"`
	Stats          reports.DailyStats    `json:"stats"`
	Employees      []reports.EmployeeRow `json:"employees"`
	RecentActivity []reports.Activity    `json:"recent_activity"`
}

// Summary returns today's statistics, the per-employee table and the
// recent-activity list for the caller's organization. Requires the
// view_reports permission.
func (s *DashboardService) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgCode, err := s.reportingOrgCode(ctx)
	if err != nil {
		s.respondAccessError(w, err)
		return
	}

	roster, err := s.rosterByOrgCode(ctx, orgCode)
	if err != nil {
		s.Log.Error("Failed to load roster", "error", err, "org_code", orgCode)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	records, err := s.recordsByOrgCode(ctx, orgCode)
	if err != nil {
		s.Log.Error("Failed to load attendance records", "error", err, "org_code", orgCode)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	today := models.DateOf(time.Now())
	utils.RespondWithJSON(w, http.StatusOK, SummaryResponse{
		Date:           today,
		Stats:          reports.Summarize(records, roster, today),
		Employees:      reports.EmployeeRows(records, roster, today),
		RecentActivity: reports.RecentActivity(records, roster),
	})
}

// reportingOrgCode resolves the caller's role and checks the
// view_reports permission rather than the role name: reporting is a
// permission, not an identity.
func (s *DashboardService) reportingOrgCode(ctx context.Context) (string, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return "", errUnauthorized
	}

	var orgCode sql.NullString
	var rawPerms []byte
	err = s.DB.QueryRowContext(ctx,
		"SELECT org_code, permissions FROM user_roles WHERE user_id = ?", userID,
	).Scan(&orgCode, &rawPerms)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrNotFound
		}
		return "", apperr.Store(err)
	}

	perms, err := models.ParsePermissions(rawPerms)
	if err != nil {
		return "", err
	}
	if !perms.ViewReports {
		return "", errForbidden
	}
	if orgCode.String == "" {
		return "", apperr.ErrNotFound
	}
	return orgCode.String, nil
}

func (s *DashboardService) rosterByOrgCode(ctx context.Context, code string) ([]models.Employee, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, employee_id, name, email, department, role, org_code
		FROM employees
		WHERE org_code = ?
		ORDER BY created_at DESC
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []models.Employee
	for rows.Next() {
		var emp models.Employee
		var empOrgCode sql.NullString
		if err := rows.Scan(&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.Name, &emp.Email,
			&emp.Department, &emp.Role, &empOrgCode); err != nil {
			return nil, err
		}
		emp.OrgCode = empOrgCode.String
		roster = append(roster, emp)
	}
	return roster, rows.Err()
}

func (s *DashboardService) recordsByOrgCode(ctx context.Context, code string) ([]models.AttendanceRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT ar.id, ar.employee_id, ar.date, ar.check_in, ar.check_out, ar.status, ar.fingerprint_verified
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		WHERE e.org_code = ?
		ORDER BY ar.date DESC
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var record models.AttendanceRecord
		var date time.Time
		var checkIn, checkOut sql.NullTime
		if err := rows.Scan(&record.ID, &record.EmployeeID, &date, &checkIn, &checkOut,
			&record.Status, &record.FingerprintVerified); err != nil {
			return nil, err
		}
		record.Date = models.DateOf(date)
		if checkIn.Valid {
			record.CheckIn = &checkIn.Time
		}
		if checkOut.Valid {
			record.CheckOut = &checkOut.Time
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

var (
	errUnauthorized = errors.New("invalid token")
	errForbidden    = errors.New("reporting access required")
)

func (s *DashboardService) respondAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnauthorized):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errForbidden):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Membership not found, complete setup first")
	default:
		s.Log.Error("Failed to resolve reporting access", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
	}
}
