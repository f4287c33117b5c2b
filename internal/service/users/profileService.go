package profileService

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/teamworkhq/teamwork/internal/apperr"
	"github.com/teamworkhq/teamwork/internal/database"
	"github.com/teamworkhq/teamwork/internal/logger"
	"github.com/teamworkhq/teamwork/internal/middleware"
	"github.com/teamworkhq/teamwork/internal/models"
	usermodels "github.com/teamworkhq/teamwork/internal/models/users"
	"github.com/teamworkhq/teamwork/pkg/utils"
)

type ProfileService struct {
	DB  *sql.DB
	Log *logger.Logger
}

func NewProfileService() *ProfileService {
	return &ProfileService{
		DB:  database.DB,
		Log: logger.NewLogger("profile-service"),
	}
}

// MembershipResponse is the resolver result: either needs_setup, or the
// caller's role and employee record.
type MembershipResponse struct {
	NeedsSetup bool             `json:"needs_setup"`
	Role       *models.UserRole `json:"role,omitempty"`
	Employee   *models.Employee `json:"employee,omitempty"`
}

// resolveMembership folds the two lookups into the resolver result. A
// missing role, a role with an empty org code, a missing employee and
// an employee with an empty org code all mean the same thing: the user
// has not completed onboarding and is routed to setup. Partial
// onboarding state must never surface as an error here.
func resolveMembership(role *models.UserRole, employee *models.Employee) MembershipResponse {
	if role == nil || role.OrgCode == "" {
		return MembershipResponse{NeedsSetup: true}
	}
	if employee == nil || employee.OrgCode == "" {
		return MembershipResponse{NeedsSetup: true}
	}
	return MembershipResponse{Role: role, Employee: employee}
}

// GetMembership resolves the caller's membership.
func (s *ProfileService) GetMembership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := middleware.UserID(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	role, found, err := s.lookupRole(ctx, userID)
	if err != nil {
		s.Log.Error("Failed to resolve role", "error", err, "user_id", userID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve membership")
		return
	}
	var rolePtr *models.UserRole
	if found {
		rolePtr = &role
	}

	var employeePtr *models.Employee
	if found && role.OrgCode != "" {
		employee, empFound, err := s.lookupEmployee(ctx, userID, role.OrgCode)
		if err != nil {
			s.Log.Error("Failed to resolve employee", "error", err, "user_id", userID)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve membership")
			return
		}
		if empFound {
			employeePtr = &employee
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, resolveMembership(rolePtr, employeePtr))
}

func (s *ProfileService) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := middleware.UserID(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var user usermodels.User
	err = s.DB.QueryRowContext(ctx,
		"SELECT user_id, email, name, created_at FROM users WHERE user_id = ?", userID,
	).Scan(&user.UserID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		} else {
			s.Log.Error("Failed to load profile", "error", err, "user_id", userID)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user_details": user})
}

func (s *ProfileService) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := middleware.UserID(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var user usermodels.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	user.Name = strings.TrimSpace(user.Name)
	if user.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if _, err := s.DB.ExecContext(ctx, "UPDATE users SET name = ? WHERE user_id = ?", user.Name, userID); err != nil {
		s.Log.Error("Failed to update profile", "error", err, "user_id", userID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	// Keep the display name on the employee record in sync.
	if _, err := s.DB.ExecContext(ctx, "UPDATE employees SET name = ?, updated_at = ? WHERE user_id = ?",
		user.Name, time.Now(), userID); err != nil {
		s.Log.Warn("Failed to sync employee name", "error", err, "user_id", userID)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Profile updated successfully"})
}

func (s *ProfileService) lookupRole(ctx context.Context, userID int64) (models.UserRole, bool, error) {
	var role models.UserRole
	var orgCode sql.NullString
	var rawPerms []byte

	err := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, role, org_code, permissions, created_at, updated_at
		FROM user_roles
		WHERE user_id = ?
	`, userID).Scan(&role.ID, &role.UserID, &role.Role, &orgCode, &rawPerms, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return role, false, nil
		}
		return role, false, apperr.Store(err)
	}

	role.OrgCode = orgCode.String
	role.Permissions, err = models.ParsePermissions(rawPerms)
	if err != nil {
		return role, false, err
	}
	return role, true, nil
}

func (s *ProfileService) lookupEmployee(ctx context.Context, userID int64, code string) (models.Employee, bool, error) {
	var emp models.Employee
	var empOrgCode sql.NullString
	var fingerprint sql.NullString

	err := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, employee_id, name, email, department, role, org_code, fingerprint_hash, created_at, updated_at
		FROM employees
		WHERE user_id = ? AND org_code = ?
	`, userID, code).Scan(&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.Name, &emp.Email,
		&emp.Department, &emp.Role, &empOrgCode, &fingerprint, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emp, false, nil
		}
		return emp, false, apperr.Store(err)
	}

	emp.OrgCode = empOrgCode.String
	emp.FingerprintHash = fingerprint.String
	return emp, true, nil
}
