package organizationService

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teamworkhq/teamwork/internal/apperr"
	"github.com/teamworkhq/teamwork/internal/database"
	"github.com/teamworkhq/teamwork/internal/logger"
	"github.com/teamworkhq/teamwork/internal/middleware"
	"github.com/teamworkhq/teamwork/internal/models"
	"github.com/teamworkhq/teamwork/internal/notify"
	"github.com/teamworkhq/teamwork/internal/orgcode"
	"github.com/teamworkhq/teamwork/pkg/utils"
)

// OrganizationService handles organization onboarding: creating an
// organization, joining one by code, and managing the join code.
type OrganizationService struct {
	DB     *sql.DB
	Log    *logger.Logger
	Mailer *notify.Mailer
}

// CreateOrganizationRequest is the request body for organization creation.
type CreateOrganizationRequest struct {
	OrgName string `json:"org_name"`
}

// JoinOrganizationRequest is the request body for joining by code.
type JoinOrganizationRequest struct {
	OrgCode string `json:"org_code"`
}

// NewOrganizationService initializes a new organization service
func NewOrganizationService() *OrganizationService {
	return &OrganizationService{
		DB:     database.DB,
		Log:    logger.NewLogger("organization-service"),
		Mailer: notify.NewMailer(),
	}
}

// CreateOrganization creates an organization with a fresh join code and
// makes the caller its admin: one organization row, one admin role and
// one admin employee record, all in a single transaction. Code
// collisions against the UNIQUE constraint are retried a bounded number
// of times.
func (s *OrganizationService) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := middleware.UserID(ctx)
	if err != nil {
		s.Log.Error("Invalid user ID in token", "error", err)
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.OrgName = strings.TrimSpace(req.OrgName)
	if req.OrgName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Organization name is required")
		return
	}

	email, name, err := s.userIdentity(ctx, userID)
	if err != nil {
		s.Log.Error("Failed to load user", "error", err, "user_id", userID)
		utils.RespondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		s.Log.Error("Failed to begin transaction", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback() // Ignored once committed.

	now := time.Now()
	org := models.Organization{
		ID:        uuid.NewString(),
		AdminID:   userID,
		OrgName:   req.OrgName,
		Active:    true,
		CreatedAt: now,
		ExpiresAt: orgcode.ExpiryFrom(now),
	}

	// Re-running setup replaces any earlier organization: deactivating
	// the previous rows keeps one active organization per admin and
	// stops abandoned codes from accepting joins.
	if _, err := tx.ExecContext(ctx,
		"UPDATE organization_codes SET active = 0 WHERE admin_id = ?", userID); err != nil {
		s.Log.Error("Failed to retire previous organizations", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create organization")
		return
	}

	inserted := false
	for attempt := 0; attempt < orgcode.MaxDraws; attempt++ {
		org.OrgCode = orgcode.Generate()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO organization_codes (id, admin_id, org_name, org_code, active, created_at, expires_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, org.ID, org.AdminID, org.OrgName, org.OrgCode, org.Active, org.CreatedAt, org.ExpiresAt)
		if err == nil {
			inserted = true
			break
		}
		if !database.IsDuplicateKey(err) {
			s.Log.Error("Failed to create organization", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create organization")
			return
		}
		s.Log.Warn("Join code collision, redrawing", "attempt", attempt+1)
	}
	if !inserted {
		s.Log.Error("Exhausted join code draws", "attempts", orgcode.MaxDraws)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create organization")
		return
	}

	if err := s.upsertRole(ctx, tx, userID, models.RoleAdmin, org.OrgCode, models.AdminPermissions()); err != nil {
		s.Log.Error("Failed to create admin role", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create organization")
		return
	}

	employee, err := s.upsertEmployee(ctx, tx, userID, name, email, "ADMIN_", "Administration", models.RoleAdmin, org.OrgCode)
	if err != nil {
		s.Log.Error("Failed to create admin employee record", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create organization")
		return
	}

	if err := tx.Commit(); err != nil {
		s.Log.Error("Failed to commit transaction", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	go s.Mailer.SendJoinCode(email, org.OrgName, org.OrgCode, org.ExpiresAt)

	s.Log.Info("Organization created", "org_code", org.OrgCode, "admin_id", userID)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"organization": org,
		"employee":     employee,
	})
}

// JoinOrganization enrolls the caller into an existing organization by
// its join code: fails with NotFound for an unknown or inactive code and
// Expired for one past its window, otherwise creates an employee role
// and employee record bound to the code.
func (s *OrganizationService) JoinOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := middleware.UserID(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req JoinOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	code := orgcode.Normalize(req.OrgCode)
	if !orgcode.Valid(code) {
		utils.RespondWithError(w, http.StatusBadRequest, "Organization code must be 6 letters or digits")
		return
	}

	var org models.Organization
	err = s.DB.QueryRowContext(ctx, `
		SELECT id, admin_id, org_name, org_code, active, created_at, expires_at
		FROM organization_codes
		WHERE org_code = ? AND active = 1
	`, code).Scan(&org.ID, &org.AdminID, &org.OrgName, &org.OrgCode, &org.Active, &org.CreatedAt, &org.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.Log.Warn("Join attempt with unknown code", "org_code", code)
			utils.RespondWithError(w, apperr.Status(apperr.ErrNotFound), "Invalid organization code")
		} else {
			s.Log.Error("Failed to look up organization", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to join organization")
		}
		return
	}

	if org.Expired(time.Now()) {
		s.Log.Warn("Join attempt with expired code", "org_code", code)
		utils.RespondWithError(w, apperr.Status(apperr.ErrExpired), apperr.Message(apperr.ErrExpired))
		return
	}

	email, name, err := s.userIdentity(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), apperr.Message(err))
		return
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		s.Log.Error("Failed to begin transaction", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if err := s.upsertRole(ctx, tx, userID, models.RoleEmployee, code, models.EmployeePermissions()); err != nil {
		s.Log.Error("Failed to create employee role", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to join organization")
		return
	}

	employee, err := s.upsertEmployee(ctx, tx, userID, name, email, "EMP_", "General", models.RoleEmployee, code)
	if err != nil {
		s.Log.Error("Failed to create employee record", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to join organization")
		return
	}

	if err := tx.Commit(); err != nil {
		s.Log.Error("Failed to commit transaction", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	s.Log.Info("User joined organization", "org_code", code, "user_id", userID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Welcome to " + org.OrgName,
		"organization": org,
		"employee":     employee,
	})
}

// GetOrganization returns the caller's organization. Admin only; the
// lookup keys on admin_id so it always reflects the current join code,
// even after a regeneration.
func (s *OrganizationService) GetOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	org, _, err := s.adminOrganization(ctx)
	if err != nil {
		s.respondServiceError(w, err, "Failed to load organization")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, org)
}

// RegenerateCode draws a fresh join code and extends the expiry window.
// Employee and role rows keep the old code string: codes are join
// tokens, not foreign keys that follow renames.
func (s *OrganizationService) RegenerateCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	org, _, err := s.adminOrganization(ctx)
	if err != nil {
		s.respondServiceError(w, err, "Failed to regenerate code")
		return
	}

	newExpiry := orgcode.ExpiryFrom(time.Now())
	var newCode string
	updated := false
	for attempt := 0; attempt < orgcode.MaxDraws; attempt++ {
		newCode = orgcode.Generate()
		_, err = s.DB.ExecContext(ctx, `
			UPDATE organization_codes SET org_code = ?, expires_at = ? WHERE id = ?
		`, newCode, newExpiry, org.ID)
		if err == nil {
			updated = true
			break
		}
		if !database.IsDuplicateKey(err) {
			s.Log.Error("Failed to regenerate code", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to regenerate code")
			return
		}
		s.Log.Warn("Join code collision, redrawing", "attempt", attempt+1)
	}
	if !updated {
		s.Log.Error("Exhausted join code draws", "attempts", orgcode.MaxDraws)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to regenerate code")
		return
	}

	email, _, err := s.userIdentity(ctx, org.AdminID)
	if err == nil {
		go s.Mailer.SendJoinCode(email, org.OrgName, newCode, newExpiry)
	}

	s.Log.Info("Join code regenerated", "org_id", org.ID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"org_code":   newCode,
		"expires_at": newExpiry,
	})
}

// ListEmployees returns the organization roster, newest first. Admin
// only. The roster keys on the caller's role org_code: after a code
// regeneration every member, the admin included, still carries the old
// code string, so the stale code is the one that groups them.
func (s *OrganizationService) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, role, err := s.adminOrganization(ctx)
	if err != nil {
		s.respondServiceError(w, err, "Failed to load employees")
		return
	}

	employees, err := s.employeesByOrgCode(ctx, role.OrgCode)
	if err != nil {
		s.Log.Error("Failed to query employees", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load employees")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"employees": employees})
}

// adminOrganization resolves the caller's role, verifies it is an
// admin, and loads the organization the caller administers: the newest
// active row for the admin, so a retried setup never resurfaces an
// abandoned organization.
func (s *OrganizationService) adminOrganization(ctx context.Context) (models.Organization, models.UserRole, error) {
	var org models.Organization

	userID, err := middleware.UserID(ctx)
	if err != nil {
		return org, models.UserRole{}, errUnauthorized
	}

	role, err := s.roleFor(ctx, userID)
	if err != nil {
		return org, role, err
	}
	if role.Role != models.RoleAdmin {
		return org, role, errForbidden
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, admin_id, org_name, org_code, active, created_at, expires_at
		FROM organization_codes
		WHERE admin_id = ?
	`, userID)
	if err != nil {
		return org, role, apperr.Store(err)
	}
	defer rows.Close()

	var candidates []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.AdminID, &o.OrgName, &o.OrgCode, &o.Active, &o.CreatedAt, &o.ExpiresAt); err != nil {
			return org, role, apperr.Store(err)
		}
		candidates = append(candidates, o)
	}
	if err := rows.Err(); err != nil {
		return org, role, apperr.Store(err)
	}

	org, found := models.CurrentOrganization(candidates)
	if !found {
		return org, role, apperr.ErrNotFound
	}
	return org, role, nil
}

func (s *OrganizationService) roleFor(ctx context.Context, userID int64) (models.UserRole, error) {
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
			return role, apperr.ErrNotFound
		}
		return role, apperr.Store(err)
	}

	role.OrgCode = orgCode.String
	role.Permissions, err = models.ParsePermissions(rawPerms)
	if err != nil {
		return role, err
	}
	return role, nil
}

func (s *OrganizationService) userIdentity(ctx context.Context, userID int64) (email, name string, err error) {
	err = s.DB.QueryRowContext(ctx, "SELECT email, name FROM users WHERE user_id = ?", userID).Scan(&email, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", apperr.ErrNotFound
		}
		return "", "", apperr.Store(err)
	}
	return email, name, nil
}

// upsertRole binds the user to a role and organization. A leftover row
// from an incomplete onboarding is overwritten so setup can be retried.
func (s *OrganizationService) upsertRole(ctx context.Context, tx *sql.Tx, userID int64, roleName, code string, perms models.Permissions) error {
	rawPerms, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role, org_code, permissions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE role = VALUES(role), org_code = VALUES(org_code),
			permissions = VALUES(permissions), updated_at = VALUES(updated_at)
	`, uuid.NewString(), userID, roleName, code, rawPerms, now, now)
	return err
}

func (s *OrganizationService) upsertEmployee(ctx context.Context, tx *sql.Tx, userID int64, name, email, codePrefix, department, roleName, code string) (models.Employee, error) {
	now := time.Now()
	id := uuid.NewString()
	employee := models.Employee{
		ID:           id,
		UserID:       userID,
		EmployeeCode: codePrefix + strings.ToUpper(id[:8]),
		Name:         name,
		Email:        email,
		Department:   department,
		Role:         roleName,
		OrgCode:      code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO employees (id, user_id, employee_id, name, email, department, role, org_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE employee_id = VALUES(employee_id), department = VALUES(department),
			role = VALUES(role), org_code = VALUES(org_code), updated_at = VALUES(updated_at)
	`, employee.ID, employee.UserID, employee.EmployeeCode, employee.Name, employee.Email,
		employee.Department, employee.Role, employee.OrgCode, employee.CreatedAt, employee.UpdatedAt)
	return employee, err
}

func (s *OrganizationService) employeesByOrgCode(ctx context.Context, code string) ([]models.Employee, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, employee_id, name, email, department, role, org_code, created_at, updated_at
		FROM employees
		WHERE org_code = ?
		ORDER BY created_at DESC
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var emp models.Employee
		var empOrgCode sql.NullString
		if err := rows.Scan(&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.Name, &emp.Email,
			&emp.Department, &emp.Role, &empOrgCode, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, err
		}
		emp.OrgCode = empOrgCode.String
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

var (
	errUnauthorized = errors.New("invalid token")
	errForbidden    = errors.New("admin access required")
)

func (s *OrganizationService) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, errUnauthorized):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errForbidden):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Organization not found")
	default:
		s.Log.Error(fallback, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
