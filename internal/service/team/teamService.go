package teamService

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/teamworkhq/teamwork/internal/apperr"
	"github.com/teamworkhq/teamwork/internal/database"
	"github.com/teamworkhq/teamwork/internal/logger"
	"github.com/teamworkhq/teamwork/internal/middleware"
	"github.com/teamworkhq/teamwork/internal/models"
	teammodels "github.com/teamworkhq/teamwork/internal/models/teams"
	"github.com/teamworkhq/teamwork/pkg/utils"
)

// TeamService handles team CRUD and membership, scoped to the caller's
// organization code.
type TeamService struct {
	DB  *sql.DB
	Log *logger.Logger
}

// CreateTeamRequest is the request body for team creation.
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// AddMemberRequest is the request body for adding an employee to a team.
type AddMemberRequest struct {
	EmployeeID string `json:"employee_id"`
}

// NewTeamService initializes a new team service
func NewTeamService() *TeamService {
	return &TeamService{
		DB:  database.DB,
		Log: logger.NewLogger("team-service"),
	}
}

// CreateTeam creates a team in the caller's organization. Admin only.
func (ts *TeamService) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgCode, err := ts.adminOrgCode(ctx)
	if err != nil {
		ts.respondAccessError(w, err)
		return
	}

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Team name is required")
		return
	}

	team := teammodels.Team{
		ID:        uuid.NewString(),
		Name:      req.Name,
		OrgCode:   orgCode,
		CreatedAt: time.Now(),
	}
	_, err = ts.DB.ExecContext(ctx, `
		INSERT INTO teams (id, name, org_code, created_at) VALUES (?, ?, ?, ?)
	`, team.ID, team.Name, team.OrgCode, team.CreatedAt)
	if err != nil {
		ts.Log.Error("Failed to create team", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create team")
		return
	}

	ts.Log.Info("Team created", "team_id", team.ID, "org_code", orgCode)
	utils.RespondWithJSON(w, http.StatusCreated, team)
}

// GetTeams lists the teams in the caller's organization. Any member may
// look; only admins may change.
func (ts *TeamService) GetTeams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgCode, err := ts.memberOrgCode(ctx)
	if err != nil {
		ts.respondAccessError(w, err)
		return
	}

	rows, err := ts.DB.QueryContext(ctx, `
		SELECT id, name, org_code, created_at FROM teams WHERE org_code = ? ORDER BY created_at DESC
	`, orgCode)
	if err != nil {
		ts.Log.Error("Failed to query teams", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get teams")
		return
	}
	defer rows.Close()

	var teams []teammodels.Team
	for rows.Next() {
		var t teammodels.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.OrgCode, &t.CreatedAt); err != nil {
			ts.Log.Error("Failed to scan team row", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process teams data")
			return
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		ts.Log.Error("Error iterating teams rows", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing teams data")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// DeleteTeam removes a team and its memberships in one transaction so a
// failure can not leave orphaned membership rows behind.
func (ts *TeamService) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgCode, err := ts.adminOrgCode(ctx)
	if err != nil {
		ts.respondAccessError(w, err)
		return
	}

	teamID := mux.Vars(r)["id"]

	tx, err := ts.DB.BeginTx(ctx, nil)
	if err != nil {
		ts.Log.Error("Failed to begin transaction", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback() // Ignored once committed.

	if _, err := tx.ExecContext(ctx, "DELETE FROM team_members WHERE team_id = ?", teamID); err != nil {
		ts.Log.Error("Failed to delete team members", "error", err, "team_id", teamID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete team")
		return
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM teams WHERE id = ? AND org_code = ?", teamID, orgCode)
	if err != nil {
		ts.Log.Error("Failed to delete team", "error", err, "team_id", teamID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete team")
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		ts.Log.Error("Failed to get rows affected", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete team")
		return
	}
	if rowsAffected == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Team not found")
		return
	}

	if err := tx.Commit(); err != nil {
		ts.Log.Error("Failed to commit transaction", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	ts.Log.Info("Team deleted", "team_id", teamID, "org_code", orgCode)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Team deleted successfully"})
}

// GetTeamMembers lists a team's members joined against the roster.
func (ts *TeamService) GetTeamMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgCode, err := ts.memberOrgCode(ctx)
	if err != nil {
		ts.respondAccessError(w, err)
		return
	}

	teamID := mux.Vars(r)["id"]
	if err := ts.teamInOrg(ctx, teamID, orgCode); err != nil {
		ts.respondAccessError(w, err)
		return
	}

	rows, err := ts.DB.QueryContext(ctx, `
		SELECT tm.id, e.id, e.name, e.email, e.role
		FROM team_members tm
		JOIN employees e ON e.id = tm.employee_id
		WHERE tm.team_id = ?
		ORDER BY e.name
	`, teamID)
	if err != nil {
		ts.Log.Error("Failed to query team members", "error", err, "team_id", teamID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get team members")
		return
	}
	defer rows.Close()

	var members []teammodels.MemberRow
	for rows.Next() {
		var m teammodels.MemberRow
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.Name, &m.Email, &m.Role); err != nil {
			ts.Log.Error("Failed to scan member row", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process members data")
			return
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		ts.Log.Error("Error iterating member rows", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing members data")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// AddTeamMember assigns an employee of the same organization to a team.
// Admin only.
func (ts *TeamService) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgCode, err := ts.adminOrgCode(ctx)
	if err != nil {
		ts.respondAccessError(w, err)
		return
	}

	teamID := mux.Vars(r)["id"]
	if err := ts.teamInOrg(ctx, teamID, orgCode); err != nil {
		ts.respondAccessError(w, err)
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	// The employee must belong to the same organization as the team.
	var count int
	err = ts.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM employees WHERE id = ? AND org_code = ?", req.EmployeeID, orgCode,
	).Scan(&count)
	if err != nil {
		ts.Log.Error("Failed to verify employee", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add team member")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Employee not found in this organization")
		return
	}

	member := teammodels.TeamMember{
		ID:         uuid.NewString(),
		TeamID:     teamID,
		EmployeeID: req.EmployeeID,
	}
	_, err = ts.DB.ExecContext(ctx, `
		INSERT INTO team_members (id, team_id, employee_id) VALUES (?, ?, ?)
	`, member.ID, member.TeamID, member.EmployeeID)
	if err != nil {
		if database.IsDuplicateKey(err) {
			utils.RespondWithError(w, http.StatusConflict, "Employee is already on this team")
			return
		}
		ts.Log.Error("Failed to add team member", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add team member")
		return
	}

	ts.Log.Info("Team member added", "team_id", teamID, "employee_id", req.EmployeeID)
	utils.RespondWithJSON(w, http.StatusCreated, member)
}

// RemoveTeamMember removes one membership row. Admin only.
func (ts *TeamService) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgCode, err := ts.adminOrgCode(ctx)
	if err != nil {
		ts.respondAccessError(w, err)
		return
	}

	vars := mux.Vars(r)
	teamID, memberID := vars["id"], vars["memberID"]
	if err := ts.teamInOrg(ctx, teamID, orgCode); err != nil {
		ts.respondAccessError(w, err)
		return
	}

	result, err := ts.DB.ExecContext(ctx,
		"DELETE FROM team_members WHERE id = ? AND team_id = ?", memberID, teamID)
	if err != nil {
		ts.Log.Error("Failed to remove team member", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove team member")
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		ts.Log.Error("Failed to get rows affected", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove team member")
		return
	}
	if rowsAffected == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Team member not found")
		return
	}

	ts.Log.Info("Team member removed", "team_id", teamID, "member_id", memberID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Team member removed"})
}

func (ts *TeamService) teamInOrg(ctx context.Context, teamID, orgCode string) error {
	var count int
	err := ts.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM teams WHERE id = ? AND org_code = ?", teamID, orgCode,
	).Scan(&count)
	if err != nil {
		return apperr.Store(err)
	}
	if count == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ts *TeamService) memberOrgCode(ctx context.Context) (string, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return "", errUnauthorized
	}

	var orgCode sql.NullString
	err = ts.DB.QueryRowContext(ctx, "SELECT org_code FROM user_roles WHERE user_id = ?", userID).Scan(&orgCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrNotFound
		}
		return "", apperr.Store(err)
	}
	if orgCode.String == "" {
		return "", apperr.ErrNotFound
	}
	return orgCode.String, nil
}

func (ts *TeamService) adminOrgCode(ctx context.Context) (string, error) {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return "", errUnauthorized
	}

	var role string
	var orgCode sql.NullString
	err = ts.DB.QueryRowContext(ctx, "SELECT role, org_code FROM user_roles WHERE user_id = ?", userID).Scan(&role, &orgCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrNotFound
		}
		return "", apperr.Store(err)
	}
	if role != models.RoleAdmin {
		return "", errForbidden
	}
	if orgCode.String == "" {
		return "", apperr.ErrNotFound
	}
	return orgCode.String, nil
}

var (
	errUnauthorized = errors.New("invalid token")
	errForbidden    = errors.New("admin access required")
)

func (ts *TeamService) respondAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnauthorized):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errForbidden):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
	default:
		ts.Log.Error("Failed to resolve team access", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
