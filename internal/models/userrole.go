package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Permissions is the typed schema for the user_roles.permissions JSON
// column. Rows that do not match this shape are rejected at the store
// boundary instead of being passed through untyped.
type Permissions struct {
	ManageEmployees bool `json:"manage_employees,omitempty"`
	ViewReports     bool `json:"view_reports,omitempty"`
	ViewAttendance  bool `json:"view_attendance,omitempty"`
}

// AdminPermissions returns the permission set granted on organization
// creation.
func AdminPermissions() Permissions {
	return Permissions{ManageEmployees: true, ViewReports: true}
}

// EmployeePermissions returns the permission set granted on joining.
func EmployeePermissions() Permissions {
	return Permissions{ViewAttendance: true}
}

// ParsePermissions decodes the permissions column strictly: unknown
// fields make the row malformed.
func ParsePermissions(raw []byte) (Permissions, error) {
	var p Permissions
	if len(raw) == 0 {
		return p, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Permissions{}, fmt.Errorf("malformed permissions column: %w", err)
	}
	return p, nil
}

// UserRole binds a user to a role and an organization. One row per user.
type UserRole struct {
	ID          string      `json:"id"`
	UserID      int64       `json:"user_id"`
	Role        string      `json:"role"`
	OrgCode     string      `json:"org_code,omitempty"`
	Permissions Permissions `json:"permissions"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
