package teammodels

import "time"

// Team is a named grouping of employees within an organization.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OrgCode   string    `json:"org_code"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMember links a team to an employee.
type TeamMember struct {
	ID         string `json:"id"`
	TeamID     string `json:"team_id"`
	EmployeeID string `json:"employee_id"`
}

// MemberRow is a membership joined against the employee roster for
// display.
type MemberRow struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}
