package models

import "time"

// Employee is a row in employees. EmployeeCode is the human-readable
// badge id ("ADMIN_xxxx" / "EMP_xxxx"); OrgCode is empty until the user
// completes onboarding.
type Employee struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"user_id"`
	EmployeeCode    string    `json:"employee_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Department      string    `json:"department"`
	Role            string    `json:"role"`
	OrgCode         string    `json:"org_code,omitempty"`
	FingerprintHash string    `json:"fingerprint_hash,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
