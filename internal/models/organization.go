package models

import "time"

// Organization is a row in organization_codes. The org_code is the
// shareable 6-character join token; it is referenced by employees and
// user_roles as a plain string, not a foreign key that follows renames.
type Organization struct {
	ID        string    `json:"id"`
	AdminID   int64     `json:"admin_id"`
	OrgName   string    `json:"org_name"`
	OrgCode   string    `json:"org_code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the join code is past its validity window.
func (o *Organization) Expired(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}

// CurrentOrganization picks the organization an admin currently
// operates: the most recently created active row. Re-running setup
// deactivates earlier rows, so normally one candidate remains; ordering
// by creation time keeps the choice deterministic either way.
func CurrentOrganization(orgs []Organization) (Organization, bool) {
	var current Organization
	found := false
	for _, org := range orgs {
		if !org.Active {
			continue
		}
		if !found || org.CreatedAt.After(current.CreatedAt) {
			current = org
			found = true
		}
	}
	return current, found
}
