package profileService

import (
	"testing"

	"github.com/teamworkhq/teamwork/internal/models"
)

func TestResolveMembershipGaps(t *testing.T) {
	t.Parallel()
	role := models.UserRole{UserID: 7, Role: models.RoleEmployee, OrgCode: "ABC123"}
	bareRole := models.UserRole{UserID: 7, Role: models.RoleEmployee}
	bareEmployee := models.Employee{ID: "e1", UserID: 7}

	// Every gap in the onboarding state routes to setup the same way.
	cases := []struct {
		name     string
		role     *models.UserRole
		employee *models.Employee
	}{
		{"no role row", nil, nil},
		{"role without org code", &bareRole, nil},
		{"no employee record", &role, nil},
		{"employee without org code", &role, &bareEmployee},
	}
	for _, c := range cases {
		got := resolveMembership(c.role, c.employee)
		if !got.NeedsSetup {
			t.Errorf("%s: NeedsSetup = false, want true", c.name)
		}
		if got.Role != nil || got.Employee != nil {
			t.Errorf("%s: partial state leaked into the response", c.name)
		}
	}
}

func TestResolveMembershipComplete(t *testing.T) {
	t.Parallel()
	role := models.UserRole{UserID: 7, Role: models.RoleAdmin, OrgCode: "ABC123"}
	employee := models.Employee{ID: "e1", UserID: 7, OrgCode: "ABC123"}

	got := resolveMembership(&role, &employee)
	if got.NeedsSetup {
		t.Fatal("NeedsSetup = true for a complete membership")
	}
	if got.Role != &role || got.Employee != &employee {
		t.Error("resolved membership does not carry the looked-up rows")
	}
}
