package models

import (
	"testing"
	"time"
)

func TestExpired(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"well within window", now.Add(29 * 24 * time.Hour), false},
		{"past window", now.Add(-time.Minute), true},
		{"exactly at expiry", now, false},
	}
	for _, c := range cases {
		org := Organization{ExpiresAt: c.expiresAt}
		if got := org.Expired(now); got != c.want {
			t.Errorf("%s: Expired = %v, want %v", c.name, got, c.want)
		}
	}
}

func orgRow(id string, active bool, createdAt time.Time) Organization {
	return Organization{ID: id, OrgCode: id, Active: active, CreatedAt: createdAt}
}

func TestCurrentOrganizationPicksNewestActive(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// A retried setup leaves a retired first row next to the live one.
	// Whatever order the rows arrive in, the newest active row wins.
	abandoned := orgRow("OLD111", false, base)
	current := orgRow("NEW222", true, base.Add(time.Hour))

	for _, orgs := range [][]Organization{
		{abandoned, current},
		{current, abandoned},
	} {
		got, found := CurrentOrganization(orgs)
		if !found {
			t.Fatal("CurrentOrganization found = false with an active row present")
		}
		if got.ID != "NEW222" {
			t.Errorf("CurrentOrganization = %s, want NEW222", got.ID)
		}
	}
}

func TestCurrentOrganizationNewestWinsAmongActive(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := orgRow("AAA111", true, base)
	second := orgRow("BBB222", true, base.Add(time.Minute))

	got, found := CurrentOrganization([]Organization{first, second})
	if !found || got.ID != "BBB222" {
		t.Errorf("CurrentOrganization = (%s, %v), want (BBB222, true)", got.ID, found)
	}
}

func TestCurrentOrganizationNoneActive(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, found := CurrentOrganization(nil); found {
		t.Error("CurrentOrganization found = true for no rows")
	}
	if _, found := CurrentOrganization([]Organization{orgRow("X", false, base)}); found {
		t.Error("CurrentOrganization found = true with only retired rows")
	}
}
