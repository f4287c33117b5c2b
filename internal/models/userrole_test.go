package models

import "testing"

func TestParsePermissions(t *testing.T) {
	t.Parallel()
	p, err := ParsePermissions([]byte(`{"manage_employees":true,"view_reports":true}`))
	if err != nil {
		t.Fatalf("ParsePermissions error: %v", err)
	}
	if !p.ManageEmployees || !p.ViewReports || p.ViewAttendance {
		t.Errorf("ParsePermissions = %+v, want admin set", p)
	}
}

func TestParsePermissionsEmpty(t *testing.T) {
	t.Parallel()
	p, err := ParsePermissions(nil)
	if err != nil {
		t.Fatalf("ParsePermissions(nil) error: %v", err)
	}
	if p != (Permissions{}) {
		t.Errorf("ParsePermissions(nil) = %+v, want zero value", p)
	}
}

func TestParsePermissionsRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	if _, err := ParsePermissions([]byte(`{"manage_employees":true,"superuser":true}`)); err == nil {
		t.Error("ParsePermissions accepted a row with unknown fields")
	}
}

func TestParsePermissionsRejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	if _, err := ParsePermissions([]byte(`{"manage_employees":`)); err == nil {
		t.Error("ParsePermissions accepted truncated JSON")
	}
}
