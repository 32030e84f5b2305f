package profile

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Role
		err  bool
	}{
		{"sender", RoleSender, false},
		{"runner", RoleRunner, false},
		{"Sender", "", true},
		{"admin", "", true},
		{"", "", true},
	} {
		got, err := ParseRole(tc.in)
		if tc.err {
			if !errors.Is(err, ErrInvalidRole) {
				t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestRoleRoutes(t *testing.T) {
	if got := RoleSender.DashboardRoute(); got != "/dashboard-sender" {
		t.Fatalf("sender dashboard route %q", got)
	}
	if got := RoleRunner.LoginRoute(); got != "/login-runner" {
		t.Fatalf("runner login route %q", got)
	}
	if got := RoleSender.SignupRoute(); got != "/signup-sender" {
		t.Fatalf("sender signup route %q", got)
	}
}

func TestRoleOther(t *testing.T) {
	if RoleSender.Other() != RoleRunner || RoleRunner.Other() != RoleSender {
		t.Fatalf("Other must swap the two roles")
	}
}

func TestComposeAddress(t *testing.T) {
	got := ComposeAddress("12 Oba Adesida Road", "Alagbaka")
	want := "12 Oba Adesida Road, Alagbaka, Akure, Ondo State"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestKnownSelections(t *testing.T) {
	if !KnownArea("FUTA Area") {
		t.Fatalf("FUTA Area should be known")
	}
	if KnownArea("Lagos Island") || KnownArea("") {
		t.Fatalf("unknown areas must be rejected")
	}
	if !KnownRelationshipStatus("In a relationship") {
		t.Fatalf("In a relationship should be known")
	}
	if KnownRelationshipStatus("Complicated") {
		t.Fatalf("unknown statuses must be rejected")
	}
}
