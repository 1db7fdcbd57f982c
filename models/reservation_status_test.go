package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from  ReservationStatus
		to    ReservationStatus
		valid bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusPending, "archived", false},
	}

	for _, tt := range cases {
		if got := CanTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("CanTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestTerminalStatusesHaveNoExit(t *testing.T) {
	for _, from := range []ReservationStatus{StatusCompleted, StatusCancelled} {
		if !from.IsTerminal() {
			t.Fatalf("%q should be terminal", from)
		}
		for _, to := range ReservationStatuses {
			if CanTransition(from, to) {
				t.Fatalf("terminal %q must not move to %q", from, to)
			}
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Admin "); !ok || r != RoleAdmin {
		t.Fatalf("ParseRole(Admin) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("staff"); ok {
		t.Fatal("staff is not a role")
	}
}
