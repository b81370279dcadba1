package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGenerateUsers(t *testing.T) {
	users := GenerateUsers(50, decimal.NewFromInt(500), true)
	if len(users) != 50 {
		t.Fatalf("got %d users, want 50", len(users))
	}
	if CountActive(users) != 50 {
		t.Errorf("active = %d, want 50", CountActive(users))
	}
	if !SumBalances(users).Equal(decimal.NewFromInt(25_000)) {
		t.Errorf("sum = %s, want 25000", SumBalances(users))
	}

	inactive := GenerateUsers(10, decimal.Zero, false)
	if CountActive(inactive) != 0 {
		t.Errorf("inactive population has %d active users", CountActive(inactive))
	}
	if !SumBalances(inactive).IsZero() {
		t.Errorf("inactive population holds %s tokens", SumBalances(inactive))
	}
}

func TestActivate(t *testing.T) {
	u := &User{}
	u.Activate(3)
	if !u.Active || u.JoinedAt != 3 {
		t.Errorf("after Activate(3): %+v", u)
	}

	// Re-activation keeps the original join interval.
	u.Activate(7)
	if u.JoinedAt != 3 {
		t.Errorf("JoinedAt changed on re-activation: %d", u.JoinedAt)
	}
}
