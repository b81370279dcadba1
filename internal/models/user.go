package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is one simulated market participant.
//
// An inactive user's balance is exactly its airdrop allocation (possibly
// zero) and never changes until activation.
type User struct {
	ID       uuid.UUID       `json:"id"`
	Balance  decimal.Decimal `json:"balance"`
	Active   bool            `json:"active"`
	JoinedAt int             `json:"joined_at"` // interval index at activation
}

// Activate marks the user as trading from the given interval onward.
func (u *User) Activate(interval int) {
	if u.Active {
		return
	}
	u.Active = true
	u.JoinedAt = interval
}

// GenerateUsers creates the initial population. Every user receives the same
// allocation; when active is true the whole population starts trading at
// interval zero (airdrop bootstrapping).
func GenerateUsers(total int, allocation decimal.Decimal, active bool) []*User {
	users := make([]*User, 0, total)
	for i := 0; i < total; i++ {
		users = append(users, &User{
			ID:      uuid.New(),
			Balance: allocation,
			Active:  active,
		})
	}
	return users
}

// CountActive returns the number of users currently trading.
func CountActive(users []*User) int {
	n := 0
	for _, u := range users {
		if u.Active {
			n++
		}
	}
	return n
}

// SumBalances returns the total tokens held by the population.
func SumBalances(users []*User) decimal.Decimal {
	sum := decimal.Zero
	for _, u := range users {
		sum = sum.Add(u.Balance)
	}
	return sum
}
