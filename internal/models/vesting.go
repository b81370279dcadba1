package models

import (
	"github.com/shopspring/decimal"

	"tokensim/internal/errors"
)

// VestingSchedule releases a share of the treasury to active users across a
// sequence of cliffs. Cliff durations are measured in simulation intervals.
type VestingSchedule struct {
	// AllocationPercentage is the share of total supply covered by this
	// schedule, as a fraction (0-1).
	AllocationPercentage decimal.Decimal `json:"allocation_percentage"`

	Cliffs []VestingCliff `json:"cliffs"`
}

// VestingCliff unlocks a share of the schedule's allocation once the
// cumulative duration has elapsed. A zero duration unlocks at start.
type VestingCliff struct {
	AllocationPercentage decimal.Decimal `json:"allocation_percentage"` // fraction of the schedule, 0-1
	Duration             int             `json:"duration"`              // intervals
}

// Validate checks the schedule's fractions and durations.
func (v *VestingSchedule) Validate() error {
	if v.AllocationPercentage.Sign() < 0 || v.AllocationPercentage.GreaterThan(one) {
		return errors.NewTokenError("vesting.allocation_percentage", "must be between 0 and 1")
	}
	cliffTotal := decimal.Zero
	for _, c := range v.Cliffs {
		if c.AllocationPercentage.Sign() < 0 || c.AllocationPercentage.GreaterThan(one) {
			return errors.NewTokenError("vesting.cliffs", "cliff allocation must be between 0 and 1")
		}
		if c.Duration < 0 {
			return errors.NewTokenError("vesting.cliffs", "cliff duration must not be negative")
		}
		cliffTotal = cliffTotal.Add(c.AllocationPercentage)
	}
	if cliffTotal.GreaterThan(one) {
		return errors.NewTokenError("vesting.cliffs", "cliff allocations must not exceed 1")
	}
	return nil
}

// UnlockedTokens returns the cumulative amount unlocked after elapsed
// intervals. Cliffs unlock in order; a cliff only counts once its full
// cumulative duration has passed.
func (v *VestingSchedule) UnlockedTokens(totalTokens decimal.Decimal, elapsed int) decimal.Decimal {
	unlocked := decimal.Zero
	allocated := v.AllocationPercentage.Mul(totalTokens)
	cumulative := 0

	for _, cliff := range v.Cliffs {
		cumulative += cliff.Duration
		if elapsed < cumulative {
			break
		}
		unlocked = unlocked.Add(allocated.Mul(cliff.AllocationPercentage))
	}

	return unlocked
}
