// Package models provides domain models for the tokenomics simulator.
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tokensim/internal/errors"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Token holds the economic parameters of the simulated token.
//
// TotalSupply is fixed at creation and serves as the reference point for all
// supply accounting. CirculatingSupply starts equal to TotalSupply and only
// ever decreases, through burn.
type Token struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	TotalSupply       decimal.Decimal `json:"total_supply"`
	CirculatingSupply decimal.Decimal `json:"circulating_supply"`
	AirdropPercentage decimal.Decimal `json:"airdrop_percentage"` // 0-100
	BurnRate          decimal.Decimal `json:"burn_rate"`          // 0-100, percent of traded volume
	InitialPrice      decimal.Decimal `json:"initial_price"`
	DecimalPrecision  int32           `json:"decimal_precision"`

	// Vesting optionally releases treasury tokens to active users over time.
	// Unlocks redistribute supply, they never mint or burn.
	Vesting *VestingSchedule `json:"vesting,omitempty"`
}

// NewToken creates a token with the given supply parameters.
// CirculatingSupply starts at TotalSupply.
func NewToken(name, symbol string, totalSupply, airdropPercentage, burnRate, initialPrice decimal.Decimal, precision int32) Token {
	return Token{
		ID:                uuid.New(),
		Name:              name,
		Symbol:            symbol,
		TotalSupply:       totalSupply,
		CirculatingSupply: totalSupply,
		AirdropPercentage: airdropPercentage,
		BurnRate:          burnRate,
		InitialPrice:      initialPrice,
		DecimalPrecision:  precision,
	}
}

// Validate checks every token field against its domain.
func (t *Token) Validate() error {
	if t.Name == "" {
		return errors.NewTokenError("name", "must not be empty")
	}
	if t.TotalSupply.Sign() < 0 {
		return errors.NewTokenError("total_supply", "must not be negative")
	}
	if t.AirdropPercentage.Sign() < 0 || t.AirdropPercentage.GreaterThan(hundred) {
		return errors.NewTokenError("airdrop_percentage", "must be between 0 and 100")
	}
	if t.BurnRate.Sign() < 0 || t.BurnRate.GreaterThan(hundred) {
		return errors.NewTokenError("burn_rate", "must be between 0 and 100")
	}
	if t.InitialPrice.Sign() <= 0 {
		return errors.NewTokenError("initial_price", "must be positive")
	}
	if t.CirculatingSupply.GreaterThan(t.TotalSupply) {
		return errors.NewTokenError("circulating_supply", "must not exceed total supply")
	}
	if t.Vesting != nil {
		if err := t.Vesting.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BurnedToDate returns the amount permanently removed from circulation.
func (t *Token) BurnedToDate() decimal.Decimal {
	return t.TotalSupply.Sub(t.CirculatingSupply)
}

// Burn removes amount from circulating supply, saturating at zero.
// Saturation is policy, not an error; the error case is a positive burn
// requested against a supply that is already exhausted.
func (t *Token) Burn(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, nil
	}
	if t.CirculatingSupply.IsZero() {
		return decimal.Zero, errors.ErrInsufficientSupply
	}
	burned := decimal.Min(amount, t.CirculatingSupply)
	t.CirculatingSupply = t.CirculatingSupply.Sub(burned)
	return burned, nil
}

// AirdropAllocation returns the per-user airdrop amount for the given
// population size, rounded at the token's precision. Zero when no airdrop
// is configured.
func (t *Token) AirdropAllocation(totalUsers int) decimal.Decimal {
	if t.AirdropPercentage.Sign() <= 0 || totalUsers <= 0 {
		return decimal.Zero
	}
	total := t.TotalSupply.Mul(t.AirdropPercentage).Div(hundred)
	return total.Div(decimal.NewFromInt(int64(totalUsers))).Round(t.DecimalPrecision)
}
