package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tokensim/internal/errors"
)

// IntervalType labels the real-world duration of one simulation tick.
type IntervalType string

const (
	IntervalDaily  IntervalType = "daily"
	IntervalWeekly IntervalType = "weekly"
)

// Label returns the human-readable timestamp label for an interval index.
func (it IntervalType) Label(index int) string {
	switch it {
	case IntervalWeekly:
		return fmt.Sprintf("week %d", index)
	default:
		return fmt.Sprintf("day %d", index)
	}
}

// FeeKind selects the transaction fee policy.
type FeeKind string

const (
	FeeNone       FeeKind = ""
	FeePercentage FeeKind = "percentage"
	FeeCustom     FeeKind = "custom"
)

// FeePolicy is the transaction fee applied to traded volume.
// The zero value charges no fee.
type FeePolicy struct {
	Kind  FeeKind         `json:"kind"`
	Value decimal.Decimal `json:"value"` // percent for percentage, fraction for custom
}

// PercentageFee builds a fee policy charging p percent of each trade.
func PercentageFee(p float64) FeePolicy {
	return FeePolicy{Kind: FeePercentage, Value: decimal.NewFromFloat(p)}
}

// CustomFee builds a fee policy charging the given fraction of each trade.
func CustomFee(fraction float64) FeePolicy {
	return FeePolicy{Kind: FeeCustom, Value: decimal.NewFromFloat(fraction)}
}

// Fraction returns the fee as a fraction of traded value.
func (f FeePolicy) Fraction() decimal.Decimal {
	switch f.Kind {
	case FeePercentage:
		return f.Value.Div(hundred)
	case FeeCustom:
		return f.Value
	default:
		return decimal.Zero
	}
}

func (f FeePolicy) validate() error {
	switch f.Kind {
	case FeeNone:
		return nil
	case FeePercentage:
		if f.Value.Sign() < 0 || f.Value.GreaterThan(hundred) {
			return errors.NewOptionsError("transaction_fee", "percentage must be between 0 and 100")
		}
	case FeeCustom:
		if f.Value.Sign() < 0 || f.Value.GreaterThan(one) {
			return errors.NewOptionsError("transaction_fee", "fraction must be between 0 and 1")
		}
	default:
		return errors.NewOptionsError("transaction_fee", "unknown fee kind")
	}
	return nil
}

// ValuationKind selects how the final report values the token.
type ValuationKind string

const (
	ValuationMarketCap   ValuationKind = "" // final price x circulating supply
	ValuationLinear      ValuationKind = "linear"
	ValuationExponential ValuationKind = "exponential"
)

// ValuationModel configures the overall valuation in the final report.
// The zero value reports market capitalization.
type ValuationModel struct {
	Kind   ValuationKind `json:"kind"`
	Factor float64       `json:"factor,omitempty"` // growth damping for exponential
}

// Simulation option defaults.
const (
	DefaultDuration     = 7
	DefaultPrecision    = 4
	DefaultAdoptionRate = 5.0
)

// SimulationOptions is the validated run configuration. It is immutable once
// a run starts.
type SimulationOptions struct {
	TotalUsers       int             `json:"total_users"`
	MarketVolatility decimal.Decimal `json:"market_volatility"` // 0.0-1.0
	IntervalType     IntervalType    `json:"interval_type"`
	Duration         int             `json:"duration"` // number of intervals
	TransactionFee   FeePolicy       `json:"transaction_fee"`
	DecimalPrecision int32           `json:"decimal_precision"`

	// Seed drives every random draw of a run. Zero derives a seed from the
	// clock; fixed seeds reproduce runs exactly.
	Seed int64 `json:"seed"`

	// AdoptionRate is the growth constant of the exponential adoption curve.
	AdoptionRate float64 `json:"adoption_rate"`

	Valuation ValuationModel `json:"valuation"`
}

// WithDefaults returns a copy with unset optional fields filled in.
func (o SimulationOptions) WithDefaults() SimulationOptions {
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if o.DecimalPrecision <= 0 {
		o.DecimalPrecision = DefaultPrecision
	}
	if o.IntervalType == "" {
		o.IntervalType = IntervalDaily
	}
	if o.AdoptionRate <= 0 {
		o.AdoptionRate = DefaultAdoptionRate
	}
	return o
}

// Validate checks every option against its domain.
func (o *SimulationOptions) Validate() error {
	if o.TotalUsers <= 0 {
		return errors.NewOptionsError("total_users", "must be positive")
	}
	if o.Duration <= 0 {
		return errors.NewOptionsError("duration", "must be positive")
	}
	if o.MarketVolatility.Sign() < 0 || o.MarketVolatility.GreaterThan(one) {
		return errors.NewOptionsError("market_volatility", "must be between 0.0 and 1.0")
	}
	switch o.IntervalType {
	case IntervalDaily, IntervalWeekly:
	default:
		return errors.NewOptionsError("interval_type", "must be daily or weekly")
	}
	if o.DecimalPrecision < 0 {
		return errors.NewOptionsError("decimal_precision", "must not be negative")
	}
	if err := o.TransactionFee.validate(); err != nil {
		return err
	}
	switch o.Valuation.Kind {
	case ValuationMarketCap, ValuationLinear:
	case ValuationExponential:
		if o.Valuation.Factor <= 0 {
			return errors.NewOptionsError("valuation", "exponential factor must be positive")
		}
	default:
		return errors.NewOptionsError("valuation", "unknown valuation kind")
	}
	return nil
}
