package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"tokensim/internal/errors"
	"tokensim/internal/models"
)

// Aggregator accumulates the ordered sequence of interval reports and
// synthesizes the final simulation report.
type Aggregator struct {
	reports []models.IntervalReport
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends a report. Indexes must arrive strictly increasing by one,
// starting at 1; the caller guarantees ordering and Record enforces it.
func (a *Aggregator) Record(report models.IntervalReport) error {
	want := len(a.reports) + 1
	if report.Index != want {
		return fmt.Errorf("%w: got index %d, want %d", errors.ErrReportOrder, report.Index, want)
	}
	a.reports = append(a.reports, report)
	return nil
}

// Reports returns the recorded sequence.
func (a *Aggregator) Reports() []models.IntervalReport {
	return a.reports
}

// Finalize sums volume, fees, and burn across the recorded reports, reads
// final price and supply from the last report and current token state, and
// checks that burn accounting reconciles exactly:
// total supply - circulating supply == total burned.
func (a *Aggregator) Finalize(token models.Token, users []*models.User, opts models.SimulationOptions, completed bool) (*models.SimulationReport, error) {
	prec := opts.DecimalPrecision

	totalVolume := decimal.Zero
	totalFees := decimal.Zero
	totalBurned := decimal.Zero
	for _, r := range a.reports {
		totalVolume = totalVolume.Add(r.VolumeTraded)
		totalFees = totalFees.Add(r.FeesCollected)
		totalBurned = totalBurned.Add(r.BurnedAmount)
	}

	if !token.BurnedToDate().Equal(totalBurned) {
		return nil, fmt.Errorf("%w: supply delta %s, recorded burn %s",
			errors.ErrSupplyMismatch, token.BurnedToDate().String(), totalBurned.String())
	}

	finalPrice := token.InitialPrice.Round(prec)
	if n := len(a.reports); n > 0 {
		finalPrice = a.reports[n-1].Price
	}

	return &models.SimulationReport{
		FinalPrice:             finalPrice,
		TotalVolume:            totalVolume,
		TotalBurned:            totalBurned,
		TotalFeesCollected:     totalFees,
		FinalCirculatingSupply: token.CirculatingSupply,
		Valuation:              valuation(token, users, opts, finalPrice),
		FinalUsers:             models.SnapshotUsers(users, prec),
		DurationRun:            len(a.reports),
		Completed:              completed,
	}, nil
}

// valuation computes the overall token valuation per the configured model.
// The default is market capitalization at the final price.
func valuation(token models.Token, users []*models.User, opts models.SimulationOptions, finalPrice decimal.Decimal) decimal.Decimal {
	prec := opts.DecimalPrecision
	active := models.CountActive(users)

	switch opts.Valuation.Kind {
	case models.ValuationLinear:
		return decimal.NewFromInt(int64(active)).Mul(token.InitialPrice).Round(prec)
	case models.ValuationExponential:
		exp := math.Exp(float64(active) / opts.Valuation.Factor)
		if math.IsInf(exp, 0) || math.IsNaN(exp) {
			return token.InitialPrice.Round(prec)
		}
		return token.InitialPrice.Mul(decimal.NewFromFloat(exp)).Round(prec)
	default:
		return finalPrice.Mul(token.CirculatingSupply).Round(prec)
	}
}
