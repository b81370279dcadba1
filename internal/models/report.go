package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// IntervalReport captures the outcome of a single simulation tick. Reports
// are created once per tick, immutable afterwards, and ordered by Index.
type IntervalReport struct {
	Index             int
	Label             string
	Price             decimal.Decimal
	VolumeTraded      decimal.Decimal
	ActiveUsers       int
	NewUsers          int
	CirculatingSupply decimal.Decimal
	BurnedAmount      decimal.Decimal
	FeesCollected     decimal.Decimal
}

// intervalReportWire is the external JSON representation. Decimal fields are
// rendered as floating-point numbers; values are already rounded at the
// run's decimal precision when the report is assembled.
type intervalReportWire struct {
	Interval          int     `json:"interval"`
	Label             string  `json:"label"`
	Price             float64 `json:"price"`
	VolumeTraded      float64 `json:"volume_traded"`
	ActiveUsers       int     `json:"active_users"`
	NewUsers          int     `json:"new_users"`
	CirculatingSupply float64 `json:"circulating_supply"`
	BurnedAmount      float64 `json:"burned_amount"`
	FeesCollected     float64 `json:"fees_collected"`
}

// MarshalJSON implements json.Marshaler.
func (r IntervalReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(intervalReportWire{
		Interval:          r.Index,
		Label:             r.Label,
		Price:             r.Price.InexactFloat64(),
		VolumeTraded:      r.VolumeTraded.InexactFloat64(),
		ActiveUsers:       r.ActiveUsers,
		NewUsers:          r.NewUsers,
		CirculatingSupply: r.CirculatingSupply.InexactFloat64(),
		BurnedAmount:      r.BurnedAmount.InexactFloat64(),
		FeesCollected:     r.FeesCollected.InexactFloat64(),
	})
}

// UserSnapshot is the final state of one user in the simulation report.
type UserSnapshot struct {
	ID       string  `json:"id"`
	Balance  float64 `json:"balance"`
	Active   bool    `json:"active"`
	JoinedAt int     `json:"joined_at"`
}

// SimulationReport summarizes a completed (or early-stopped) run.
type SimulationReport struct {
	FinalPrice             decimal.Decimal
	TotalVolume            decimal.Decimal
	TotalBurned            decimal.Decimal
	TotalFeesCollected     decimal.Decimal
	FinalCirculatingSupply decimal.Decimal
	Valuation              decimal.Decimal
	FinalUsers             []UserSnapshot
	DurationRun            int // intervals actually completed
	Completed              bool
}

type simulationReportWire struct {
	FinalPrice             float64        `json:"final_price"`
	TotalVolume            float64        `json:"total_volume"`
	TotalBurned            float64        `json:"total_burned"`
	TotalFeesCollected     float64        `json:"total_fees_collected"`
	FinalCirculatingSupply float64        `json:"final_circulating_supply"`
	Valuation              float64        `json:"valuation"`
	FinalUsers             []UserSnapshot `json:"final_users"`
	DurationRun            int            `json:"duration_run"`
	Completed              bool           `json:"completed"`
}

// MarshalJSON implements json.Marshaler.
func (r SimulationReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(simulationReportWire{
		FinalPrice:             r.FinalPrice.InexactFloat64(),
		TotalVolume:            r.TotalVolume.InexactFloat64(),
		TotalBurned:            r.TotalBurned.InexactFloat64(),
		TotalFeesCollected:     r.TotalFeesCollected.InexactFloat64(),
		FinalCirculatingSupply: r.FinalCirculatingSupply.InexactFloat64(),
		Valuation:              r.Valuation.InexactFloat64(),
		FinalUsers:             r.FinalUsers,
		DurationRun:            r.DurationRun,
		Completed:              r.Completed,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *SimulationReport) UnmarshalJSON(data []byte) error {
	var w simulationReportWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.FinalPrice = decimal.NewFromFloat(w.FinalPrice)
	r.TotalVolume = decimal.NewFromFloat(w.TotalVolume)
	r.TotalBurned = decimal.NewFromFloat(w.TotalBurned)
	r.TotalFeesCollected = decimal.NewFromFloat(w.TotalFeesCollected)
	r.FinalCirculatingSupply = decimal.NewFromFloat(w.FinalCirculatingSupply)
	r.Valuation = decimal.NewFromFloat(w.Valuation)
	r.FinalUsers = w.FinalUsers
	r.DurationRun = w.DurationRun
	r.Completed = w.Completed
	return nil
}

// SnapshotUsers copies the current user state into report form, with
// balances rounded at the given precision.
func SnapshotUsers(users []*User, precision int32) []UserSnapshot {
	out := make([]UserSnapshot, 0, len(users))
	for _, u := range users {
		out = append(out, UserSnapshot{
			ID:       u.ID.String(),
			Balance:  u.Balance.Round(precision).InexactFloat64(),
			Active:   u.Active,
			JoinedAt: u.JoinedAt,
		})
	}
	return out
}
