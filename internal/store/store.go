// Package store provides data persistence interfaces and implementations.
//
// The store is a CLI-owned run journal: completed simulation reports are
// saved so past runs can be listed and compared. The engine itself never
// touches the store.
package store

import (
	"context"
	"time"
)

// RunRecord is one journaled simulation run.
type RunRecord struct {
	ID          string
	Name        string
	TokenName   string
	TokenSymbol string

	TotalSupply float64
	FinalSupply float64
	TotalBurned float64
	TotalVolume float64
	TotalFees   float64
	FinalPrice  float64

	Users       int
	Duration    int
	DurationRun int
	Volatility  float64
	Seed        int64
	Status      string

	// ReportJSON is the full serialized simulation report.
	ReportJSON string

	CreatedAt time.Time
}

// RunFilter narrows ListRuns results.
type RunFilter struct {
	TokenSymbol string
	Status      string
	Limit       int
}

// RunStore defines the interface for run-journal persistence.
type RunStore interface {
	SaveRun(ctx context.Context, record *RunRecord) error
	ListRuns(ctx context.Context, filter RunFilter) ([]RunRecord, error)
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	Close() error
}
