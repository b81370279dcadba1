package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"tokensim/internal/errors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string, created time.Time) *RunRecord {
	return &RunRecord{
		ID:          id,
		Name:        "test run",
		TokenName:   "Test Token",
		TokenSymbol: "TST",
		TotalSupply: 1_000_000,
		FinalSupply: 995_000,
		TotalBurned: 5_000,
		TotalVolume: 500_000,
		TotalFees:   1_250,
		FinalPrice:  1.234,
		Users:       100,
		Duration:    10,
		DurationRun: 10,
		Volatility:  0.5,
		Seed:        42,
		Status:      "completed",
		ReportJSON:  `{"final_price":1.234}`,
		CreatedAt:   created,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := testRecord("run-1", time.Now().UTC().Truncate(time.Second))
	if err := store.SaveRun(ctx, want); err != nil {
		t.Fatalf("SaveRun error = %v", err)
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun error = %v", err)
	}
	if got.ID != want.ID || got.TokenSymbol != want.TokenSymbol || got.Status != want.Status {
		t.Errorf("GetRun = %+v, want %+v", got, want)
	}
	if got.TotalBurned != want.TotalBurned || got.FinalPrice != want.FinalPrice || got.Seed != want.Seed {
		t.Errorf("numeric fields differ: got %+v", got)
	}
	if got.ReportJSON != want.ReportJSON {
		t.Errorf("ReportJSON = %q, want %q", got.ReportJSON, want.ReportJSON)
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")
	if !stderrors.Is(err, errors.ErrRunNotFound) {
		t.Errorf("GetRun = %v, want ErrRunNotFound", err)
	}
}

func TestListRunsOrderingAndFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	for i := 0; i < 5; i++ {
		r := testRecord(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))
		if i%2 == 1 {
			r.TokenSymbol = "ALT"
			r.Status = "failed"
		}
		if err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun error = %v", err)
		}
	}

	all, err := store.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns error = %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("ListRuns = %d records, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("records not ordered most recent first at %d", i)
		}
	}

	alt, err := store.ListRuns(ctx, RunFilter{TokenSymbol: "ALT"})
	if err != nil {
		t.Fatalf("ListRuns(symbol) error = %v", err)
	}
	if len(alt) != 2 {
		t.Errorf("symbol filter = %d records, want 2", len(alt))
	}

	failed, err := store.ListRuns(ctx, RunFilter{TokenSymbol: "ALT", Status: "failed"})
	if err != nil {
		t.Fatalf("ListRuns(symbol, status) error = %v", err)
	}
	if len(failed) != 2 {
		t.Errorf("combined filter = %d records, want 2", len(failed))
	}

	limited, err := store.ListRuns(ctx, RunFilter{Limit: 3})
	if err != nil {
		t.Fatalf("ListRuns(limit) error = %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("limit = %d records, want 3", len(limited))
	}
}

func TestSaveRunDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := testRecord("dup", time.Now().UTC())
	if err := store.SaveRun(ctx, r); err != nil {
		t.Fatalf("first SaveRun error = %v", err)
	}
	err := store.SaveRun(ctx, r)
	if !stderrors.Is(err, errors.ErrDatabaseError) {
		t.Errorf("duplicate SaveRun = %v, want ErrDatabaseError", err)
	}
}
