package engine

import (
	stderrors "errors"
	"testing"

	"github.com/shopspring/decimal"

	"tokensim/internal/errors"
	"tokensim/internal/models"
)

func intervalReport(index int) models.IntervalReport {
	return models.IntervalReport{
		Index:             index,
		Label:             models.IntervalDaily.Label(index),
		Price:             decimal.NewFromFloat(1.5),
		VolumeTraded:      decimal.NewFromInt(100),
		ActiveUsers:       10,
		CirculatingSupply: decimal.NewFromInt(1000),
		BurnedAmount:      decimal.NewFromInt(1),
		FeesCollected:     decimal.NewFromFloat(0.5),
	}
}

func TestAggregatorRecordEnforcesOrder(t *testing.T) {
	agg := NewAggregator()

	if err := agg.Record(intervalReport(1)); err != nil {
		t.Fatalf("Record(1) error = %v", err)
	}
	if err := agg.Record(intervalReport(2)); err != nil {
		t.Fatalf("Record(2) error = %v", err)
	}

	err := agg.Record(intervalReport(2))
	if !stderrors.Is(err, errors.ErrReportOrder) {
		t.Errorf("duplicate index accepted: %v", err)
	}
	err = agg.Record(intervalReport(5))
	if !stderrors.Is(err, errors.ErrReportOrder) {
		t.Errorf("skipped index accepted: %v", err)
	}
	if len(agg.Reports()) != 2 {
		t.Errorf("rejected reports were recorded: %d", len(agg.Reports()))
	}
}

func TestAggregatorRecordStartsAtOne(t *testing.T) {
	agg := NewAggregator()
	if err := agg.Record(intervalReport(0)); !stderrors.Is(err, errors.ErrReportOrder) {
		t.Errorf("index 0 accepted: %v", err)
	}
}

func TestFinalizeSumsAndReconciles(t *testing.T) {
	agg := NewAggregator()
	for i := 1; i <= 3; i++ {
		if err := agg.Record(intervalReport(i)); err != nil {
			t.Fatalf("Record(%d) error = %v", i, err)
		}
	}

	token := testToken()
	// Match the recorded burn: 3 intervals x 1 token.
	if _, err := token.Burn(decimal.NewFromInt(3)); err != nil {
		t.Fatalf("Burn error = %v", err)
	}

	opts := testOptions(1).WithDefaults()
	users := models.GenerateUsers(5, decimal.NewFromInt(10), true)

	report, err := agg.Finalize(token, users, opts, true)
	if err != nil {
		t.Fatalf("Finalize error = %v", err)
	}
	if !report.TotalVolume.Equal(decimal.NewFromInt(300)) {
		t.Errorf("TotalVolume = %s, want 300", report.TotalVolume)
	}
	if !report.TotalFeesCollected.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("TotalFeesCollected = %s, want 1.5", report.TotalFeesCollected)
	}
	if !report.TotalBurned.Equal(decimal.NewFromInt(3)) {
		t.Errorf("TotalBurned = %s, want 3", report.TotalBurned)
	}
	if report.DurationRun != 3 {
		t.Errorf("DurationRun = %d, want 3", report.DurationRun)
	}
	if !report.FinalPrice.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("FinalPrice = %s, want last report price", report.FinalPrice)
	}
}

func TestFinalizeDetectsSupplyMismatch(t *testing.T) {
	agg := NewAggregator()
	if err := agg.Record(intervalReport(1)); err != nil {
		t.Fatalf("Record error = %v", err)
	}

	// Token claims nothing burned while the report says 1 was.
	token := testToken()
	opts := testOptions(1).WithDefaults()

	_, err := agg.Finalize(token, nil, opts, true)
	if !stderrors.Is(err, errors.ErrSupplyMismatch) {
		t.Errorf("Finalize = %v, want ErrSupplyMismatch", err)
	}
}

func TestFinalizeEmptyRun(t *testing.T) {
	agg := NewAggregator()
	token := testToken()
	opts := testOptions(1).WithDefaults()

	report, err := agg.Finalize(token, nil, opts, false)
	if err != nil {
		t.Fatalf("Finalize error = %v", err)
	}
	if report.DurationRun != 0 {
		t.Errorf("DurationRun = %d, want 0", report.DurationRun)
	}
	if !report.FinalPrice.Equal(token.InitialPrice.Round(4)) {
		t.Errorf("FinalPrice = %s, want initial price", report.FinalPrice)
	}
	if report.Completed {
		t.Error("empty run marked completed")
	}
}

func TestValuationModels(t *testing.T) {
	token := testToken()
	users := models.GenerateUsers(50, decimal.Zero, true)
	finalPrice := decimal.NewFromFloat(2.0)

	opts := testOptions(1).WithDefaults()
	opts.Valuation = models.ValuationModel{Kind: models.ValuationLinear}
	got := valuation(token, users, opts, finalPrice)
	want := decimal.NewFromInt(50).Mul(token.InitialPrice).Round(4)
	if !got.Equal(want) {
		t.Errorf("linear valuation = %s, want %s", got, want)
	}

	opts.Valuation = models.ValuationModel{Kind: models.ValuationExponential, Factor: 1000}
	got = valuation(token, users, opts, finalPrice)
	if !got.GreaterThan(token.InitialPrice.Round(4)) {
		t.Errorf("exponential valuation %s not above initial price", got)
	}

	// A tiny factor overflows the exponential; fall back to initial price.
	opts.Valuation = models.ValuationModel{Kind: models.ValuationExponential, Factor: 1e-308}
	got = valuation(token, users, opts, finalPrice)
	if !got.Equal(token.InitialPrice.Round(4)) {
		t.Errorf("overflowed exponential valuation = %s, want initial price", got)
	}
}
