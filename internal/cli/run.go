package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tokensim/internal/engine"
	"tokensim/internal/logging"
	"tokensim/internal/models"
	"tokensim/internal/store"
	"tokensim/pkg/utils"
)

func newRunCmd(app *App) *cobra.Command {
	var (
		name         string
		symbol       string
		totalSupply  float64
		airdropPct   float64
		burnRate     float64
		initialPrice float64
		users        int
		volatility   float64
		duration     int
		interval     string
		feePercent   float64
		precision    int
		seed         int64
		adoptionRate float64
		showTicks    bool
	)

	defaults := app.Config.Simulation

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a tokenomics simulation",
		Long: `Run a simulation over the given token and market parameters and
print the final report. With --intervals the per-interval reports are
printed as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			token := models.NewToken(
				name,
				symbol,
				decimal.NewFromFloat(totalSupply),
				decimal.NewFromFloat(airdropPct),
				decimal.NewFromFloat(burnRate),
				decimal.NewFromFloat(initialPrice),
				int32(precision),
			)

			opts := models.SimulationOptions{
				TotalUsers:       users,
				MarketVolatility: decimal.NewFromFloat(volatility),
				IntervalType:     models.IntervalType(interval),
				Duration:         duration,
				DecimalPrecision: int32(precision),
				Seed:             seed,
				AdoptionRate:     adoptionRate,
			}
			if feePercent > 0 {
				opts.TransactionFee = models.PercentageFee(feePercent)
			}

			sim := engine.New(name, token, opts).WithLogger(app.Logger)

			if err := sim.Run(); err != nil {
				output.Error("Simulation failed: %v", err)
				return err
			}

			report := sim.Report()
			logging.LogRunCompleted(app.Logger, sim.ID.String(), report.DurationRun,
				report.FinalPrice.InexactFloat64(), report.TotalBurned.InexactFloat64())

			if err := printReport(output, sim, showTicks); err != nil {
				return err
			}

			saveRun(cmd.Context(), app, sim)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "Token", "token name")
	cmd.Flags().StringVarP(&symbol, "symbol", "s", "TKN", "token symbol")
	cmd.Flags().Float64VarP(&totalSupply, "total-supply", "t", 1_000_000, "total token supply")
	cmd.Flags().Float64VarP(&airdropPct, "airdrop-percentage", "a", 0, "airdrop percentage of total supply (0-100)")
	cmd.Flags().Float64VarP(&burnRate, "burn-rate", "b", 0, "percent of traded volume burned per interval (0-100)")
	cmd.Flags().Float64Var(&initialPrice, "initial-price", defaults.InitialPrice, "initial token price")
	cmd.Flags().IntVarP(&users, "users", "u", defaults.Users, "total simulated users")
	cmd.Flags().Float64VarP(&volatility, "volatility", "v", defaults.Volatility, "market volatility (0.0-1.0)")
	cmd.Flags().IntVarP(&duration, "duration", "d", defaults.Duration, "number of intervals to simulate")
	cmd.Flags().StringVar(&interval, "interval", defaults.Interval, "interval type (daily or weekly)")
	cmd.Flags().Float64Var(&feePercent, "fee", defaults.FeePercent, "transaction fee percentage (0-100)")
	cmd.Flags().IntVar(&precision, "precision", defaults.Precision, "decimal precision of reported values")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 derives one from the clock)")
	cmd.Flags().Float64Var(&adoptionRate, "adoption-rate", defaults.AdoptionRate, "growth constant of the adoption curve")
	cmd.Flags().BoolVar(&showTicks, "intervals", false, "print per-interval reports")

	return cmd
}

func printReport(output *Output, sim *engine.Simulation, showTicks bool) error {
	report := sim.Report()
	token := sim.Token()
	prec := int(sim.Options().DecimalPrecision)

	if output.IsJSON() {
		payload := struct {
			ID        string                  `json:"id"`
			Name      string                  `json:"name"`
			Seed      int64                   `json:"seed"`
			Report    *models.SimulationReport `json:"report"`
			Intervals []models.IntervalReport `json:"intervals,omitempty"`
		}{
			ID:     sim.ID.String(),
			Name:   sim.Name,
			Seed:   sim.Seed(),
			Report: report,
		}
		if showTicks {
			payload.Intervals = sim.IntervalReports()
		}
		return output.JSON(payload)
	}

	output.Bold("Simulation report: %s (%s)", token.Name, token.Symbol)
	output.Printf("  Seed:                %d\n", sim.Seed())
	output.Printf("  Intervals run:       %d\n", report.DurationRun)
	output.Printf("  Final price:         %s\n", utils.FormatAmount(report.FinalPrice.InexactFloat64(), prec))
	output.Printf("  Total volume:        %s\n", utils.FormatAmount(report.TotalVolume.InexactFloat64(), prec))
	output.Printf("  Total fees:          %s\n", utils.FormatAmount(report.TotalFeesCollected.InexactFloat64(), prec))
	output.Printf("  Total burned:        %s\n", utils.FormatAmount(report.TotalBurned.InexactFloat64(), prec))
	output.Printf("  Circulating supply:  %s\n", utils.FormatAmount(report.FinalCirculatingSupply.InexactFloat64(), prec))
	output.Printf("  Valuation:           %s\n", utils.FormatAmount(report.Valuation.InexactFloat64(), prec))
	output.Printf("  Active users:        %s of %s\n",
		utils.FormatCount(int64(countActiveSnapshots(report.FinalUsers))),
		utils.FormatCount(int64(len(report.FinalUsers))))

	if !report.Completed {
		output.Warning("Run stopped early after %d intervals", report.DurationRun)
	}

	if showTicks {
		output.Println()
		output.Bold("%-10s %14s %16s %8s %14s %14s", "interval", "price", "volume", "active", "burned", "fees")
		for _, r := range sim.IntervalReports() {
			output.Printf("%-10s %14s %16s %8d %14s %14s\n",
				r.Label,
				utils.FormatAmount(r.Price.InexactFloat64(), prec),
				utils.FormatAmount(r.VolumeTraded.InexactFloat64(), prec),
				r.ActiveUsers,
				utils.FormatAmount(r.BurnedAmount.InexactFloat64(), prec),
				utils.FormatAmount(r.FeesCollected.InexactFloat64(), prec))
		}
	}
	return nil
}

func countActiveSnapshots(users []models.UserSnapshot) int {
	n := 0
	for _, u := range users {
		if u.Active {
			n++
		}
	}
	return n
}

// saveRun journals the completed run. Journal failures are logged, never
// surfaced: the report has already been printed.
func saveRun(ctx context.Context, app *App, sim *engine.Simulation) {
	if app.Store == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	report := sim.Report()
	token := sim.Token()
	opts := sim.Options()

	reportJSON, err := json.Marshal(report)
	if err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to serialize report for journal")
		return
	}

	record := &store.RunRecord{
		ID:          sim.ID.String(),
		Name:        sim.Name,
		TokenName:   token.Name,
		TokenSymbol: token.Symbol,
		TotalSupply: token.TotalSupply.InexactFloat64(),
		FinalSupply: report.FinalCirculatingSupply.InexactFloat64(),
		TotalBurned: report.TotalBurned.InexactFloat64(),
		TotalVolume: report.TotalVolume.InexactFloat64(),
		TotalFees:   report.TotalFeesCollected.InexactFloat64(),
		FinalPrice:  report.FinalPrice.InexactFloat64(),
		Users:       opts.TotalUsers,
		Duration:    opts.Duration,
		DurationRun: report.DurationRun,
		Volatility:  opts.MarketVolatility.InexactFloat64(),
		Seed:        sim.Seed(),
		Status:      string(sim.Status()),
		ReportJSON:  string(reportJSON),
		CreatedAt:   sim.CreatedAt(),
	}

	if err := app.Store.SaveRun(ctx, record); err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to journal run")
	}
}
