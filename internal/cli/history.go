package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"tokensim/internal/models"
	"tokensim/internal/store"
	"tokensim/pkg/utils"
)

func addHistoryCommands(rootCmd *cobra.Command, app *App) {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect journaled simulation runs",
	}

	historyCmd.AddCommand(newHistoryListCmd(app))
	historyCmd.AddCommand(newHistoryShowCmd(app))
	rootCmd.AddCommand(historyCmd)
}

func newHistoryListCmd(app *App) *cobra.Command {
	var (
		symbol string
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Warning("Run journal is disabled")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			runs, err := app.Store.ListRuns(ctx, store.RunFilter{
				TokenSymbol: symbol,
				Status:      status,
				Limit:       limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(runs)
			}

			if len(runs) == 0 {
				output.Println("No journaled runs.")
				return nil
			}

			output.Bold("%-36s %-8s %-10s %12s %14s %-10s %s", "id", "symbol", "status", "price", "burned", "seed", "created")
			for _, r := range runs {
				output.Printf("%-36s %-8s %-10s %12s %14s %-10d %s\n",
					r.ID,
					r.TokenSymbol,
					r.Status,
					utils.FormatAmount(r.FinalPrice, 4),
					utils.FormatAmount(r.TotalBurned, 4),
					r.Seed,
					r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "filter by token symbol")
	cmd.Flags().StringVar(&status, "status", "", "filter by run status")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of runs to list")

	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the full report of a journaled run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Warning("Run journal is disabled")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			record, err := app.Store.GetRun(ctx, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				// Pass the stored report through untouched.
				var report json.RawMessage
				if record.ReportJSON != "" {
					report = json.RawMessage(record.ReportJSON)
				}
				return output.JSON(struct {
					Run    *store.RunRecord `json:"run"`
					Report json.RawMessage  `json:"report,omitempty"`
				}{Run: record, Report: report})
			}

			output.Bold("Run %s", record.ID)
			output.Printf("  Name:                %s\n", record.Name)
			output.Printf("  Token:               %s (%s)\n", record.TokenName, record.TokenSymbol)
			output.Printf("  Status:              %s\n", record.Status)
			output.Printf("  Created:             %s\n", record.CreatedAt.Format(time.RFC3339))
			output.Printf("  Seed:                %d\n", record.Seed)
			output.Printf("  Users:               %s\n", utils.FormatCount(int64(record.Users)))
			output.Printf("  Intervals:           %d of %d\n", record.DurationRun, record.Duration)
			output.Printf("  Volatility:          %s\n", utils.FormatAmount(record.Volatility, 2))
			output.Printf("  Total supply:        %s\n", utils.FormatAmount(record.TotalSupply, 4))
			output.Printf("  Circulating supply:  %s\n", utils.FormatAmount(record.FinalSupply, 4))
			output.Printf("  Final price:         %s\n", utils.FormatAmount(record.FinalPrice, 4))
			output.Printf("  Total volume:        %s\n", utils.FormatAmount(record.TotalVolume, 4))
			output.Printf("  Total fees:          %s\n", utils.FormatAmount(record.TotalFees, 4))
			output.Printf("  Total burned:        %s\n", utils.FormatAmount(record.TotalBurned, 4))

			if record.ReportJSON != "" {
				var report models.SimulationReport
				if err := json.Unmarshal([]byte(record.ReportJSON), &report); err == nil {
					output.Printf("  Valuation:           %s\n", utils.FormatAmount(report.Valuation.InexactFloat64(), 4))
				}
			}
			return nil
		},
	}

	return cmd
}
