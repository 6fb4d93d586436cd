package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"talentpay/internal/di"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const computeTimeout = 30 * time.Second

var withGroceries bool

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Print the payout report of one period as JSON",
	Example: `  talentpay compute --period 3f2c...
  talentpay compute --period 3f2c... --groceries`,
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringVarP(&flags.PeriodID, "period", "p", "", "period id")
	computeCmd.Flags().BoolVar(&withGroceries, "groceries", false, "also print the ledger detail")
	_ = computeCmd.MarkFlagRequired("period")
}

type computeOutput struct {
	Report    any `json:"report"`
	Groceries any `json:"groceries,omitempty"`
}

func runCompute(cmd *cobra.Command, _ []string) error {
	if flags.PeriodID == "" {
		return errors.New("--period is required")
	}

	cli, cleanup, err := di.InitCli(&flags)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cli.Scheduler.Restore(); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), computeTimeout)
	defer cancel()

	report, err := cli.Payouts.Report(ctx, flags.PeriodID)
	if err != nil {
		return err
	}
	out := computeOutput{Report: report}

	if withGroceries {
		groceries, err := cli.Payouts.Groceries(ctx, flags.PeriodID)
		if err != nil {
			return err
		}
		out.Groceries = groceries
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
