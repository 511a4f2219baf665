package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/c9s/autoinvest/pkg/cmd/cmdutil"
	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
	"github.com/c9s/autoinvest/pkg/exchange/retry"
	"github.com/c9s/autoinvest/pkg/style"
	"github.com/c9s/autoinvest/pkg/types"
)

func init() {
	HistoryCmd.Flags().String("plan-id", "", "filter by the plan id")
	HistoryCmd.Flags().String("target-asset", "", "filter by the target asset, like BTC")
	HistoryCmd.Flags().String("plan-type", "", "filter by the plan type: SINGLE, PORTFOLIO, INDEX or ALL")
	HistoryCmd.Flags().String("since", "", "query from the time, like 2024-01-01 or 30d")
	HistoryCmd.Flags().String("until", "", "query until the time, like 2024-02-01")
	HistoryCmd.Flags().Int("page", 0, "page number, starting from 1")
	HistoryCmd.Flags().Int("limit", 0, "page size, max 100")
	HistoryCmd.Flags().Bool("json", false, "print the result in json")
	HistoryCmd.Flags().Bool("retry", false, "retry the query on server errors")
	RootCmd.AddCommand(HistoryCmd)
}

// go run ./cmd/autoinvest history --target-asset=BTC --since=30d
var HistoryCmd = &cobra.Command{
	Use:          "history [--target-asset=BTC] [--since=30d]",
	Short:        "query the auto-invest subscription transaction history",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}

		client, err := cfg.Binance.NewClient()
		if err != nil {
			return err
		}

		if err := client.SetTimeOffsetFromServer(ctx); err != nil {
			return err
		}

		req, err := newHistoryRequest(cmd, client.NewGetAutoInvestHistoryRequest(), time.Now())
		if err != nil {
			return err
		}

		var history *binanceapi.AutoInvestHistoryList
		if useRetry, _ := cmd.Flags().GetBool("retry"); useRetry {
			history, err = retry.QueryAutoInvestHistoryUntilSuccessful(ctx, req)
		} else {
			history, err = req.Do(ctx)
		}

		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printHistoryJSON(cmd.OutOrStdout(), history)
		}

		printHistoryTable(cmd.OutOrStdout(), history, true)
		return nil
	},
}

// newHistoryRequest sets only the parameters given by the flags
func newHistoryRequest(
	cmd *cobra.Command, req *binanceapi.GetAutoInvestHistoryRequest, now time.Time,
) (*binanceapi.GetAutoInvestHistoryRequest, error) {
	flags := cmd.Flags()

	if v, _ := flags.GetString("plan-id"); v != "" {
		req.PlanId(v)
	}

	if v, _ := flags.GetString("target-asset"); v != "" {
		req.TargetAsset(v)
	}

	if v, _ := flags.GetString("plan-type"); v != "" {
		req.PlanType(binanceapi.AutoInvestPlanType(v))
	}

	if v, _ := flags.GetString("since"); v != "" {
		t, err := parseTimeFlag(v, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --since: %w", err)
		}
		req.StartTime(t)
	}

	if v, _ := flags.GetString("until"); v != "" {
		t, err := parseTimeFlag(v, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --until: %w", err)
		}
		req.EndTime(t)
	}

	if v, _ := flags.GetInt("page"); v > 0 {
		req.Page(v)
	}

	if v, _ := flags.GetInt("limit"); v > 0 {
		req.Limit(v)
	}

	return req, nil
}

// parseTimeFlag accepts a date (2006-01-02) or a duration before now (30d, 12h)
func parseTimeFlag(s string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}

	d, err := types.ParseDuration(s)
	if err != nil {
		return time.Time{}, err
	}

	return now.Add(-d), nil
}

func printHistoryJSON(out io.Writer, history *binanceapi.AutoInvestHistoryList) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(history)
}

func printHistoryTable(out io.Writer, history *binanceapi.AutoInvestHistoryList, colored bool) {
	t := style.NewTableWriter(out, colored,
		"ID", "Time", "Plan", "Status", "Source", "Target", "Price", "Fee", "Failed Type")

	for _, item := range history.Rows {
		t.AppendRow([]interface{}{
			item.Id,
			item.TransactionDateTime.Time().Format(time.DateTime),
			fmt.Sprintf("%s #%d", item.PlanType, item.PlanId),
			style.StatusString(string(item.TransactionStatus), colored),
			fmt.Sprintf("%s %s", item.SourceAssetAmount.String(), item.SourceAsset),
			fmt.Sprintf("%s %s", item.TargetAssetAmount.String(), item.TargetAsset),
			item.ExecutionPrice.String(),
			fmt.Sprintf("%s %s", item.TransactionFee.String(), item.TransactionFeeUnit),
			item.FailedType,
		})
	}

	t.AppendFooter([]interface{}{"", "", "", "", "", "", "", "Total", history.Total})
	t.Render()
}
