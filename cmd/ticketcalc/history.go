package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-ev/internal/models"
	"github.com/yourusername/keiba-ev/internal/repository"
)

type historyResult struct {
	Purchases []*models.PurchaseRecord  `json:"purchases"`
	Summary   repository.HistorySummary `json:"summary"`
}

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded purchases and their return rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, closeHistory, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			if limit <= 0 {
				limit = cfg.History.Limit
			}
			records, err := history.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list purchases: %w", err)
			}

			result := historyResult{Purchases: records, Summary: repository.SummarizeHistory(records)}
			if jsonMode {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printHistory(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of purchases to show (default from config)")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Print JSON output")

	cmd.AddCommand(newSettleCmd())
	cmd.AddCommand(newDeleteCmd())
	return cmd
}

func newSettleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <purchase-id> <payout>",
		Short: "Record the payout of a purchase once the race is run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", models.ErrInvalidID, args[0])
			}
			payout, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid payout %q: %w", args[1], err)
			}

			history, closeHistory, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			record, err := history.SetPayout(cmd.Context(), id, payout)
			if err != nil {
				return fmt.Errorf("failed to settle purchase %s: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Settled %s (%s): payout %d yen, profit %d yen\n",
				record.ID, record.RaceName, *record.Payout, record.ProfitLoss())
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <purchase-id>",
		Short: "Remove a purchase from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", models.ErrInvalidID, args[0])
			}

			history, closeHistory, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			if err := history.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete purchase %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func printHistory(w io.Writer, result historyResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRACE\tPURCHASED\tTICKETS\tSTAKE\tPAYOUT")
	for _, record := range result.Purchases {
		payout := "-"
		if record.IsSettled() {
			payout = strconv.Itoa(*record.Payout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			record.ID, record.RaceName, record.PurchasedAt.Local().Format(time.DateTime),
			len(record.Tickets), record.TotalAmount, payout)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := result.Summary
	fmt.Fprintf(w, "\n%d purchases (%d settled), %d tickets, %d combinations\n",
		s.Purchases, s.Settled, s.Tickets, s.Combinations)
	fmt.Fprintf(w, "Spent %d yen, returned %d yen, profit %d yen\n", s.TotalSpent, s.TotalPayout, s.ProfitLoss)
	fmt.Fprintf(w, "Return rate %s%%, hit rate %s%%\n", s.ReturnRate.StringFixed(1), s.HitRate.StringFixed(1))
	return nil
}
