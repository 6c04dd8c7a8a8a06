package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-ev/internal/betting"
	"github.com/yourusername/keiba-ev/internal/slip"
)

var errInvalidSelection = errors.New("selection is not purchasable")

type countResult struct {
	Type        string `json:"type"`
	Count       int    `json:"count"`
	Amount      int    `json:"amount"`
	TotalAmount int    `json:"total_amount"`
}

type generateResult struct {
	Type         string                `json:"type"`
	Count        int                   `json:"count"`
	Combinations []betting.Combination `json:"combinations"`
}

type validateResult struct {
	Valid   bool     `json:"valid"`
	Type    string   `json:"type"`
	Count   int      `json:"count"`
	Reasons []string `json:"reasons,omitempty"`
}

func newCountCmd() *cobra.Command {
	flags := &selectionFlags{}
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the combinations a selection covers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := flags.selection()
			n := engine.Count(sel)
			result := countResult{
				Type:        sel.TypeKey(),
				Count:       n,
				Amount:      flags.amount,
				TotalAmount: n * flags.amount,
			}

			if flags.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d combinations, %d yen\n", result.Type, result.Count, result.TotalAmount)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newGenerateCmd() *cobra.Command {
	flags := &selectionFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "List every combination a selection covers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := flags.selection()
			combos := engine.Generate(sel)

			if flags.json {
				return writeJSON(cmd.OutOrStdout(), generateResult{
					Type:         sel.TypeKey(),
					Count:        len(combos),
					Combinations: combos,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d combinations\n", sel.TypeKey(), len(combos))
			for _, line := range formatCombinations(combos) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newValidateCmd() *cobra.Command {
	flags := &selectionFlags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check whether a selection can be added to a slip",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := flags.selection()
			err := betting.ValidateSelection(sel, flags.amount, cfg.StakeRules())

			var verr *betting.ValidationError
			if err != nil && !errors.As(err, &verr) {
				return err
			}

			result := validateResult{Valid: err == nil, Type: sel.TypeKey(), Count: engine.Count(sel)}
			if verr != nil {
				for _, reason := range verr.Reasons {
					result.Reasons = append(result.Reasons, reason.Error())
				}
			}

			out := cmd.OutOrStdout()
			if flags.json {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else if result.Valid {
				fmt.Fprintf(out, "OK: %s, %d combinations, %d yen\n", result.Type, result.Count, result.Count*flags.amount)
			} else {
				fmt.Fprintf(out, "Invalid %s selection:\n", result.Type)
				printReasons(out, verr)
			}

			if !result.Valid {
				return errInvalidSelection
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPurchaseCmd() *cobra.Command {
	flags := &selectionFlags{}
	var raceName string

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Buy a selection and record it in the purchase history",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, closeHistory, err := openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			s := slip.NewSlip(engine, history, cfg.StakeRules(), cfg.Betting.MaxHorses, appLog)
			if _, err := s.Add(flags.selection(), flags.amount); err != nil {
				var verr *betting.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprintln(cmd.OutOrStdout(), "Selection rejected:")
					printReasons(cmd.OutOrStdout(), verr)
					return errInvalidSelection
				}
				return err
			}

			record, err := s.Purchase(cmd.Context(), raceName)
			if err != nil {
				return err
			}

			if flags.json {
				return writeJSON(cmd.OutOrStdout(), record)
			}
			ticket := record.Tickets[0]
			fmt.Fprintf(cmd.OutOrStdout(), "Purchased %s for %s: %d combinations, %d yen (id %s)\n",
				ticket.Type, record.RaceName, ticket.Points(), record.TotalAmount, record.ID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&raceName, "race", "r", "", "Race label stored with the purchase")
	_ = cmd.MarkFlagRequired("race")
	return cmd
}
