package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-ev/internal/betting"
)

// selectionFlags holds the flags describing one selection
type selectionFlags struct {
	betType string
	method  string
	nagashi string
	col1    []int
	col2    []int
	col3    []int
	axis    int
	amount  int
	json    bool
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.betType, "bet-type", "b", "", "Bet type: "+joinBetTypes())
	flags.StringVarP(&f.method, "method", "m", "", "Purchase method: single, formation, box, nagashi")
	flags.StringVarP(&f.nagashi, "nagashi", "n", "", "Nagashi type: multi1, multi2, first, second, third, firstSecond")
	flags.IntSliceVar(&f.col1, "col1", nil, "Horses in column 1 (box pool, multi2 axes, firstSecond 1st place)")
	flags.IntSliceVar(&f.col2, "col2", nil, "Horses in column 2 (nagashi opponents, firstSecond 2nd place)")
	flags.IntSliceVar(&f.col3, "col3", nil, "Horses in column 3 (firstSecond 3rd place pool)")
	flags.IntVarP(&f.axis, "axis", "a", 0, "Axis horse for single-axis nagashi")
	flags.IntVar(&f.amount, "amount", betting.DefaultMinStake, "Stake per combination in yen")
	flags.BoolVar(&f.json, "json", false, "Print JSON output")
}

// selection converts the flags into an engine selection
func (f *selectionFlags) selection() betting.Selection {
	sel := betting.Selection{
		BetType:     betting.BetType(strings.ToLower(f.betType)),
		Method:      betting.PurchaseMethod(strings.ToLower(f.method)),
		NagashiType: betting.NagashiType(f.nagashi),
		Columns:     [][]int{f.col1, f.col2, f.col3},
	}
	if sel.BetType.Valid() {
		sel.Columns = sel.Columns[:sel.BetType.Columns()]
	}
	if f.axis > 0 {
		axis := f.axis
		sel.Axis = &axis
	}
	return sel
}

func joinBetTypes() string {
	names := make([]string, 0, len(betting.AllBetTypes()))
	for _, bt := range betting.AllBetTypes() {
		names = append(names, string(bt))
	}
	return strings.Join(names, ", ")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatCombinations(combos []betting.Combination) []string {
	out := make([]string, len(combos))
	for i, c := range combos {
		out[i] = c.String()
	}
	return out
}

func printReasons(w io.Writer, verr *betting.ValidationError) {
	for _, reason := range verr.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
}
