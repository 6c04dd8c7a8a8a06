package betting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
	return verr
}

func TestValidateSelectionAcceptsCompleteSelection(t *testing.T) {
	sel := Selection{
		BetType: BetTypeTrio,
		Method:  MethodBox,
		Columns: [][]int{{1, 2, 3, 4}},
	}

	assert.NoError(t, ValidateSelection(sel, 100, DefaultStakeRules()))
}

func TestValidateSelectionNagashiFirstWithoutOpponents(t *testing.T) {
	sel := Selection{
		BetType:     BetTypeExacta,
		Method:      MethodNagashi,
		NagashiType: NagashiFirst,
		Columns:     [][]int{{}, {}},
		Axis:        intPtr(3),
	}

	verr := validationError(t, ValidateSelection(sel, 100, DefaultStakeRules()))
	assert.True(t, verr.Has(ErrOpponentsRequired))
	assert.False(t, verr.Has(ErrAxisRequired))
	assert.True(t, verr.Has(ErrNoCombinations))
	assert.Equal(t, 0, CountCombinations(sel))
}

func TestValidateSelectionNagashiReasons(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selection
		expected []error
	}{
		{
			name: "multi1 without axis",
			sel: Selection{
				BetType: BetTypeTrio, Method: MethodNagashi, NagashiType: NagashiMulti1,
				Columns: [][]int{{}, {1, 2, 3}},
			},
			expected: []error{ErrAxisRequired, ErrNoCombinations},
		},
		{
			name: "multi2 with a single axis horse",
			sel: Selection{
				BetType: BetTypeTrifecta, Method: MethodNagashi, NagashiType: NagashiMulti2,
				Columns: [][]int{{1}, {2, 3}},
			},
			expected: []error{ErrAxisPairRequired, ErrNoCombinations},
		},
		{
			name: "multi2 with opponents equal to axes",
			sel: Selection{
				BetType: BetTypeTrio, Method: MethodNagashi, NagashiType: NagashiMulti2,
				Columns: [][]int{{1, 2}, {1, 2}},
			},
			expected: []error{ErrOpponentsRequired, ErrNoCombinations},
		},
		{
			name: "multi2 with three axis horses",
			sel: Selection{
				BetType: BetTypeTrio, Method: MethodNagashi, NagashiType: NagashiMulti2,
				Columns: [][]int{{1, 2, 3}, {4, 5}},
			},
			expected: []error{ErrTooManyAxes, ErrNoCombinations},
		},
		{
			name: "firstSecond with two first place horses",
			sel: Selection{
				BetType: BetTypeTrifecta, Method: MethodNagashi, NagashiType: NagashiFirstSecond,
				Columns: [][]int{{1, 2}, {3}, {4, 5}},
			},
			expected: []error{ErrTooManyAxes, ErrNoCombinations},
		},
		{
			name: "firstSecond with two second place horses",
			sel: Selection{
				BetType: BetTypeTrifecta, Method: MethodNagashi, NagashiType: NagashiFirstSecond,
				Columns: [][]int{{1}, {2, 3}, {4, 5}},
			},
			expected: []error{ErrTooManyAxes, ErrNoCombinations},
		},
		{
			name: "single axis nagashi with several column 0 horses",
			sel: Selection{
				BetType: BetTypeExacta, Method: MethodNagashi, NagashiType: NagashiFirst,
				Columns: [][]int{{1, 2}, {3, 4}},
			},
			expected: []error{ErrTooManyAxes, ErrNoCombinations},
		},
		{
			name: "firstSecond with nothing selected",
			sel: Selection{
				BetType: BetTypeTrifecta, Method: MethodNagashi, NagashiType: NagashiFirstSecond,
			},
			expected: []error{ErrFirstRequired, ErrSecondRequired, ErrThirdRequired, ErrNoCombinations},
		},
		{
			name: "missing nagashi type",
			sel: Selection{
				BetType: BetTypeTrifecta, Method: MethodNagashi,
				Columns: [][]int{{}, {1, 2}}, Axis: intPtr(3),
			},
			expected: []error{ErrNagashiTypeRequired, ErrNoCombinations},
		},
		{
			name: "nagashi type unavailable for bet type",
			sel: Selection{
				BetType: BetTypeExacta, Method: MethodNagashi, NagashiType: NagashiThird,
				Columns: [][]int{{}, {1, 2}}, Axis: intPtr(3),
			},
			expected: []error{ErrUnsupportedNagashi, ErrNoCombinations},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := validationError(t, ValidateSelection(tt.sel, 100, DefaultStakeRules()))
			assert.Equal(t, tt.expected, verr.Reasons)
		})
	}
}

func TestNagashiExtraAxesProduceNoCombinations(t *testing.T) {
	multi2 := Selection{
		BetType: BetTypeTrifecta, Method: MethodNagashi, NagashiType: NagashiMulti2,
		Columns: [][]int{{1, 2, 3}, {4, 5}},
	}
	assert.Equal(t, 0, CountCombinations(multi2))
	assert.Empty(t, GenerateCombinations(multi2))

	firstSecond := Selection{
		BetType: BetTypeTrifecta, Method: MethodNagashi, NagashiType: NagashiFirstSecond,
		Columns: [][]int{{1}, {2, 3}, {4, 5}},
	}
	assert.Equal(t, 0, CountCombinations(firstSecond))
	assert.Empty(t, GenerateCombinations(firstSecond))
}

func TestValidateSelectionReportsEveryReason(t *testing.T) {
	err := ValidateSelection(Selection{}, 150, DefaultStakeRules())

	verr := validationError(t, err)
	assert.Equal(t, []error{
		ErrBetTypeRequired,
		ErrMethodRequired,
		ErrHorsesRequired,
		ErrInvalidAmount,
		ErrNoCombinations,
	}, verr.Reasons)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Contains(t, err.Error(), "bet type is required")
}

func TestValidateSelectionNonNagashiRequiresHorses(t *testing.T) {
	sel := Selection{BetType: BetTypeQuinella, Method: MethodFormation, Columns: [][]int{{}, {}}}

	verr := validationError(t, ValidateSelection(sel, 200, DefaultStakeRules()))
	assert.Equal(t, []error{ErrHorsesRequired, ErrNoCombinations}, verr.Reasons)
}

func TestValidateSelectionIncompleteFormation(t *testing.T) {
	sel := Selection{BetType: BetTypeQuinella, Method: MethodFormation, Columns: [][]int{{1, 2}, {}}}

	verr := validationError(t, ValidateSelection(sel, 200, DefaultStakeRules()))
	assert.Equal(t, []error{ErrNoCombinations}, verr.Reasons)
}

func TestStakeRulesValidAmount(t *testing.T) {
	rules := DefaultStakeRules()

	tests := []struct {
		amount   int
		expected bool
	}{
		{amount: 100, expected: true},
		{amount: 1000, expected: true},
		{amount: 150, expected: false},
		{amount: 0, expected: false},
		{amount: -100, expected: false},
		{amount: 50, expected: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, rules.ValidAmount(tt.amount), "amount %d", tt.amount)
	}

	custom := StakeRules{MinStake: 500, StakeUnit: 500}
	assert.False(t, custom.ValidAmount(100))
	assert.True(t, custom.ValidAmount(1500))
}
