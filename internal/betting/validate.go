package betting

const (
	// DefaultMinStake is the smallest stake accepted per combination
	DefaultMinStake = 100
	// DefaultStakeUnit is the increment stakes must be a multiple of
	DefaultStakeUnit = 100
)

// StakeRules constrains the per-combination stake amount
type StakeRules struct {
	MinStake  int
	StakeUnit int
}

// DefaultStakeRules returns the standard 100-yen stake rules
func DefaultStakeRules() StakeRules {
	return StakeRules{MinStake: DefaultMinStake, StakeUnit: DefaultStakeUnit}
}

// ValidAmount reports whether amount is positive, at least MinStake and a multiple of StakeUnit
func (r StakeRules) ValidAmount(amount int) bool {
	unit := r.StakeUnit
	if unit <= 0 {
		unit = DefaultStakeUnit
	}
	return amount > 0 && amount >= r.MinStake && amount%unit == 0
}

// ValidateSelection checks every precondition for turning the selection into
// a ticket. It returns nil when the ticket may be added, or a
// *ValidationError listing each failed condition.
func ValidateSelection(sel Selection, amount int, rules StakeRules) error {
	var reasons []error

	if !sel.BetType.Valid() {
		reasons = append(reasons, ErrBetTypeRequired)
	}
	if !sel.Method.Valid() {
		reasons = append(reasons, ErrMethodRequired)
	}
	reasons = append(reasons, horseReasons(sel)...)

	if !rules.ValidAmount(amount) {
		reasons = append(reasons, ErrInvalidAmount)
	}
	if CountCombinations(sel) == 0 {
		reasons = append(reasons, ErrNoCombinations)
	}

	if len(reasons) == 0 {
		return nil
	}
	return &ValidationError{Reasons: reasons}
}

// horseReasons reports missing horse selections for the selection's method
func horseReasons(sel Selection) []error {
	if sel.Method != MethodNagashi || sel.BetType.Columns() == 1 {
		for i := range sel.Columns {
			if len(sel.Column(i)) > 0 {
				return nil
			}
		}
		return []error{ErrHorsesRequired}
	}

	if !sel.NagashiType.Valid() {
		return []error{ErrNagashiTypeRequired}
	}
	if sel.BetType.Valid() && !sel.BetType.SupportsNagashi(sel.NagashiType) {
		return []error{ErrUnsupportedNagashi}
	}

	var reasons []error
	switch sel.NagashiType {
	case NagashiFirst, NagashiSecond, NagashiThird, NagashiMulti1:
		axis, ok := singleAxis(sel)
		switch {
		case ok:
		case len(sel.Column(0)) > 1:
			reasons = append(reasons, ErrTooManyAxes)
		default:
			reasons = append(reasons, ErrAxisRequired)
		}
		if len(without(sel.Column(1), axis)) == 0 {
			reasons = append(reasons, ErrOpponentsRequired)
		}
	case NagashiMulti2:
		axes := sel.Column(0)
		switch {
		case len(axes) < 2:
			reasons = append(reasons, ErrAxisPairRequired)
		case len(axes) > 2:
			reasons = append(reasons, ErrTooManyAxes)
		}
		if len(without(sel.Column(1), axes...)) == 0 {
			reasons = append(reasons, ErrOpponentsRequired)
		}
	case NagashiFirstSecond:
		first, second := sel.Column(0), sel.Column(1)
		if len(first) == 0 {
			reasons = append(reasons, ErrFirstRequired)
		}
		if len(second) == 0 {
			reasons = append(reasons, ErrSecondRequired)
		}
		if len(first) > 1 || len(second) > 1 {
			reasons = append(reasons, ErrTooManyAxes)
		}
		if len(sel.Column(2)) == 0 {
			reasons = append(reasons, ErrThirdRequired)
		}
	}
	return reasons
}
