package betting

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// nagashiPools holds the resolved roles of a nagashi selection. Opponents
// never contain an axis horse.
type nagashiPools struct {
	axes      []int
	opponents []int
}

// resolveNagashi maps a selection onto axis horses and an opponent pool.
// ok is false when the axis role is unfilled or holds more horses than it takes.
func resolveNagashi(sel Selection) (nagashiPools, bool) {
	switch sel.NagashiType {
	case NagashiFirst, NagashiSecond, NagashiThird, NagashiMulti1:
		axis, ok := singleAxis(sel)
		if !ok {
			return nagashiPools{}, false
		}
		return nagashiPools{
			axes:      []int{axis},
			opponents: without(sel.Column(1), axis),
		}, true
	case NagashiMulti2:
		axes := sel.Column(0)
		if len(axes) != 2 {
			return nagashiPools{}, false
		}
		return nagashiPools{
			axes:      axes,
			opponents: without(sel.Column(1), axes...),
		}, true
	case NagashiFirstSecond:
		first, second := sel.Column(0), sel.Column(1)
		if len(first) != 1 || len(second) != 1 || first[0] == second[0] {
			return nagashiPools{}, false
		}
		return nagashiPools{
			axes:      []int{first[0], second[0]},
			opponents: without(sel.Column(2), first[0], second[0]),
		}, true
	default:
		return nagashiPools{}, false
	}
}

// singleAxis prefers the explicit axis and falls back to a lone horse in column 0
func singleAxis(sel Selection) (int, bool) {
	if axis, ok := sel.AxisHorse(); ok {
		return axis, true
	}
	if col := sel.Column(0); len(col) == 1 {
		return col[0], true
	}
	return 0, false
}

// orderedPairs is n·(n-1), or 0 when fewer than two opponents exist
func orderedPairs(n int) int {
	if n < 2 {
		return 0
	}
	return combin.NumPermutations(n, 2)
}

func countNagashi(sel Selection) int {
	if !sel.BetType.SupportsNagashi(sel.NagashiType) {
		return 0
	}
	pools, ok := resolveNagashi(sel)
	if !ok {
		return 0
	}
	o := len(pools.opponents)

	switch sel.BetType {
	case BetTypeBracket, BetTypeQuinella, BetTypeWide:
		return o
	case BetTypeExacta:
		if sel.NagashiType == NagashiMulti1 {
			return o * 2
		}
		return o
	case BetTypeTrio:
		if sel.NagashiType == NagashiMulti2 {
			return o
		}
		if o < 2 {
			return 0
		}
		return combin.Binomial(o, 2)
	case BetTypeTrifecta:
		switch sel.NagashiType {
		case NagashiFirstSecond:
			return o
		case NagashiMulti1:
			return orderedPairs(o) * 3
		case NagashiMulti2:
			return o * combin.NumPermutations(3, 3)
		default:
			return orderedPairs(o)
		}
	default:
		return 0
	}
}

func generateNagashi(sel Selection) []Combination {
	out := make([]Combination, 0)
	if !sel.BetType.SupportsNagashi(sel.NagashiType) {
		return out
	}
	pools, ok := resolveNagashi(sel)
	if !ok {
		return out
	}
	opp := pools.opponents

	switch sel.BetType {
	case BetTypeBracket, BetTypeQuinella, BetTypeWide:
		axis := pools.axes[0]
		for _, o := range opp {
			out = append(out, sorted(axis, o))
		}
	case BetTypeExacta:
		axis := pools.axes[0]
		for _, o := range opp {
			switch sel.NagashiType {
			case NagashiFirst:
				out = append(out, Combination{axis, o})
			case NagashiSecond:
				out = append(out, Combination{o, axis})
			case NagashiMulti1:
				out = append(out, Combination{axis, o}, Combination{o, axis})
			}
		}
	case BetTypeTrio:
		if sel.NagashiType == NagashiMulti2 {
			for _, o := range opp {
				out = append(out, sorted(pools.axes[0], pools.axes[1], o))
			}
			break
		}
		axis := pools.axes[0]
		for i := 0; i < len(opp); i++ {
			for j := i + 1; j < len(opp); j++ {
				out = append(out, sorted(axis, opp[i], opp[j]))
			}
		}
	case BetTypeTrifecta:
		out = generateTrifectaNagashi(sel.NagashiType, pools)
	}
	return out
}

func generateTrifectaNagashi(nt NagashiType, pools nagashiPools) []Combination {
	out := make([]Combination, 0)
	opp := pools.opponents

	switch nt {
	case NagashiFirstSecond:
		for _, o := range opp {
			out = append(out, Combination{pools.axes[0], pools.axes[1], o})
		}
	case NagashiMulti2:
		for _, o := range opp {
			trio := []int{pools.axes[0], pools.axes[1], o}
			for _, perm := range combin.Permutations(3, 3) {
				out = append(out, Combination{trio[perm[0]], trio[perm[1]], trio[perm[2]]})
			}
		}
	case NagashiFirst, NagashiSecond, NagashiThird, NagashiMulti1:
		positions := []int{nt.position()}
		if nt == NagashiMulti1 {
			positions = []int{0, 1, 2}
		}
		axis := pools.axes[0]
		for i := range opp {
			for j := range opp {
				if i == j {
					continue
				}
				for _, pos := range positions {
					out = append(out, placeAxis(axis, pos, opp[i], opp[j]))
				}
			}
		}
	}
	return out
}

// placeAxis puts axis at finishing slot pos and fills the other two slots with a then b
func placeAxis(axis, pos, a, b int) Combination {
	c := make(Combination, 0, 3)
	rest := []int{a, b}
	for slot := 0; slot < 3; slot++ {
		if slot == pos {
			c = append(c, axis)
			continue
		}
		c = append(c, rest[0])
		rest = rest[1:]
	}
	return c
}

func sorted(horses ...int) Combination {
	c := Combination(horses)
	sort.Ints(c)
	return c
}
