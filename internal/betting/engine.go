package betting

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// CountCombinations returns the number of valid combinations covered by the
// selection. Under-specified selections count as 0; that is a normal,
// displayable state rather than an error.
func CountCombinations(sel Selection) int {
	if !sel.BetType.Valid() || !sel.Method.Valid() {
		return 0
	}
	if sel.BetType.Columns() == 1 {
		return len(sel.Column(0))
	}

	switch sel.Method {
	case MethodSingle, MethodFormation:
		count := 0
		walkProduct(sel, func(Combination) { count++ })
		return count
	case MethodBox:
		return countBox(sel.BetType, len(sel.Column(0)))
	case MethodNagashi:
		return countNagashi(sel)
	default:
		return 0
	}
}

// GenerateCombinations enumerates every combination covered by the selection.
// The result always has CountCombinations(sel) elements. Order is
// deterministic; for unordered bet types each combination is sorted
// ascending, for ordered bet types index i is finishing position i+1.
func GenerateCombinations(sel Selection) []Combination {
	if !sel.BetType.Valid() || !sel.Method.Valid() {
		return []Combination{}
	}
	if sel.BetType.Columns() == 1 {
		return singletons(sel.Column(0))
	}

	switch sel.Method {
	case MethodSingle, MethodFormation:
		out := make([]Combination, 0)
		walkProduct(sel, func(c Combination) { out = append(out, c) })
		return out
	case MethodBox:
		return generateBox(sel.BetType, sel.Column(0))
	case MethodNagashi:
		return generateNagashi(sel)
	default:
		return []Combination{}
	}
}

func singletons(horses []int) []Combination {
	out := make([]Combination, 0, len(horses))
	for _, h := range horses {
		out = append(out, Combination{h})
	}
	return out
}

// walkProduct visits the cartesian product of the required columns, skipping
// tuples that repeat a horse and, for unordered bet types, tuples that are
// permutations of one already visited. Any empty required column yields
// nothing.
func walkProduct(sel Selection, visit func(Combination)) {
	k := sel.BetType.Columns()
	pools := make([][]int, k)
	lens := make([]int, k)
	for i := 0; i < k; i++ {
		pools[i] = sel.Column(i)
		if len(pools[i]) == 0 {
			return
		}
		lens[i] = len(pools[i])
	}

	ordered := sel.BetType.Ordered()
	// Bracket numbers identify a gate group, so 1-1 is a legal bracket quinella.
	allowRepeat := sel.BetType == BetTypeBracket
	seen := make(map[string]struct{})

	for _, idx := range combin.Cartesian(lens) {
		c := make(Combination, k)
		for col, i := range idx {
			c[col] = pools[col][i]
		}
		if !allowRepeat && c.hasRepeat() {
			continue
		}
		if !ordered {
			sort.Ints(c)
			key := c.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		visit(c)
	}
}

// countBox is C(n,k) for unordered and n!/(n-k)! for ordered bet types
func countBox(bt BetType, n int) int {
	k := bt.Columns()
	if n < k {
		return 0
	}
	if bt.Ordered() {
		return combin.NumPermutations(n, k)
	}
	return combin.Binomial(n, k)
}

func generateBox(bt BetType, pool []int) []Combination {
	k := bt.Columns()
	if len(pool) < k {
		return []Combination{}
	}

	var indexSets [][]int
	if bt.Ordered() {
		indexSets = combin.Permutations(len(pool), k)
	} else {
		indexSets = combin.Combinations(len(pool), k)
	}

	out := make([]Combination, 0, len(indexSets))
	for _, idx := range indexSets {
		c := make(Combination, k)
		for pos, i := range idx {
			c[pos] = pool[i]
		}
		if !bt.Ordered() {
			sort.Ints(c)
		}
		out = append(out, c)
	}
	return out
}
