// Package betting implements the bet-ticket combination engine: it counts,
// enumerates and validates the horse-number combinations covered by a
// betting selection.
package betting

import (
	"sort"
	"strconv"
	"strings"
)

// BetType represents an official bet type
type BetType string

const (
	BetTypeWin      BetType = "win"
	BetTypePlace    BetType = "place"
	BetTypeBracket  BetType = "bracket"
	BetTypeQuinella BetType = "quinella"
	BetTypeExacta   BetType = "exacta"
	BetTypeWide     BetType = "wide"
	BetTypeTrio     BetType = "trio"
	BetTypeTrifecta BetType = "trifecta"
)

type betTypeInfo struct {
	columns int
	ordered bool
	label   string
}

var betTypes = map[BetType]betTypeInfo{
	BetTypeWin:      {columns: 1, label: "Win"},
	BetTypePlace:    {columns: 1, label: "Place"},
	BetTypeBracket:  {columns: 2, label: "Bracket Quinella"},
	BetTypeQuinella: {columns: 2, label: "Quinella"},
	BetTypeExacta:   {columns: 2, ordered: true, label: "Exacta"},
	BetTypeWide:     {columns: 2, label: "Quinella Place"},
	BetTypeTrio:     {columns: 3, label: "Trio"},
	BetTypeTrifecta: {columns: 3, ordered: true, label: "Trifecta"},
}

// AllBetTypes returns every supported bet type in display order
func AllBetTypes() []BetType {
	return []BetType{
		BetTypeWin, BetTypePlace, BetTypeBracket, BetTypeQuinella,
		BetTypeExacta, BetTypeWide, BetTypeTrio, BetTypeTrifecta,
	}
}

// Valid reports whether b is a known bet type
func (b BetType) Valid() bool {
	_, ok := betTypes[b]
	return ok
}

// Columns returns the number of horses (or finishing positions) a single combination holds
func (b BetType) Columns() int {
	return betTypes[b].columns
}

// Ordered reports whether finishing order matters for the bet type
func (b BetType) Ordered() bool {
	return betTypes[b].ordered
}

// Label returns the human readable name of the bet type
func (b BetType) Label() string {
	return betTypes[b].label
}

// PurchaseMethod represents how a ticket's combinations are built
type PurchaseMethod string

const (
	MethodSingle    PurchaseMethod = "single"
	MethodFormation PurchaseMethod = "formation"
	MethodBox       PurchaseMethod = "box"
	MethodNagashi   PurchaseMethod = "nagashi"
)

// Valid reports whether m is a known purchase method
func (m PurchaseMethod) Valid() bool {
	switch m {
	case MethodSingle, MethodFormation, MethodBox, MethodNagashi:
		return true
	default:
		return false
	}
}

// NagashiType selects how the axis horse(s) are pinned in a nagashi ticket
type NagashiType string

const (
	NagashiMulti1      NagashiType = "multi1"
	NagashiMulti2      NagashiType = "multi2"
	NagashiFirst       NagashiType = "first"
	NagashiSecond      NagashiType = "second"
	NagashiThird       NagashiType = "third"
	NagashiFirstSecond NagashiType = "firstSecond"
)

// Valid reports whether n is a known nagashi type
func (n NagashiType) Valid() bool {
	switch n {
	case NagashiMulti1, NagashiMulti2, NagashiFirst, NagashiSecond, NagashiThird, NagashiFirstSecond:
		return true
	default:
		return false
	}
}

// position returns the pinned finishing slot (0-based) for positional subtypes
func (n NagashiType) position() int {
	switch n {
	case NagashiFirst:
		return 0
	case NagashiSecond:
		return 1
	case NagashiThird:
		return 2
	default:
		return -1
	}
}

// supportedNagashi lists the nagashi subtypes each bet type accepts
var supportedNagashi = map[BetType][]NagashiType{
	BetTypeBracket:  {NagashiMulti1},
	BetTypeQuinella: {NagashiMulti1},
	BetTypeWide:     {NagashiMulti1},
	BetTypeExacta:   {NagashiFirst, NagashiSecond, NagashiMulti1},
	BetTypeTrio:     {NagashiMulti1, NagashiMulti2},
	BetTypeTrifecta: {NagashiFirst, NagashiSecond, NagashiThird, NagashiFirstSecond, NagashiMulti1, NagashiMulti2},
}

// SupportsNagashi reports whether the bet type can be bought with the given nagashi subtype
func (b BetType) SupportsNagashi(n NagashiType) bool {
	for _, t := range supportedNagashi[b] {
		if t == n {
			return true
		}
	}
	return false
}

// Selection is the complete input to the engine. It is treated as an
// immutable value: the engine never modifies the slices it holds.
type Selection struct {
	BetType     BetType        `json:"bet_type"`
	Method      PurchaseMethod `json:"method"`
	NagashiType NagashiType    `json:"nagashi_type,omitempty"`
	// Columns[i] is the horse pool of column i. For box only column 0 is
	// read; for nagashi the meaning depends on NagashiType.
	Columns [][]int `json:"columns"`
	Axis    *int    `json:"axis,omitempty"`
}

// Column returns the cleaned horse pool of column i: positive numbers only,
// duplicates removed, first-seen order kept.
func (s Selection) Column(i int) []int {
	if i < 0 || i >= len(s.Columns) {
		return nil
	}
	return uniqueHorses(s.Columns[i])
}

// AxisHorse returns the single axis horse, if one is set
func (s Selection) AxisHorse() (int, bool) {
	if s.Axis == nil || *s.Axis <= 0 {
		return 0, false
	}
	return *s.Axis, true
}

// TypeKey composes the ticket type identifier, e.g. "trio_box" or "trifecta_nagashi_multi1"
func (s Selection) TypeKey() string {
	parts := []string{string(s.BetType), string(s.Method)}
	if s.Method == MethodNagashi && s.NagashiType != "" {
		parts = append(parts, string(s.NagashiType))
	}
	return strings.Join(parts, "_")
}

// Key returns a canonical string identifying the selection's input domain.
// Two selections with equal keys enumerate the same combinations.
func (s Selection) Key() string {
	var b strings.Builder
	b.WriteString(s.TypeKey())
	if axis, ok := s.AxisHorse(); ok {
		b.WriteString("|a")
		b.WriteString(strconv.Itoa(axis))
	}
	for i := range s.Columns {
		b.WriteString("|")
		b.WriteString(joinHorses(s.Column(i), ","))
	}
	return b.String()
}

// Combination is one literal ticket line. For ordered bet types the index
// is the finishing position.
type Combination []int

// Key returns the order-insensitive identity of the combination
func (c Combination) Key() string {
	sorted := make([]int, len(c))
	copy(sorted, c)
	sort.Ints(sorted)
	return joinHorses(sorted, "-")
}

// String renders the combination in its stored order, e.g. "3-7-12"
func (c Combination) String() string {
	return joinHorses(c, "-")
}

// Labels renders each horse number as a string label
func (c Combination) Labels() []string {
	labels := make([]string, len(c))
	for i, h := range c {
		labels[i] = strconv.Itoa(h)
	}
	return labels
}

// hasRepeat reports whether any horse appears twice
func (c Combination) hasRepeat() bool {
	for i := 0; i < len(c); i++ {
		for j := i + 1; j < len(c); j++ {
			if c[i] == c[j] {
				return true
			}
		}
	}
	return false
}

func uniqueHorses(horses []int) []int {
	seen := make(map[int]struct{}, len(horses))
	out := make([]int, 0, len(horses))
	for _, h := range horses {
		if h <= 0 {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

func without(horses []int, exclude ...int) []int {
	out := make([]int, 0, len(horses))
outer:
	for _, h := range horses {
		for _, x := range exclude {
			if h == x {
				continue outer
			}
		}
		out = append(out, h)
	}
	return out
}

func joinHorses(horses []int, sep string) string {
	parts := make([]string, len(horses))
	for i, h := range horses {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, sep)
}
