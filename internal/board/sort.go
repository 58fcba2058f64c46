package board

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

// timeKeys redirect time-like display columns to their sortable shadow.
var timeKeys = map[string]func(t *tournament.Tournament) float64{
	tournament.ColStartTime:        func(t *tournament.Tournament) float64 { return t.StartTS },
	tournament.ColDate:             func(t *tournament.Tournament) float64 { return t.DateOnlyTS },
	"date_only":                    func(t *tournament.Tournament) float64 { return t.DateOnlyTS },
	tournament.ColLateRegistration: func(t *tournament.Tournament) float64 { return t.LateRegTS },
}

// numericKeys compare numerically with missing values as negative infinity.
var numericKeys = map[string]func(t *tournament.Tournament) *float64{
	tournament.ColEntryFee:   func(t *tournament.Tournament) *float64 { return t.EntryFee },
	tournament.ColAddOn:      func(t *tournament.Tournament) *float64 { return t.AddOn },
	tournament.ColGuaranteed: func(t *tournament.Tournament) *float64 { return t.GuaranteedAmount },
	tournament.ColTotalPrize: func(t *tournament.Tournament) *float64 { return t.TotalPrize },
	filter.SortMultiplier:    func(t *tournament.Tournament) *float64 { return t.Multiplier },
}

// IsSortKey reports whether key has typed comparison. Any other key sorts
// as a case-insensitive raw column.
func IsSortKey(key string) bool {
	_, isTime := timeKeys[key]
	_, isNum := numericKeys[key]
	return isTime || isNum
}

// Compare orders a and b by key in ascending order.
func Compare(a, b *tournament.Tournament, key string) int {
	if ts, ok := timeKeys[key]; ok {
		return cmp.Compare(ts(a), ts(b))
	}
	if num, ok := numericKeys[key]; ok {
		return cmp.Compare(orNegInf(num(a)), orNegInf(num(b)))
	}
	return strings.Compare(strings.ToLower(a.Raw.Get(key)), strings.ToLower(b.Raw.Get(key)))
}

// Sort orders rows in place by s. Rows with equal keys keep their relative
// order in both directions. An empty key leaves rows untouched.
func Sort(rows []tournament.Tournament, s filter.Sort) {
	if s.Key == "" {
		return
	}
	slices.SortStableFunc(rows, func(a, b tournament.Tournament) int {
		c := Compare(&a, &b, s.Key)
		if s.Desc {
			return -c
		}
		return c
	})
}

// Sorted returns a sorted copy of rows.
func Sorted(rows []tournament.Tournament, s filter.Sort) []tournament.Tournament {
	out := slices.Clone(rows)
	Sort(out, s)
	return out
}

func orNegInf(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return math.Inf(-1)
	}
	return *v
}
