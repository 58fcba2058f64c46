package filter

import (
	"math"
	"strings"
	"time"

	"github.com/pfrederiksen/poker-board/internal/tournament"
)

// Predicate keeps a row when it returns true.
type Predicate func(t *tournament.Tournament) bool

// Predicates returns the active predicates of s evaluated against now. Each
// inactive criterion contributes nothing, so an empty result keeps every row.
// The predicates only remove rows, so their order does not matter.
func (s State) Predicates(now time.Time, opts Options) []Predicate {
	var preds []Predicate

	if start, end, ok := opts.Window(s.Date, now); ok {
		preds = append(preds, dateBucketPredicate(start, end, opts.DayRule))
	}
	if areas := s.keywords(s.Areas); len(areas) > 0 {
		preds = append(preds, anyKeywordPredicate(areas))
	}
	if s.Mult != MultNone {
		preds = append(preds, multPredicate(s.Mult))
	}
	if titles := s.keywords(s.Titles); len(titles) > 0 {
		preds = append(preds, anyKeywordPredicate(titles))
	}
	if term := s.searchTerm(); term != "" {
		preds = append(preds, anyKeywordPredicate([]string{term}))
	}
	if !s.ShowExpired {
		preds = append(preds, func(t *tournament.Tournament) bool {
			return !t.IsExpired(now)
		})
	}
	return preds
}

// Apply returns the rows passing every active criterion of s, in their
// original order. The input slice is not modified.
func Apply(rows []tournament.Tournament, s State, now time.Time, opts Options) []tournament.Tournament {
	preds := s.Predicates(now, opts)

	filtered := make([]tournament.Tournament, 0, len(rows))
	for i := range rows {
		keep := true
		for _, p := range preds {
			if !p(&rows[i]) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, rows[i])
		}
	}
	return filtered
}

// dateBucketPredicate checks the late registration instant against
// [start, end) under DayWindow, and the date column under DayCalendar.
// Rows without the relevant time never match.
func dateBucketPredicate(start, end time.Time, rule DayRule) Predicate {
	return func(t *tournament.Tournament) bool {
		at := t.LateRegAt
		if rule == DayCalendar {
			at = t.DateOnly
		}
		if at == nil {
			return false
		}
		return !at.Before(start) && at.Before(end)
	}
}

// anyKeywordPredicate keeps rows where at least one keyword is a
// case-insensitive substring of some field.
func anyKeywordPredicate(keywords []string) Predicate {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return func(t *tournament.Tournament) bool {
		values := t.SearchValues()
		for _, k := range lowered {
			for _, v := range values {
				if strings.Contains(strings.ToLower(v), k) {
					return true
				}
			}
		}
		return false
	}
}

func multPredicate(b MultBucket) Predicate {
	return func(t *tournament.Tournament) bool {
		if t.Multiplier == nil || math.IsInf(*t.Multiplier, 0) || math.IsNaN(*t.Multiplier) {
			return false
		}
		return b.Contains(*t.Multiplier)
	}
}
