// Package filter holds the listing board's UI state and the predicates it
// drives.
//
// A State is an immutable snapshot of the toggles a visitor has selected:
//   - Date bucket (today / tomorrow, mutually exclusive, or none)
//   - Area keywords (case-insensitive substring over every field of a row)
//   - Multiplier bucket (10-19, 20-29, 30-39, 40-49, 50plus)
//   - Title keywords (same matching as areas)
//   - Free-text search
//   - Whether rows past their late registration stay visible
//   - Sort key and direction
//
// Every user interaction produces a new State through the With* and Toggle*
// methods; nothing mutates a State in place. Keyword matching deliberately
// searches the whole row rather than a structured column.
//
// Example usage:
//
//	st := filter.Default().
//		WithDate(filter.DateTomorrow).
//		ToggleArea("shibuya").
//		WithMult(filter.Mult20to29)
//
//	visible := filter.Apply(rows, st, now, filter.DefaultOptions())
//	link := "/?" + st.Encode()
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrUnknownBucket is returned when a date or multiplier bucket id is not recognized.
var ErrUnknownBucket = errors.New("unknown bucket")

// DateBucket selects a day-scoped window relative to now.
type DateBucket string

const (
	DateNone     DateBucket = ""
	DateToday    DateBucket = "today"
	DateTomorrow DateBucket = "tomorrow"
)

// ParseDateBucket accepts today, tomorrow, and all/none/"" for no bucket.
func ParseDateBucket(s string) (DateBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return DateToday, nil
	case "tomorrow":
		return DateTomorrow, nil
	case "", "all", "none":
		return DateNone, nil
	}
	return DateNone, fmt.Errorf("%w: date %q", ErrUnknownBucket, s)
}

// MultBucket selects a prize multiplier range.
type MultBucket string

const (
	MultNone   MultBucket = ""
	Mult10to19 MultBucket = "10-19"
	Mult20to29 MultBucket = "20-29"
	Mult30to39 MultBucket = "30-39"
	Mult40to49 MultBucket = "40-49"
	Mult50Plus MultBucket = "50plus"
)

const multNoLimit = 0

// multRanges maps each bucket to its [lo, hi) range; hi 0 means unbounded.
var multRanges = map[MultBucket][2]float64{
	Mult10to19: {10, 20},
	Mult20to29: {20, 30},
	Mult30to39: {30, 40},
	Mult40to49: {40, 50},
	Mult50Plus: {50, multNoLimit},
}

// MultBuckets lists the selectable buckets in display order.
func MultBuckets() []MultBucket {
	return []MultBucket{Mult10to19, Mult20to29, Mult30to39, Mult40to49, Mult50Plus}
}

// ParseMultBucket validates a bucket id. The empty string selects no bucket.
func ParseMultBucket(s string) (MultBucket, error) {
	b := MultBucket(strings.TrimSpace(s))
	if b == MultNone {
		return MultNone, nil
	}
	if _, ok := multRanges[b]; !ok {
		return MultNone, fmt.Errorf("%w: mult %q", ErrUnknownBucket, s)
	}
	return b, nil
}

// Contains reports whether m falls inside the bucket.
func (b MultBucket) Contains(m float64) bool {
	r, ok := multRanges[b]
	if !ok {
		return false
	}
	return m >= r[0] && (r[1] == multNoLimit || m < r[1])
}

// Sort keys with special handling.
const (
	SortStartTime  = "start_time"
	SortMultiplier = "multiplier"
)

// Sort is the active sort key and direction.
type Sort struct {
	Key  string `json:"key" yaml:"key"`
	Desc bool   `json:"desc" yaml:"desc"`
}

// DefaultSort orders by start time, earliest first.
func DefaultSort() Sort {
	return Sort{Key: SortStartTime}
}

// MultiplierSort orders by multiplier, highest first.
func MultiplierSort() Sort {
	return Sort{Key: SortMultiplier, Desc: true}
}

// Toggle returns the sort after selecting key: the same key flips
// direction, a new key starts ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		return Sort{Key: key, Desc: !s.Desc}
	}
	return Sort{Key: key}
}

// Direction returns "asc" or "desc".
func (s Sort) Direction() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}

// State is the UI filter state evaluated on each render.
type State struct {
	Date        DateBucket `json:"date" yaml:"date"`
	Areas       []string   `json:"areas,omitempty" yaml:"areas,omitempty"`
	Mult        MultBucket `json:"mult,omitempty" yaml:"mult,omitempty"`
	Titles      []string   `json:"titles,omitempty" yaml:"titles,omitempty"`
	Search      string     `json:"search,omitempty" yaml:"search,omitempty"`
	ShowExpired bool       `json:"show_expired,omitempty" yaml:"show_expired,omitempty"`
	Sort        Sort       `json:"sort" yaml:"sort"`
}

// Default returns the state a fresh page load starts with: today's bucket
// and start time ascending.
func Default() State {
	return State{Date: DateToday, Sort: DefaultSort()}
}

// IsEmpty reports whether no predicate is active, i.e. every row passes.
func (s State) IsEmpty() bool {
	return s.Date == DateNone &&
		len(s.keywords(s.Areas)) == 0 &&
		s.Mult == MultNone &&
		len(s.keywords(s.Titles)) == 0 &&
		s.searchTerm() == "" &&
		s.ShowExpired
}

// WithDate selects a date bucket.
func (s State) WithDate(d DateBucket) State {
	out := s.Clone()
	out.Date = d
	return out
}

// WithAreas replaces the active area keywords.
func (s State) WithAreas(areas ...string) State {
	out := s.Clone()
	out.Areas = nonEmpty(areas)
	return out
}

// ToggleArea adds the keyword when inactive and removes it otherwise.
func (s State) ToggleArea(area string) State {
	out := s.Clone()
	out.Areas = toggle(out.Areas, area)
	return out
}

// WithMult selects a multiplier bucket; selecting the active bucket again
// clears it.
func (s State) WithMult(b MultBucket) State {
	out := s.Clone()
	if out.Mult == b {
		out.Mult = MultNone
	} else {
		out.Mult = b
	}
	return out
}

// WithTitles replaces the active title keywords.
func (s State) WithTitles(titles ...string) State {
	out := s.Clone()
	out.Titles = nonEmpty(titles)
	return out
}

// ToggleTitle adds the keyword when inactive and removes it otherwise.
func (s State) ToggleTitle(title string) State {
	out := s.Clone()
	out.Titles = toggle(out.Titles, title)
	return out
}

// WithSearch sets the free-text search, trimmed.
func (s State) WithSearch(term string) State {
	out := s.Clone()
	out.Search = strings.TrimSpace(term)
	return out
}

// WithShowExpired keeps or hides rows past their late registration.
func (s State) WithShowExpired(show bool) State {
	out := s.Clone()
	out.ShowExpired = show
	return out
}

// WithSort replaces the sort.
func (s State) WithSort(sort Sort) State {
	out := s.Clone()
	out.Sort = sort
	return out
}

// ToggleSort applies Sort.Toggle for a header selection.
func (s State) ToggleSort(key string) State {
	return s.WithSort(s.Sort.Toggle(key))
}

// WithSortByMultiplier switches between multiplier-descending and the
// default start time sort.
func (s State) WithSortByMultiplier(on bool) State {
	if on {
		return s.WithSort(MultiplierSort())
	}
	return s.WithSort(DefaultSort())
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Areas = slices.Clone(s.Areas)
	out.Titles = slices.Clone(s.Titles)
	return out
}

// String returns a human-readable description of the active criteria.
// Format: "Date: today | Areas: shibuya | Mult: 20-29 | Search: main | Sort: start_time asc"
func (s State) String() string {
	var parts []string

	if s.Date != DateNone {
		parts = append(parts, fmt.Sprintf("Date: %s", s.Date))
	}
	if areas := s.keywords(s.Areas); len(areas) > 0 {
		parts = append(parts, fmt.Sprintf("Areas: %s", strings.Join(areas, ", ")))
	}
	if s.Mult != MultNone {
		parts = append(parts, fmt.Sprintf("Mult: %s", s.Mult))
	}
	if titles := s.keywords(s.Titles); len(titles) > 0 {
		parts = append(parts, fmt.Sprintf("Titles: %s", strings.Join(titles, ", ")))
	}
	if term := s.searchTerm(); term != "" {
		parts = append(parts, fmt.Sprintf("Search: %s", term))
	}
	if s.ShowExpired {
		parts = append(parts, "Showing expired")
	}
	if s.Sort.Key != "" {
		parts = append(parts, fmt.Sprintf("Sort: %s %s", s.Sort.Key, s.Sort.Direction()))
	}

	if len(parts) == 0 {
		return "No active filters"
	}
	return strings.Join(parts, " | ")
}

func (s State) searchTerm() string {
	return strings.TrimSpace(s.Search)
}

// keywords drops blank entries.
func (s State) keywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// toggle trims the key; a blank key leaves the list unchanged.
func toggle(list []string, key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return list
	}
	if i := slices.Index(list, key); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return append(list, key)
}

// DayRule selects how date buckets are evaluated.
type DayRule string

const (
	// DayWindow buckets by late registration inside a window starting at the
	// bucket's midnight.
	DayWindow DayRule = "window"

	// DayCalendar buckets by calendar-date equality of the date column.
	DayCalendar DayRule = "calendar"
)

// DefaultWindowHours spans midnight through 06:00 the next day.
const DefaultWindowHours = 30

// Options tunes predicate evaluation.
type Options struct {
	DayRule     DayRule
	WindowHours int
}

// DefaultOptions uses the 30 hour late registration window.
func DefaultOptions() Options {
	return Options{DayRule: DayWindow, WindowHours: DefaultWindowHours}
}

// ParseDayRule validates a day rule name.
func ParseDayRule(s string) (DayRule, error) {
	switch DayRule(strings.ToLower(strings.TrimSpace(s))) {
	case DayWindow:
		return DayWindow, nil
	case DayCalendar:
		return DayCalendar, nil
	}
	return "", fmt.Errorf("unknown day rule %q", s)
}

// Window returns the [start, end) range of bucket d relative to now. ok is
// false for DateNone.
func (o Options) Window(d DateBucket, now time.Time) (start, end time.Time, ok bool) {
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch d {
	case DateToday:
	case DateTomorrow:
		start = start.AddDate(0, 0, 1)
	default:
		return time.Time{}, time.Time{}, false
	}

	if o.DayRule == DayCalendar {
		return start, start.AddDate(0, 0, 1), true
	}
	hours := o.WindowHours
	if hours <= 0 {
		hours = DefaultWindowHours
	}
	return start, start.Add(time.Duration(hours) * time.Hour), true
}
