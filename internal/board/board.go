package board

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

// Options configures a Build.
type Options struct {
	Filter filter.Options

	// ShowDates renders times as M/D HH:MM, used while the clock is
	// overridden.
	ShowDates bool
}

// DefaultOptions uses the default filter options and HH:MM times.
func DefaultOptions() Options {
	return Options{Filter: filter.DefaultOptions()}
}

// DayTab is one selectable date bucket with its label relative to now.
type DayTab struct {
	Bucket filter.DateBucket `json:"bucket" yaml:"bucket"`
	Label  string            `json:"label" yaml:"label"`
	Active bool              `json:"active" yaml:"active"`
}

// DayTabs returns the today and tomorrow tabs, marking the one st selects.
func DayTabs(st filter.State, now time.Time) []DayTab {
	return []DayTab{
		{Bucket: filter.DateToday, Label: DayLabel(now), Active: st.Date == filter.DateToday},
		{Bucket: filter.DateTomorrow, Label: DayLabel(now.AddDate(0, 0, 1)), Active: st.Date == filter.DateTomorrow},
	}
}

// Result is one rendered board.
type Result struct {
	Now   time.Time    `json:"now" yaml:"now"`
	State filter.State `json:"state" yaml:"state"`
	Query string       `json:"query" yaml:"query"`
	Tabs  []DayTab     `json:"tabs" yaml:"tabs"`

	Rows    []View `json:"rows" yaml:"rows"`
	Total   int    `json:"total" yaml:"total"`
	Matched int    `json:"matched" yaml:"matched"`

	// Tournaments are the visible rows in display order.
	Tournaments []tournament.Tournament `json:"-" yaml:"-"`
}

// Empty reports whether no row survived filtering.
func (r *Result) Empty() bool {
	return r.Matched == 0
}

// Counter renders "matched / total".
func (r *Result) Counter() string {
	return fmt.Sprintf("%d / %d", r.Matched, r.Total)
}

// Build filters rows by st at now, sorts the survivors by st.Sort and
// renders one View each. rows is not modified.
func Build(rows []tournament.Tournament, st filter.State, now time.Time, opts Options) *Result {
	logger.IncrCounter("board.builds")

	visible := filter.Apply(rows, st, now, opts.Filter)
	Sort(visible, st.Sort)

	f := newFormatter(opts.ShowDates)
	views := make([]View, len(visible))
	for i := range visible {
		views[i] = f.view(&visible[i], st, now)
	}

	return &Result{
		Now:         now,
		State:       st,
		Query:       st.Encode(),
		Tabs:        DayTabs(st, now),
		Rows:        views,
		Total:       len(rows),
		Matched:     len(visible),
		Tournaments: visible,
	}
}
