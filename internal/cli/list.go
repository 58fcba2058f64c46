package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/filter"
)

var (
	flagDate     string
	flagAreas    []string
	flagMult     string
	flagTitles   []string
	flagSearch   string
	flagShowLate bool
	flagSort     string
	flagSortMult bool
	flagQuery    string
	flagNow      string
	flagFormat   string
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered tournament board",
		Long: `Fetch the sheet once, filter and sort it, and print the visible rows.

Filters start from --query (a shareable link's query string) and every
flag given on the command line overrides the matching parameter.`,
		Example: `  poker-board list --date tomorrow --area 渋谷 --mult 20-29
  poker-board list --query 'date=tomorrow&sortMult=1' --format json
  poker-board list --now 2026-02-14T23:30 --show-late`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringVar(&flagDate, "date", "", "Day bucket: today, tomorrow or all (default today)")
	cmd.Flags().StringSliceVar(&flagAreas, "area", nil, "Area keyword, may repeat")
	cmd.Flags().StringVar(&flagMult, "mult", "", "Multiplier bucket: 10-19, 20-29, 30-39, 40-49 or 50plus")
	cmd.Flags().StringSliceVar(&flagTitles, "title", nil, "Title keyword, may repeat")
	cmd.Flags().StringVar(&flagSearch, "search", "", "Free-text search over every field")
	cmd.Flags().BoolVar(&flagShowLate, "show-late", false, "Keep rows whose late registration has closed")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort key, prefix with - for descending (e.g. -total_prize)")
	cmd.Flags().BoolVar(&flagSortMult, "sort-mult", false, "Sort by multiplier, highest first")
	cmd.Flags().StringVar(&flagQuery, "query", "", "Query string of a shared link")
	cmd.Flags().StringVar(&flagNow, "now", "", "Pin the current time, e.g. 2026-02-14T23:30")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json, yaml or ics")

	return cmd
}

// runList is the list command logic
func runList(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(flagFormat)
	if err != nil {
		return err
	}

	st, debugTime, err := listState(cmd)
	if err != nil {
		return err
	}

	loader, loc, err := newLoader(cfg, 0)
	if err != nil {
		return err
	}
	clk, err := newClock(loc, debugTime)
	if err != nil {
		return err
	}

	ds, err := loader.Dataset(cmd.Context())
	if err != nil {
		return &LoadError{Err: err}
	}

	opts := board.Options{Filter: cfg.FilterOptions(), ShowDates: clk.Active()}
	res := board.Build(ds.Rows, st, clk.Now(), opts)

	if err := WriteOutput(cmd.OutOrStdout(), res, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// listState merges --query with the filter flags that were set and returns
// the state plus the debug time to pin, if any.
func listState(cmd *cobra.Command) (filter.State, string, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(flagQuery, "?"))
	if err != nil {
		return filter.State{}, "", fmt.Errorf("invalid --query: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("date") {
		if _, err := filter.ParseDateBucket(flagDate); err != nil {
			return filter.State{}, "", err
		}
		q.Set(filter.ParamDate, flagDate)
	}
	if flags.Changed("area") {
		q[filter.ParamArea] = flagAreas
	}
	if flags.Changed("mult") {
		if _, err := filter.ParseMultBucket(flagMult); err != nil {
			return filter.State{}, "", err
		}
		q.Set(filter.ParamMult, flagMult)
	}
	if flags.Changed("title") {
		q[filter.ParamTitle] = flagTitles
	}
	if flags.Changed("search") {
		q.Set(filter.ParamSearch, flagSearch)
	}
	if flags.Changed("show-late") {
		setFlag(q, filter.ParamShowLate, flagShowLate)
	}
	if flags.Changed("sort") {
		q.Set(filter.ParamSort, flagSort)
		q.Del(filter.ParamSortMult)
	}
	if flags.Changed("sort-mult") {
		setFlag(q, filter.ParamSortMult, flagSortMult)
	}

	debugTime := q.Get(filter.ParamDebugTime)
	if flags.Changed("now") {
		debugTime = flagNow
	}
	return filter.ParseQuery(q), debugTime, nil
}

func setFlag(q url.Values, name string, on bool) {
	if on {
		q.Set(name, "1")
		return
	}
	q.Del(name)
}
