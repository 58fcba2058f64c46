package board

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

func boardRows() []tournament.Tournament {
	return normalize(
		tournament.Row{
			tournament.ColTitle:            "Late Turbo",
			tournament.ColShopName:         "Ace Club",
			tournament.ColArea:             "Shibuya",
			tournament.ColStartTime:        "2026/02/14 22:00",
			tournament.ColLateRegistration: "2026/02/15 01:00",
			tournament.ColEntryFee:         "3000",
			tournament.ColTotalPrize:       "150000",
		},
		tournament.Row{
			tournament.ColTitle:            "Afternoon",
			tournament.ColShopName:         "King's Room",
			tournament.ColArea:             "Shinjuku",
			tournament.ColStartTime:        "2026/02/14 13:00",
			tournament.ColLateRegistration: "2026/02/14 15:00",
			tournament.ColEntryFee:         "2000",
			tournament.ColTotalPrize:       "30000",
		},
		tournament.Row{
			tournament.ColTitle:            "Evening",
			tournament.ColShopName:         "Queen Bar",
			tournament.ColArea:             "Shibuya",
			tournament.ColStartTime:        "2026/02/14 19:00",
			tournament.ColLateRegistration: "2026/02/14 21:00",
			tournament.ColEntryFee:         "5000",
			tournament.ColTotalPrize:       "120000",
		},
		tournament.Row{
			tournament.ColTitle:            "Tomorrow",
			tournament.ColLateRegistration: "2026/02/15 20:00",
		},
	)
}

func titlesOf(r *Result) []string {
	out := make([]string, 0, len(r.Rows))
	for _, v := range r.Rows {
		out = append(out, v.Title)
	}
	return out
}

func TestBuild(t *testing.T) {
	rows := boardRows()
	now := time.Date(2026, 2, 14, 16, 0, 0, 0, jst)

	res := Build(rows, filter.Default(), now, DefaultOptions())

	require.NotNil(t, res)
	if diff := cmp.Diff([]string{"Evening", "Late Turbo"}, titlesOf(res)); diff != "" {
		t.Errorf("Build() rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, "2 / 4", res.Counter())
	assert.False(t, res.Empty())
	assert.Equal(t, "", res.Query)
	assert.Len(t, res.Tournaments, 2)
	assert.Equal(t, []DayTab{
		{Bucket: filter.DateToday, Label: "2月14日(土)", Active: true},
		{Bucket: filter.DateTomorrow, Label: "2月15日(日)"},
	}, res.Tabs)
}

func TestBuild_ShowExpiredClassifies(t *testing.T) {
	rows := boardRows()
	now := time.Date(2026, 2, 14, 16, 0, 0, 0, jst)
	st := filter.Default().WithShowExpired(true).WithSortByMultiplier(true)

	res := Build(rows, st, now, DefaultOptions())

	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"Late Turbo", "Evening", "Afternoon"}, titlesOf(res))
	assert.Equal(t, Highlight50Plus, res.Rows[0].Highlight)
	assert.Equal(t, Highlight20Plus, res.Rows[1].Highlight)
	assert.Equal(t, HighlightExpired, res.Rows[2].Highlight)
	assert.Equal(t, "showLate=1&sortMult=1", res.Query)
}

func TestBuild_Empty(t *testing.T) {
	rows := boardRows()
	now := time.Date(2026, 2, 14, 16, 0, 0, 0, jst)

	res := Build(rows, filter.Default().WithSearch("no such shop"), now, DefaultOptions())

	assert.True(t, res.Empty())
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
	assert.Equal(t, "0 / 4", res.Counter())

	none := Build(nil, filter.Default(), now, DefaultOptions())
	assert.True(t, none.Empty())
	assert.Equal(t, 0, none.Total)
}

func TestBuild_DoesNotModifyInput(t *testing.T) {
	rows := boardRows()
	before := indexes(rows)
	now := time.Date(2026, 2, 14, 16, 0, 0, 0, jst)

	Build(rows, filter.State{ShowExpired: true, Sort: filter.Sort{Key: "title"}}, now, DefaultOptions())

	assert.Equal(t, before, indexes(rows))
}

func TestBuild_ShowDates(t *testing.T) {
	rows := boardRows()
	now := time.Date(2026, 2, 14, 16, 0, 0, 0, jst)
	opts := DefaultOptions()
	opts.ShowDates = true

	res := Build(rows, filter.Default(), now, opts)

	require.NotEmpty(t, res.Rows)
	assert.Equal(t, "2/14 19:00", res.Rows[0].StartText)
}
