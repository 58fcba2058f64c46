package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

func ptr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	now := time.Date(2026, 2, 14, 20, 0, 0, 0, jst)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		mult *float64
		late *time.Time
		want Highlight
	}{
		{name: "expired wins over top tier", mult: ptr(80), late: &past, want: HighlightExpired},
		{name: "50 and above", mult: ptr(50), late: &future, want: Highlight50Plus},
		{name: "40 tier", mult: ptr(49.9), want: Highlight40Plus},
		{name: "30 tier", mult: ptr(30), want: Highlight30Plus},
		{name: "20 tier", mult: ptr(20), want: Highlight20Plus},
		{name: "10 tier", mult: ptr(10), want: Highlight10to19},
		{name: "below lowest tier", mult: ptr(9.99), want: HighlightNone},
		{name: "no multiplier", want: HighlightNone},
		{name: "expired without multiplier", late: &past, want: HighlightExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tournament.Tournament{Multiplier: tt.mult, LateRegAt: tt.late}
			assert.Equal(t, tt.want, Classify(&tr, now))
		})
	}
}

func TestBadgeClass(t *testing.T) {
	assert.Equal(t, "mult-50plus", BadgeClass(ptr(60)))
	assert.Equal(t, "mult-10plus", BadgeClass(ptr(12)))
	assert.Equal(t, "", BadgeClass(ptr(5)))
	assert.Equal(t, "", BadgeClass(nil))
}

func TestMultiplierLabel(t *testing.T) {
	assert.Equal(t, "x20.0", MultiplierLabel(ptr(20)))
	assert.Equal(t, "x12.3", MultiplierLabel(ptr(12.34)))
	assert.Equal(t, "", MultiplierLabel(ptr(0)))
	assert.Equal(t, "", MultiplierLabel(nil))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "100,000", FormatNumber(100000))
	assert.Equal(t, "500", FormatNumber(500))
	assert.Equal(t, "1,234.5", FormatNumber(1234.5))
}

func TestDayLabel(t *testing.T) {
	// 2026-02-14 is a Saturday.
	assert.Equal(t, "2月14日(土)", DayLabel(time.Date(2026, 2, 14, 9, 0, 0, 0, jst)))
	assert.Equal(t, "3月1日(日)", DayLabel(time.Date(2026, 3, 1, 0, 0, 0, 0, jst)))
}

func TestFormatter_View(t *testing.T) {
	rows := normalize(tournament.Row{
		tournament.ColDate:             "2026/02/14",
		tournament.ColStartTime:        "2026/02/14 19:00",
		tournament.ColLateRegistration: "2026/02/14 21:30",
		tournament.ColEntryFee:         "5,000",
		tournament.ColAddOn:            "2000",
		tournament.ColTotalPrize:       "140000",
		tournament.ColPrizeText:        "優勝 70,000\n準優勝 40,000\n\n三位 30,000",
		tournament.ColTitle:            "Main Event",
		tournament.ColShopName:         "Ace Club",
		tournament.ColArea:             "Shibuya",
		tournament.ColLink:             "https://example.com/t/1",
	})
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, jst)
	st := filter.Default().WithAreas("shibuya")

	v := newFormatter(false).view(&rows[0], st, now)

	assert.Equal(t, "2026-02-14", v.DateText)
	assert.Equal(t, "19:00", v.StartText)
	assert.Equal(t, "21:30", v.LateText)
	assert.Equal(t, "5,000", v.EntryFeeText)
	assert.Equal(t, "2,000", v.AddOnText)
	assert.Equal(t, "140,000", v.TotalPrizeText)
	assert.Equal(t, "x20.0", v.MultiplierText)
	assert.Equal(t, "優勝 70,000 / 準優勝 40,000 / 三位 30,000", v.PrizeSummary)
	assert.Equal(t, Highlight20Plus, v.Highlight)
	assert.False(t, v.Expired)

	assert.Equal(t, "02/14(土)", v.CardDate)
	assert.Equal(t, "19:00", v.CardStart)
	assert.Equal(t, "締切 21:30", v.CardLate)
	assert.Equal(t, "¥5,000", v.CardFee)
	assert.Equal(t, "倍率: 20.0x", v.MultBadge)
	assert.Equal(t, "mult-20plus", v.MultBadgeClass)
	assert.Equal(t, "賞金: ¥140,000", v.PrizeBadge)
	assert.Equal(t, "https://example.com/t/1", v.Link)

	q := filter.ParseRawQuery(v.ShopSearchQuery)
	assert.Equal(t, "Ace Club", q.Search)
	assert.Equal(t, []string{"shibuya"}, q.Areas)
}

func TestFormatter_ViewFallbacks(t *testing.T) {
	rows := normalize(tournament.Row{
		tournament.ColDate:       "TBD",
		tournament.ColStartTime:  "evening",
		tournament.ColTotalPrize: "0",
	})
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, jst)

	v := newFormatter(false).view(&rows[0], filter.Default(), now)

	assert.Equal(t, "TBD", v.DateText)
	assert.Equal(t, "evening", v.StartText)
	assert.Equal(t, UnknownPrize, v.TotalPrizeText)
	assert.Empty(t, v.PrizeBadge)
	assert.Empty(t, v.MultiplierText)
	assert.Empty(t, v.MultBadgeClass)
	assert.Equal(t, UntitledCard, v.CardTitle)
	assert.Empty(t, v.CardDate)
	assert.Empty(t, v.CardLate)
}

func TestFormatter_ViewWithDates(t *testing.T) {
	rows := normalize(tournament.Row{
		tournament.ColStartTime:        "2026/02/14 19:05",
		tournament.ColLateRegistration: "2026/02/15 01:00",
	})
	now := time.Date(2026, 2, 15, 2, 0, 0, 0, jst)

	v := newFormatter(true).view(&rows[0], filter.Default(), now)

	require.True(t, v.Expired)
	assert.Equal(t, "2/14 19:05", v.StartText)
	assert.Equal(t, "2/15 01:00", v.LateText)
	assert.Equal(t, HighlightExpired, v.Highlight)
	assert.Equal(t, "締切 01:00", v.CardLate)
}
