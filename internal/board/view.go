package board

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

// Highlight is the row classification a presentation layer styles.
type Highlight string

const (
	HighlightNone    Highlight = ""
	HighlightExpired Highlight = "late-reg-expired"
	Highlight50Plus  Highlight = "hl-mult-50plus"
	Highlight40Plus  Highlight = "hl-mult-40plus"
	Highlight30Plus  Highlight = "hl-mult-30plus"
	Highlight20Plus  Highlight = "hl-mult-20plus"
	Highlight10to19  Highlight = "hl-mult-10to19"
)

// Placeholder texts.
const (
	UnknownPrize  = "不明"
	UntitledCard  = "タイトルなし"
	NoDataMessage = "該当データがありません"
)

type tier struct {
	min   float64
	row   Highlight
	badge string
}

// tiers are checked from highest to lowest; the first match wins.
var tiers = []tier{
	{50, Highlight50Plus, "mult-50plus"},
	{40, Highlight40Plus, "mult-40plus"},
	{30, Highlight30Plus, "mult-30plus"},
	{20, Highlight20Plus, "mult-20plus"},
	{10, Highlight10to19, "mult-10plus"},
}

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

func multiplierTier(m *float64) (tier, bool) {
	if m == nil || math.IsNaN(*m) || math.IsInf(*m, 0) {
		return tier{}, false
	}
	for _, t := range tiers {
		if *m >= t.min {
			return t, true
		}
	}
	return tier{}, false
}

// Classify returns the row highlight. Expiry wins over every multiplier tier.
func Classify(t *tournament.Tournament, now time.Time) Highlight {
	if t.IsExpired(now) {
		return HighlightExpired
	}
	if tr, ok := multiplierTier(t.Multiplier); ok {
		return tr.row
	}
	return HighlightNone
}

// BadgeClass returns the card badge class for a multiplier. Badges ignore
// expiry.
func BadgeClass(m *float64) string {
	tr, _ := multiplierTier(m)
	return tr.badge
}

// View is the display-ready form of one tournament.
type View struct {
	Index    int    `json:"index" yaml:"index"`
	Title    string `json:"title" yaml:"title"`
	ShopName string `json:"shop_name" yaml:"shop_name"`
	Area     string `json:"area" yaml:"area"`
	Link     string `json:"link,omitempty" yaml:"link,omitempty"`

	DateText  string `json:"date" yaml:"date"`
	StartText string `json:"start_time" yaml:"start_time"`
	LateText  string `json:"late_registration_time" yaml:"late_registration_time"`

	EntryFeeText   string `json:"entry_fee" yaml:"entry_fee"`
	AddOnText      string `json:"add_on" yaml:"add_on"`
	GuaranteedText string `json:"guaranteed_amount" yaml:"guaranteed_amount"`
	TotalPrizeText string `json:"total_prize" yaml:"total_prize"`
	MultiplierText string `json:"multiplier" yaml:"multiplier"`
	PrizeSummary   string `json:"prize_text" yaml:"prize_text"`

	Highlight Highlight `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Expired   bool      `json:"expired,omitempty" yaml:"expired,omitempty"`

	CardDate       string `json:"card_date" yaml:"card_date"`
	CardStart      string `json:"card_start" yaml:"card_start"`
	CardLate       string `json:"card_late,omitempty" yaml:"card_late,omitempty"`
	CardTitle      string `json:"card_title" yaml:"card_title"`
	CardFee        string `json:"card_fee,omitempty" yaml:"card_fee,omitempty"`
	MultBadge      string `json:"mult_badge,omitempty" yaml:"mult_badge,omitempty"`
	MultBadgeClass string `json:"mult_badge_class,omitempty" yaml:"mult_badge_class,omitempty"`
	PrizeBadge     string `json:"prize_badge,omitempty" yaml:"prize_badge,omitempty"`

	// ShopSearchQuery is the query string selecting this shop in the search
	// box on top of the current state.
	ShopSearchQuery string `json:"shop_search_query" yaml:"shop_search_query"`
}

// formatter renders numbers and times. A message.Printer is not safe for
// concurrent use, so each Build gets its own.
type formatter struct {
	p        *message.Printer
	withDate bool
}

func newFormatter(withDate bool) formatter {
	return formatter{p: message.NewPrinter(language.Japanese), withDate: withDate}
}

// grouped separates thousands; fractional values keep up to three digits.
func (f formatter) grouped(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return f.p.Sprintf("%d", int64(v))
	}
	return f.p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatNumber groups thousands the way amount cells are displayed.
func FormatNumber(v float64) string {
	return newFormatter(false).grouped(v)
}

func (f formatter) amount(v *float64) string {
	if v == nil {
		return ""
	}
	return f.grouped(*v)
}

// clock renders HH:MM, or M/D HH:MM while the time is overridden. Unparsed
// values fall back to the raw cell.
func (f formatter) clock(t *time.Time, raw string) string {
	if t == nil {
		return raw
	}
	if f.withDate {
		return fmt.Sprintf("%d/%d %s", t.Month(), t.Day(), t.Format("15:04"))
	}
	return t.Format("15:04")
}

// MultiplierLabel renders a positive finite multiplier rounded to one
// decimal, e.g. "x20.0". Other values render empty.
func MultiplierLabel(m *float64) string {
	if !positiveFinite(m) {
		return ""
	}
	return fmt.Sprintf("x%.1f", math.Round(*m*10)/10)
}

func multiplierBadge(m *float64) string {
	if !positiveFinite(m) {
		return ""
	}
	return fmt.Sprintf("倍率: %.1fx", math.Round(*m*10)/10)
}

func positiveFinite(m *float64) bool {
	return m != nil && !math.IsNaN(*m) && !math.IsInf(*m, 0) && *m > 0
}

// DayLabel renders a day as "M月D日(曜)".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%d月%d日(%s)", t.Month(), t.Day(), weekdays[t.Weekday()])
}

func cardDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%02d/%02d(%s)", t.Month(), t.Day(), weekdays[t.Weekday()])
}

func prizeSummary(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	return strings.Join(lines, " / ")
}

// view renders t for display at now under state st.
func (f formatter) view(t *tournament.Tournament, st filter.State, now time.Time) View {
	v := View{
		Index:    t.Index,
		Title:    t.Title(),
		ShopName: t.ShopName(),
		Area:     t.Area(),
		Link:     t.Link(),

		StartText: f.clock(t.StartAt, t.Raw.Get(tournament.ColStartTime)),
		LateText:  f.clock(t.LateRegAt, t.Raw.Get(tournament.ColLateRegistration)),

		EntryFeeText:   f.amount(t.EntryFee),
		AddOnText:      f.amount(t.AddOn),
		GuaranteedText: f.amount(t.GuaranteedAmount),
		TotalPrizeText: UnknownPrize,
		MultiplierText: MultiplierLabel(t.Multiplier),
		PrizeSummary:   prizeSummary(t.PrizeText()),

		Highlight: Classify(t, now),
		Expired:   t.IsExpired(now),

		CardDate:       cardDate(t.DateOnly),
		CardTitle:      t.Title(),
		MultBadge:      multiplierBadge(t.Multiplier),
		MultBadgeClass: BadgeClass(t.Multiplier),
	}

	v.DateText = t.Raw.Get(tournament.ColDate)
	if t.DateOnly != nil {
		v.DateText = t.DateOnly.Format("2006-01-02")
	}
	if t.TotalPrize != nil && *t.TotalPrize > 0 {
		v.TotalPrizeText = f.grouped(*t.TotalPrize)
		v.PrizeBadge = "賞金: ¥" + v.TotalPrizeText
	}
	if t.StartAt != nil {
		v.CardStart = t.StartAt.Format("15:04")
	}
	if t.LateRegAt != nil {
		v.CardLate = "締切 " + t.LateRegAt.Format("15:04")
	}
	if v.EntryFeeText != "" {
		v.CardFee = "¥" + v.EntryFeeText
	}
	if v.CardTitle == "" {
		v.CardTitle = UntitledCard
	}
	if v.MultBadge == "" {
		v.MultBadgeClass = ""
	}
	v.ShopSearchQuery = st.WithSearch(v.ShopName).Encode()
	return v
}
