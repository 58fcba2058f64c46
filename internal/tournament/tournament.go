package tournament

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// Column names read from the sheet header.
const (
	ColDate             = "date"
	ColStartTime        = "start_time"
	ColLateRegistration = "late_registration_time"
	ColEntryFee         = "entry_fee"
	ColAddOn            = "add_on"
	ColGuaranteed       = "guaranteed_amount"
	ColTotalPrize       = "total_prize"
	ColPrizeList        = "prize_list"
	ColPrizeText        = "prize_text"
	ColTitle            = "title"
	ColShopName         = "shop_name"
	ColArea             = "area"
	ColLink             = "link"
)

// Row is one raw sheet record keyed by column name. A missing key and an
// empty cell are treated the same.
type Row map[string]string

// Get returns the cell for col, or "" when absent.
func (r Row) Get(col string) string {
	return r[col]
}

// Tournament is a normalized sheet row. Its identity is its Index in the
// loaded data set; the sheet has no primary key.
type Tournament struct {
	Index int `json:"index" yaml:"index"`
	Raw   Row `json:"raw" yaml:"raw"`

	EntryFee         *float64 `json:"entry_fee" yaml:"entry_fee"`
	AddOn            *float64 `json:"add_on" yaml:"add_on"`
	GuaranteedAmount *float64 `json:"guaranteed_amount" yaml:"guaranteed_amount"`
	TotalPrize       *float64 `json:"total_prize" yaml:"total_prize"`

	DateOnly  *time.Time `json:"date_only" yaml:"date_only"`
	StartAt   *time.Time `json:"start_at" yaml:"start_at"`
	LateRegAt *time.Time `json:"late_registration_at" yaml:"late_registration_at"`

	// Sortable shadows of the times above in unix milliseconds,
	// math.Inf(-1) when the time is absent.
	DateOnlyTS float64 `json:"-" yaml:"-"`
	StartTS    float64 `json:"-" yaml:"-"`
	LateRegTS  float64 `json:"-" yaml:"-"`

	Multiplier *float64 `json:"multiplier" yaml:"multiplier"`
	Satellite  bool     `json:"satellite,omitempty" yaml:"satellite,omitempty"`
}

// Title returns the raw title cell.
func (t *Tournament) Title() string { return t.Raw.Get(ColTitle) }

// ShopName returns the raw shop name cell.
func (t *Tournament) ShopName() string { return t.Raw.Get(ColShopName) }

// Area returns the raw area cell.
func (t *Tournament) Area() string { return t.Raw.Get(ColArea) }

// Link returns the raw link cell.
func (t *Tournament) Link() string { return t.Raw.Get(ColLink) }

// PrizeText returns the raw prize summary cell.
func (t *Tournament) PrizeText() string { return t.Raw.Get(ColPrizeText) }

// IsExpired reports whether late registration closed before now.
// Rows without a late registration time never expire.
func (t *Tournament) IsExpired(now time.Time) bool {
	return t.LateRegAt != nil && t.LateRegAt.Before(now)
}

// typedColumns are the raw columns superseded by a parsed field.
var typedColumns = map[string]bool{
	ColEntryFee:   true,
	ColAddOn:      true,
	ColGuaranteed: true,
	ColTotalPrize: true,
}

// SearchValues returns every field of the row as text: raw cells (parsed
// amounts replace their raw text) plus the derived dates and multiplier.
// Free-text, area and title filters match against all of them.
func (t *Tournament) SearchValues() []string {
	cols := make([]string, 0, len(t.Raw))
	for col := range t.Raw {
		if !typedColumns[col] {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)

	values := make([]string, 0, len(cols)+10)
	for _, col := range cols {
		if v := t.Raw[col]; v != "" {
			values = append(values, v)
		}
	}
	for _, n := range []*float64{t.EntryFee, t.AddOn, t.GuaranteedAmount, t.TotalPrize, t.Multiplier} {
		if n != nil {
			values = append(values, strconv.FormatFloat(*n, 'f', -1, 64))
		}
	}
	for _, d := range []*time.Time{t.DateOnly, t.StartAt, t.LateRegAt} {
		if d != nil {
			values = append(values, d.Format("2006-01-02 15:04"))
		}
	}
	return values
}

// Normalizer converts raw rows using a multiplier policy and the sheet's
// local time zone.
type Normalizer struct {
	Policy   MultiplierPolicy
	Location *time.Location
}

// NewNormalizer returns a Normalizer with DefaultPolicy in loc.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{Policy: DefaultPolicy(), Location: loc}
}

// Normalize converts one raw row. It never fails: every field degrades to
// nil independently. A prize total summed from the prize list wins over the
// literal total_prize cell.
func (n *Normalizer) Normalize(index int, raw Row) Tournament {
	t := Tournament{
		Index:            index,
		Raw:              raw,
		EntryFee:         amountPtr(raw.Get(ColEntryFee)),
		AddOn:            amountPtr(raw.Get(ColAddOn)),
		GuaranteedAmount: amountPtr(raw.Get(ColGuaranteed)),
		TotalPrize:       prizeTotal(raw),
		Satellite:        n.Policy.IsSatellite(raw.Get(ColTitle)),
	}

	t.DateOnly, t.DateOnlyTS = n.timePtr(raw.Get(ColDate), true)
	t.StartAt, t.StartTS = n.timePtr(raw.Get(ColStartTime), false)
	t.LateRegAt, t.LateRegTS = n.timePtr(raw.Get(ColLateRegistration), false)

	if m, ok := n.Policy.Compute(t.TotalPrize, t.EntryFee, t.AddOn, raw.Get(ColTitle)); ok {
		t.Multiplier = &m
	}
	return t
}

// NormalizeAll converts rows in order; the position becomes the Index.
func (n *Normalizer) NormalizeAll(rows []Row) []Tournament {
	out := make([]Tournament, len(rows))
	for i, r := range rows {
		out[i] = n.Normalize(i, r)
	}
	return out
}

// Normalize converts raw with DefaultPolicy in the local time zone.
func Normalize(raw Row) Tournament {
	return NewNormalizer(time.Local).Normalize(0, raw)
}

func (n *Normalizer) timePtr(text string, dayOnly bool) (*time.Time, float64) {
	t, ok := ParseLocalDateTime(text, n.Location)
	if !ok {
		return nil, math.Inf(-1)
	}
	ts := t
	if dayOnly {
		ts = StartOfDay(t)
	}
	return &t, float64(ts.UnixMilli())
}

func prizeTotal(raw Row) *float64 {
	list := raw.Get(ColPrizeList)
	if list == "" {
		list = raw.Get(ColPrizeText)
	}
	if sum, ok := ParsePrizeBreakdown(list); ok {
		return &sum
	}
	return amountPtr(raw.Get(ColTotalPrize))
}

func amountPtr(text string) *float64 {
	v, ok := ParseAmount(text)
	if !ok {
		return nil
	}
	return &v
}
