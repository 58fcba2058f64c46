package server

import (
	"net/url"
	"slices"
	"sort"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

// link is a toggle on the page. Href is the state after selecting it.
type link struct {
	Label  string
	Href   string
	Active bool
}

// column is a sortable table header.
type column struct {
	Label string
	Href  string
	Arrow string
}

type hiddenField struct {
	Name  string
	Value string
}

// pageRow is a view plus the links it needs.
type pageRow struct {
	board.View
	ShopHref string
}

// page is the template model of GET /.
type page struct {
	Error   string
	NoData  string
	Counter string
	Now     string

	Tabs     []link
	Areas    []link
	Titles   []link
	Mults    []link
	ShowLate link
	SortMult link
	Columns  []column

	Search string
	Hidden []hiddenField

	Rows         []pageRow
	CalendarHref string
	APIHref      string
	DebugTime    string
}

var tableColumns = []struct {
	label string
	key   string
}{
	{"日付", tournament.ColDate},
	{"開始", tournament.ColStartTime},
	{"締切", tournament.ColLateRegistration},
	{"タイトル", tournament.ColTitle},
	{"店舗", tournament.ColShopName},
	{"エリア", tournament.ColArea},
	{"参加費", tournament.ColEntryFee},
	{"アドオン", tournament.ColAddOn},
	{"保証", tournament.ColGuaranteed},
	{"総額", tournament.ColTotalPrize},
	{"倍率", filter.SortMultiplier},
}

var multLabels = map[filter.MultBucket]string{
	filter.Mult10to19: "10〜19倍",
	filter.Mult20to29: "20〜29倍",
	filter.Mult30to39: "30〜39倍",
	filter.Mult40to49: "40〜49倍",
	filter.Mult50Plus: "50倍以上",
}

// linker renders state links that keep the request's debug time.
type linker struct {
	debugTime string
}

func (l linker) values(st filter.State) url.Values {
	v := st.Values()
	if l.debugTime != "" {
		v.Set(filter.ParamDebugTime, l.debugTime)
	}
	return v
}

func (l linker) href(path string, st filter.State) string {
	q := l.values(st).Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

func (s *Server) newPage(req request, res *board.Result, errMsg string) page {
	st := req.state
	l := linker{debugTime: req.debugTime}

	p := page{
		Error:        errMsg,
		NoData:       board.NoDataMessage,
		Now:          req.now.Format("2006-01-02 15:04"),
		Search:       st.Search,
		CalendarHref: l.href("/calendar.ics", st),
		APIHref:      l.href("/api/tournaments", st),
		DebugTime:    req.debugTime,
		ShowLate: link{
			Label:  "締切後も表示",
			Href:   l.href("/", st.WithShowExpired(!st.ShowExpired)),
			Active: st.ShowExpired,
		},
	}

	multSort := st.Sort == filter.MultiplierSort()
	p.SortMult = link{
		Label:  "倍率順",
		Href:   l.href("/", st.WithSortByMultiplier(!multSort)),
		Active: multSort,
	}

	tabs := board.DayTabs(st, req.now)
	if res != nil {
		tabs = res.Tabs
		p.Counter = res.Counter()
	}
	for _, tab := range tabs {
		p.Tabs = append(p.Tabs, link{Label: tab.Label, Href: l.href("/", st.WithDate(tab.Bucket)), Active: tab.Active})
	}
	p.Tabs = append(p.Tabs, link{Label: "すべて", Href: l.href("/", st.WithDate(filter.DateNone)), Active: st.Date == filter.DateNone})

	p.Areas = keywordLinks(s.opts.AreaKeywords, st.Areas, func(k string) string {
		return l.href("/", st.ToggleArea(k))
	})
	p.Titles = keywordLinks(s.opts.TitleKeywords, st.Titles, func(k string) string {
		return l.href("/", st.ToggleTitle(k))
	})
	for _, b := range filter.MultBuckets() {
		p.Mults = append(p.Mults, link{Label: multLabels[b], Href: l.href("/", st.WithMult(b)), Active: st.Mult == b})
	}

	for _, col := range tableColumns {
		c := column{Label: col.label, Href: l.href("/", st.ToggleSort(col.key))}
		if st.Sort.Key == col.key {
			c.Arrow = "▲"
			if st.Sort.Desc {
				c.Arrow = "▼"
			}
		}
		p.Columns = append(p.Columns, c)
	}

	hidden := l.values(st.WithSearch(""))
	names := make([]string, 0, len(hidden))
	for name := range hidden {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range hidden[name] {
			p.Hidden = append(p.Hidden, hiddenField{Name: name, Value: v})
		}
	}

	if res != nil {
		p.Rows = make([]pageRow, len(res.Rows))
		for i, v := range res.Rows {
			shop, _ := url.ParseQuery(v.ShopSearchQuery)
			if l.debugTime != "" {
				shop.Set(filter.ParamDebugTime, l.debugTime)
			}
			p.Rows[i] = pageRow{View: v, ShopHref: "/?" + shop.Encode()}
		}
	}
	return p
}

// keywordLinks offers the presets plus any active keyword not among them.
func keywordLinks(presets, active []string, href func(string) string) []link {
	seen := make(map[string]bool, len(presets))
	var out []link
	add := func(k string) {
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, link{Label: k, Href: href(k), Active: slices.Contains(active, k)})
	}
	for _, k := range presets {
		add(k)
	}
	for _, k := range active {
		add(k)
	}
	return out
}
