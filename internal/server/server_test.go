package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/clock"
	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/source"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.SetDefault(logger.New(logger.LevelError, io.Discard))
	os.Exit(m.Run())
}

var jst = time.FixedZone("JST", 9*60*60)

type stubLoader struct {
	ds  *source.Dataset
	err error
}

func (s stubLoader) Dataset(ctx context.Context) (*source.Dataset, error) {
	return s.ds, s.err
}

func testDataset() *source.Dataset {
	rows := []tournament.Row{
		{
			tournament.ColTitle:            "Late Turbo",
			tournament.ColShopName:         "Ace Club",
			tournament.ColArea:             "Shibuya",
			tournament.ColStartTime:        "2026/02/14 22:00",
			tournament.ColLateRegistration: "2026/02/15 01:00",
			tournament.ColEntryFee:         "3000",
			tournament.ColTotalPrize:       "150000",
		},
		{
			tournament.ColTitle:            "Afternoon",
			tournament.ColShopName:         "King's Room",
			tournament.ColArea:             "Shinjuku",
			tournament.ColStartTime:        "2026/02/14 13:00",
			tournament.ColLateRegistration: "2026/02/14 15:00",
			tournament.ColEntryFee:         "2000",
			tournament.ColTotalPrize:       "30000",
		},
		{
			tournament.ColTitle:            "Evening",
			tournament.ColShopName:         "Queen Bar",
			tournament.ColArea:             "Shibuya",
			tournament.ColStartTime:        "2026/02/14 19:00",
			tournament.ColLateRegistration: "2026/02/14 21:00",
			tournament.ColEntryFee:         "5000",
			tournament.ColTotalPrize:       "120000",
		},
		{
			tournament.ColTitle:            "Tomorrow",
			tournament.ColLateRegistration: "2026/02/15 20:00",
		},
	}
	return &source.Dataset{
		ID:       "ds-1",
		LoadedAt: time.Date(2026, 2, 14, 19, 0, 0, 0, jst),
		Rows:     tournament.NewNormalizer(jst).NormalizeAll(rows),
	}
}

func newTestServer(loader DatasetLoader) *Server {
	clk := clock.Fixed(time.Date(2026, 2, 14, 20, 0, 0, 0, jst))
	opts := Options{
		Board:         board.DefaultOptions(),
		AreaKeywords:  []string{"Shibuya", "Shinjuku"},
		TitleKeywords: []string{"Turbo"},
	}
	return New(loader, clk, opts)
}

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, s, httptest.NewRequest(http.MethodGet, target, nil))
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) board.Result {
	t.Helper()
	var res board.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func resultTitles(res board.Result) []string {
	out := make([]string, 0, len(res.Rows))
	for _, v := range res.Rows {
		out = append(out, v.Title)
	}
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	w := get(t, s, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTournamentsAPI(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	tests := []struct {
		name      string
		target    string
		want      []string
		wantTotal int
	}{
		{
			name:      "default state hides expired and other days",
			target:    "/api/tournaments",
			want:      []string{"Evening", "Late Turbo"},
			wantTotal: 4,
		},
		{
			name:      "show late keeps expired rows",
			target:    "/api/tournaments?showLate=1",
			want:      []string{"Afternoon", "Evening", "Late Turbo"},
			wantTotal: 4,
		},
		{
			name:      "multiplier sort",
			target:    "/api/tournaments?sortMult=1",
			want:      []string{"Late Turbo", "Evening"},
			wantTotal: 4,
		},
		{
			name:      "debug time moves now back",
			target:    "/api/tournaments?debug_time=2026-02-14T14:00",
			want:      []string{"Afternoon", "Evening", "Late Turbo"},
			wantTotal: 4,
		},
		{
			name:      "invalid debug time is ignored",
			target:    "/api/tournaments?debug_time=yesterday",
			want:      []string{"Evening", "Late Turbo"},
			wantTotal: 4,
		},
		{
			name:      "tomorrow tab",
			target:    "/api/tournaments?date=tomorrow",
			want:      []string{"Tomorrow", "Late Turbo"},
			wantTotal: 4,
		},
		{
			name:      "search with no match",
			target:    "/api/tournaments?search=nothing-here",
			want:      []string{},
			wantTotal: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, tt.target)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "ds-1", w.Header().Get(DatasetIDHeader))

			res := decodeResult(t, w)
			assert.Equal(t, tt.want, resultTitles(res))
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Equal(t, len(tt.want), res.Matched)
		})
	}
}

func TestTournamentsAPI_DebugTimeShowsDates(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	res := decodeResult(t, get(t, s, "/api/tournaments?debug_time=2026-02-14T14:00"))

	require.NotEmpty(t, res.Rows)
	assert.Equal(t, "2/14 13:00", res.Rows[0].StartText)
	assert.True(t, res.Now.Equal(time.Date(2026, 2, 14, 14, 0, 0, 0, jst)), "now = %v", res.Now)
}

func TestTournamentsAPI_LoadFailure(t *testing.T) {
	s := newTestServer(stubLoader{err: errors.New("connection refused")})

	w := get(t, s, "/api/tournaments")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SOURCE_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, LoadErrorMessage, body.Error.Message)
}

func parseHTML(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestIndex(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	w := get(t, s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc := parseHTML(t, w)
	rows := doc.Find("table.board tbody tr")
	assert.Equal(t, 2, rows.Length())
	assert.Equal(t, "Evening", strings.TrimSpace(rows.First().Find("td").Eq(3).Text()))
	assert.Equal(t, "2 / 4", strings.TrimSpace(doc.Find("p.counter").Text()))
	assert.Equal(t, 2, doc.Find(".cards .card").Length())

	tabs := doc.Find("nav.tabs a")
	assert.Equal(t, 3, tabs.Length())
	assert.True(t, tabs.First().HasClass("active"))
	assert.Equal(t, "2月14日(土)", tabs.First().Text())
	href, _ := tabs.Eq(1).Attr("href")
	assert.Equal(t, "/?date=tomorrow", href)

	shop, _ := rows.First().Find("a.shop").Attr("href")
	assert.Equal(t, "/?search=Queen+Bar", shop)

	assert.Equal(t, 2, doc.Find("div.areas a").Length())
	assert.Equal(t, 5, doc.Find("div.mults a").Not(".sort-mult, .show-late").Length())
}

func TestIndex_ActiveToggles(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	doc := parseHTML(t, get(t, s, "/?area=Shibuya&area=Ikebukuro&sortMult=1"))

	areas := doc.Find("div.areas a")
	assert.Equal(t, 3, areas.Length(), "presets plus the active non-preset keyword")
	assert.True(t, areas.First().HasClass("active"))
	assert.False(t, areas.Eq(1).HasClass("active"))
	assert.Equal(t, "Ikebukuro", areas.Eq(2).Text())

	sortMult := doc.Find("a.sort-mult")
	assert.True(t, sortMult.HasClass("active"))
	href, _ := sortMult.Attr("href")
	assert.Equal(t, "/?area=Shibuya&area=Ikebukuro", href)

	var hidden []string
	doc.Find("form.search input[type=hidden]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		value, _ := sel.Attr("value")
		hidden = append(hidden, name+"="+value)
	})
	assert.Equal(t, []string{"area=Shibuya", "area=Ikebukuro", "sortMult=1"}, hidden)
}

func TestIndex_KeepsDebugTimeInLinks(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	doc := parseHTML(t, get(t, s, "/?debug_time=2026-02-14T14:00"))

	assert.Equal(t, 3, doc.Find("table.board tbody tr").Length())
	doc.Find("nav.tabs a, a.shop, a.show-late").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		assert.Contains(t, href, "debug_time=2026-02-14T14%3A00")
	})
	assert.Equal(t, 1, doc.Find("p.debug-time").Length())
}

func TestIndex_NoData(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	doc := parseHTML(t, get(t, s, "/?search=nothing-here"))

	noData := doc.Find("table.board tbody tr.no-data")
	require.Equal(t, 1, noData.Length())
	assert.Equal(t, board.NoDataMessage, strings.TrimSpace(noData.Text()))
	assert.Equal(t, "0 / 4", strings.TrimSpace(doc.Find("p.counter").Text()))
}

func TestIndex_LoadFailure(t *testing.T) {
	s := newTestServer(stubLoader{err: errors.New("timeout")})

	w := get(t, s, "/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	doc := parseHTML(t, w)
	assert.Equal(t, LoadErrorMessage, strings.TrimSpace(doc.Find("p.error").Text()))
	assert.Equal(t, 0, doc.Find("table.board").Length())
}

func TestCalendar(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	w := get(t, s, "/calendar.ics?showLate=1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
	body := w.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"))
}

func TestCalendar_LoadFailure(t *testing.T) {
	s := newTestServer(stubLoader{err: errors.New("timeout")})

	w := get(t, s, "/calendar.ics")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, LoadErrorMessage, w.Body.String())
}

func TestMetrics(t *testing.T) {
	prev := logger.DefaultMetrics()
	logger.SetDefaultMetrics(logger.NewMetrics())
	defer logger.SetDefaultMetrics(prev)

	s := newTestServer(stubLoader{ds: testDataset()})

	get(t, s, "/api/tournaments")
	w := get(t, s, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `poker_board_events_total{name="http.requests"} 1`)
	assert.Contains(t, body, `poker_board_events_total{name="board.builds"} 1`)
}

func TestCORS(t *testing.T) {
	s := newTestServer(stubLoader{ds: testDataset()})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tournaments", nil)
		req.Header.Set("Origin", "https://example.com")

		w := serve(t, s, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/tournaments", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)

		w := serve(t, s, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRun_StopsWhenContextCanceled(t *testing.T) {
	s := New(stubLoader{ds: testDataset()}, clock.Fixed(time.Date(2026, 2, 14, 20, 0, 0, 0, jst)), Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
