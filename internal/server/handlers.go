package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/calendar"
	"github.com/pfrederiksen/poker-board/internal/clock"
	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/logger"
)

// request is the parsed boundary of one board request.
type request struct {
	state     filter.State
	now       time.Time
	debugTime string
	opts      board.Options
}

// parseRequest reads the filter state and the reference time. A valid
// debug_time parameter pins now for this request only.
func (s *Server) parseRequest(c *gin.Context) request {
	req := request{
		state: filter.ParseQuery(c.Request.URL.Query()),
		now:   s.clock.Now(),
		opts:  s.opts.Board,
	}
	if s.clock.Active() {
		req.opts.ShowDates = true
	}

	if raw := c.Query(filter.ParamDebugTime); raw != "" {
		t, err := clock.ParseDebugTime(raw, s.clock.Location())
		if err != nil {
			logger.Warn("Ignoring debug time", logger.Fields{"debug_time": raw, "error": err.Error()})
		} else {
			req.now = t
			req.debugTime = raw
			req.opts.ShowDates = true
		}
	}
	return req
}

func (s *Server) build(c *gin.Context) (*board.Result, request, error) {
	req := s.parseRequest(c)
	ds, err := s.loader.Dataset(c.Request.Context())
	if err != nil {
		logger.Error("Failed to load listings", logger.Fields{"path": c.Request.URL.Path}, err)
		return nil, req, err
	}
	c.Header(DatasetIDHeader, ds.ID)
	return board.Build(ds.Rows, req.state, req.now, req.opts), req, nil
}

// handleIndex handles GET /
func (s *Server) handleIndex(c *gin.Context) {
	res, req, err := s.build(c)
	if err != nil {
		c.HTML(http.StatusServiceUnavailable, pageTemplateName, s.newPage(req, nil, LoadErrorMessage))
		return
	}
	c.HTML(http.StatusOK, pageTemplateName, s.newPage(req, res, ""))
}

// handleTournaments handles GET /api/tournaments
func (s *Server) handleTournaments(c *gin.Context) {
	res, _, err := s.build(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("SOURCE_UNAVAILABLE", LoadErrorMessage))
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleCalendar handles GET /calendar.ics
func (s *Server) handleCalendar(c *gin.Context) {
	res, req, err := s.build(c)
	if err != nil {
		c.String(http.StatusServiceUnavailable, LoadErrorMessage)
		return
	}
	ics := calendar.GenerateICS(res.Tournaments, s.opts.CalendarName, req.now)
	c.Header("Content-Disposition", `inline; filename="tournaments.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
