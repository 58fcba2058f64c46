// Package server exposes the listing board over HTTP with gin.
//
// Routes:
//
//	GET /                 HTML table and card views
//	GET /api/tournaments  board.Result as JSON
//	GET /calendar.ics     iCalendar feed of the visible rows
//	GET /metrics          Prometheus exposition of logger.DefaultMetrics
//	GET /healthz          liveness check
//
// Every board route reads the filter state from the query string and accepts
// debug_time to pin "now" for that request.
package server
