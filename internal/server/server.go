package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/clock"
	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/source"
)

// LoadErrorMessage is shown when the sheet cannot be loaded.
const LoadErrorMessage = "読み込みに失敗しました。ネットワークやCSVの公開設定を確認してください。"

// DatasetIDHeader carries the id of the data set a response was built from.
const DatasetIDHeader = "X-Dataset-ID"

const shutdownTimeout = 10 * time.Second

// DatasetLoader supplies the normalized sheet.
type DatasetLoader interface {
	Dataset(ctx context.Context) (*source.Dataset, error)
}

// Options configures the HTTP surface.
type Options struct {
	Addr        string
	CORSOrigins []string
	Board       board.Options

	// AreaKeywords and TitleKeywords are offered as toggles on the page.
	AreaKeywords  []string
	TitleKeywords []string

	// CalendarName is the X-WR-CALNAME of the ICS feed.
	CalendarName string
}

// Server serves the listing board.
type Server struct {
	loader  DatasetLoader
	clock   *clock.Override
	opts    Options
	metrics *logger.Metrics
	engine  *gin.Engine
}

// New creates a server reading rows from loader and "now" from clk.
func New(loader DatasetLoader, clk *clock.Override, opts Options) *Server {
	if clk == nil {
		clk = clock.New(nil)
	}
	if opts.CalendarName == "" {
		opts.CalendarName = "Poker Tournaments"
	}
	s := &Server{
		loader:  loader,
		clock:   clk,
		opts:    opts,
		metrics: logger.DefaultMetrics(),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the gin engine serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(pageTemplate)

	router.Use(ErrorHandler())
	router.Use(RequestLogger(s.metrics))
	router.Use(CORS(s.opts.CORSOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))

	router.GET("/", s.handleIndex)
	router.GET("/calendar.ics", s.handleCalendar)

	api := router.Group("/api")
	{
		api.GET("/tournaments", s.handleTournaments)
	}

	return router
}

// Run listens on Options.Addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", logger.Fields{"addr": s.opts.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", s.opts.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		logger.Info("HTTP server shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
