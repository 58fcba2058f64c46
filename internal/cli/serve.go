package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/server"
)

var (
	flagAddr     string
	flagServeNow string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config, default :8080)")
	cmd.Flags().StringVar(&flagServeNow, "now", "", "Pin the current time for every request")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if cfg.Level() != logger.LevelDebug && !flagVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	loader, loc, err := newLoader(cfg, cfg.CacheTTL)
	if err != nil {
		return err
	}
	clk, err := newClock(loc, flagServeNow)
	if err != nil {
		return err
	}

	srv := server.New(loader, clk, server.Options{
		Addr:          cfg.Addr,
		CORSOrigins:   cfg.CORSOrigins,
		Board:         board.Options{Filter: cfg.FilterOptions()},
		AreaKeywords:  cfg.AreaKeywords,
		TitleKeywords: cfg.TitleKeywords,
		CalendarName:  CalendarName,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Serving listings", logger.Fields{
		"addr":   cfg.Addr,
		"source": cfg.SourceURL,
		"ttl":    cfg.CacheTTL.String(),
	})
	return srv.Run(ctx)
}
