package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/dataserver"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr  string
	serveRate  float64
	serveBurst int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the location dataset over HTTP",
	Long: "Serves the configured dataset at " + dataserver.DataPath + " so other\n" +
		"instances can load it with --data-url.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)

	src := sourceFor(cfg)
	data, err := catalog.ReadAll(commandContext(cmd), src)
	if err != nil {
		return err
	}
	records, err := catalog.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	log.CatalogLoaded(src.String(), len(records))

	if !flagVals.debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := dataserver.NewRouter(data, len(records), dataserver.Options{
		RatePerSecond: serveRate,
		Burst:         serveBurst,
	}, log)
	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", slog.String("addr", serveAddr), slog.String("path", dataserver.DataPath))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().Float64Var(&serveRate, "rate", 5, "Dataset requests per second per client IP (0 disables limiting)")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 10, "Burst size for --rate")
}
