package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github/itish2003/deepsearch/controller"
	"github/itish2003/deepsearch/services"
)

var (
	servePort  int
	serveWatch bool
)

// serveCmd starts the web front end
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web search interface",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload datasets when files in the data directory change")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	search, loader, err := newSearchService(ctx)
	if err != nil {
		return err
	}

	if serveWatch {
		dirs := []string{cfg.DataDir}
		for _, d := range []string{cfg.DocumentsDir, cfg.SchedulesDir} {
			if p := cfg.Path(d); p != "" {
				if info, err := os.Stat(p); err == nil && info.IsDir() {
					dirs = append(dirs, filepath.Clean(p))
				}
			}
		}
		watcher := services.NewCatalogWatcher(loader, search, services.DefaultReloadInterval, logger, dirs...)
		watcher.Scan()
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	ctrl := controller.NewSearchController(search, cfg.FuzzyThreshold, logger)
	router := controller.NewRouter(ctrl, logger)

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web search interface starting", zap.String("url", fmt.Sprintf("http://localhost:%d", port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down web search interface")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
