package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/pipeline/steps"
	"github.com/jonathan/portfolio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Render the site, serve it locally and rebuild on changes",
	Long: `Performs an initial render, serves the output directory and watches the
content file, the shell and the template directory. Every change triggers a
rebuild; open pages can follow rebuilds on /api/events.`,
	RunE: runServe,
}

var serveAllowAll bool

func init() {
	addPageFlags(serveCmd.Flags())
	addDataFlag(serveCmd.Flags())
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveAllowAll, "cors-allow-all", false, "Allow every CORS origin")

	rootCmd.AddCommand(serveCmd)
}

// buildStatus summarizes a build for the preview server
func buildStatus(res *buildResult, err error, now time.Time) server.BuildStatus {
	status := server.BuildStatus{BuiltAt: now}
	if err != nil {
		status.Error = err.Error()
		return status
	}
	report := res.Page.Report
	status.OK = report.Count(steps.StatusOK)
	status.Skipped = report.Count(steps.StatusSkipped)
	status.Failed = report.Count(steps.StatusFailed)
	return status
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := slog.Default()

	s, err := openSite(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("performing initial build")
	res, err := s.build(ctx)
	if err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		Root:     cfg.OutDir,
		AllowAll: serveAllowAll,
		Logger:   logger,
	})
	srv.Publish(buildStatus(res, nil, time.Now()))

	var buildMu sync.Mutex
	rebuild := func() {
		buildMu.Lock()
		defer buildMu.Unlock()
		logger.Info("rebuilding site")
		if fetch.IsURL(cfg.Content) {
			if err := s.fetcher.InvalidateCache(cfg.Content); err != nil {
				logger.Warn("could not invalidate cached content", "error", err)
			}
		}
		res, err := s.build(ctx)
		if err != nil {
			logger.Error("rebuild failed", "error", err)
		}
		srv.Publish(buildStatus(res, err, time.Now()))
	}

	watched := []string{cfg.Shell, cfg.Templates}
	if !fetch.IsURL(cfg.Content) {
		watched = append(watched, cfg.Content)
	}
	watcher, err := server.NewWatcher(watched, server.DefaultDebounce, rebuild, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return srv.Start(gctx) })
	return g.Wait()
}
