package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/events"
	"git.home.luguber.info/inful/sitebuilder/internal/history"
	"git.home.luguber.info/inful/sitebuilder/internal/linkcheck"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/source"
	"git.home.luguber.info/inful/sitebuilder/internal/watch"
)

// runBuild performs one generation run plus the configured side channels.
// Side channels (history, events, link check) never fail the build; their
// errors are logged and the run's outcome stands.
func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	recorder := setupRecorder(cfg, logger)

	contentPath, err := source.NewManager("", logger).Resolve(ctx, cfg.Content)
	if err != nil {
		return err
	}
	cfg.Content.Path = contentPath

	engine, err := render.NewEngine(cfg.Templates.Path)
	if err != nil {
		return err
	}

	assembler := site.New(cfg, engine, logger, recorder)
	report, buildErr := assembler.Build(ctx)

	recordHistory(ctx, cfg, logger, report, buildErr)
	publishEvent(cfg, logger, report, buildErr)

	if buildErr != nil {
		return buildErr
	}

	if cfg.LinkCheck.Enabled {
		issues, checkErr := linkcheck.Run(report.OutputDir)
		if checkErr != nil {
			logger.Warn("link check failed", logfields.Error(checkErr))
		}
		for _, issue := range issues {
			logger.Warn("broken internal link",
				logfields.Path(issue.Document),
				logfields.URL(issue.Target))
		}
		if len(issues) == 0 && checkErr == nil {
			logger.Info("link check passed", logfields.Count(report.DocumentsWritten))
		}
	}

	logger.Info("site generated",
		logfields.RunID(report.RunID),
		logfields.Path(report.OutputDir),
		logfields.Count(report.DocumentsWritten))
	return nil
}

// runValidate loads and validates content definitions without touching the
// output directory.
func runValidate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	contentPath, err := source.NewManager("", logger).Resolve(ctx, cfg.Content)
	if err != nil {
		return err
	}

	defs, err := content.Load(contentPath)
	if err != nil {
		return err
	}
	entities, err := content.Build(defs)
	if err != nil {
		return err
	}

	logger.Info("content is valid", logfields.Count(len(entities)))
	return nil
}

// runWatch rebuilds on every content change until interrupted.
func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Content.Git != nil && cfg.Watch.Interval == 0 {
		return fmt.Errorf("watching a git source requires watch.interval")
	}

	watchPath := cfg.Content.Path
	rebuild := func(ctx context.Context) error {
		// Reload config each pass so edits to it are picked up too.
		fresh, err := config.Load(CLI.Config)
		if err != nil {
			return err
		}
		if CLI.Build.Output != "" {
			fresh.Output.Directory = CLI.Build.Output
		}
		return runBuild(ctx, fresh, logger)
	}

	watcher, err := watch.New(watchPath, cfg.Watch.Debounce, cfg.Watch.Interval, rebuild, logger)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// runHistory prints recent runs from the history database.
func runHistory(ctx context.Context, cfg *config.Config, limit int) error {
	if !cfg.History.Enabled {
		return fmt.Errorf("history is not enabled in the configuration")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %s  %-7s  %d documents  %dms",
			r.StartedAt.Format(time.RFC3339), r.RunID, r.Outcome, r.Documents, r.DurationMS)
		if r.Detail != "" {
			line += "  " + r.Detail
		}
		fmt.Println(line)
	}
	return nil
}

var (
	recorderOnce   sync.Once
	sharedRecorder metrics.Recorder
)

// setupRecorder wires Prometheus metrics when enabled, exposing them on the
// configured listen address. The recorder and its endpoint are shared across
// rebuilds in watch mode.
func setupRecorder(cfg *config.Config, logger *slog.Logger) metrics.Recorder {
	if !cfg.Metrics.Enabled {
		return metrics.NoopRecorder{}
	}
	recorderOnce.Do(func() {
		registry := prom.NewRegistry()
		sharedRecorder = metrics.NewPrometheusRecorder(registry)
		go func() {
			server := &http.Server{
				Addr:              cfg.Metrics.Listen,
				Handler:           metrics.HTTPHandler(registry),
				ReadHeaderTimeout: 5 * time.Second,
			}
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics endpoint stopped", logfields.Error(err))
			}
		}()
	})
	return sharedRecorder
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, report *site.Report, buildErr error) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history store unavailable", logfields.Error(err))
		return
	}
	defer func() {
		_ = store.Close()
	}()

	run := history.Run{Outcome: "success", StartedAt: time.Now()}
	if report != nil {
		run.RunID = report.RunID
		run.StartedAt = report.StartedAt
		run.DurationMS = report.Duration.Milliseconds()
		run.Documents = report.DocumentsWritten
		run.Entities = report.Pages + report.Articles + report.Datasets
	}
	if buildErr != nil {
		run.Outcome = "failed"
		run.Detail = buildErr.Error()
		if run.RunID == "" {
			run.RunID = fmt.Sprintf("failed-%d", time.Now().UnixNano())
		}
	}
	if err := store.Record(ctx, run); err != nil {
		logger.Warn("failed to record run history", logfields.Error(err))
	}
}

func publishEvent(cfg *config.Config, logger *slog.Logger, report *site.Report, buildErr error) {
	if !cfg.Events.Enabled {
		return
	}
	publisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Subject, logger)
	if err != nil {
		logger.Warn("event publisher unavailable", logfields.Error(err))
		return
	}
	defer publisher.Close()

	ev := events.BuildEvent{Outcome: "success", CompletedAt: time.Now()}
	if report != nil {
		ev.RunID = report.RunID
		ev.Documents = report.DocumentsWritten
		ev.DurationMS = report.Duration.Milliseconds()
	}
	if buildErr != nil {
		ev.Outcome = "failed"
		ev.Detail = buildErr.Error()
	}
	if err := publisher.PublishBuildCompleted(ev); err != nil {
		logger.Warn("failed to publish build event", logfields.Error(err))
	}
}
