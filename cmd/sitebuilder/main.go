// Command sitebuilder generates a static site from YAML content definitions.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Build struct {
		Output string `short:"o" help:"Override the configured output directory"`
	} `cmd:"" help:"Generate the site once"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write an example configuration file"`

	Validate struct{} `cmd:"" help:"Load and validate content definitions without writing output"`

	Watch struct{} `cmd:"" help:"Rebuild continuously on content changes"`

	History struct {
		Limit int `default:"10" help:"Number of runs to show"`
	} `cmd:"" help:"Show recent generation runs"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Vars{"version": version.String()})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "build":
		cfg := mustLoadConfig(logger)
		if err := runBuild(ctx, cfg, logger); err != nil {
			logger.Error("build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			logger.Error("init failed", "error", err)
			os.Exit(1)
		}
		logger.Info("configuration written", "path", CLI.Config)
	case "validate":
		cfg := mustLoadConfig(logger)
		if err := runValidate(ctx, cfg, logger); err != nil {
			logger.Error("validation failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		cfg := mustLoadConfig(logger)
		if err := runWatch(ctx, cfg, logger); err != nil {
			logger.Error("watch failed", "error", err)
			os.Exit(1)
		}
	case "history":
		cfg := mustLoadConfig(logger)
		if err := runHistory(ctx, cfg, CLI.History.Limit); err != nil {
			logger.Error("history failed", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown command", "command", kctx.Command())
		os.Exit(1)
	}
}

func mustLoadConfig(logger *slog.Logger) *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if CLI.Build.Output != "" {
		cfg.Output.Directory = CLI.Build.Output
	}
	return cfg
}
