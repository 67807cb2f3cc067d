// Package main is the entry point for the activity report.
// It prints system uptime and a per-program table of long-running processes,
// then optionally exports the table to an Excel workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Guliveer/vitalis/activity/internal/collector"
	"github.com/Guliveer/vitalis/activity/internal/config"
	"github.com/Guliveer/vitalis/activity/internal/export"
	"github.com/Guliveer/vitalis/activity/internal/prompt"
	"github.com/Guliveer/vitalis/activity/internal/render"
	"github.com/Guliveer/vitalis/activity/internal/runner"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file (default: search standard locations)")
	showVersion = flag.Bool("version", false, "Show version and exit")
	minActive   = flag.Duration("min-active", 0, "Hide programs active for less than this (default from config, 60s)")
	colorMode   = flag.String("color", "", "Color output: auto, always or never")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn or error")
	exportPath  = flag.String("export", "", "Export to this .xlsx path without prompting (\"-\" for the default path)")
	noPrompt    = flag.Bool("no-prompt", false, "Print the report and exit without offering an export")
	writeConfig = flag.String("write-config", "", "Write the effective configuration to this path and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("activity-report %s\n", version)
		os.Exit(0)
	}

	cli := config.CLIOverrides{
		MinActiveTime: *minActive,
		Color:         *colorMode,
		LogLevel:      *logLevel,
	}
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadLayered(cli, embeddedConfig, *configPath)
	} else {
		cfg, err = config.LoadLayered(cli, embeddedConfig)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := config.WriteConfig(cfg, *writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration written to %s\n", *writeConfig)
		return
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Debug("Starting activity report",
		zap.String("version", version),
		zap.Duration("min_active_time", cfg.Report.MinActiveTime.Duration))

	// ctx bounds the OS queries only; the export prompt is a plain blocking read.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRunner(cfg, logger).Run(ctx); err != nil {
		logger.Error("Report failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// newRunner assembles the pipeline from the configuration and flags.
func newRunner(cfg *config.Config, logger *zap.Logger) *runner.Runner {
	sampler := collector.NewSampler(collector.ListProcesses, collector.SamplerOptions{
		MinActiveTime:   cfg.Report.MinActiveTime.Duration,
		IdleProcessName: cfg.Report.IdleProcessName,
	}, logger.Named("sampler"))

	console := render.NewConsole(render.Options{
		Output:        os.Stdout,
		Color:         render.ColorMode(cfg.Display.Color),
		MinActiveTime: cfg.Report.MinActiveTime.Duration,
	})

	opts := runner.Options{
		DefaultPath: func(now time.Time) string {
			dir := cfg.Export.Dir
			if dir == "" {
				dir, _ = os.Getwd()
			}
			return export.DefaultPath(dir, cfg.Export.FilePrefix, now)
		},
	}
	switch {
	case *exportPath == "-":
		opts.Mode = runner.ExportTo
	case *exportPath != "":
		opts.Mode = runner.ExportTo
		opts.ExportPath = *exportPath
	case *noPrompt:
		opts.Mode = runner.ExportNever
	}

	return runner.New(
		collector.NewBootClock(),
		sampler,
		console,
		prompt.New(os.Stdin, os.Stdout),
		export.NewExcel(cfg.Export.SheetName),
		os.Stdout,
		opts,
		logger,
	)
}

// initLogger creates a zap logger based on the configuration.
// Console output goes to stderr so it never interleaves with the report;
// a JSON log file is added when configured.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.WarnLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
