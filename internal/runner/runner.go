// Package runner executes one report run: sample, aggregate, build, render,
// and optionally export. The run is synchronous and single-pass; the only
// blocking point is the export prompt.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/activity/internal/aggregate"
	"github.com/Guliveer/vitalis/activity/internal/export"
	"github.com/Guliveer/vitalis/activity/internal/models"
	"github.com/Guliveer/vitalis/activity/internal/report"
)

// BootClock reports when the system booted.
type BootClock interface {
	BootTime(ctx context.Context) (time.Time, error)
}

// Sampler reads qualifying processes from the OS.
type Sampler interface {
	Sample(ctx context.Context, now, boundary time.Time) ([]models.RawProcessSample, error)
}

// Console prints the header and the report table.
type Console interface {
	Print(h models.Header, rows []models.ReportRow) error
}

// Prompter asks whether to export and where to.
type Prompter interface {
	WantsExport() (bool, error)
	Destination(def string) (string, error)
}

// Exporter writes rows to a spreadsheet file.
type Exporter interface {
	Export(rows []models.ReportRow, path string) error
}

// ExportMode selects how the run reaches the export step.
type ExportMode int

const (
	// ExportAsk prompts the user after the table is printed.
	ExportAsk ExportMode = iota
	// ExportNever renders only.
	ExportNever
	// ExportTo writes to Options.ExportPath without prompting.
	ExportTo
)

// Options configures a Runner.
type Options struct {
	Mode ExportMode
	// ExportPath is used with ExportTo; empty means the default path.
	ExportPath string
	// DefaultPath builds the fallback workbook path from the snapshot time.
	// Nil means a timestamped file in the working directory.
	DefaultPath func(now time.Time) string
	// Now overrides the wall clock.
	Now func() time.Time
}

// Runner wires the report pipeline together.
type Runner struct {
	clock    BootClock
	sampler  Sampler
	console  Console
	prompter Prompter
	exporter Exporter
	out      io.Writer
	opts     Options
	logger   *zap.Logger
}

// New creates a Runner. out receives export status messages.
func New(clock BootClock, sampler Sampler, console Console, prompter Prompter, exporter Exporter, out io.Writer, opts Options, logger *zap.Logger) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultPath == nil {
		opts.DefaultPath = func(now time.Time) string {
			dir, _ := os.Getwd()
			return export.DefaultPath(dir, export.DefaultFilePrefix, now)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		clock:    clock,
		sampler:  sampler,
		console:  console,
		prompter: prompter,
		exporter: exporter,
		out:      out,
		opts:     opts,
		logger:   logger,
	}
}

// Run performs one full report. An error means the report itself could not be
// produced; export failures are printed and do not fail the run.
func (r *Runner) Run(ctx context.Context) error {
	boot, err := r.clock.BootTime(ctx)
	if err != nil {
		return err
	}
	now := r.opts.Now()

	samples, err := r.sampler.Sample(ctx, now, boot)
	if err != nil {
		return err
	}
	groups := aggregate.Aggregate(samples)
	rows := report.Build(groups, now)

	r.logger.Debug("Built report",
		zap.Int("samples", len(samples)),
		zap.Int("groups", len(groups)),
		zap.Time("boot", boot))

	if err := r.console.Print(report.NewHeader(boot, now), rows); err != nil {
		return fmt.Errorf("printing report: %w", err)
	}

	path, ok, err := r.destination(now)
	if err != nil {
		r.logger.Warn("Reading export prompt failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	if err := r.exporter.Export(rows, path); err != nil {
		r.logger.Warn("Export failed", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(r.out, "Error saving Excel file: %v\n", err)
		return nil
	}
	fmt.Fprintf(r.out, "Report saved to %s\n", path)
	return nil
}

// destination resolves the export path, prompting when required.
// ok is false when no export should happen.
func (r *Runner) destination(now time.Time) (path string, ok bool, err error) {
	def := r.opts.DefaultPath(now)

	switch r.opts.Mode {
	case ExportNever:
		return "", false, nil
	case ExportTo:
		if r.opts.ExportPath == "" {
			return def, true, nil
		}
		return r.opts.ExportPath, true, nil
	}

	wants, err := r.prompter.WantsExport()
	if err != nil || !wants {
		return "", false, err
	}
	path, err = r.prompter.Destination(def)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
