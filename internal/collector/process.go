// Process sampler — reads the live process table once per report run.
// Uses gopsutil for cross-platform process listing.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/activity/internal/models"
)

// ErrSample is returned when the process table itself cannot be read.
var ErrSample = errors.New("sampling process table")

// DefaultIdleProcessName is the Windows pseudo-process that accounts for idle CPU time.
const DefaultIdleProcessName = "system idle process"

// normalizedStatuses maps raw gopsutil status strings to a consistent set of
// values used across all platforms.
var normalizedStatuses = map[string]string{
	"running":               "running",
	"sleeping":              "sleeping",
	"idle":                  "idle",
	"stopped":               "stopped",
	"zombie":                "zombie",
	"wait":                  "sleeping",
	"lock":                  "sleeping",
	"sleep":                 "sleeping",
	"disk-sleep":            "sleeping",
	"tracing-stop":          "stopped",
	"dead":                  "zombie",
	"wake-kill":             "sleeping",
	"waking":                "running",
	"parked":                "idle",
	"idle-interrupt":        "idle",
	"suspended":             "stopped",
	"uninterruptible-sleep": "sleeping",
}

// normalizeStatus maps a raw gopsutil status string to a consistent value.
// Unknown statuses are returned lowercased; empty stays empty.
func normalizeStatus(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := normalizedStatuses[key]; ok {
		return mapped
	}
	return key
}

// Proc is the subset of *process.Process the sampler reads.
type Proc interface {
	NameWithContext(ctx context.Context) (string, error)
	CPUPercentWithContext(ctx context.Context) (float64, error)
	MemoryInfoWithContext(ctx context.Context) (*process.MemoryInfoStat, error)
	CreateTimeWithContext(ctx context.Context) (int64, error)
	StatusWithContext(ctx context.Context) ([]string, error)
}

// ListFunc enumerates the live processes.
type ListFunc func(ctx context.Context) ([]Proc, error)

// ListProcesses enumerates the host's processes through gopsutil.
func ListProcesses(ctx context.Context) ([]Proc, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Proc, len(procs))
	for i, p := range procs {
		out[i] = p
	}
	return out, nil
}

// SamplerOptions configures the sampler's noise filters.
type SamplerOptions struct {
	// MinActiveTime drops processes that started less than this long ago.
	MinActiveTime time.Duration
	// IdleProcessName is matched case-insensitively and always skipped.
	IdleProcessName string
}

// Sampler produces filtered RawProcessSamples from the OS process table.
type Sampler struct {
	list   ListFunc
	opts   SamplerOptions
	logger *zap.Logger
}

// NewSampler creates a sampler. A nil list uses ListProcesses.
func NewSampler(list ListFunc, opts SamplerOptions, logger *zap.Logger) *Sampler {
	if list == nil {
		list = ListProcesses
	}
	if opts.IdleProcessName == "" {
		opts.IdleProcessName = DefaultIdleProcessName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{list: list, opts: opts, logger: logger}
}

// Sample reads every process once and returns those that qualify for the report.
// Individual process errors (vanished, access denied, zombie) are skipped so a
// single bad process never fails the scan. Only a failure to enumerate the
// table at all is returned.
func (s *Sampler) Sample(ctx context.Context, now, boundary time.Time) ([]models.RawProcessSample, error) {
	procs, err := s.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSample, err)
	}

	samples := make([]models.RawProcessSample, 0, len(procs))
	skipped := 0
	for _, p := range procs {
		sample, err := s.read(ctx, p)
		if err != nil {
			skipped++
			s.logger.Debug("Skipping process", zap.Error(err))
			continue
		}
		if !s.qualifies(sample, now, boundary) {
			continue
		}
		samples = append(samples, sample)
	}

	s.logger.Debug("Sampled process table",
		zap.Int("listed", len(procs)),
		zap.Int("kept", len(samples)),
		zap.Int("unreadable", skipped))
	return samples, nil
}

// read fetches the fields of one process. A missing CPU reading defaults to zero.
func (s *Sampler) read(ctx context.Context, p Proc) (models.RawProcessSample, error) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return models.RawProcessSample{}, fmt.Errorf("reading name: %w", err)
	}

	if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
		if normalizeStatus(status[0]) == "zombie" {
			return models.RawProcessSample{}, fmt.Errorf("process %q is a zombie", name)
		}
	}

	created, err := p.CreateTimeWithContext(ctx)
	if err != nil {
		return models.RawProcessSample{}, fmt.Errorf("reading create time of %q: %w", name, err)
	}

	memInfo, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return models.RawProcessSample{}, fmt.Errorf("reading memory of %q: %w", name, err)
	}
	var rss uint64
	if memInfo != nil {
		rss = memInfo.RSS
	}

	cpuPct, err := p.CPUPercentWithContext(ctx)
	if err != nil || cpuPct < 0 {
		cpuPct = 0
	}

	return models.RawProcessSample{
		Name:        name,
		CPUPercent:  cpuPct,
		MemoryBytes: rss,
		CreatedAt:   time.UnixMilli(created),
	}, nil
}

// qualifies applies the idle sentinel, boot boundary and minimum-activity filters.
func (s *Sampler) qualifies(sample models.RawProcessSample, now, boundary time.Time) bool {
	if strings.EqualFold(sample.Name, s.opts.IdleProcessName) {
		return false
	}
	if sample.CreatedAt.Before(boundary) {
		return false
	}
	return now.Sub(sample.CreatedAt) >= s.opts.MinActiveTime
}
