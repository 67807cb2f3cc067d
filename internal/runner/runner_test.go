package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitalis/activity/internal/export"
	"github.com/Guliveer/vitalis/activity/internal/models"
	"github.com/Guliveer/vitalis/activity/internal/prompt"
	"github.com/Guliveer/vitalis/activity/internal/render"
)

var (
	boot = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	now  = boot.Add(3 * time.Hour)
)

type fixedClock struct {
	boot time.Time
	err  error
}

func (c fixedClock) BootTime(context.Context) (time.Time, error) { return c.boot, c.err }

type staticSampler struct {
	samples     []models.RawProcessSample
	err         error
	gotNow      time.Time
	gotBoundary time.Time
}

func (s *staticSampler) Sample(_ context.Context, now, boundary time.Time) ([]models.RawProcessSample, error) {
	s.gotNow, s.gotBoundary = now, boundary
	return s.samples, s.err
}

type recordingExporter struct {
	rows  []models.ReportRow
	path  string
	calls int
	err   error
}

func (e *recordingExporter) Export(rows []models.ReportRow, path string) error {
	e.rows, e.path = rows, path
	e.calls++
	return e.err
}

func chromeSamples() []models.RawProcessSample {
	return []models.RawProcessSample{
		{Name: "chrome.exe", CPUPercent: 10.0, MemoryBytes: 200 << 20, CreatedAt: now.Add(-5 * time.Minute)},
		{Name: "chrome.exe", CPUPercent: 15.0, MemoryBytes: 300 << 20, CreatedAt: now.Add(-10 * time.Minute)},
		{Name: "init", CPUPercent: 0, MemoryBytes: 4 << 20, CreatedAt: boot},
	}
}

type harness struct {
	out      bytes.Buffer
	sampler  *staticSampler
	exporter *recordingExporter
}

func newRunner(h *harness, stdin string, opts Options) *Runner {
	console := render.NewConsole(render.Options{Output: &h.out, Color: render.ColorNever, MinActiveTime: time.Minute})
	opts.Now = func() time.Time { return now }
	if opts.DefaultPath == nil {
		opts.DefaultPath = func(t time.Time) string { return export.DefaultPath("/work", "", t) }
	}
	return New(fixedClock{boot: boot}, h.sampler, console, prompt.New(strings.NewReader(stdin), &h.out), h.exporter, &h.out, opts, nil)
}

func TestRun_RendersAndExportsOnED(t *testing.T) {
	h := &harness{sampler: &staticSampler{samples: chromeSamples()}, exporter: &recordingExporter{}}

	require.NoError(t, newRunner(h, "ed\n\n", Options{}).Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "System booted at: 2026-10-15 08:00:00")
	assert.Contains(t, out, "Uptime: 3:00:00")
	assert.Contains(t, out, "Active Programs (more than 1 minute):")
	assert.Less(t, strings.Index(out, "init"), strings.Index(out, "chrome.exe"))
	assert.Contains(t, out, "Report saved to "+filepath.Join("/work", "activity_report_2026-10-15_11-00-00.xlsx"))

	assert.True(t, h.sampler.gotBoundary.Equal(boot))
	assert.True(t, h.sampler.gotNow.Equal(now))

	require.Equal(t, 1, h.exporter.calls)
	require.Len(t, h.exporter.rows, 2)
	chrome := h.exporter.rows[1]
	assert.Equal(t, "chrome.exe", chrome.Name)
	assert.Equal(t, 25.0, chrome.CPUTotal)
	assert.Equal(t, 500.0, chrome.MemoryTotalMB)
	assert.Equal(t, 10*time.Minute, chrome.ActiveDuration)
	assert.Equal(t, render.TierHigh, render.CPUTier(chrome.CPUTotal))
	assert.Equal(t, render.TierMedium, render.MemoryTier(chrome.MemoryTotalMB))
}

func TestRun_CustomDestination(t *testing.T) {
	h := &harness{sampler: &staticSampler{samples: chromeSamples()}, exporter: &recordingExporter{}}

	require.NoError(t, newRunner(h, "ED\n/tmp/mine.xlsx\n", Options{}).Run(context.Background()))
	assert.Equal(t, "/tmp/mine.xlsx", h.exporter.path)
}

func TestRun_OtherInputSkipsExport(t *testing.T) {
	for _, in := range []string{"", "\n", "no\n", "E D\n"} {
		h := &harness{sampler: &staticSampler{samples: chromeSamples()}, exporter: &recordingExporter{}}
		require.NoError(t, newRunner(h, in, Options{}).Run(context.Background()))
		assert.Zero(t, h.exporter.calls, "input %q", in)
	}
}

func TestRun_EmptyReport(t *testing.T) {
	h := &harness{sampler: &staticSampler{}, exporter: &recordingExporter{}}

	require.NoError(t, newRunner(h, "\n", Options{}).Run(context.Background()))
	out := h.out.String()
	assert.Contains(t, out, "No programs active for more than 1 minute.")
	assert.NotContains(t, out, "Program Name")
}

func TestRun_ExportFailureIsReportedNotFatal(t *testing.T) {
	h := &harness{
		sampler:  &staticSampler{samples: chromeSamples()},
		exporter: &recordingExporter{err: errors.New("permission denied")},
	}

	require.NoError(t, newRunner(h, "ED\n\n", Options{}).Run(context.Background()))
	assert.Contains(t, h.out.String(), "Error saving Excel file: permission denied")
	assert.NotContains(t, h.out.String(), "Report saved")
}

func TestRun_ExportToSkipsPrompt(t *testing.T) {
	h := &harness{sampler: &staticSampler{samples: chromeSamples()}, exporter: &recordingExporter{}}

	require.NoError(t, newRunner(h, "", Options{Mode: ExportTo, ExportPath: "/out/r.xlsx"}).Run(context.Background()))
	assert.Equal(t, "/out/r.xlsx", h.exporter.path)
	assert.NotContains(t, h.out.String(), "Type ED")
}

func TestRun_ExportToDefaultPath(t *testing.T) {
	h := &harness{sampler: &staticSampler{samples: chromeSamples()}, exporter: &recordingExporter{}}

	require.NoError(t, newRunner(h, "", Options{Mode: ExportTo}).Run(context.Background()))
	assert.Equal(t, filepath.Join("/work", "activity_report_2026-10-15_11-00-00.xlsx"), h.exporter.path)
}

func TestRun_ExportNever(t *testing.T) {
	h := &harness{sampler: &staticSampler{samples: chromeSamples()}, exporter: &recordingExporter{}}

	require.NoError(t, newRunner(h, "ED\n", Options{Mode: ExportNever}).Run(context.Background()))
	assert.Zero(t, h.exporter.calls)
	assert.NotContains(t, h.out.String(), "Type ED")
}

func TestRun_SamplerFailureAborts(t *testing.T) {
	h := &harness{sampler: &staticSampler{err: errors.New("no proc table")}, exporter: &recordingExporter{}}

	err := newRunner(h, "ED\n", Options{}).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, h.out.String())
	assert.Zero(t, h.exporter.calls)
}

func TestRun_BootClockFailureAborts(t *testing.T) {
	h := &harness{sampler: &staticSampler{}, exporter: &recordingExporter{}}
	r := New(fixedClock{err: errors.New("no boot time")}, h.sampler, nil, nil, h.exporter, &h.out, Options{}, nil)

	assert.Error(t, r.Run(context.Background()))
}

func TestRun_WritesRealWorkbook(t *testing.T) {
	dir := t.TempDir()
	h := &harness{sampler: &staticSampler{samples: chromeSamples()}}
	console := render.NewConsole(render.Options{Output: &h.out, Color: render.ColorNever, MinActiveTime: time.Minute})
	r := New(fixedClock{boot: boot}, h.sampler, console, nil, export.NewExcel(""), &h.out, Options{
		Mode:        ExportTo,
		Now:         func() time.Time { return now },
		DefaultPath: func(t time.Time) string { return export.DefaultPath(dir, "", t) },
	}, nil)

	require.NoError(t, r.Run(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "activity_report_2026-10-15_11-00-00.xlsx"))
}
