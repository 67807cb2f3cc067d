// Package render draws a report on the terminal.
// Color handling is an explicit Options value passed to NewConsole; nothing
// here touches process-wide terminal state.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/Guliveer/vitalis/activity/internal/models"
	"github.com/Guliveer/vitalis/activity/internal/report"
)

// ColorMode selects whether severity colors are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Headers are the report's column titles, shared with the spreadsheet export.
var Headers = []string{"Program Name", "Active Time", "CPU %", "Memory MB"}

// Options configures a Console.
type Options struct {
	// Output is where the console writes; it is also probed for color support in auto mode.
	Output io.Writer
	Color  ColorMode
	// MinActiveTime is only used to caption the table.
	MinActiveTime time.Duration
}

// Console renders report headers and rows as colored text.
type Console struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	minAge   time.Duration
	tiers    map[Tier]lipgloss.Style
}

// NewConsole creates a console renderer bound to opts.Output.
func NewConsole(opts Options) *Console {
	r := lipgloss.NewRenderer(opts.Output)
	switch opts.Color {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	return &Console{
		out:      opts.Output,
		renderer: r,
		minAge:   opts.MinActiveTime,
		tiers: map[Tier]lipgloss.Style{
			TierLow:    r.NewStyle().Foreground(lipgloss.Color("2")),
			TierMedium: r.NewStyle().Foreground(lipgloss.Color("3")),
			TierHigh:   r.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

// RenderHeader returns the boot/current/uptime block.
func (c *Console) RenderHeader(h models.Header) string {
	var b strings.Builder
	fmt.Fprintf(&b, "System booted at: %s\n", report.FormatTimestamp(h.BootTime))
	fmt.Fprintf(&b, "Current time: %s\n", report.FormatTimestamp(h.Now))
	fmt.Fprintf(&b, "Uptime: %s\n", report.FormatDuration(h.Uptime))
	return b.String()
}

// RenderRows returns the captioned table, or the "no programs" notice when rows is empty.
// Rows are read only; none are dropped or reordered.
func (c *Console) RenderRows(rows []models.ReportRow) string {
	threshold := describeThreshold(c.minAge)
	if len(rows) == 0 {
		return fmt.Sprintf("\nNo programs active for more than %s.\n", threshold)
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{
			SanitizeTerminal(row.Name),
			report.FormatDuration(row.ActiveDuration),
			c.tiers[CPUTier(row.CPUTotal)].Render(FormatCPU(row.CPUTotal)),
			c.tiers[MemoryTier(row.MemoryTotalMB)].Render(FormatMemory(row.MemoryTotalMB)),
		})
	}

	cell := c.renderer.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.renderer.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(Headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style { return cell })

	return fmt.Sprintf("\nActive Programs (more than %s):\n%s\n", threshold, t.String())
}

// Print writes the header and the table to the console output.
func (c *Console) Print(h models.Header, rows []models.ReportRow) error {
	if _, err := io.WriteString(c.out, c.RenderHeader(h)); err != nil {
		return err
	}
	_, err := io.WriteString(c.out, c.RenderRows(rows))
	return err
}

// describeThreshold turns a duration into the caption phrase, e.g. "1 minute".
func describeThreshold(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	case d%time.Second == 0:
		return plural(int64(d/time.Second), "second")
	default:
		return d.String()
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
