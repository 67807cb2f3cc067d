// Package report turns aggregated process groups into ordered, display-ready rows.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/Guliveer/vitalis/activity/internal/aggregate"
	"github.com/Guliveer/vitalis/activity/internal/models"
)

// Build converts groups into rows sorted by active time, longest first.
// Names are visited in lexical order before the stable sort, so ties come out alphabetically.
func Build(groups aggregate.Groups, now time.Time) []models.ReportRow {
	rows := make([]models.ReportRow, 0, len(groups))
	for _, name := range groups.Names() {
		g := groups[name]
		active := now.Sub(g.EarliestStart)
		rows = append(rows, models.ReportRow{
			Name:           name,
			ActiveDuration: active.Truncate(time.Second),
			ActiveSeconds:  active.Seconds(),
			CPUTotal:       g.CPUTotal,
			MemoryTotalMB:  g.MemoryTotalMB,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ActiveSeconds > rows[j].ActiveSeconds
	})
	return rows
}

// NewHeader computes the uptime block shown above the table.
func NewHeader(boot, now time.Time) models.Header {
	return models.Header{
		BootTime: boot,
		Now:      now,
		Uptime:   now.Sub(boot).Truncate(time.Second),
	}
}

// FormatDuration renders d as H:MM:SS, prefixed with "N day(s), " past 24h.
// Sub-second precision is dropped, never rounded.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	rem := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rem/3600, rem%3600/60, rem%60)

	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}

// FormatTimestamp renders t the way the header prints wall-clock times.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
