// Package aggregate folds process samples into one group per program name.
//
// A fold is a sum of CPU and memory plus a minimum of start times, so it is
// commutative and associative: sample order never changes the result.
package aggregate

import (
	"sort"

	"github.com/Guliveer/vitalis/activity/internal/models"
)

// bytesPerMB converts resident set sizes into megabytes.
const bytesPerMB = 1024 * 1024

// Groups maps a process name to its folded group. A name maps to exactly one group.
type Groups map[string]*models.ProcessGroup

// Aggregate folds every sample into a fresh Groups. Empty input yields an empty mapping.
func Aggregate(samples []models.RawProcessSample) Groups {
	g := make(Groups)
	for _, s := range samples {
		g.Fold(s)
	}
	return g
}

// Fold adds one sample to the group for its name, creating the group on first sight.
func (g Groups) Fold(s models.RawProcessSample) {
	memMB := float64(s.MemoryBytes) / bytesPerMB

	group, ok := g[s.Name]
	if !ok {
		g[s.Name] = &models.ProcessGroup{
			Name:          s.Name,
			EarliestStart: s.CreatedAt,
			CPUTotal:      s.CPUPercent,
			MemoryTotalMB: memMB,
			Count:         1,
		}
		return
	}

	if s.CreatedAt.Before(group.EarliestStart) {
		group.EarliestStart = s.CreatedAt
	}
	group.CPUTotal += s.CPUPercent
	group.MemoryTotalMB += memMB
	group.Count++
}

// Merge folds every group of other into g. other is left untouched.
func (g Groups) Merge(other Groups) {
	for name, o := range other {
		group, ok := g[name]
		if !ok {
			cp := *o
			g[name] = &cp
			continue
		}
		if o.EarliestStart.Before(group.EarliestStart) {
			group.EarliestStart = o.EarliestStart
		}
		group.CPUTotal += o.CPUTotal
		group.MemoryTotalMB += o.MemoryTotalMB
		group.Count += o.Count
	}
}

// Names returns the group names in lexical order.
func (g Groups) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
