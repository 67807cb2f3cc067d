// Package models defines the data structures that flow through one report run.
// Nothing here is persisted; every run rebuilds the model from a fresh scan.
package models

import "time"

// RawProcessSample is one reading of one live OS process.
type RawProcessSample struct {
	Name        string    `json:"name"`
	CPUPercent  float64   `json:"cpu_percent"`
	MemoryBytes uint64    `json:"memory_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProcessGroup is the folded summary of every sample sharing one name.
type ProcessGroup struct {
	Name          string    `json:"name"`
	EarliestStart time.Time `json:"earliest_start"`
	CPUTotal      float64   `json:"cpu_total"`
	MemoryTotalMB float64   `json:"memory_total_mb"`

	// Count is diagnostic only and is not rendered.
	Count int `json:"count"`
}

// ReportRow is a display-ready line of the report.
type ReportRow struct {
	Name           string        `json:"name"`
	ActiveDuration time.Duration `json:"active_duration"`
	ActiveSeconds  float64       `json:"active_seconds"`
	CPUTotal       float64       `json:"cpu_total"`
	MemoryTotalMB  float64       `json:"memory_total_mb"`
}

// Header describes the machine-level timing printed above the table.
type Header struct {
	BootTime time.Time     `json:"boot_time"`
	Now      time.Time     `json:"now"`
	Uptime   time.Duration `json:"uptime"`
}
