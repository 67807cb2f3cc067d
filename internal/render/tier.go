package render

import "fmt"

// Tier is a display severity derived from fixed thresholds.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}

// Thresholds are inclusive on the medium side: exactly 20% CPU or 500 MB is medium.
const (
	cpuHigh   = 20.0
	cpuMedium = 5.0
	memHigh   = 500.0
	memMedium = 100.0
)

// CPUTier buckets a summed CPU percentage.
func CPUTier(cpu float64) Tier {
	return tierFor(cpu, cpuMedium, cpuHigh)
}

// MemoryTier buckets a summed memory size in MB.
func MemoryTier(mb float64) Tier {
	return tierFor(mb, memMedium, memHigh)
}

func tierFor(v, medium, high float64) Tier {
	switch {
	case v > high:
		return TierHigh
	case v >= medium:
		return TierMedium
	default:
		return TierLow
	}
}

// FormatCPU renders a CPU percentage to one decimal place.
func FormatCPU(cpu float64) string {
	return fmt.Sprintf("%.1f%%", cpu)
}

// FormatMemory renders a memory size in MB to one decimal place.
func FormatMemory(mb float64) string {
	return fmt.Sprintf("%.1f MB", mb)
}
