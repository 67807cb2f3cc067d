// Boot clock — reports when the system last booted.
// Uses gopsutil for cross-platform boot time.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// BootClock reads the system boot time.
type BootClock struct {
	bootTime func(ctx context.Context) (uint64, error)
}

// NewBootClock creates a boot clock backed by gopsutil.
func NewBootClock() *BootClock {
	return &BootClock{bootTime: host.BootTimeWithContext}
}

// BootTime returns the local time at which the system booted.
func (c *BootClock) BootTime(ctx context.Context) (time.Time, error) {
	secs, err := c.bootTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading boot time: %w", err)
	}
	return time.Unix(int64(secs), 0), nil
}
