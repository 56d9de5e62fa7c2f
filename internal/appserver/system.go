package appserver

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const unknown = "unknown"

// SystemProbe reports host resources for the health and info endpoints
type SystemProbe interface {
	DiskFree(ctx context.Context) string
	MemoryAvailable(ctx context.Context) string
	Uptime(ctx context.Context) string
}

// HostProbe reads host resources with gopsutil
type HostProbe struct {
	diskPath string
}

// NewHostProbe creates a probe measuring the root filesystem
func NewHostProbe() *HostProbe {
	return &HostProbe{diskPath: "/"}
}

// DiskFree returns free disk space in whole gigabytes
func (p *HostProbe) DiskFree(ctx context.Context) string {
	usage, err := disk.UsageWithContext(ctx, p.diskPath)
	if err != nil {
		return unknown
	}
	return fmt.Sprintf("%d GB free", usage.Free/(1024*1024*1024))
}

// MemoryAvailable returns available memory in whole megabytes
func (p *HostProbe) MemoryAvailable(ctx context.Context) string {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return unknown
	}
	return fmt.Sprintf("%d MB available", vm.Available/(1024*1024))
}

// Uptime returns the host uptime as "Xd Yh Zm"
func (p *HostProbe) Uptime(ctx context.Context) string {
	seconds, err := host.UptimeWithContext(ctx)
	if err != nil {
		return unknown
	}
	return FormatUptime(seconds)
}

// FormatUptime renders seconds as days, hours and minutes
func FormatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}
