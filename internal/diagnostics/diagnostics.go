// Package diagnostics reports host capability and resource information,
// the logged counterpart to the teacher's percent-complete progress bar:
// instead of reporting progress through a video export, it reports what the
// host machine looks like before a build runs.
package diagnostics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Report is a snapshot of host capability relevant to running the pipeline:
// CPU count (the sampler is safe to parallelize across render threads) and
// available memory (event logs for long sessions can be sizeable).
type Report struct {
	LogicalCPUs   int
	PhysicalCPUs  int
	TotalMemoryMB uint64
	FreeMemoryMB  uint64
}

// Collect gathers a Report from the running host.
func Collect(ctx context.Context) (Report, error) {
	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return Report{}, fmt.Errorf("diagnostics: cpu logical count: %w", err)
	}
	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		return Report{}, fmt.Errorf("diagnostics: cpu physical count: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("diagnostics: virtual memory: %w", err)
	}
	return Report{
		LogicalCPUs:   logical,
		PhysicalCPUs:  physical,
		TotalMemoryMB: vm.Total / (1024 * 1024),
		FreeMemoryMB:  vm.Available / (1024 * 1024),
	}, nil
}

// Log emits r as a structured zerolog event, the diagnostics equivalent of
// the teacher's ProgressBar.Report.
func (r Report) Log(log zerolog.Logger) {
	log.Info().
		Int("logical_cpus", r.LogicalCPUs).
		Int("physical_cpus", r.PhysicalCPUs).
		Uint64("total_memory_mb", r.TotalMemoryMB).
		Uint64("free_memory_mb", r.FreeMemoryMB).
		Msg("diagnostics: host report")
}
