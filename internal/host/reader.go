// Package host is the introspection layer: it reads raw cumulative
// counters, gauges, and static facts from the operating system via
// gopsutil. Every read tolerates partial hardware availability by
// degrading the affected field to a zero/empty value.
package host

import (
	"context"
	"log/slog"

	"privara-monitor-agent/internal/model"
)

// Reader is the host introspection surface consumed by the collector.
type Reader interface {
	// StaticFacts returns OS and CPU identity fields. Cheap; read fresh
	// each cycle.
	StaticFacts(ctx context.Context) model.HostFacts
	// CounterSnapshot reads every cumulative counter at one instant.
	CounterSnapshot(ctx context.Context) model.CounterSnapshot
	// MemoryGauges reads instantaneous memory totals.
	MemoryGauges(ctx context.Context) model.MemoryGauges
	// ProcessTable enumerates processes sorted by descending CPU usage,
	// keeping at most limit entries in the ranking.
	ProcessTable(ctx context.Context, limit int) model.ProcessTable
}

type gopsutilReader struct {
	logger *slog.Logger
}

// NewReader returns the gopsutil-backed Reader.
func NewReader(logger *slog.Logger) Reader {
	return &gopsutilReader{logger: logger}
}
