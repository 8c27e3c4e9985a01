package collector

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"privara-monitor-agent/internal/host"
	"privara-monitor-agent/internal/metrics"
	"privara-monitor-agent/internal/model"
)

const (
	topProcessLimit = 10
	loopbackPrefix  = "lo"
	bytesPerGiB     = 1 << 30
)

// SampleCollector runs one full sampling cycle: fresh counter snapshot,
// deltas against the caller-held baseline, gauges, process census, and
// sample assembly. The baseline is threaded in and out explicitly; the
// collector itself keeps no mutable state between cycles.
type SampleCollector struct {
	host     host.Reader
	interval time.Duration
	logger   *slog.Logger
}

func NewSampleCollector(reader host.Reader, interval time.Duration, logger *slog.Logger) *SampleCollector {
	return &SampleCollector{host: reader, interval: interval, logger: logger}
}

// Baseline reads a live counter snapshot to seed the first delta window.
// Called once before the scheduler starts ticking.
func (c *SampleCollector) Baseline(ctx context.Context) model.CounterSnapshot {
	return c.host.CounterSnapshot(ctx)
}

// Collect assembles one MetricsSample against baseline and returns the
// fresh snapshot as the next cycle's baseline. Sub-metric read failures
// degrade the affected field to a zero/empty value; a cycle never aborts.
func (c *SampleCollector) Collect(ctx context.Context, baseline model.CounterSnapshot) (model.MetricsSample, model.CounterSnapshot) {
	facts := c.host.StaticFacts(ctx)
	snap := c.host.CounterSnapshot(ctx)

	seconds := snap.CapturedAt.Sub(baseline.CapturedAt).Seconds()
	if seconds <= 0 {
		seconds = c.interval.Seconds()
	}

	cpuPercent, err := metrics.CPUPercentBetween(baseline.CPUTicks, snap.CPUTicks)
	if err != nil {
		c.logger.Warn("cpu usage degraded to 0 for this cycle", "error", err)
		cpuPercent = 0
	}

	readMBps := metrics.RateMBps(baseline.DiskReadBytes, snap.DiskReadBytes, seconds)
	writeMBps := metrics.RateMBps(baseline.DiskWriteBytes, snap.DiskWriteBytes, seconds)

	gauges := c.host.MemoryGauges(ctx)
	var usedBytes uint64
	if gauges.TotalBytes > gauges.AvailableBytes {
		usedBytes = gauges.TotalBytes - gauges.AvailableBytes
	}

	procs := c.host.ProcessTable(ctx, topProcessLimit)

	sample := model.MetricsSample{
		OSName:            facts.OSName,
		OSVersion:         facts.OSVersion,
		OSManufacturer:    facts.OSManufacturer,
		CPUModel:          facts.CPUModel,
		CPUCoresPhysical:  facts.CPUCoresPhysical,
		CPUCoresLogical:   facts.CPUCoresLogical,
		CPUPercent:        cpuPercent,
		CPUFrequencyMHz:   facts.CPUFrequencyMHz,
		MemoryTotalGB:     toGB(gauges.TotalBytes),
		MemoryAvailableGB: toGB(gauges.AvailableBytes),
		MemoryUsedGB:      toGB(usedBytes),
		MemoryPercent:     metrics.PercentOf(usedBytes, gauges.TotalBytes),
		DiskReadMBps:      readMBps,
		DiskWriteMBps:     writeMBps,
		DiskIOTotalMBps:   metrics.Round2(readMBps + writeMBps),
		NetworkInterfaces: externalInterfaces(snap.NetInterfaces),
		ProcessCount:      procs.ProcessCount,
		ThreadCount:       procs.ThreadCount,
		TopProcesses:      procs.Top,
		TimestampMillis:   snap.CapturedAt.UnixMilli(),
	}
	return sample, snap
}

// externalInterfaces drops loopback devices and returns the rest in
// name order so the wire payload is deterministic.
func externalInterfaces(counters map[string]model.NetCounters) []model.NetworkInterface {
	out := make([]model.NetworkInterface, 0, len(counters))
	for name, c := range counters {
		if strings.HasPrefix(name, loopbackPrefix) {
			continue
		}
		out = append(out, model.NetworkInterface{
			Name:        name,
			DisplayName: name,
			BytesSent:   c.BytesSent,
			BytesRecv:   c.BytesRecv,
			PacketsSent: c.PacketsSent,
			PacketsRecv: c.PacketsRecv,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toGB(bytes uint64) float64 {
	return metrics.Round2(float64(bytes) / bytesPerGiB)
}
