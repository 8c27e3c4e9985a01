package host

import (
	"context"
	"time"

	pscpu "github.com/shirou/gopsutil/v4/cpu"
	psdisk "github.com/shirou/gopsutil/v4/disk"
	psmem "github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"

	"privara-monitor-agent/internal/model"
)

// gopsutil reports cumulative CPU time in seconds; the delta math works on
// integer USER_HZ ticks, so convert back at the kernel's canonical 100 Hz.
const clockTicksPerSecond = 100

func (r *gopsutilReader) CounterSnapshot(ctx context.Context) model.CounterSnapshot {
	snap := model.CounterSnapshot{
		NetInterfaces: make(map[string]model.NetCounters),
		CapturedAt:    time.Now().UTC(),
	}

	times, err := pscpu.TimesWithContext(ctx, false)
	if err != nil || len(times) == 0 {
		r.logger.Warn("read cpu times failed", "error", err)
	} else {
		snap.CPUTicks = tickVector(times[0])
	}

	diskCounters, err := psdisk.IOCountersWithContext(ctx)
	if err != nil {
		r.logger.Warn("read disk counters failed", "error", err)
	} else {
		for _, stat := range diskCounters {
			snap.DiskReadBytes += stat.ReadBytes
			snap.DiskWriteBytes += stat.WriteBytes
		}
	}

	netCounters, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		r.logger.Warn("read net counters failed", "error", err)
	} else {
		for _, stat := range netCounters {
			snap.NetInterfaces[stat.Name] = model.NetCounters{
				BytesSent:   stat.BytesSent,
				BytesRecv:   stat.BytesRecv,
				PacketsSent: stat.PacketsSent,
				PacketsRecv: stat.PacketsRecv,
			}
		}
	}

	return snap
}

func (r *gopsutilReader) MemoryGauges(ctx context.Context) model.MemoryGauges {
	vm, err := psmem.VirtualMemoryWithContext(ctx)
	if err != nil {
		r.logger.Warn("read virtual memory failed", "error", err)
		return model.MemoryGauges{}
	}
	return model.MemoryGauges{
		TotalBytes:     vm.Total,
		AvailableBytes: vm.Available,
	}
}

func tickVector(t pscpu.TimesStat) []uint64 {
	ticks := make([]uint64, model.CPUTickSlots)
	ticks[model.CPUTickUser] = secondsToTicks(t.User)
	ticks[model.CPUTickNice] = secondsToTicks(t.Nice)
	ticks[model.CPUTickSystem] = secondsToTicks(t.System)
	ticks[model.CPUTickIdle] = secondsToTicks(t.Idle)
	ticks[model.CPUTickIOWait] = secondsToTicks(t.Iowait)
	ticks[model.CPUTickIRQ] = secondsToTicks(t.Irq)
	ticks[model.CPUTickSoftIRQ] = secondsToTicks(t.Softirq)
	ticks[model.CPUTickSteal] = secondsToTicks(t.Steal)
	return ticks
}

func secondsToTicks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds * clockTicksPerSecond)
}
