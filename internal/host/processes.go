package host

import (
	"context"
	"sort"

	psproc "github.com/shirou/gopsutil/v4/process"

	"privara-monitor-agent/internal/model"
)

// ProcessTable walks the live process list. Processes routinely disappear
// between enumeration and field reads, so per-process failures skip that
// entry instead of failing the census.
func (r *gopsutilReader) ProcessTable(ctx context.Context, limit int) model.ProcessTable {
	table := model.ProcessTable{Top: []model.ProcessInfo{}}

	procs, err := psproc.ProcessesWithContext(ctx)
	if err != nil {
		r.logger.Warn("enumerate processes failed", "error", err)
		return table
	}
	table.ProcessCount = len(procs)

	ranked := make([]model.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		if threads, err := p.NumThreadsWithContext(ctx); err == nil {
			table.ThreadCount += int(threads)
		}

		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPercent, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}

		info := model.ProcessInfo{
			PID:        p.Pid,
			Name:       name,
			CPUPercent: cpuPercent,
		}
		if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
			info.MemoryBytes = memInfo.RSS
		}
		if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
			info.State = status[0]
		}
		ranked = append(ranked, info)
	}

	table.Top = rankByCPU(ranked, limit)
	return table
}

// rankByCPU orders the census by descending CPU usage and keeps at most
// limit entries; limit <= 0 keeps everything.
func rankByCPU(procs []model.ProcessInfo, limit int) []model.ProcessInfo {
	sort.Slice(procs, func(i, j int) bool {
		return procs[i].CPUPercent > procs[j].CPUPercent
	})
	if limit > 0 && len(procs) > limit {
		procs = procs[:limit]
	}
	return procs
}
