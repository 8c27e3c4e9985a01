package host

import (
	"context"

	pscpu "github.com/shirou/gopsutil/v4/cpu"
	pshost "github.com/shirou/gopsutil/v4/host"

	"privara-monitor-agent/internal/model"
)

func (r *gopsutilReader) StaticFacts(ctx context.Context) model.HostFacts {
	var facts model.HostFacts

	info, err := pshost.InfoWithContext(ctx)
	if err != nil {
		r.logger.Warn("read host info failed", "error", err)
	} else {
		facts.OSName = info.Platform
		facts.OSVersion = info.PlatformVersion
		facts.OSManufacturer = osManufacturer(info.OS)
	}

	cpuInfos, err := pscpu.InfoWithContext(ctx)
	if err != nil {
		r.logger.Warn("read cpu info failed", "error", err)
	} else if len(cpuInfos) > 0 {
		facts.CPUModel = cpuInfos[0].ModelName
		if cpuInfos[0].Mhz > 0 {
			facts.CPUFrequencyMHz = uint64(cpuInfos[0].Mhz)
		}
	}

	if physical, err := pscpu.CountsWithContext(ctx, false); err != nil {
		r.logger.Warn("read physical core count failed", "error", err)
	} else {
		facts.CPUCoresPhysical = physical
	}
	if logical, err := pscpu.CountsWithContext(ctx, true); err != nil {
		r.logger.Warn("read logical core count failed", "error", err)
	} else {
		facts.CPUCoresLogical = logical
	}

	return facts
}

func osManufacturer(osName string) string {
	switch osName {
	case "linux":
		return "GNU/Linux"
	case "darwin":
		return "Apple"
	case "windows":
		return "Microsoft Corporation"
	default:
		return osName
	}
}
