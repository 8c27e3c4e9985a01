package host

import (
	"testing"

	pscpu "github.com/shirou/gopsutil/v4/cpu"
	"github.com/stretchr/testify/assert"

	"privara-monitor-agent/internal/model"
)

func TestTickVectorSlotOrder(t *testing.T) {
	times := pscpu.TimesStat{
		User:    1.5,
		Nice:    0.25,
		System:  2.0,
		Idle:    97.0,
		Iowait:  0.5,
		Irq:     0.1,
		Softirq: 0.2,
		Steal:   0.05,
	}

	ticks := tickVector(times)

	assert.Len(t, ticks, model.CPUTickSlots)
	assert.Equal(t, uint64(150), ticks[model.CPUTickUser])
	assert.Equal(t, uint64(25), ticks[model.CPUTickNice])
	assert.Equal(t, uint64(200), ticks[model.CPUTickSystem])
	assert.Equal(t, uint64(9700), ticks[model.CPUTickIdle])
	assert.Equal(t, uint64(50), ticks[model.CPUTickIOWait])
	assert.Equal(t, uint64(10), ticks[model.CPUTickIRQ])
	assert.Equal(t, uint64(20), ticks[model.CPUTickSoftIRQ])
	assert.Equal(t, uint64(5), ticks[model.CPUTickSteal])
}

func TestSecondsToTicksNeverUnderflows(t *testing.T) {
	assert.Equal(t, uint64(0), secondsToTicks(0))
	assert.Equal(t, uint64(0), secondsToTicks(-1.5))
}

func TestOSManufacturer(t *testing.T) {
	assert.Equal(t, "GNU/Linux", osManufacturer("linux"))
	assert.Equal(t, "Apple", osManufacturer("darwin"))
	assert.Equal(t, "Microsoft Corporation", osManufacturer("windows"))
	assert.Equal(t, "freebsd", osManufacturer("freebsd"))
}
