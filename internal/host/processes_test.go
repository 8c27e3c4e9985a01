package host

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privara-monitor-agent/internal/model"
)

func TestRankByCPUOrdersDescending(t *testing.T) {
	procs := []model.ProcessInfo{
		{PID: 1, Name: "idle-ish", CPUPercent: 0.5},
		{PID: 2, Name: "hog", CPUPercent: 91.25},
		{PID: 3, Name: "middling", CPUPercent: 12.0},
	}

	top := rankByCPU(procs, 10)

	require.Len(t, top, 3)
	assert.Equal(t, int32(2), top[0].PID)
	assert.Equal(t, int32(3), top[1].PID)
	assert.Equal(t, int32(1), top[2].PID)
}

func TestRankByCPUTruncatesToLimit(t *testing.T) {
	procs := make([]model.ProcessInfo, 0, 25)
	for i := 0; i < 25; i++ {
		procs = append(procs, model.ProcessInfo{
			PID:        int32(i + 1),
			Name:       fmt.Sprintf("proc-%d", i+1),
			CPUPercent: float64(i),
		})
	}

	top := rankByCPU(procs, 10)

	require.Len(t, top, 10)
	// highest consumers survive the cut
	assert.Equal(t, 24.0, top[0].CPUPercent)
	assert.Equal(t, 15.0, top[9].CPUPercent)
}

func TestRankByCPUKeepsEverythingWithoutLimit(t *testing.T) {
	procs := []model.ProcessInfo{
		{PID: 1, CPUPercent: 1},
		{PID: 2, CPUPercent: 2},
	}

	assert.Len(t, rankByCPU(procs, 0), 2)
	assert.Len(t, rankByCPU(nil, 10), 0)
}
