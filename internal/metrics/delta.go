// Package metrics holds the pure delta math that turns two consecutive
// counter snapshots into point-in-time rates.
package metrics

import (
	"errors"
	"math"

	"privara-monitor-agent/internal/model"
)

// ErrInconsistentCounterShape reports a CPU tick vector whose slot count
// changed between two snapshots (hot-plugged CPU, subsystem restart).
var ErrInconsistentCounterShape = errors.New("cpu tick vector shape changed between snapshots")

const bytesPerMiB = 1 << 20

// CPUPercentBetween computes total CPU usage from two cumulative tick
// vectors: the share of the summed tick delta that falls outside
// idle+iowait, scaled to [0,100] and rounded to 2 decimals.
func CPUPercentBetween(prev, cur []uint64) (float64, error) {
	if len(prev) != len(cur) || len(cur) < model.CPUTickSlots {
		return 0, ErrInconsistentCounterShape
	}

	var totalDelta uint64
	for i := range cur {
		totalDelta += deltaCounter(cur[i], prev[i])
	}
	if totalDelta == 0 {
		return 0, nil
	}

	idleDelta := deltaCounter(cur[model.CPUTickIdle], prev[model.CPUTickIdle]) +
		deltaCounter(cur[model.CPUTickIOWait], prev[model.CPUTickIOWait])

	busy := (1.0 - float64(idleDelta)/float64(totalDelta)) * 100
	return Round2(clampPercent(busy)), nil
}

// RateMBps converts a byte counter delta over an elapsed window into MB/s.
// A shrinking counter (reset/restart of the subsystem) yields 0, never a
// negative rate.
func RateMBps(prev, cur uint64, seconds float64) float64 {
	if seconds <= 0 || cur < prev {
		return 0
	}
	return Round2(float64(cur-prev) / (seconds * bytesPerMiB))
}

// PercentOf returns value/total scaled to [0,100], rounded to 2 decimals.
// A zero total yields 0.
func PercentOf(value, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return Round2(clampPercent(float64(value) / float64(total) * 100))
}

// Round2 rounds half-up to 2 decimal places. Inputs here are always
// non-negative, so floor(x*100+0.5) is exact half-up.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

func deltaCounter(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
