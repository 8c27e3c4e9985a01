package collector

import (
	"context"
	"log/slog"
	"time"

	"privara-monitor-agent/internal/model"
	"privara-monitor-agent/internal/stream"
)

// Scheduler drives the collector at a fixed period. All cycles execute
// sequentially on the Run goroutine, so a cycle that overruns the interval
// delays the next tick rather than overlapping it, and the baseline is
// only ever touched between cycles.
type Scheduler struct {
	logger         *slog.Logger
	sampler        *SampleCollector
	sink           stream.Sink
	interval       time.Duration
	publishTimeout time.Duration
}

func NewScheduler(logger *slog.Logger, sampler *SampleCollector, sink stream.Sink, interval, publishTimeout time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if publishTimeout <= 0 {
		publishTimeout = 10 * time.Second
	}
	return &Scheduler{
		logger:         logger,
		sampler:        sampler,
		sink:           sink,
		interval:       interval,
		publishTimeout: publishTimeout,
	}
}

// Run seeds the baseline from a live read, fires the first cycle
// immediately, then ticks at the configured interval until ctx is done.
// A failed cycle is logged and isolated; the next tick always fires.
func (s *Scheduler) Run(ctx context.Context) error {
	baseline := s.sampler.Baseline(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	baseline = s.runCycle(ctx, baseline)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			baseline = s.runCycle(ctx, baseline)
		}
	}
}

// runCycle executes one collect-then-publish unit of work. The fresh
// snapshot becomes the next baseline regardless of publish outcome: the
// next tick supersedes a dropped sample, so there is no retry.
//
// The publish runs on a context detached from run-loop cancellation so a
// shutdown signal lets an in-flight delivery finish or time out instead
// of aborting it mid-send; the publish timeout stays the bound.
func (s *Scheduler) runCycle(ctx context.Context, baseline model.CounterSnapshot) model.CounterSnapshot {
	sample, next := s.sampler.Collect(ctx, baseline)
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.sink.SendSample(pubCtx, sample); err != nil {
		s.logger.Error("publish sample failed, dropping", "error", err)
		return next
	}
	s.logger.Debug("sample published", "cpu_percent", sample.CPUPercent, "timestamp", sample.TimestampMillis)
	return next
}
