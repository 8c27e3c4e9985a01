package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privara-monitor-agent/internal/model"
	"privara-monitor-agent/internal/stream"
)

type fakeSink struct {
	mu      sync.Mutex
	samples []model.MetricsSample
	ctxErrs []error

	sendErr     error
	sendDelay   time.Duration
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	first       chan struct{}
	firstOnce   sync.Once
	started     chan struct{}
	startOnce   sync.Once
}

func newFakeSink() *fakeSink {
	return &fakeSink{first: make(chan struct{}), started: make(chan struct{})}
}

func (s *fakeSink) SendSample(ctx context.Context, sample model.MetricsSample) error {
	s.startOnce.Do(func() { close(s.started) })
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		max := s.maxInFlight.Load()
		if cur <= max || s.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}

	if s.sendDelay > 0 {
		time.Sleep(s.sendDelay)
	}

	s.mu.Lock()
	s.samples = append(s.samples, sample)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.mu.Unlock()
	s.firstOnce.Do(func() { close(s.first) })
	return s.sendErr
}

func (s *fakeSink) Close(ctx context.Context) error { return nil }

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

func schedulerFixture(sink stream.Sink, interval time.Duration) *Scheduler {
	start := time.Now().UTC()
	reader := &fakeReader{snaps: []model.CounterSnapshot{
		snapshotAt(start),
		snapshotAt(start.Add(interval)),
		snapshotAt(start.Add(2 * interval)),
	}}
	sampler := NewSampleCollector(reader, interval, testLogger())
	return NewScheduler(testLogger(), sampler, sink, interval, time.Second)
}

func TestSchedulerFirstCycleFiresImmediately(t *testing.T) {
	sink := newFakeSink()
	s := schedulerFixture(sink, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	select {
	case <-sink.first:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not fire immediately")
	}
	cancel()
	<-done

	assert.Equal(t, 1, sink.count())
}

func TestSchedulerContinuesAfterPublishFailure(t *testing.T) {
	sink := newFakeSink()
	sink.sendErr = &stream.PublishError{Kind: stream.PublishBadStatus, Status: 503}
	s := schedulerFixture(sink, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sink.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestSchedulerDrainsInFlightPublishOnShutdown(t *testing.T) {
	sink := newFakeSink()
	sink.sendDelay = 50 * time.Millisecond
	s := schedulerFixture(sink, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	select {
	case <-sink.started:
	case <-time.After(2 * time.Second):
		t.Fatal("publish never started")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not stop")
	}

	require.Equal(t, 1, sink.count())
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.NoError(t, sink.ctxErrs[0], "in-flight publish context must survive run-loop cancellation")
}

func TestSchedulerCyclesNeverOverlap(t *testing.T) {
	sink := newFakeSink()
	sink.sendDelay = 30 * time.Millisecond
	s := schedulerFixture(sink, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sink.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, int32(1), sink.maxInFlight.Load())
}
