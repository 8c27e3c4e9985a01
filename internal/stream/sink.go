// Package stream delivers metrics samples to the backend. The default
// transport is a plain HTTP POST per sample; websocket and gRPC stream
// modes carry the same JSON payload.
package stream

import (
	"context"

	"privara-monitor-agent/internal/model"
)

// Sink is the delivery side of the pipeline. SendSample performs exactly
// one delivery attempt; a failed sample is dropped, the next cycle sends
// fresh data.
type Sink interface {
	SendSample(ctx context.Context, sample model.MetricsSample) error
	Close(ctx context.Context) error
}
