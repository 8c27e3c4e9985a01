package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// stubStream stands in for a live client stream. With block set, SendMsg
// parks until the stream context is canceled, the way a send stalls when
// the backend stops draining.
type stubStream struct {
	ctx   context.Context
	block bool

	mu    sync.Mutex
	saves []any
}

func (s *stubStream) Header() (metadata.MD, error) { return nil, nil }
func (s *stubStream) Trailer() metadata.MD         { return nil }
func (s *stubStream) CloseSend() error             { return nil }
func (s *stubStream) Context() context.Context     { return s.ctx }
func (s *stubStream) RecvMsg(m any) error          { return io.EOF }

func (s *stubStream) SendMsg(m any) error {
	if s.block {
		<-s.ctx.Done()
		return s.ctx.Err()
	}
	s.mu.Lock()
	s.saves = append(s.saves, m)
	s.mu.Unlock()
	return nil
}

func grpcClientFixture(sendTimeout time.Duration) *GRPCClient {
	return NewGRPCClient("127.0.0.1:0", nil, "", "test-host", "/test.Service/Stream", sendTimeout, testLogger())
}

func TestGRPCSendFrameDelivers(t *testing.T) {
	c := grpcClientFixture(time.Second)
	stub := &stubStream{ctx: context.Background()}
	c.stream = stub

	frame := NewSampleFrame("test-host", testSample())
	require.NoError(t, c.sendFrameLocked(frame))

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.saves, 1)
	sent, ok := stub.saves[0].(SampleFrame)
	require.True(t, ok)
	assert.Equal(t, "metrics_sample", sent.Type)
	assert.Equal(t, 42.42, sent.Sample.CPUPercent)
}

func TestGRPCSendFrameTimesOutAndTearsDownStream(t *testing.T) {
	c := grpcClientFixture(20 * time.Millisecond)

	streamCtx, cancel := context.WithCancel(context.Background())
	stub := &stubStream{ctx: streamCtx, block: true}
	c.stream = stub
	c.streamCancel = cancel

	err := c.sendFrameLocked(NewSampleFrame("test-host", testSample()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errSendTimeout))

	// the stalled stream is gone; the next sample must redial
	assert.Nil(t, c.stream)
	assert.Nil(t, c.streamCancel)
	select {
	case <-streamCtx.Done():
	default:
		t.Fatal("stream context was not canceled on send timeout")
	}
}

func TestGRPCSendSampleMapsTimeoutToTransportError(t *testing.T) {
	c := grpcClientFixture(20 * time.Millisecond)
	c.conn = new(grpc.ClientConn)

	streamCtx, cancel := context.WithCancel(context.Background())
	c.stream = &stubStream{ctx: streamCtx, block: true}
	c.streamCancel = cancel

	err := c.SendSample(context.Background(), testSample())
	require.Error(t, err)

	var pubErr *PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, PublishTransport, pubErr.Kind)
	assert.True(t, errors.Is(err, errSendTimeout))
}

func TestGRPCSendTimeoutDefaultsWhenUnset(t *testing.T) {
	c := grpcClientFixture(0)
	assert.Equal(t, 10*time.Second, c.sendTimeout)
}
