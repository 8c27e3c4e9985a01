package stream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"

	"privara-monitor-agent/internal/model"
)

type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// errSendTimeout marks a send that outlived the per-send bound; the
// stream is already torn down, so there is no point retrying the sample.
var errSendTimeout = errors.New("grpc send timed out")

// GRPCClient is the alternate gRPC delivery mode: one long-lived
// client stream of JSON-encoded sample frames. A failed send reopens
// the stream once before giving up on the sample; a send that stalls
// past the send timeout tears the stream down so the scheduler
// goroutine is never wedged by backend flow control.
type GRPCClient struct {
	mu sync.Mutex

	logger       *slog.Logger
	addr         string
	tlsConfig    *tls.Config
	token        string
	hostname     string
	streamMethod string
	conn         *grpc.ClientConn
	stream       grpc.ClientStream
	streamCancel context.CancelFunc
	dialTimeout  time.Duration
	sendTimeout  time.Duration
}

func NewGRPCClient(addr string, tlsCfg *tls.Config, token, hostname, streamMethod string, sendTimeout time.Duration, logger *slog.Logger) *GRPCClient {
	encoding.RegisterCodec(jsonCodec{})
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &GRPCClient{
		logger:       logger,
		addr:         addr,
		tlsConfig:    tlsCfg,
		token:        token,
		hostname:     hostname,
		streamMethod: streamMethod,
		dialTimeout:  8 * time.Second,
		sendTimeout:  sendTimeout,
	}
}

func (c *GRPCClient) SendSample(ctx context.Context, sample model.MetricsSample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureConnLocked(ctx); err != nil {
		return transportErr(err)
	}
	if c.stream == nil {
		if err := c.openStreamLocked(ctx); err != nil {
			return transportErr(err)
		}
	}

	frame := NewSampleFrame(c.hostname, sample)
	if err := c.sendFrameLocked(frame); err != nil {
		if errors.Is(err, errSendTimeout) {
			return transportErr(err)
		}
		c.logger.Warn("grpc send failed, reopening stream", "error", err)
		c.resetStreamLocked()
		if err2 := c.openStreamLocked(ctx); err2 != nil {
			return transportErr(fmt.Errorf("reopen sample stream: %w", err2))
		}
		if err2 := c.sendFrameLocked(frame); err2 != nil {
			return transportErr(fmt.Errorf("send sample frame: %w", err2))
		}
	}
	return nil
}

// sendFrameLocked bounds SendMsg with the send timeout. SendMsg has no
// context of its own; on timeout the stream context is canceled, which
// unblocks the stalled send and forces a redial on the next sample.
func (c *GRPCClient) sendFrameLocked(frame SampleFrame) error {
	stream := c.stream
	errCh := make(chan error, 1)
	go func() {
		errCh <- stream.SendMsg(frame)
	}()

	timer := time.NewTimer(c.sendTimeout)
	defer timer.Stop()
	select {
	case err := <-errCh:
		return err
	case <-timer.C:
		c.resetStreamLocked()
		return fmt.Errorf("%w after %s", errSendTimeout, c.sendTimeout)
	}
}

func (c *GRPCClient) resetStreamLocked() {
	if c.streamCancel != nil {
		c.streamCancel()
		c.streamCancel = nil
	}
	c.stream = nil
}

func (c *GRPCClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		_ = c.stream.CloseSend()
		c.resetStreamLocked()
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	_ = ctx
	return nil
}

func (c *GRPCClient) ensureConnLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	dialCtx, cancel := context.WithTimeout(context.Background(), c.dialTimeout)
	defer cancel()
	if dl, ok := ctx.Deadline(); ok {
		dialCtx, cancel = context.WithDeadline(context.Background(), dl)
		defer cancel()
	}

	var creds credentials.TransportCredentials
	if c.tlsConfig != nil {
		creds = credentials.NewTLS(c.tlsConfig)
	} else {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.DialContext(
		dialCtx,
		c.addr,
		grpc.WithTransportCredentials(creds),
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{}), grpc.CallContentSubtype("json")),
	)
	if err != nil {
		return fmt.Errorf("grpc dial %s: %w", c.addr, err)
	}
	c.conn = conn
	c.logger.Info("grpc stream connected", "addr", c.addr)
	return nil
}

func (c *GRPCClient) openStreamLocked(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("grpc conn is nil")
	}
	streamCtx, cancel := context.WithCancel(c.decorateContext(ctx))
	s, err := c.conn.NewStream(streamCtx, &grpc.StreamDesc{ClientStreams: true}, c.streamMethod)
	if err != nil {
		cancel()
		return fmt.Errorf("open sample stream: %w", err)
	}
	c.stream = s
	c.streamCancel = cancel
	return nil
}

// decorateContext builds the long-lived stream context. The caller's
// per-publish deadline must not leak onto it, or the stream would die
// when the first publish window closes; sends are bounded separately.
func (c *GRPCClient) decorateContext(ctx context.Context) context.Context {
	out := context.Background()
	if c.token != "" {
		out = metadata.AppendToOutgoingContext(out, "authorization", "Bearer "+c.token)
	}
	_ = ctx
	return out
}
