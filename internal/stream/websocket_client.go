package stream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"privara-monitor-agent/internal/model"
)

// SampleFrame wraps one sample for the streaming transports. HTTP mode
// ships the bare sample; the stream modes carry framing so the backend
// can demultiplex without inspecting the payload.
type SampleFrame struct {
	Type          string              `json:"type"`
	Hostname      string              `json:"hostname"`
	TimestampUnix int64               `json:"timestamp_unix"`
	Sample        model.MetricsSample `json:"sample"`
}

func NewSampleFrame(hostname string, sample model.MetricsSample) SampleFrame {
	return SampleFrame{
		Type:          "metrics_sample",
		Hostname:      hostname,
		TimestampUnix: sample.TimestampMillis / 1000,
		Sample:        sample,
	}
}

// WebSocketClient is the alternate websocket delivery mode. The connection
// is lazy: a failed send drops it and the next send redials.
type WebSocketClient struct {
	mu sync.Mutex

	logger       *slog.Logger
	url          string
	token        string
	hostname     string
	tlsConfig    *tls.Config
	writeTimeout time.Duration
	conn         *websocket.Conn
}

func NewWebSocketClient(url, token, hostname string, tlsCfg *tls.Config, writeTimeout time.Duration, logger *slog.Logger) *WebSocketClient {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &WebSocketClient{
		logger:       logger,
		url:          url,
		token:        token,
		hostname:     hostname,
		tlsConfig:    tlsCfg,
		writeTimeout: writeTimeout,
	}
}

func (c *WebSocketClient) SendSample(ctx context.Context, sample model.MetricsSample) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnLocked(ctx); err != nil {
		return transportErr(err)
	}

	payload, err := json.Marshal(NewSampleFrame(c.hostname, sample))
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	if err := c.conn.Write(writeCtx, websocket.MessageText, payload); err != nil {
		c.logger.Warn("websocket write failed, dropping connection", "error", err)
		_ = c.conn.Close(websocket.StatusAbnormalClosure, "write failed")
		c.conn = nil
		return transportErr(err)
	}
	return nil
}

func (c *WebSocketClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(websocket.StatusNormalClosure, "shutdown")
	c.conn = nil
	_ = ctx
	return err
}

func (c *WebSocketClient) ensureConnLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	opts := &websocket.DialOptions{}
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	opts.HTTPHeader = header
	if c.tlsConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = c.tlsConfig
		opts.HTTPClient = &http.Client{Transport: transport}
	}

	conn, _, err := websocket.Dial(ctx, c.url, opts)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.logger.Info("websocket stream connected", "url", c.url)
	return nil
}
