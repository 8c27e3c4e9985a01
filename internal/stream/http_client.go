package stream

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"privara-monitor-agent/internal/model"
)

// HTTPClient posts each sample to the backend URL as a JSON body. One
// synchronous request per sample, bounded by the configured timeout.
type HTTPClient struct {
	logger *slog.Logger
	url    string
	token  string
	client *http.Client
}

func NewHTTPClient(url, token string, tlsCfg *tls.Config, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	return &HTTPClient{
		logger: logger,
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout, Transport: transport},
	}
}

func (c *HTTPClient) SendSample(ctx context.Context, sample model.MetricsSample) error {
	body, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return transportErr(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return badStatus(resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) Close(ctx context.Context) error {
	c.client.CloseIdleConnections()
	_ = ctx
	return nil
}
