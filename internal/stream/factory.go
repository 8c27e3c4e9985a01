package stream

import (
	"crypto/tls"
	"fmt"
	"log/slog"

	"privara-monitor-agent/internal/config"
)

// NewSinkFromConfig builds the sink for the configured stream mode.
func NewSinkFromConfig(cfg config.Config, tlsCfg *tls.Config, logger *slog.Logger) (Sink, error) {
	switch cfg.StreamMode {
	case config.StreamModeHTTP:
		return NewHTTPClient(cfg.BackendURL, cfg.BackendToken, tlsCfg, cfg.PublishTimeout, logger), nil
	case config.StreamModeWebSocket:
		return NewWebSocketClient(cfg.BackendWSURL, cfg.BackendToken, cfg.Hostname, tlsCfg, cfg.PublishTimeout, logger), nil
	case config.StreamModeGRPC:
		return NewGRPCClient(cfg.BackendGRPCAddr, tlsCfg, cfg.BackendToken, cfg.Hostname, cfg.GRPCStreamMethod, cfg.PublishTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported stream mode %q", cfg.StreamMode)
	}
}
