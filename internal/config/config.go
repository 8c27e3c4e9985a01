package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type StreamMode string

const (
	StreamModeHTTP      StreamMode = "http"
	StreamModeWebSocket StreamMode = "websocket"
	StreamModeGRPC      StreamMode = "grpc"
)

type Config struct {
	Hostname         string
	BackendURL       string
	BackendWSURL     string
	BackendGRPCAddr  string
	BackendToken     string
	GRPCStreamMethod string
	StreamMode       StreamMode
	SampleInterval   time.Duration
	PublishTimeout   time.Duration
	ShutdownTimeout  time.Duration
	ProbeListenAddr  string
	TLSEnabled       bool
	TLSSkipVerify    bool
	TLSCAPath        string
	TLSCertPath      string
	TLSKeyPath       string
	LogJSON          bool
	LogLevel         string
}

// fileConfig mirrors the optional YAML config file. Environment variables
// win over file values, file values win over defaults.
type fileConfig struct {
	BackendURL       string `yaml:"backend_url"`
	BackendWSURL     string `yaml:"backend_ws_url"`
	BackendGRPCAddr  string `yaml:"backend_grpc_addr"`
	BackendToken     string `yaml:"backend_token"`
	GRPCStreamMethod string `yaml:"grpc_stream_method"`
	StreamMode       string `yaml:"stream_mode"`
	SampleInterval   string `yaml:"sample_interval"`
	PublishTimeout   string `yaml:"publish_timeout"`
	ShutdownTimeout  string `yaml:"shutdown_timeout"`
	ProbeListenAddr  string `yaml:"probe_listen_addr"`
	TLSEnabled       string `yaml:"tls_enabled"`
	TLSSkipVerify    string `yaml:"tls_skip_verify"`
	TLSCAPath        string `yaml:"tls_ca_path"`
	TLSCertPath      string `yaml:"tls_cert_path"`
	TLSKeyPath       string `yaml:"tls_key_path"`
	LogJSON          string `yaml:"log_json"`
	LogLevel         string `yaml:"log_level"`
}

func Load() (Config, error) {
	return LoadFromFile(strings.TrimSpace(os.Getenv("PRIVARA_CONFIG_FILE")))
}

func LoadFromFile(path string) (Config, error) {
	var file fileConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}

	cfg := Config{
		Hostname:         hostname,
		BackendURL:       env("PRIVARA_BACKEND_URL", file.BackendURL, "http://localhost:8000/api/system-update"),
		BackendWSURL:     env("PRIVARA_BACKEND_WS_URL", file.BackendWSURL, "ws://localhost:8000/ws/system-update"),
		BackendGRPCAddr:  env("PRIVARA_BACKEND_GRPC_ADDR", file.BackendGRPCAddr, "127.0.0.1:3001"),
		BackendToken:     env("PRIVARA_BACKEND_TOKEN", file.BackendToken, ""),
		GRPCStreamMethod: env("PRIVARA_GRPC_STREAM_METHOD", file.GRPCStreamMethod, "/privara.metrics.v1.MetricsService/StreamSamples"),
		StreamMode:       StreamMode(strings.ToLower(env("PRIVARA_STREAM_MODE", file.StreamMode, string(StreamModeHTTP)))),
		SampleInterval:   envDuration("PRIVARA_SAMPLE_INTERVAL", file.SampleInterval, 5*time.Second),
		PublishTimeout:   envDuration("PRIVARA_PUBLISH_TIMEOUT", file.PublishTimeout, 10*time.Second),
		ShutdownTimeout:  envDuration("PRIVARA_SHUTDOWN_TIMEOUT", file.ShutdownTimeout, 20*time.Second),
		ProbeListenAddr:  env("PRIVARA_PROBE_ADDR", file.ProbeListenAddr, "0.0.0.0:7443"),
		TLSEnabled:       envBool("PRIVARA_TLS_ENABLED", file.TLSEnabled, false),
		TLSSkipVerify:    envBool("PRIVARA_TLS_SKIP_VERIFY", file.TLSSkipVerify, false),
		TLSCAPath:        env("PRIVARA_TLS_CA_PATH", file.TLSCAPath, ""),
		TLSCertPath:      env("PRIVARA_TLS_CERT_PATH", file.TLSCertPath, ""),
		TLSKeyPath:       env("PRIVARA_TLS_KEY_PATH", file.TLSKeyPath, ""),
		LogJSON:          envBool("PRIVARA_LOG_JSON", file.LogJSON, true),
		LogLevel:         strings.ToLower(env("PRIVARA_LOG_LEVEL", file.LogLevel, "info")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SampleInterval <= 0 {
		return errors.New("PRIVARA_SAMPLE_INTERVAL must be > 0")
	}
	if c.PublishTimeout <= 0 {
		return errors.New("PRIVARA_PUBLISH_TIMEOUT must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("PRIVARA_SHUTDOWN_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(c.ProbeListenAddr) == "" {
		return errors.New("PRIVARA_PROBE_ADDR is required")
	}
	switch c.StreamMode {
	case StreamModeHTTP, StreamModeWebSocket, StreamModeGRPC:
	default:
		return fmt.Errorf("unsupported stream mode %q", c.StreamMode)
	}
	if c.StreamMode == StreamModeHTTP && c.BackendURL == "" {
		return errors.New("PRIVARA_BACKEND_URL is required for http mode")
	}
	if c.StreamMode == StreamModeWebSocket && c.BackendWSURL == "" {
		return errors.New("PRIVARA_BACKEND_WS_URL is required for websocket mode")
	}
	if c.StreamMode == StreamModeGRPC {
		if c.BackendGRPCAddr == "" {
			return errors.New("PRIVARA_BACKEND_GRPC_ADDR is required for grpc mode")
		}
		if strings.TrimSpace(c.GRPCStreamMethod) == "" {
			return errors.New("PRIVARA_GRPC_STREAM_METHOD is required for grpc mode")
		}
	}
	return nil
}

func (c Config) TLSConfig() (*tls.Config, error) {
	if !c.TLSEnabled {
		return nil, nil
	}
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: c.TLSSkipVerify}
	if c.TLSCAPath != "" {
		caBytes, err := os.ReadFile(c.TLSCAPath)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, errors.New("append CA cert failed")
		}
		tlsCfg.RootCAs = pool
	}
	if c.TLSCertPath != "" || c.TLSKeyPath != "" {
		if c.TLSCertPath == "" || c.TLSKeyPath == "" {
			return nil, errors.New("both TLS cert and key are required")
		}
		crt, err := tls.LoadX509KeyPair(c.TLSCertPath, c.TLSKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load mTLS cert/key: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{crt}
	}
	return tlsCfg, nil
}

func env(key, fileValue, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if v := strings.TrimSpace(fileValue); v != "" {
		return v
	}
	return fallback
}

func envBool(key, fileValue string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		v = strings.TrimSpace(strings.ToLower(fileValue))
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(key, fileValue string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		v = strings.TrimSpace(fileValue)
	}
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
