// v1
// internal/config/config.go
package config

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures all runtime settings required by the commons service.
// Values can be provided by environment variables, a properties file, or
// fall back to sensible defaults so the service can boot with minimal
// setup.
type Config struct {
	// ListenAddress defines the TCP address used by the HTTP server.
	ListenAddress string
	// LogFilePath is the absolute or relative path to the log file.
	LogFilePath string
	// LogLevel is the minimum level emitted by both log sinks.
	LogLevel slog.Level
	// HTTPReadTimeout bounds the time to read incoming requests.
	HTTPReadTimeout time.Duration
	// HTTPWriteTimeout bounds the time to write responses.
	HTTPWriteTimeout time.Duration
	// ShutdownTimeout limits graceful shutdown attempts.
	ShutdownTimeout time.Duration
	// PropertiesPath records the path used to load property values.
	PropertiesPath string
	// CatalogPath locates the buildings CSV snapshot transformed at boot.
	CatalogPath string
	// KafkaBrokers lists the bootstrap brokers used to join the metrics topic.
	KafkaBrokers []string
	// MetricsTopic identifies the stream carrying participant metric snapshots.
	MetricsTopic string
	// MetricsGroupID is the consumer group identifier used for checkpointing.
	MetricsGroupID string
	// MetricsPollTimeout bounds the duration spent waiting for Kafka messages.
	MetricsPollTimeout time.Duration
}

const (
	defaultListenAddress = ":8090"
	defaultLogFile       = "logs/commons.log"
	defaultReadTimeout   = 5 * time.Second
	defaultWriteTimeout  = 10 * time.Second
	defaultShutdown      = 5 * time.Second
	defaultPropsPath     = "commons.properties"
	defaultCatalogPath   = "data/buildings-data.csv"
	defaultKafkaBrokers  = "kafka:9092"
	defaultMetricsTopic  = "commons.participant.metrics"
	defaultMetricsGroup  = "commons-leaderboard"
	defaultPollTimeout   = 5 * time.Second
)

// Load resolves configuration by layering defaults, an optional properties
// file, and finally environment variables. The properties file location can
// be overridden with COMMONS_PROPERTIES_PATH.
func Load() (Config, error) {
	cfg := Config{
		ListenAddress:      defaultListenAddress,
		LogFilePath:        filepath.Clean(defaultLogFile),
		LogLevel:           slog.LevelInfo,
		HTTPReadTimeout:    defaultReadTimeout,
		HTTPWriteTimeout:   defaultWriteTimeout,
		ShutdownTimeout:    defaultShutdown,
		CatalogPath:        filepath.Clean(defaultCatalogPath),
		KafkaBrokers:       splitAndTrim(defaultKafkaBrokers),
		MetricsTopic:       defaultMetricsTopic,
		MetricsGroupID:     defaultMetricsGroup,
		MetricsPollTimeout: defaultPollTimeout,
	}

	propsPath := strings.TrimSpace(os.Getenv("COMMONS_PROPERTIES_PATH"))
	if propsPath == "" {
		propsPath = defaultPropsPath
	}
	cfg.PropertiesPath = propsPath

	if err := applyProperties(&cfg, propsPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyProperties(cfg *Config, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		// Close errors are ignored because configuration loading has
		// already completed and there is no logger available at this
		// stage of initialization.
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, ";") {
			continue
		}
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid properties entry on line %d", line)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if err := setProperty(cfg, key, value); err != nil {
			return fmt.Errorf("property %s: %w", key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read properties: %w", err)
	}
	return nil
}

func setProperty(cfg *Config, key, value string) error {
	switch key {
	case "listen_address":
		if value == "" {
			return errors.New("listen_address cannot be empty")
		}
		cfg.ListenAddress = value
	case "log_path":
		if value == "" {
			return errors.New("log_path cannot be empty")
		}
		cfg.LogFilePath = filepath.Clean(value)
	case "log_level":
		level, err := parseLogLevel(value)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	case "catalog_path":
		if value == "" {
			return errors.New("catalog_path cannot be empty")
		}
		cfg.CatalogPath = filepath.Clean(value)
	case "http_read_timeout_ms":
		d, err := parsePositiveMillis(value)
		if err != nil {
			return err
		}
		cfg.HTTPReadTimeout = d
	case "http_write_timeout_ms":
		d, err := parsePositiveMillis(value)
		if err != nil {
			return err
		}
		cfg.HTTPWriteTimeout = d
	case "shutdown_timeout_ms":
		d, err := parsePositiveMillis(value)
		if err != nil {
			return err
		}
		cfg.ShutdownTimeout = d
	case "kafka_brokers":
		brokers := splitAndTrim(value)
		if len(brokers) == 0 {
			return errors.New("kafka_brokers cannot be empty")
		}
		cfg.KafkaBrokers = brokers
	case "metrics_topic":
		if value == "" {
			return errors.New("metrics_topic cannot be empty")
		}
		cfg.MetricsTopic = value
	case "metrics_group_id":
		if value == "" {
			return errors.New("metrics_group_id cannot be empty")
		}
		cfg.MetricsGroupID = value
	case "metrics_poll_timeout_ms":
		d, err := parsePositiveMillis(value)
		if err != nil {
			return err
		}
		cfg.MetricsPollTimeout = d
	default:
		// Unknown keys are ignored to keep the loader forward-compatible.
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookupEnvTrimmed("COMMONS_LISTEN_ADDRESS"); ok {
		if v == "" {
			return errors.New("COMMONS_LISTEN_ADDRESS cannot be empty")
		}
		cfg.ListenAddress = v
	}
	if v, ok := lookupEnvTrimmed("COMMONS_LOG_PATH"); ok {
		if v == "" {
			return errors.New("COMMONS_LOG_PATH cannot be empty")
		}
		cfg.LogFilePath = filepath.Clean(v)
	}
	if v, ok := lookupEnvTrimmed("COMMONS_LOG_LEVEL"); ok {
		level, err := parseLogLevel(v)
		if err != nil {
			return fmt.Errorf("COMMONS_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	if v, ok := lookupEnvTrimmed("COMMONS_CATALOG_PATH"); ok {
		if v == "" {
			return errors.New("COMMONS_CATALOG_PATH cannot be empty")
		}
		cfg.CatalogPath = filepath.Clean(v)
	}
	if v, ok := lookupEnvTrimmed("COMMONS_HTTP_READ_TIMEOUT_MS"); ok {
		d, err := parsePositiveMillis(v)
		if err != nil {
			return fmt.Errorf("COMMONS_HTTP_READ_TIMEOUT_MS: %w", err)
		}
		cfg.HTTPReadTimeout = d
	}
	if v, ok := lookupEnvTrimmed("COMMONS_HTTP_WRITE_TIMEOUT_MS"); ok {
		d, err := parsePositiveMillis(v)
		if err != nil {
			return fmt.Errorf("COMMONS_HTTP_WRITE_TIMEOUT_MS: %w", err)
		}
		cfg.HTTPWriteTimeout = d
	}
	if v, ok := lookupEnvTrimmed("COMMONS_SHUTDOWN_TIMEOUT_MS"); ok {
		d, err := parsePositiveMillis(v)
		if err != nil {
			return fmt.Errorf("COMMONS_SHUTDOWN_TIMEOUT_MS: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if v, ok := lookupEnvTrimmed("COMMONS_KAFKA_BROKERS"); ok {
		brokers := splitAndTrim(v)
		if len(brokers) == 0 {
			return errors.New("COMMONS_KAFKA_BROKERS cannot be empty")
		}
		cfg.KafkaBrokers = brokers
	} else if v, ok := lookupEnvTrimmed("KAFKA_BROKERS"); ok {
		brokers := splitAndTrim(v)
		if len(brokers) == 0 {
			return errors.New("KAFKA_BROKERS cannot be empty")
		}
		cfg.KafkaBrokers = brokers
	}
	if v, ok := lookupEnvTrimmed("COMMONS_METRICS_TOPIC"); ok {
		if v == "" {
			return errors.New("COMMONS_METRICS_TOPIC cannot be empty")
		}
		cfg.MetricsTopic = v
	}
	if v, ok := lookupEnvTrimmed("COMMONS_METRICS_GROUP"); ok {
		if v == "" {
			return errors.New("COMMONS_METRICS_GROUP cannot be empty")
		}
		cfg.MetricsGroupID = v
	}
	if v, ok := lookupEnvTrimmed("COMMONS_METRICS_POLL_TIMEOUT_MS"); ok {
		d, err := parsePositiveMillis(v)
		if err != nil {
			return fmt.Errorf("COMMONS_METRICS_POLL_TIMEOUT_MS: %w", err)
		}
		cfg.MetricsPollTimeout = d
	}
	return nil
}

func lookupEnvTrimmed(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitAndTrim(raw string) []string {
	fields := strings.Split(raw, ",")
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		trimmed := strings.TrimSpace(field)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseLogLevel(v string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", v)
	}
}

func parsePositiveMillis(v string) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return 0, errors.New("value cannot be empty")
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	if ms <= 0 {
		return 0, errors.New("value must be greater than zero")
	}
	return time.Duration(ms) * time.Millisecond, nil
}
