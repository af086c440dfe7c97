// v2
// internal/ingest/metrics_consumer.go
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/whatifwestudios/the-commons/internal/metrics"
	"github.com/whatifwestudios/the-commons/internal/score"
)

// MetricsConsumerConfig captures the runtime tunables required to consume
// the simulation's participant metrics stream.
type MetricsConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	PollTimeout time.Duration
}

// MetricsConsumer streams participant metric snapshots from Kafka into the
// in-memory store used by the leaderboard surface.
type MetricsConsumer struct {
	cfg    MetricsConsumerConfig
	reader *kafka.Reader
	store  *ParticipantStore
	log    *slog.Logger
	poll   time.Duration
}

// NewMetricsConsumer builds a Kafka reader for the metrics topic and
// prepares the participant store queried by the HTTP layer.
func NewMetricsConsumer(cfg MetricsConsumerConfig, log *slog.Logger) (*MetricsConsumer, error) {
	if log == nil {
		return nil, errors.New("logger must not be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("metrics topic must not be empty")
	}
	if strings.TrimSpace(cfg.GroupID) == "" {
		return nil, errors.New("consumer group must not be empty")
	}

	poll := cfg.PollTimeout
	if poll <= 0 {
		poll = 5 * time.Second
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})

	return &MetricsConsumer{
		cfg:    cfg,
		reader: reader,
		store:  NewParticipantStore(),
		log:    log,
		poll:   poll,
	}, nil
}

// Store exposes the backing ParticipantStore so callers can snapshot the
// tracked metrics.
func (c *MetricsConsumer) Store() *ParticipantStore {
	return c.store
}

// Close shuts down the underlying Kafka reader.
func (c *MetricsConsumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Run blocks until the context is cancelled or the reader is closed,
// consuming snapshot messages and upserting the store.
func (c *MetricsConsumer) Run(ctx context.Context) error {
	if c == nil {
		return errors.New("nil consumer")
	}
	if ctx == nil {
		return errors.New("context must not be nil")
	}

	c.log.Info("metrics_consumer_started",
		slog.String("topic", c.cfg.Topic),
		slog.String("group", c.cfg.GroupID),
		slog.String("brokers", strings.Join(c.cfg.Brokers, ",")),
		slog.Duration("pollTimeout", c.poll),
	)
	defer c.log.Info("metrics_consumer_stopped")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fetchCtx, cancel := context.WithTimeout(ctx, c.poll)
		msg, err := c.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, context.Canceled) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				continue
			}
			if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, kafka.ErrGroupClosed) {
				return nil
			}
			c.log.Error("metrics_consumer_fetch_error", slog.Any("err", err))
			continue
		}

		metrics.IncMetricsMessage()
		record, decodeErr := decodeMetricsMessage(msg.Value)
		if decodeErr != nil {
			metrics.IncMetricsDecodeDrop(dropReason(decodeErr))
			c.log.Warn("metrics_consumer_decode_error",
				slog.Any("err", decodeErr),
				slog.Int64("offset", msg.Offset),
			)
		} else {
			metrics.IncMetricsDecodeOK()
			fresh, count := c.store.Upsert(record)
			c.log.Info("participant_snapshot_stored",
				slog.String("playerId", record.PlayerID),
				slog.Bool("fresh", fresh),
				slog.Int("participants", count),
				slog.Time("updatedAt", record.UpdatedAt),
			)
		}

		commitCtx, commitCancel := context.WithTimeout(ctx, c.poll)
		if err := c.reader.CommitMessages(commitCtx, msg); err != nil {
			if !(errors.Is(err, context.Canceled) && ctx.Err() != nil) {
				c.log.Error("metrics_consumer_commit_error", slog.Any("err", err))
			}
		}
		commitCancel()
	}
}

var errMissingPlayer = errors.New("playerId missing or empty")

func dropReason(err error) string {
	if errors.Is(err, errMissingPlayer) {
		return metrics.DropReasonMissingPlayer
	}
	return metrics.DropReasonJSONError
}

// metricsEnvelope mirrors the snapshot message published by the simulation
// while tolerating both numeric and numeric-string encodings of the metric
// fields.
type metricsEnvelope struct {
	PlayerID       string          `json:"playerId"`
	PlayerName     string          `json:"playerName"`
	WealthScore    json.RawMessage `json:"wealthScore"`
	CivicScore     json.RawMessage `json:"civicScore"`
	Score          json.RawMessage `json:"score"`
	Population     json.RawMessage `json:"population"`
	Wealth         json.RawMessage `json:"wealth"`
	Buildings      json.RawMessage `json:"buildings"`
	LVTCollected   json.RawMessage `json:"lvtCollected"`
	PublicSpending json.RawMessage `json:"publicSpending"`
	LVTRate        json.RawMessage `json:"lvtRate"`
	UpdatedAt      json.RawMessage `json:"updatedAt"`
}

// decodeMetricsMessage extracts a score.Metrics bundle from a Kafka message
// value. A missing playerId is the only rejection; score fields that are
// absent stay NaN so the presentation layer applies its displayable-zero
// rule, and absent statistics count as zero.
func decodeMetricsMessage(raw []byte) (score.Metrics, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var env metricsEnvelope
	if err := dec.Decode(&env); err != nil {
		return score.Metrics{}, fmt.Errorf("decode metrics payload: %w", err)
	}
	if strings.TrimSpace(env.PlayerID) == "" {
		return score.Metrics{}, errMissingPlayer
	}

	m := score.Metrics{
		PlayerID:       strings.TrimSpace(env.PlayerID),
		PlayerName:     strings.TrimSpace(env.PlayerName),
		WealthScore:    parseNumberOr(env.WealthScore, math.NaN()),
		CivicScore:     parseNumberOr(env.CivicScore, math.NaN()),
		Population:     int(parseNumberOr(env.Population, 0)),
		Wealth:         parseNumberOr(env.Wealth, 0),
		Buildings:      int(parseNumberOr(env.Buildings, 0)),
		LVTCollected:   parseNumberOr(env.LVTCollected, 0),
		PublicSpending: parseNumberOr(env.PublicSpending, 0),
		LVTRate:        parseNumberOr(env.LVTRate, 0),
		UpdatedAt:      parseTimestamp(env.UpdatedAt),
	}
	if total, ok := parseNumber(env.Score); ok {
		m.Score = &total
	}
	return m, nil
}

// parseNumber reads a JSON number or numeric string. The second return
// value reports whether a usable number was present.
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if f, err := asNumber.Float64(); err == nil {
			return f, true
		}
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		trimmed := strings.TrimSpace(asString)
		if trimmed == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func parseNumberOr(raw json.RawMessage, def float64) float64 {
	if f, ok := parseNumber(raw); ok {
		return f
	}
	return def
}

// parseTimestamp resolves the snapshot timestamp accepting RFC3339 strings
// or Unix epoch milliseconds; anything else falls back to the receive time.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Now().UTC()
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		trimmed := strings.TrimSpace(asString)
		if ts, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
			return ts.UTC()
		}
		if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return ts.UTC()
		}
		if millis, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return time.UnixMilli(millis).UTC()
		}
		return time.Now().UTC()
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if millis, err := asNumber.Int64(); err == nil {
			return time.UnixMilli(millis).UTC()
		}
	}
	return time.Now().UTC()
}
