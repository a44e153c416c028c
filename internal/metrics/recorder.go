// Package metrics keeps a short Redis-backed history of operation timings
// per backend, which the dashboard reads to chart recent latency.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/databoard/databoard-backend/internal/domain"
)

const (
	opListPrefix = "metrics:ops:" // List of recent samples per backend: metrics:ops:{db}
	keepSamples  = 500
	sampleTTL    = 24 * time.Hour
)

// Sample is one recorded operation timing.
type Sample struct {
	Op         string         `json:"op"`
	Backend    domain.Backend `json:"db"`
	DurationMS float64        `json:"ms"`
	At         time.Time      `json:"at"`
}

// Recorder stores operation timing samples in Redis. A nil *Recorder is a
// valid no-op, so callers never branch on whether Redis is configured.
type Recorder struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRecorder(client *redis.Client, log zerolog.Logger) *Recorder {
	return &Recorder{client: client, log: log}
}

// ObserveOp pushes one sample onto the backend's history list, trimming it
// to the retention window. Recording is best effort: a Redis failure is
// logged, never surfaced to the request.
func (r *Recorder) ObserveOp(ctx context.Context, op string, backend domain.Backend, ms float64) {
	if r == nil {
		return
	}

	sample := Sample{Op: op, Backend: backend, DurationMS: ms, At: time.Now().UTC()}
	data, err := json.Marshal(sample)
	if err != nil {
		r.log.Warn().Err(err).Msg("marshal metrics sample")
		return
	}

	key := opListPrefix + string(backend)
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, keepSamples-1)
	pipe.Expire(ctx, key, sampleTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Warn().Err(err).Str("db", string(backend)).Msg("record metrics sample")
	}
}

// Recent returns up to limit samples for the backend, newest first.
func (r *Recorder) Recent(ctx context.Context, backend domain.Backend, limit int) ([]Sample, error) {
	if r == nil {
		return []Sample{}, nil
	}
	if limit <= 0 || limit > keepSamples {
		limit = keepSamples
	}

	key := opListPrefix + string(backend)
	raw, err := r.client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read metrics history: %w", err)
	}

	out := make([]Sample, 0, len(raw))
	for _, item := range raw {
		var s Sample
		if err := json.Unmarshal([]byte(item), &s); err != nil {
			r.log.Warn().Err(err).Msg("skip malformed metrics sample")
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
