package metrics

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databoard/databoard-backend/internal/domain"
)

func setupRecorder(t *testing.T) (*Recorder, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRecorder(client, zerolog.Nop()), mr
}

func TestRecorder_ObserveAndRecent(t *testing.T) {
	r, _ := setupRecorder(t)
	ctx := context.Background()

	r.ObserveOp(ctx, "list", domain.BackendMySQL, 12.5)
	r.ObserveOp(ctx, "create", domain.BackendMySQL, 3.25)
	r.ObserveOp(ctx, "list", domain.BackendMongo, 8.0)

	samples, err := r.Recent(ctx, domain.BackendMySQL, 10)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	// Newest first.
	assert.Equal(t, "create", samples[0].Op)
	assert.Equal(t, 3.25, samples[0].DurationMS)
	assert.Equal(t, "list", samples[1].Op)
	assert.Equal(t, 12.5, samples[1].DurationMS)
	for _, s := range samples {
		assert.Equal(t, domain.BackendMySQL, s.Backend)
		assert.False(t, s.At.IsZero())
	}

	mongoSamples, err := r.Recent(ctx, domain.BackendMongo, 10)
	require.NoError(t, err)
	require.Len(t, mongoSamples, 1)
	assert.Equal(t, 8.0, mongoSamples[0].DurationMS)
}

func TestRecorder_Limit(t *testing.T) {
	r, _ := setupRecorder(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r.ObserveOp(ctx, "list", domain.BackendMySQL, float64(i))
	}

	samples, err := r.Recent(ctx, domain.BackendMySQL, 3)
	require.NoError(t, err)
	assert.Len(t, samples, 3)
}

func TestRecorder_TrimsHistory(t *testing.T) {
	r, mr := setupRecorder(t)
	ctx := context.Background()

	for i := 0; i < keepSamples+25; i++ {
		r.ObserveOp(ctx, "get", domain.BackendMongo, 1.0)
	}

	key := opListPrefix + string(domain.BackendMongo)
	items, err := mr.List(key)
	require.NoError(t, err)
	assert.Len(t, items, keepSamples)
}

func TestRecorder_SkipsMalformedSamples(t *testing.T) {
	r, mr := setupRecorder(t)
	ctx := context.Background()

	r.ObserveOp(ctx, "list", domain.BackendMySQL, 1.5)
	key := opListPrefix + string(domain.BackendMySQL)
	_, err := mr.Lpush(key, "{not json")
	require.NoError(t, err)

	samples, err := r.Recent(ctx, domain.BackendMySQL, 10)
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	ctx := context.Background()

	r.ObserveOp(ctx, "list", domain.BackendMySQL, 1.0)

	samples, err := r.Recent(ctx, domain.BackendMySQL, 10)
	require.NoError(t, err)
	assert.Empty(t, samples)
}
