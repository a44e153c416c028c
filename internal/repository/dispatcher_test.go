package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
	"github.com/databoard/databoard-backend/internal/repository/repotest"
)

type captureObserver struct {
	mu      sync.Mutex
	ops     []string
	backend []domain.Backend
}

func (o *captureObserver) ObserveOp(_ context.Context, op string, b domain.Backend, ms float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
	o.backend = append(o.backend, b)
}

func TestDispatcher_RoutesBySelector(t *testing.T) {
	mysql := repotest.New()
	mongo := repotest.New()
	d := repository.NewDispatcher(mysql, mongo)
	ctx := context.Background()

	_, _, err := d.Create(ctx, domain.BackendMySQL, domain.ScopeItems, &domain.Entity{Name: "a", Owner: "o", Status: "active"})
	require.NoError(t, err)

	mysqlList, _, err := d.List(ctx, domain.BackendMySQL, domain.ScopeItems, repository.Filter{})
	require.NoError(t, err)
	assert.Len(t, mysqlList, 1)

	mongoList, _, err := d.List(ctx, domain.BackendMongo, domain.ScopeItems, repository.Filter{})
	require.NoError(t, err)
	assert.Empty(t, mongoList, "records must not leak across backends")
}

func TestDispatcher_MetricsTagging(t *testing.T) {
	d := repository.NewDispatcher(repotest.New(), repotest.New())
	ctx := context.Background()

	_, m, err := d.List(ctx, domain.BackendMongo, domain.ScopeProjects, repository.Filter{})
	require.NoError(t, err)
	assert.Equal(t, domain.BackendMongo, m.Backend)
	assert.GreaterOrEqual(t, m.DurationMS, 0.0)
}

func TestDispatcher_MetricsOnFailure(t *testing.T) {
	failing := repotest.New()
	failing.Err = errors.New("connection reset")
	d := repository.NewDispatcher(failing, repotest.New())

	_, m, err := d.List(context.Background(), domain.BackendMySQL, domain.ScopeItems, repository.Filter{})
	require.Error(t, err)
	assert.Equal(t, domain.BackendMySQL, m.Backend, "failed calls are still timed and tagged")
}

func TestDispatcher_UnknownBackend(t *testing.T) {
	d := repository.NewDispatcher(repotest.New(), repotest.New())

	_, _, err := d.List(context.Background(), domain.Backend("oracle"), domain.ScopeItems, repository.Filter{})
	assert.True(t, errors.Is(err, domain.ErrUnknownBackend))
}

func TestDispatcher_Observer(t *testing.T) {
	obs := &captureObserver{}
	d := repository.NewDispatcher(repotest.New(), repotest.New()).WithObserver(obs)
	ctx := context.Background()

	created, _, err := d.Create(ctx, domain.BackendMySQL, domain.ScopeItems, &domain.Entity{Name: "a", Owner: "o", Status: "active"})
	require.NoError(t, err)
	_, _, err = d.Get(ctx, domain.BackendMySQL, domain.ScopeItems, created.ID)
	require.NoError(t, err)
	_, err = d.Delete(ctx, domain.BackendMySQL, domain.ScopeItems, created.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"create", "get", "delete"}, obs.ops)
	for _, b := range obs.backend {
		assert.Equal(t, domain.BackendMySQL, b)
	}
}

func TestDispatcher_NotFoundSemantics(t *testing.T) {
	d := repository.NewDispatcher(repotest.New(), repotest.New())
	ctx := context.Background()

	_, _, err := d.Update(ctx, domain.BackendMySQL, domain.ScopeProjects, "999", &domain.Entity{Name: "n", Owner: "o", Status: "active"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	created, _, err := d.Create(ctx, domain.BackendMongo, domain.ScopeProjects, &domain.Entity{Name: "n", Owner: "o", Status: "active"})
	require.NoError(t, err)

	_, err = d.Delete(ctx, domain.BackendMongo, domain.ScopeProjects, created.ID)
	require.NoError(t, err)

	// Deleting again fails the same way; a delete never "succeeds twice".
	_, err = d.Delete(ctx, domain.BackendMongo, domain.ScopeProjects, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
