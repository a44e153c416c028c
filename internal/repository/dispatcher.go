package repository

import (
	"context"
	"time"

	"github.com/databoard/databoard-backend/internal/domain"
)

// Dispatcher routes each operation to the adapter for the selected backend
// and measures elapsed wall-clock time on a monotonic clock. The timing is
// part of the response contract, not incidental logging.
type Dispatcher struct {
	stores   map[domain.Backend]Store
	observer Observer
}

func NewDispatcher(mysql, mongo Store) *Dispatcher {
	return &Dispatcher{
		stores: map[domain.Backend]Store{
			domain.BackendMySQL: mysql,
			domain.BackendMongo: mongo,
		},
	}
}

// WithObserver attaches an operation-timing observer (e.g. the Redis
// metrics recorder). A nil observer is allowed.
func (d *Dispatcher) WithObserver(o Observer) *Dispatcher {
	d.observer = o
	return d
}

// StoreFor returns the adapter for the given backend.
func (d *Dispatcher) StoreFor(b domain.Backend) (Store, error) {
	s, ok := d.stores[b]
	if !ok || s == nil {
		return nil, domain.ErrUnknownBackend
	}
	return s, nil
}

func (d *Dispatcher) List(ctx context.Context, b domain.Backend, scope domain.Scope, f Filter) ([]domain.Entity, domain.Metrics, error) {
	s, err := d.StoreFor(b)
	if err != nil {
		return nil, domain.Metrics{Backend: b}, err
	}
	start := time.Now()
	out, err := s.List(ctx, scope, f)
	m := d.observe(ctx, "list", b, start)
	return out, m, err
}

func (d *Dispatcher) Get(ctx context.Context, b domain.Backend, scope domain.Scope, id string) (*domain.Entity, domain.Metrics, error) {
	s, err := d.StoreFor(b)
	if err != nil {
		return nil, domain.Metrics{Backend: b}, err
	}
	start := time.Now()
	out, err := s.Get(ctx, scope, id)
	m := d.observe(ctx, "get", b, start)
	return out, m, err
}

func (d *Dispatcher) Create(ctx context.Context, b domain.Backend, scope domain.Scope, e *domain.Entity) (*domain.Entity, domain.Metrics, error) {
	s, err := d.StoreFor(b)
	if err != nil {
		return nil, domain.Metrics{Backend: b}, err
	}
	start := time.Now()
	out, err := s.Create(ctx, scope, e)
	m := d.observe(ctx, "create", b, start)
	return out, m, err
}

func (d *Dispatcher) Update(ctx context.Context, b domain.Backend, scope domain.Scope, id string, e *domain.Entity) (*domain.Entity, domain.Metrics, error) {
	s, err := d.StoreFor(b)
	if err != nil {
		return nil, domain.Metrics{Backend: b}, err
	}
	start := time.Now()
	out, err := s.Update(ctx, scope, id, e)
	m := d.observe(ctx, "update", b, start)
	return out, m, err
}

func (d *Dispatcher) Delete(ctx context.Context, b domain.Backend, scope domain.Scope, id string) (domain.Metrics, error) {
	s, err := d.StoreFor(b)
	if err != nil {
		return domain.Metrics{Backend: b}, err
	}
	start := time.Now()
	err = s.Delete(ctx, scope, id)
	m := d.observe(ctx, "delete", b, start)
	return m, err
}

func (d *Dispatcher) observe(ctx context.Context, op string, b domain.Backend, start time.Time) domain.Metrics {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	if d.observer != nil {
		d.observer.ObserveOp(ctx, op, b, ms)
	}
	return domain.Metrics{DurationMS: ms, Backend: b}
}
