package perf

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
)

const samplerIterations = 5

// Sampler periodically runs every catalog template against both backends
// and feeds the aggregate timings to the metrics recorder, so the
// dashboard has comparison data without anyone clicking "measure".
type Sampler struct {
	harness  *Harness
	observer repository.Observer
	log      zerolog.Logger
	cron     *cron.Cron
}

func NewSampler(h *Harness, observer repository.Observer, log zerolog.Logger) *Sampler {
	return &Sampler{harness: h, observer: observer, log: log}
}

// Start schedules sampling at the given cron spec (e.g. "@every 15m").
func (s *Sampler) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.sample); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	s.log.Info().Str("spec", spec).Msg("performance sampler started")
	return nil
}

// Stop halts the schedule and waits for a running sample to finish.
func (s *Sampler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Sampler) sample() {
	ctx := context.Background()
	for _, backend := range []domain.Backend{domain.BackendMySQL, domain.BackendMongo} {
		for _, id := range TemplateIDs() {
			m, err := s.harness.Measure(ctx, backend, id, samplerIterations)
			if err != nil {
				s.log.Warn().Str("db", string(backend)).Str("query", id).Err(err).
					Msg("performance sample failed")
				continue
			}
			if s.observer != nil {
				s.observer.ObserveOp(ctx, "perf:"+id, backend, m.Stats.Avg)
			}
		}
	}
}
