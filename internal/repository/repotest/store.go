// Package repotest provides an in-memory repository.Store for handler and
// dispatcher tests that must not touch a real database.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
)

// MemStore implements repository.Store over maps. When Err is set, every
// operation fails with it, which is how tests exercise the 500 path.
type MemStore struct {
	mu      sync.Mutex
	seq     int
	records map[domain.Scope]map[string]domain.Entity

	Err error
}

func New() *MemStore {
	return &MemStore{
		records: map[domain.Scope]map[string]domain.Entity{
			domain.ScopeItems:    {},
			domain.ScopeProjects: {},
		},
	}
}

func (s *MemStore) List(_ context.Context, scope domain.Scope, f repository.Filter) ([]domain.Entity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Entity, 0)
	for _, e := range s.records[scope] {
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemStore) Get(_ context.Context, scope domain.Scope, id string) (*domain.Entity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.records[scope][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (s *MemStore) Create(_ context.Context, scope domain.Scope, e *domain.Entity) (*domain.Entity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	created := *e
	created.ID = fmt.Sprintf("%d", s.seq)
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Tags == nil {
		created.Tags = []string{}
	}
	s.records[scope][created.ID] = created
	return &created, nil
}

func (s *MemStore) Update(_ context.Context, scope domain.Scope, id string, e *domain.Entity) (*domain.Entity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[scope][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	existing.Name = e.Name
	existing.Owner = e.Owner
	existing.Status = e.Status
	existing.Tags = e.Tags
	if existing.Tags == nil {
		existing.Tags = []string{}
	}
	existing.UpdatedAt = time.Now().UTC()
	s.records[scope][id] = existing
	return &existing, nil
}

func (s *MemStore) Delete(_ context.Context, scope domain.Scope, id string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[scope][id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records[scope], id)
	return nil
}
