// Package repository dispatches logical entity operations to the selected
// storage backend and times every call.
package repository

import (
	"context"

	"github.com/databoard/databoard-backend/internal/domain"
)

// Filter narrows a listing: Search is a substring match on name, Status an
// exact match. Zero values are ignored.
type Filter struct {
	Search string
	Status string
}

// Store is the backend-neutral persistence contract. Both the MySQL and the
// MongoDB adapters implement it; entities cross this boundary with string IDs
// in the backend's native encoding (decimal integer vs. 24-char hex).
type Store interface {
	List(ctx context.Context, scope domain.Scope, f Filter) ([]domain.Entity, error)
	Get(ctx context.Context, scope domain.Scope, id string) (*domain.Entity, error)
	Create(ctx context.Context, scope domain.Scope, e *domain.Entity) (*domain.Entity, error)
	Update(ctx context.Context, scope domain.Scope, id string, e *domain.Entity) (*domain.Entity, error)
	Delete(ctx context.Context, scope domain.Scope, id string) error
}

// Observer receives one timing sample per completed operation.
type Observer interface {
	ObserveOp(ctx context.Context, op string, backend domain.Backend, ms float64)
}
