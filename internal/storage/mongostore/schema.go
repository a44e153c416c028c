package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/databoard/databoard-backend/internal/domain"
)

// EnsureSchema creates the items and projects collections with their
// supporting indexes if absent: a compound (status, owner) index on both,
// plus a descending createdAt index backing the listing sort. Single-flight
// guarded on the Store so concurrent first callers cannot race duplicate setup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		s.ensureErr = ensure(ctx, s.db)
	})
	return s.ensureErr
}

func ensure(ctx context.Context, db *mongo.Database) error {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("mongo list collections: %w", err)
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}

	for _, scope := range []domain.Scope{domain.ScopeItems, domain.ScopeProjects} {
		name := string(scope)
		if !existing[name] {
			if err := db.CreateCollection(ctx, name); err != nil {
				return fmt.Errorf("mongo create collection %s: %w", name, err)
			}
		}

		indexes := []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("mongo create indexes %s: %w", name, err)
		}
	}
	return nil
}
