// Package mongostore is the document adapter: entities are stored as BSON
// documents with generated ObjectID keys and native tag arrays.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
)

const defaultOpTimeout = 5 * time.Second

// Store implements repository.Store over a shared *mongo.Database handle.
// The driver multiplexes one client across concurrent requests, so the
// adapter holds no per-call state.
type Store struct {
	db        *mongo.Database
	opTimeout time.Duration

	ensureOnce sync.Once
	ensureErr  error
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, opTimeout: defaultOpTimeout}
}

// Database exposes the handle for the performance harness and health checks.
func (s *Store) Database() *mongo.Database {
	return s.db
}

type document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Owner     string             `bson:"owner"`
	Status    string             `bson:"status"`
	Tags      []string           `bson:"tags"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d document) entity() domain.Entity {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Entity{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Owner:     d.Owner,
		Status:    d.Status,
		Tags:      tags,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *Store) collection(scope domain.Scope) *mongo.Collection {
	return s.db.Collection(string(scope))
}

func (s *Store) List(ctx context.Context, scope domain.Scope, f repository.Filter) ([]domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.collection(scope).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", scope, err)
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", scope, err)
	}

	out := make([]domain.Entity, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Entity, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var d document
	err = s.collection(scope).FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get %s/%s: %w", scope, id, err)
	}

	e := d.entity()
	return &e, nil
}

func (s *Store) Create(ctx context.Context, scope domain.Scope, e *domain.Entity) (*domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	d := document{
		Name:      e.Name,
		Owner:     e.Owner,
		Status:    e.Status,
		Tags:      tagsOrEmpty(e.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := s.collection(scope).InsertOne(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("mongo insert %s: %w", scope, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("mongo insert %s: unexpected inserted id type %T", scope, res.InsertedID)
	}
	d.ID = oid

	created := d.entity()
	return &created, nil
}

func (s *Store) Update(ctx context.Context, scope domain.Scope, id string, e *domain.Entity) (*domain.Entity, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":      e.Name,
		"owner":     e.Owner,
		"status":    e.Status,
		"tags":      tagsOrEmpty(e.Tags),
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}

	res, err := s.collection(scope).UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("mongo update %s/%s: %w", scope, id, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, scope, id)
}

func (s *Store) Delete(ctx context.Context, scope domain.Scope, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	res, err := s.collection(scope).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete %s/%s: %w", scope, id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
