package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/databoard/databoard-backend/config"
	"github.com/databoard/databoard-backend/internal/bootstrap"
	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/storage/mongostore"
)

var sampleProjects = []domain.Entity{
	{Name: "Website Redesign", Owner: "Alice Johnson", Status: "active", Tags: []string{"design", "web", "frontend"}},
	{Name: "API Gateway Upgrade", Owner: "Bob Smith", Status: "active", Tags: []string{"backend", "api", "infrastructure"}},
	{Name: "Mobile App Launch", Owner: "Carol Williams", Status: "on-hold", Tags: []string{"mobile", "ios", "android"}},
	{Name: "Database Migration", Owner: "David Chen", Status: "completed", Tags: []string{"database", "migration", "infrastructure"}},
	{Name: "Analytics Dashboard", Owner: "Eve Martinez", Status: "active", Tags: []string{"analytics", "dashboard", "business-intelligence"}},
}

var (
	itemOwners   = []string{"John Doe", "Jane Smith", "Bob Johnson", "Alice Williams", "Charlie Brown"}
	itemStatuses = []string{"active", "inactive", "pending"}
	itemTagSets  = [][]string{
		{"feature", "urgent"},
		{"bug-fix", "research"},
		{"archived"},
		{"documentation"},
		{"testing", "qa"},
		{"frontend"},
		{"backend"},
		{"database"},
	}
)

const batchSize = 100

// RunSeedProjects truncates the projects table/collection on both backends
// and inserts the named sample set.
func RunSeedProjects(ctx context.Context) {
	cfg, mysqlDB, mongoDB, cleanup := open(ctx)
	defer cleanup()

	if _, err := mysqlDB.ExecContext(ctx, "TRUNCATE TABLE projects"); err != nil {
		log.Fatalf("truncate projects: %v", err)
	}
	for _, p := range sampleProjects {
		tagsJSON, _ := json.Marshal(p.Tags)
		_, err := mysqlDB.ExecContext(ctx,
			"INSERT INTO projects (name, owner, status, tags) VALUES (?, ?, ?, ?)",
			p.Name, p.Owner, p.Status, string(tagsJSON))
		if err != nil {
			log.Fatalf("insert project %q: %v", p.Name, err)
		}
	}
	fmt.Printf("seeded %d projects to MySQL (%s)\n", len(sampleProjects), cfg.MySQL.Database)

	coll := mongoDB.Collection("projects")
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("clear mongo projects: %v", err)
	}
	now := time.Now().UTC()
	docs := make([]any, 0, len(sampleProjects))
	for _, p := range sampleProjects {
		docs = append(docs, bson.M{
			"name": p.Name, "owner": p.Owner, "status": p.Status, "tags": p.Tags,
			"createdAt": now, "updatedAt": now,
		})
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		log.Fatalf("insert mongo projects: %v", err)
	}
	fmt.Printf("seeded %d projects to MongoDB (%s)\n", len(sampleProjects), cfg.Mongo.Database)
}

// RunSeedItems truncates the items table/collection on both backends and
// bulk-inserts count randomized records in batches.
func RunSeedItems(ctx context.Context, count int) {
	cfg, mysqlDB, mongoDB, cleanup := open(ctx)
	defer cleanup()

	if _, err := mysqlDB.ExecContext(ctx, "TRUNCATE TABLE items"); err != nil {
		log.Fatalf("truncate items: %v", err)
	}
	for i := 0; i < count; i += batchSize {
		n := batchSize
		if i+n > count {
			n = count - i
		}

		placeholders := make([]string, 0, n)
		args := make([]any, 0, n*4)
		for j := 0; j < n; j++ {
			name, owner, status, tags := randomItem(i + j)
			tagsJSON, _ := json.Marshal(tags)
			placeholders = append(placeholders, "(?, ?, ?, ?)")
			args = append(args, name, owner, status, string(tagsJSON))
		}

		q := "INSERT INTO items (name, owner, status, tags) VALUES " + strings.Join(placeholders, ",")
		if _, err := mysqlDB.ExecContext(ctx, q, args...); err != nil {
			log.Fatalf("insert items batch at %d: %v", i, err)
		}
	}
	fmt.Printf("seeded %d items to MySQL (%s)\n", count, cfg.MySQL.Database)

	coll := mongoDB.Collection("items")
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("clear mongo items: %v", err)
	}
	now := time.Now().UTC()
	for i := 0; i < count; i += batchSize {
		n := batchSize
		if i+n > count {
			n = count - i
		}
		docs := make([]any, 0, n)
		for j := 0; j < n; j++ {
			name, owner, status, tags := randomItem(i + j)
			docs = append(docs, bson.M{
				"name": name, "owner": owner, "status": status, "tags": tags,
				"createdAt": now, "updatedAt": now,
			})
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			log.Fatalf("insert mongo items batch at %d: %v", i, err)
		}
	}
	fmt.Printf("seeded %d items to MongoDB (%s)\n", count, cfg.Mongo.Database)
}

func randomItem(i int) (name, owner, status string, tags []string) {
	name = fmt.Sprintf("Project %04d", i+1)
	owner = itemOwners[rand.Intn(len(itemOwners))]
	status = itemStatuses[rand.Intn(len(itemStatuses))]
	tags = itemTagSets[rand.Intn(len(itemTagSets))]
	return
}

func open(ctx context.Context) (*config.Config, *sqlx.DB, *mongo.Database, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := bootstrap.OpenMySQL(ctx, cfg.MySQL)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}

	client, mdb, err := bootstrap.OpenMongo(ctx, cfg.Mongo)
	if err != nil {
		db.Close()
		log.Fatalf("open mongo: %v", err)
	}
	if err := mongostore.New(mdb).EnsureSchema(ctx); err != nil {
		db.Close()
		_ = client.Disconnect(context.Background())
		log.Fatalf("ensure mongo schema: %v", err)
	}

	cleanup := func() {
		db.Close()
		_ = client.Disconnect(context.Background())
	}
	return cfg, db, mdb, cleanup
}
