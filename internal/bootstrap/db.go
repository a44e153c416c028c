// Package bootstrap owns the startup/shutdown lifecycle of the storage
// handles: they are opened here, injected into components, and closed by
// main — no component reaches for module-level connection state.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/go-sql-driver/mysql"

	"github.com/databoard/databoard-backend/config"
	"github.com/databoard/databoard-backend/internal/storage/mysqlstore"
)

const (
	maxOpenConns = 10
	maxIdleConns = 2
	connectTO    = 5 * time.Second
	pingTO       = 3 * time.Second
)

// OpenMySQL creates the database if absent, opens the bounded pool and
// ensures the table schema. Fail fast: a dead server is a startup error,
// not a per-request surprise.
func OpenMySQL(ctx context.Context, cfg config.MySQLConfig) (*sqlx.DB, error) {
	admin, err := sql.Open("mysql", cfg.ServerDSN())
	if err != nil {
		return nil, fmt.Errorf("mysql open server connection: %w", err)
	}
	createCtx, cancel := context.WithTimeout(ctx, connectTO)
	defer cancel()
	_, err = admin.ExecContext(createCtx, "CREATE DATABASE IF NOT EXISTS `"+cfg.Database+"`")
	admin.Close()
	if err != nil {
		return nil, fmt.Errorf("mysql create database: %w", err)
	}

	db, err := sqlx.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("mysql open pool: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, pcancel := context.WithTimeout(ctx, pingTO)
	defer pcancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	if err := mysqlstore.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMongo connects the shared client and returns the database handle.
// The caller disconnects the client on shutdown.
func OpenMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTO)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, pcancel := context.WithTimeout(ctx, pingTO)
	defer pcancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// OpenRedis returns a client for the metrics recorder, or nil when no
// address is configured — the recorder degrades to a no-op.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTO)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
