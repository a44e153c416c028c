package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
	"github.com/databoard/databoard-backend/internal/storage/mongostore"
	"github.com/databoard/databoard-backend/internal/storage/mysqlstore"
)

// setupMySQLStore connects to a test MySQL server and ensures the schema.
// Skips the test if TEST_MYSQL_DSN is not set, e.g.:
//
//	TEST_MYSQL_DSN="root:root@tcp(localhost:3306)/databoard_test?parseTime=true&loc=UTC&clientFoundRows=true"
func setupMySQLStore(t *testing.T) *mysqlstore.Store {
	t.Helper()

	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set, skipping MySQL integration test")
	}

	db, err := sqlx.Connect("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, mysqlstore.EnsureSchema(context.Background(), db))
	return mysqlstore.New(db, zerolog.Nop())
}

// setupMongoStore connects to a test MongoDB server and ensures collections
// and indexes. Skips the test if TEST_MONGODB_URI is not set. The database
// name defaults to databoard_test and can be overridden with TEST_MONGODB_DB.
func setupMongoStore(t *testing.T) *mongostore.Store {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set, skipping MongoDB integration test")
	}

	dbName := os.Getenv("TEST_MONGODB_DB")
	if dbName == "" {
		dbName = "databoard_test"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	store := mongostore.New(client.Database(dbName))
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

// backends returns every reachable store keyed by backend name. Each test
// skips itself entirely when neither backend is configured.
func backends(t *testing.T) map[domain.Backend]repository.Store {
	t.Helper()

	out := make(map[domain.Backend]repository.Store)
	if os.Getenv("TEST_MYSQL_DSN") != "" {
		out[domain.BackendMySQL] = setupMySQLStore(t)
	}
	if os.Getenv("TEST_MONGODB_URI") != "" {
		out[domain.BackendMongo] = setupMongoStore(t)
	}
	if len(out) == 0 {
		t.Skip("TEST_MYSQL_DSN and TEST_MONGODB_URI not set, skipping backend integration tests")
	}
	return out
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestCreateReadRoundTrip(t *testing.T) {
	for backend, store := range backends(t) {
		t.Run(string(backend), func(t *testing.T) {
			ctx := context.Background()
			name := uniqueName("roundtrip")

			created, err := store.Create(ctx, domain.ScopeItems, &domain.Entity{
				Name:   name,
				Owner:  "Jane Smith",
				Status: "active",
				Tags:   []string{"backend", "api", "urgent"},
			})
			require.NoError(t, err)
			require.NotEmpty(t, created.ID)
			t.Cleanup(func() { _ = store.Delete(ctx, domain.ScopeItems, created.ID) })

			got, err := store.Get(ctx, domain.ScopeItems, created.ID)
			require.NoError(t, err)

			assert.Equal(t, name, got.Name)
			assert.Equal(t, "Jane Smith", got.Owner)
			assert.Equal(t, "active", got.Status)
			assert.Equal(t, []string{"backend", "api", "urgent"}, got.Tags, "tag order must survive a round trip")
			assert.False(t, got.CreatedAt.IsZero())
			assert.False(t, got.UpdatedAt.IsZero())
		})
	}
}

func TestListFiltering(t *testing.T) {
	for backend, store := range backends(t) {
		t.Run(string(backend), func(t *testing.T) {
			ctx := context.Background()
			marker := uniqueName("filter")

			seed := []domain.Entity{
				{Name: marker + "-alpha", Owner: "John Doe", Status: "active"},
				{Name: marker + "-beta", Owner: "John Doe", Status: "inactive"},
			}
			for i := range seed {
				created, err := store.Create(ctx, domain.ScopeItems, &seed[i])
				require.NoError(t, err)
				id := created.ID
				t.Cleanup(func() { _ = store.Delete(ctx, domain.ScopeItems, id) })
			}

			byName, err := store.List(ctx, domain.ScopeItems, repository.Filter{Search: strings.ToUpper(marker)})
			require.NoError(t, err)
			assert.Len(t, byName, 2, "name search is case-insensitive on both backends")

			active, err := store.List(ctx, domain.ScopeItems, repository.Filter{Search: marker, Status: "active"})
			require.NoError(t, err)
			require.Len(t, active, 1)
			assert.Equal(t, marker+"-alpha", active[0].Name)
		})
	}
}

func TestUpdatePersists(t *testing.T) {
	for backend, store := range backends(t) {
		t.Run(string(backend), func(t *testing.T) {
			ctx := context.Background()

			created, err := store.Create(ctx, domain.ScopeProjects, &domain.Entity{
				Name:   uniqueName("update"),
				Owner:  "Mike Johnson",
				Status: "active",
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Delete(ctx, domain.ScopeProjects, created.ID) })

			created.Status = "completed"
			created.Tags = []string{"shipped"}
			updated, err := store.Update(ctx, domain.ScopeProjects, created.ID, created)
			require.NoError(t, err)
			assert.Equal(t, "completed", updated.Status)
			assert.Equal(t, []string{"shipped"}, updated.Tags)

			got, err := store.Get(ctx, domain.ScopeProjects, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "completed", got.Status)
		})
	}
}

func TestDeleteThenGet(t *testing.T) {
	for backend, store := range backends(t) {
		t.Run(string(backend), func(t *testing.T) {
			ctx := context.Background()

			created, err := store.Create(ctx, domain.ScopeItems, &domain.Entity{
				Name:   uniqueName("delete"),
				Owner:  "Sarah Williams",
				Status: "pending",
			})
			require.NoError(t, err)

			require.NoError(t, store.Delete(ctx, domain.ScopeItems, created.ID))

			_, err = store.Get(ctx, domain.ScopeItems, created.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)

			err = store.Delete(ctx, domain.ScopeItems, created.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound, "a second delete reports not found")
		})
	}
}

func TestMissingAndInvalidIDs(t *testing.T) {
	missing := map[domain.Backend]string{
		domain.BackendMySQL: "999999999",
		domain.BackendMongo: "ffffffffffffffffffffffff",
	}

	for backend, store := range backends(t) {
		t.Run(string(backend), func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, domain.ScopeItems, missing[backend])
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = store.Update(ctx, domain.ScopeItems, missing[backend], &domain.Entity{
				Name: "ghost", Owner: "nobody", Status: "active",
			})
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = store.Get(ctx, domain.ScopeItems, "not-an-id")
			assert.ErrorIs(t, err, domain.ErrInvalidID)
		})
	}
}
