// Package mysqlstore is the relational adapter: entities live in fixed-column
// tables with auto-increment integer keys and tags serialized as JSON text.
package mysqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
	"github.com/databoard/databoard-backend/internal/timeutil"
)

const defaultOpTimeout = 5 * time.Second

// Store implements repository.Store over a bounded MySQL connection pool.
// Every operation runs under an acquisition/execution timeout so pool
// exhaustion surfaces as an error instead of an unbounded wait.
type Store struct {
	db        *sqlx.DB
	log       zerolog.Logger
	opTimeout time.Duration
}

func New(db *sqlx.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log, opTimeout: defaultOpTimeout}
}

// DB exposes the underlying pool for the performance harness and health checks.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

type row struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Owner     string         `db:"owner"`
	Status    string         `db:"status"`
	Tags      sql.NullString `db:"tags"`
	CreatedAt time.Time      `db:"createdAt"`
	UpdatedAt time.Time      `db:"updatedAt"`
}

func (s *Store) entity(r row, scope domain.Scope) domain.Entity {
	e := domain.Entity{
		ID:        strconv.FormatInt(r.ID, 10),
		Name:      r.Name,
		Owner:     r.Owner,
		Status:    r.Status,
		Tags:      []string{},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Tags.Valid && r.Tags.String != "" {
		if err := json.Unmarshal([]byte(r.Tags.String), &e.Tags); err != nil {
			// Recovery policy: a malformed tags column degrades to an empty
			// list; the record id is logged for operational visibility.
			s.log.Warn().
				Str("table", string(scope)).
				Int64("id", r.ID).
				Err(err).
				Msg("malformed tags column, returning empty tag list")
			e.Tags = []string{}
		}
	}
	return e
}

func (s *Store) List(ctx context.Context, scope domain.Scope, f repository.Filter) ([]domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	q := "SELECT id, name, owner, status, tags, createdAt, updatedAt FROM " + table(scope) + " WHERE 1=1"
	args := make([]any, 0, 2)
	if f.Search != "" {
		q += " AND name LIKE ?"
		args = append(args, "%"+f.Search+"%")
	}
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status)
	}
	q += " ORDER BY createdAt DESC"

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("mysql list %s: %w", scope, err)
	}

	out := make([]domain.Entity, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.entity(r, scope))
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Entity, error) {
	numID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var r row
	q := "SELECT id, name, owner, status, tags, createdAt, updatedAt FROM " + table(scope) + " WHERE id = ?"
	if err := s.db.GetContext(ctx, &r, q, numID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mysql get %s/%d: %w", scope, numID, err)
	}

	e := s.entity(r, scope)
	return &e, nil
}

func (s *Store) Create(ctx context.Context, scope domain.Scope, e *domain.Entity) (*domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	tagsJSON, err := json.Marshal(tagsOrEmpty(e.Tags))
	if err != nil {
		return nil, fmt.Errorf("serialize tags: %w", err)
	}

	var res sql.Result
	if scope == domain.ScopeProjects {
		// Projects stamp both timestamps explicitly, normalized to the
		// column's wall-clock format.
		now := timeutil.FormatStorage(time.Now())
		res, err = s.db.ExecContext(ctx,
			"INSERT INTO "+table(scope)+" (name, owner, status, tags, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?)",
			e.Name, e.Owner, e.Status, string(tagsJSON), now, now)
	} else {
		// Items rely on the table's DEFAULT CURRENT_TIMESTAMP columns.
		res, err = s.db.ExecContext(ctx,
			"INSERT INTO "+table(scope)+" (name, owner, status, tags) VALUES (?, ?, ?, ?)",
			e.Name, e.Owner, e.Status, string(tagsJSON))
	}
	if err != nil {
		return nil, fmt.Errorf("mysql insert %s: %w", scope, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("mysql insert id: %w", err)
	}
	return s.Get(ctx, scope, strconv.FormatInt(id, 10))
}

func (s *Store) Update(ctx context.Context, scope domain.Scope, id string, e *domain.Entity) (*domain.Entity, error) {
	numID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	tagsJSON, err := json.Marshal(tagsOrEmpty(e.Tags))
	if err != nil {
		return nil, fmt.Errorf("serialize tags: %w", err)
	}

	var res sql.Result
	if scope == domain.ScopeProjects {
		now := timeutil.FormatStorage(time.Now())
		res, err = s.db.ExecContext(ctx,
			"UPDATE "+table(scope)+" SET name = ?, owner = ?, status = ?, tags = ?, updatedAt = ? WHERE id = ?",
			e.Name, e.Owner, e.Status, string(tagsJSON), now, numID)
	} else {
		res, err = s.db.ExecContext(ctx,
			"UPDATE "+table(scope)+" SET name = ?, owner = ?, status = ?, tags = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?",
			e.Name, e.Owner, e.Status, string(tagsJSON), numID)
	}
	if err != nil {
		return nil, fmt.Errorf("mysql update %s/%d: %w", scope, numID, err)
	}

	// Requires clientFoundRows in the DSN so an unchanged row still counts
	// as matched.
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("mysql update rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, scope, id)
}

func (s *Store) Delete(ctx context.Context, scope domain.Scope, id string) error {
	numID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table(scope)+" WHERE id = ?", numID)
	if err != nil {
		return fmt.Errorf("mysql delete %s/%d: %w", scope, numID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mysql delete rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func table(scope domain.Scope) string {
	if scope == domain.ScopeProjects {
		return "projects"
	}
	return "items"
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return n, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
