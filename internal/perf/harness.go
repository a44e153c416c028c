package perf

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jmoiron/sqlx"

	"github.com/databoard/databoard-backend/internal/domain"
)

const defaultIterations = 10

// Stats are the aggregate of one measurement run, all in milliseconds.
type Stats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Measurement is the result of running a template N times on one backend.
type Measurement struct {
	Database   domain.Backend `json:"database"`
	Query      string         `json:"query"`
	Iterations int            `json:"iterations"`
	Timings    []float64      `json:"timings"`
	Stats      Stats          `json:"stats"`
	Timestamp  string         `json:"timestamp"`
}

// Explanation carries a backend's native query plan verbatim.
type Explanation struct {
	Database      domain.Backend `json:"database"`
	Query         string         `json:"query"`
	ExplainOutput any            `json:"explainOutput"`
	Timestamp     string         `json:"timestamp"`
}

// executor runs or explains one template against one backend.
type executor interface {
	Run(ctx context.Context, backend domain.Backend, tpl Template) error
	Explain(ctx context.Context, backend domain.Backend, tpl Template) (any, error)
}

// Harness times catalog templates and retrieves native query plans.
type Harness struct {
	exec executor
}

func NewHarness(mysql *sqlx.DB, mongo *mongo.Database) *Harness {
	return &Harness{exec: &dbExecutor{mysql: mysql, mongo: mongo}}
}

func newHarness(exec executor) *Harness {
	return &Harness{exec: exec}
}

// Measure runs the named template exactly iterations times, sequentially.
// Iterations run one after another on purpose: concurrent runs would
// contend for connections and pollute the latency samples. There is no
// mid-run cancellation; a large iteration count blocks until done.
func (h *Harness) Measure(ctx context.Context, backend domain.Backend, templateID string, iterations int) (*Measurement, error) {
	tpl, err := Lookup(templateID)
	if err != nil {
		return nil, err
	}
	if iterations <= 0 {
		iterations = defaultIterations
	}

	timings := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := h.exec.Run(ctx, backend, tpl); err != nil {
			return nil, fmt.Errorf("measure %s iteration %d: %w", templateID, i+1, err)
		}
		timings = append(timings, float64(time.Since(start).Nanoseconds())/1e6)
	}

	return &Measurement{
		Database:   backend,
		Query:      templateID,
		Iterations: iterations,
		Timings:    timings,
		Stats:      computeStats(timings),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Explain retrieves the backend's native plan for the named template:
// EXPLAIN rows for MySQL, an executionStats explain document for MongoDB.
func (h *Harness) Explain(ctx context.Context, backend domain.Backend, templateID string) (*Explanation, error) {
	tpl, err := Lookup(templateID)
	if err != nil {
		return nil, err
	}

	plan, err := h.exec.Explain(ctx, backend, tpl)
	if err != nil {
		return nil, fmt.Errorf("explain %s: %w", templateID, err)
	}

	return &Explanation{
		Database:      backend,
		Query:         templateID,
		ExplainOutput: plan,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func computeStats(timings []float64) Stats {
	if len(timings) == 0 {
		return Stats{}
	}
	st := Stats{Min: timings[0], Max: timings[0]}
	var sum float64
	for _, t := range timings {
		sum += t
		if t < st.Min {
			st.Min = t
		}
		if t > st.Max {
			st.Max = t
		}
	}
	st.Avg = sum / float64(len(timings))
	return st
}

// dbExecutor runs templates against the real engines.
type dbExecutor struct {
	mysql *sqlx.DB
	mongo *mongo.Database
}

func (e *dbExecutor) Run(ctx context.Context, backend domain.Backend, tpl Template) error {
	switch backend {
	case domain.BackendMySQL:
		rows, err := e.mysql.QueryxContext(ctx, tpl.SQL, tpl.SQLArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		// Drain fully so the timing covers result transfer, not just dispatch.
		for rows.Next() {
		}
		return rows.Err()

	case domain.BackendMongo:
		opts := options.Find()
		if tpl.Sort != nil {
			opts.SetSort(tpl.Sort)
		}
		cur, err := e.mongo.Collection(itemsCollection).Find(ctx, tpl.Filter, opts)
		if err != nil {
			return err
		}
		defer cur.Close(ctx)
		for cur.Next(ctx) {
		}
		return cur.Err()

	default:
		return domain.ErrUnknownBackend
	}
}

func (e *dbExecutor) Explain(ctx context.Context, backend domain.Backend, tpl Template) (any, error) {
	switch backend {
	case domain.BackendMySQL:
		rows, err := e.mysql.QueryxContext(ctx, "EXPLAIN "+tpl.SQL, tpl.SQLArgs...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var plan []map[string]any
		for rows.Next() {
			row := map[string]any{}
			if err := rows.MapScan(row); err != nil {
				return nil, err
			}
			for k, v := range row {
				if b, ok := v.([]byte); ok {
					row[k] = string(b)
				}
			}
			plan = append(plan, row)
		}
		return plan, rows.Err()

	case domain.BackendMongo:
		find := bson.D{
			{Key: "find", Value: itemsCollection},
			{Key: "filter", Value: tpl.Filter},
		}
		if tpl.Sort != nil {
			find = append(find, bson.E{Key: "sort", Value: tpl.Sort})
		}
		cmd := bson.D{
			{Key: "explain", Value: find},
			{Key: "verbosity", Value: "executionStats"},
		}

		var plan bson.M
		if err := e.mongo.RunCommand(ctx, cmd).Decode(&plan); err != nil {
			return nil, err
		}
		return plan, nil

	default:
		return nil, domain.ErrUnknownBackend
	}
}
