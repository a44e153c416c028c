package domain

import "time"

// Entity is a single dashboard record (an "item" or a "project").
// It is intentionally storage-agnostic and used across repository and HTTP layers;
// the storage adapters translate IDs and tag encoding at their boundaries.
type Entity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Metrics reports how long a storage operation took and which backend served it.
// The dashboard aggregates and charts these, so every operation returns one.
type Metrics struct {
	DurationMS float64 `json:"durationMs"`
	Backend    Backend `json:"db"`
}
