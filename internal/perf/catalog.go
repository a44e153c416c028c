// Package perf measures and explains a fixed catalog of query shapes
// against both storage backends so their plans and latencies can be
// compared side by side.
package perf

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/databoard/databoard-backend/internal/domain"
)

// itemsCollection is the record family the comparison queries run against.
const itemsCollection = "items"

// Template is one named query shape expressed in both engines' native
// forms. The two expressions must stay semantically equivalent; that
// equivalence is what makes the timing comparison meaningful.
type Template struct {
	ID          string
	Description string

	SQL     string
	SQLArgs []any

	Filter bson.M
	Sort   bson.D
}

var catalog = map[string]Template{
	"active_owner": {
		ID:          "active_owner",
		Description: "active records for one owner, newest first",
		SQL:         "SELECT * FROM items WHERE status = 'active' AND owner = 'John Doe' ORDER BY createdAt DESC",
		Filter:      bson.M{"status": "active", "owner": "John Doe"},
		Sort:        bson.D{{Key: "createdAt", Value: -1}},
	},
	"name_search": {
		ID:          "name_search",
		Description: "substring match on name",
		SQL:         "SELECT * FROM items WHERE name LIKE ?",
		SQLArgs:     []any{"%Project 001%"},
		Filter:      bson.M{"name": bson.M{"$regex": "Project 001", "$options": "i"}},
	},
}

// Lookup resolves a template id, failing with ErrInvalidQuery for unknown ids.
func Lookup(id string) (Template, error) {
	tpl, ok := catalog[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", domain.ErrInvalidQuery, id)
	}
	return tpl, nil
}

// TemplateIDs returns the catalog's template ids in stable order.
func TemplateIDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
