package domain

import "fmt"

// Backend selects which storage engine serves a request.
type Backend string

const (
	BackendMySQL Backend = "mysql"
	BackendMongo Backend = "mongodb"
)

// ParseBackend resolves a request-supplied selector to a Backend.
// Accepts the engine names used by the dashboard ("mysql", "mongodb") and
// the generic aliases "relational" and "document". Empty defaults to MySQL.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "mysql", "relational":
		return BackendMySQL, nil
	case "mongodb", "mongo", "document":
		return BackendMongo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}
