package domain

import "strings"

// Scope identifies which record family a request targets. The two families
// carry different status enumerations, so validation is always scoped.
type Scope string

const (
	ScopeItems    Scope = "items"
	ScopeProjects Scope = "projects"
)

var scopeStatuses = map[Scope][]string{
	ScopeItems:    {"active", "inactive", "pending"},
	ScopeProjects: {"active", "on-hold", "completed"},
}

// Statuses returns the allowed status values for the scope.
func (s Scope) Statuses() []string {
	return scopeStatuses[s]
}

// ValidStatus reports whether v is a member of the scope's status set.
func (s Scope) ValidStatus(v string) bool {
	for _, allowed := range scopeStatuses[s] {
		if v == allowed {
			return true
		}
	}
	return false
}

// StatusList renders the allowed set for error messages, e.g. "active, on-hold, completed".
func (s Scope) StatusList() string {
	return strings.Join(scopeStatuses[s], ", ")
}
