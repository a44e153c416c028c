// Package validation enforces entity shape before any write reaches a backend.
package validation

import (
	"fmt"
	"strings"

	"github.com/databoard/databoard-backend/internal/domain"
)

// Result reports whether a candidate passed validation and, if not, the
// first failing reason.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validate checks a candidate entity against the given scope's rules.
// Checks run in a fixed order and the first failure wins: name presence,
// owner presence, length limits, status membership, tag shape.
// It is side-effect free and never panics.
func Validate(e *domain.Entity, scope domain.Scope) Result {
	if e == nil {
		return invalid("request body is required")
	}

	kind := "Item"
	if scope == domain.ScopeProjects {
		kind = "Project"
	}

	if strings.TrimSpace(e.Name) == "" {
		return invalid(fmt.Sprintf("%s name is required and must be a non-empty string", kind))
	}
	if strings.TrimSpace(e.Owner) == "" {
		return invalid(fmt.Sprintf("%s owner is required and must be a non-empty string", kind))
	}
	if len(e.Name) > 255 {
		return invalid(fmt.Sprintf("%s name must be less than 255 characters", kind))
	}
	if len(e.Owner) > 255 {
		return invalid(fmt.Sprintf("%s owner must be less than 255 characters", kind))
	}
	if !scope.ValidStatus(e.Status) {
		return invalid(fmt.Sprintf("Invalid status. Must be one of: %s", scope.StatusList()))
	}
	for _, tag := range e.Tags {
		if strings.TrimSpace(tag) == "" {
			return invalid("All tags must be non-empty strings")
		}
	}

	return Result{Valid: true}
}

func invalid(reason string) Result {
	return Result{Valid: false, Error: reason}
}
