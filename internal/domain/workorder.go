package domain

import "errors"

// Common validation errors for WorkOrder
var (
	ErrEmptyWorkOrderSubject = errors.New("work order subject cannot be empty")
)

// WorkOrder is one unit of requested content generation: a task kind, the
// content digest it should work from, and per-kind directives (user
// background, language preference, focus hints). A work order is immutable
// once created; one order exists per kind per batch.
type WorkOrder struct {
	Kind       TaskKind
	Subject    string
	Directives map[string]string
}

// NewWorkOrder creates a validated WorkOrder. The directives map is copied so
// the caller cannot mutate the order after construction.
func NewWorkOrder(kind TaskKind, subject string, directives map[string]string) (WorkOrder, error) {
	if !kind.IsValid() {
		return WorkOrder{}, ErrInvalidTaskKind
	}

	if subject == "" {
		return WorkOrder{}, ErrEmptyWorkOrderSubject
	}

	copied := make(map[string]string, len(directives))
	for k, v := range directives {
		copied[k] = v
	}

	return WorkOrder{
		Kind:       kind,
		Subject:    subject,
		Directives: copied,
	}, nil
}

// Directive returns the directive value for key, or "" when unset.
func (o WorkOrder) Directive(key string) string {
	return o.Directives[key]
}
