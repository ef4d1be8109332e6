package cases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = errors.New("case not found")

// Store persists open cases. Interface-driven so in-memory and external
// persistence can swap without rewiring the service.
type Store interface {
	Save(ctx context.Context, c *Case) error
	FindByID(ctx context.Context, id uuid.UUID) (*Case, error)
}

// AuditStore is the append-only sink for assignment audit events.
type AuditStore interface {
	Append(ctx context.Context, event AuditEvent) error
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]AuditEvent, error)
}

// AuditEvent records one assignment or validation action on a case.
type AuditEvent struct {
	CaseID    uuid.UUID `json:"case_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
