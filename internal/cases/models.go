// Package cases binds the console's unit of work - a lab case - to its
// selected product, resolved extraction catalog, and assignment arena.
package cases

import (
	"time"

	"github.com/google/uuid"

	"dentops/internal/assignment"
	"dentops/internal/domain"
)

// Case is one session of treatment-plan editing. Each case owns its arena;
// arenas are never shared between sessions.
type Case struct {
	ID         uuid.UUID
	PatientRef string

	ProductID   string
	ProductName string
	Catalog     domain.ExtractionCatalog

	Arena         *assignment.Arena
	HasScanUpload bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the render-ready view of one arch: per-type teeth sets plus
// the current status map.
type Snapshot struct {
	CaseID      uuid.UUID               `json:"case_id"`
	Arch        domain.Arch             `json:"arch"`
	ActiveType  string                  `json:"active_type,omitempty"`
	TeethByType map[string][]int        `json:"teeth_by_type"`
	Statuses    map[int]string          `json:"statuses"`
	Types       []domain.ExtractionType `json:"types"`
}
