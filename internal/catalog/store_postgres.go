package catalog

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the postgres driver.
	_ "github.com/lib/pq"

	"dentops/internal/domain"
)

// PostgresStore reads product extraction definitions from the lab database.
// It is the authoritative source at the end of the fallback chain; the
// caches in front of it absorb the read traffic.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ID() string { return "postgres" }

// Fetch loads the product's extraction types in their configured order.
func (s *PostgresStore) Fetch(ctx context.Context, ref ProductRef) (domain.ExtractionCatalog, error) {
	if ref.ID == "" {
		return domain.ExtractionCatalog{}, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, color, code, is_default, is_required, is_optional, status, min_teeth, max_teeth
		FROM product_extraction_types
		WHERE product_id = $1
		ORDER BY position`,
		ref.ID,
	)
	if err != nil {
		return domain.ExtractionCatalog{}, NewSourceError(ErrorOutage, s.ID(), "query extraction types", err)
	}
	defer rows.Close()

	catalog := domain.ExtractionCatalog{ProductID: ref.ID, ProductName: ref.Name}
	for rows.Next() {
		var (
			t        domain.ExtractionType
			minTeeth sql.NullInt64
			maxTeeth sql.NullInt64
		)
		if err := rows.Scan(&t.Name, &t.Color, &t.Code, &t.IsDefault, &t.IsRequired, &t.IsOptional, &t.Status, &minTeeth, &maxTeeth); err != nil {
			return domain.ExtractionCatalog{}, NewSourceError(ErrorBadData, s.ID(), "scan extraction type", err)
		}
		if minTeeth.Valid {
			v := int(minTeeth.Int64)
			t.MinTeeth = &v
		}
		if maxTeeth.Valid {
			v := int(maxTeeth.Int64)
			t.MaxTeeth = &v
		}
		catalog.Types = append(catalog.Types, t)
	}
	if err := rows.Err(); err != nil {
		return domain.ExtractionCatalog{}, NewSourceError(ErrorOutage, s.ID(), "iterate extraction types", err)
	}
	if len(catalog.Types) == 0 {
		return domain.ExtractionCatalog{}, fmt.Errorf("product %s: %w", ref.ID, ErrNotFound)
	}
	return catalog, nil
}
