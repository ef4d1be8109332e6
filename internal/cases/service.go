package cases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dentops/internal/assignment"
	"dentops/internal/catalog"
	"dentops/internal/domain"
	"dentops/internal/validation"
)

// Service drives case sessions: product selection, teeth assignment, and
// validation. Thin orchestration only; the rule semantics live in the
// validation engine and the state in the arena.
type Service struct {
	store    Store
	audit    *Publisher
	resolver *catalog.Resolver
	engine   *validation.Engine
	logger   *slog.Logger
}

// NewService wires the case service. logger may be nil.
func NewService(store Store, audit *Publisher, resolver *catalog.Resolver, engine *validation.Engine, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		audit:    audit,
		resolver: resolver,
		engine:   engine,
		logger:   logger,
	}
}

// Open creates a new case with an empty arena.
func (s *Service) Open(ctx context.Context, patientRef string) (*Case, error) {
	now := time.Now()
	c := &Case{
		ID:         uuid.New(),
		PatientRef: patientRef,
		Arena:      assignment.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save case: %w", err)
	}
	_ = s.audit.Emit(ctx, AuditEvent{CaseID: c.ID, Action: "case_opened"})
	return c, nil
}

// SelectProduct resolves the product's extraction catalog, resets the
// case's arena, and seeds default assignments in both arches. direct may
// carry a catalog supplied by the caller; it takes precedence over cached
// sources.
func (s *Service) SelectProduct(ctx context.Context, caseID uuid.UUID, ref catalog.ProductRef, direct *domain.ExtractionCatalog) (*Case, error) {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	resolved, eligible := s.resolver.Resolve(ctx, ref, direct)
	c.ProductID = ref.ID
	c.ProductName = resolved.ProductName
	c.Catalog = resolved
	c.Arena.Reset()
	c.UpdatedAt = time.Now()

	// No eligible types means no extraction cards and no seeding; that is
	// valid, displayable state.
	if len(eligible) > 0 {
		for _, arch := range []domain.Arch{domain.ArchMaxillary, domain.ArchMandibular} {
			seeded := s.resolver.SeedDefaults(resolved, c.Arena, arch)
			for _, name := range seeded {
				_ = s.audit.Emit(ctx, AuditEvent{
					CaseID: c.ID,
					Action: "defaults_seeded",
					Detail: fmt.Sprintf("%s/%s", name, arch),
				})
			}
		}
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save case: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "product selected",
			"case_id", c.ID,
			"product_id", ref.ID,
			"eligible_types", len(eligible),
		)
	}
	return c, nil
}

// SetTeeth replaces the teeth assigned to an extraction type in one arch.
func (s *Service) SetTeeth(ctx context.Context, caseID uuid.UUID, typeName string, arch domain.Arch, teeth []int, preserveOthers bool) error {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return err
	}
	c.Arena.SetTeeth(typeName, arch, teeth, preserveOthers)
	c.UpdatedAt = time.Now()
	_ = s.audit.Emit(ctx, AuditEvent{
		CaseID: c.ID,
		Action: "teeth_set",
		Detail: fmt.Sprintf("%s/%s: %d teeth", typeName, arch, len(teeth)),
	})
	return s.store.Save(ctx, c)
}

// ToggleTooth flips one tooth under the case's active extraction type.
func (s *Service) ToggleTooth(ctx context.Context, caseID uuid.UUID, arch domain.Arch, tooth int) (bool, error) {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return false, err
	}
	toggled := c.Arena.ToggleTooth(arch, tooth)
	if toggled {
		c.UpdatedAt = time.Now()
		_ = s.audit.Emit(ctx, AuditEvent{
			CaseID: c.ID,
			Action: "tooth_toggled",
			Detail: fmt.Sprintf("%s/%d", arch, tooth),
		})
		return true, s.store.Save(ctx, c)
	}
	return false, nil
}

// SetActiveType focuses one extraction type for tooth clicks, or clears the
// focus with an empty name.
func (s *Service) SetActiveType(ctx context.Context, caseID uuid.UUID, typeName string) error {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return err
	}
	c.Arena.SetActiveType(typeName)
	return s.store.Save(ctx, c)
}

// Cleanup resolves duplicated teeth across extraction types,
// last-writer-wins. Safe to call on every mount.
func (s *Service) Cleanup(ctx context.Context, caseID uuid.UUID) error {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return err
	}
	c.Arena.CleanupOverlaps()
	return s.store.Save(ctx, c)
}

// Validate runs the full rule catalog against one arch and returns every
// non-passing result. statuses may override the arena's derived map when
// the caller tracks tooth status externally.
func (s *Service) Validate(ctx context.Context, caseID uuid.UUID, arch domain.Arch, statuses map[int]string) ([]domain.Result, error) {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	data := c.Arena.Snapshot(arch, c.Catalog, statuses)
	data.HasScanUpload = c.HasScanUpload
	return s.engine.ValidateConfiguration(data), nil
}

// FirstError reduces a validation pass to the highest-priority outcome, or
// nil when the arch passes.
func (s *Service) FirstError(ctx context.Context, caseID uuid.UUID, arch domain.Arch) (*domain.Result, error) {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	data := c.Arena.Snapshot(arch, c.Catalog, nil)
	data.HasScanUpload = c.HasScanUpload
	return s.engine.ValidateAndGetFirstError(data), nil
}

// ValidateType decorates one extraction-type card.
func (s *Service) ValidateType(ctx context.Context, caseID uuid.UUID, arch domain.Arch, typeName string) (*domain.Result, error) {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	data := c.Arena.Snapshot(arch, c.Catalog, nil)
	data.HasScanUpload = c.HasScanUpload
	return s.engine.ValidateExtractionType(data, typeName), nil
}

// ArchSnapshot builds the render view of one arch.
func (s *Service) ArchSnapshot(ctx context.Context, caseID uuid.UUID, arch domain.Arch) (*Snapshot, error) {
	c, err := s.store.FindByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		CaseID:      c.ID,
		Arch:        arch,
		ActiveType:  c.Arena.ActiveType(),
		TeethByType: make(map[string][]int),
		Statuses:    c.Arena.Statuses(arch),
		Types:       c.Catalog.Eligible(),
	}
	for _, name := range c.Arena.TypesInArch(arch) {
		snap.TeethByType[name] = c.Arena.Teeth(name, arch)
	}
	return snap, nil
}
