package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dentops/internal/cases"
	"dentops/internal/catalog"
	"dentops/internal/domain"
	"dentops/internal/platform/metrics"
	"dentops/internal/platform/middleware"
	"dentops/pkg/apperrors"
	"dentops/pkg/httputil"
)

// CaseService defines the interface for case operations the transport needs.
type CaseService interface {
	Open(ctx context.Context, patientRef string) (*cases.Case, error)
	SelectProduct(ctx context.Context, caseID uuid.UUID, ref catalog.ProductRef, direct *domain.ExtractionCatalog) (*cases.Case, error)
	SetTeeth(ctx context.Context, caseID uuid.UUID, typeName string, arch domain.Arch, teeth []int, preserveOthers bool) error
	ToggleTooth(ctx context.Context, caseID uuid.UUID, arch domain.Arch, tooth int) (bool, error)
	SetActiveType(ctx context.Context, caseID uuid.UUID, typeName string) error
	Cleanup(ctx context.Context, caseID uuid.UUID) error
	Validate(ctx context.Context, caseID uuid.UUID, arch domain.Arch, statuses map[int]string) ([]domain.Result, error)
	FirstError(ctx context.Context, caseID uuid.UUID, arch domain.Arch) (*domain.Result, error)
	ValidateType(ctx context.Context, caseID uuid.UUID, arch domain.Arch, typeName string) (*domain.Result, error)
	ArchSnapshot(ctx context.Context, caseID uuid.UUID, arch domain.Arch) (*cases.Snapshot, error)
}

// Handler is the thin HTTP layer over the case service. It delegates to the
// domain services without embedding business logic.
type Handler struct {
	service CaseService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler constructs the case handler with its dependencies.
func NewHandler(service CaseService, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

// Register mounts the case routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cases", h.handleOpenCase)
	r.Post("/cases/{caseID}/product", h.handleSelectProduct)
	r.Put("/cases/{caseID}/teeth", h.handleSetTeeth)
	r.Post("/cases/{caseID}/teeth/toggle", h.handleToggleTooth)
	r.Post("/cases/{caseID}/active-type", h.handleSetActiveType)
	r.Post("/cases/{caseID}/cleanup", h.handleCleanup)
	r.Get("/cases/{caseID}/arches/{arch}", h.handleArchSnapshot)
	r.Get("/cases/{caseID}/arches/{arch}/validation", h.handleValidate)
	r.Post("/cases/{caseID}/arches/{arch}/validation", h.handleValidateWithStatuses)
	r.Get("/cases/{caseID}/arches/{arch}/validation/first", h.handleFirstError)
	r.Get("/cases/{caseID}/arches/{arch}/validation/types/{type}", h.handleValidateType)
}

type openCaseRequest struct {
	PatientRef string `json:"patient_ref"`
}

func (h *Handler) handleOpenCase(w http.ResponseWriter, r *http.Request) {
	var req openCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "invalid request body"))
		return
	}
	c, err := h.service.Open(r.Context(), req.PatientRef)
	if err != nil {
		h.fail(w, r, "open case", err)
		return
	}
	h.metrics.IncrementCasesOpened()
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"case_id": c.ID.String()})
}

type selectProductRequest struct {
	ProductID   string                    `json:"product_id"`
	BaseID      string                    `json:"base_id,omitempty"`
	ProductName string                    `json:"product_name"`
	Catalog     *domain.ExtractionCatalog `json:"catalog,omitempty"`
}

func (h *Handler) handleSelectProduct(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	var req selectProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "invalid request body"))
		return
	}
	ref := catalog.ProductRef{ID: req.ProductID, BaseID: req.BaseID, Name: req.ProductName}
	c, err := h.service.SelectProduct(r.Context(), caseID, ref, req.Catalog)
	if err != nil {
		h.fail(w, r, "select product", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"case_id": c.ID.String(),
		"types":   c.Catalog.Eligible(),
	})
}

type setTeethRequest struct {
	Type           string      `json:"type"`
	Arch           domain.Arch `json:"arch"`
	Teeth          []int       `json:"teeth"`
	PreserveOthers *bool       `json:"preserve_others,omitempty"`
}

func (h *Handler) handleSetTeeth(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	var req setTeethRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !validArch(req.Arch) {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "unknown arch"))
		return
	}
	// Preserving other types' assignments is the default for UI edits.
	preserve := true
	if req.PreserveOthers != nil {
		preserve = *req.PreserveOthers
	}
	if err := h.service.SetTeeth(r.Context(), caseID, req.Type, req.Arch, req.Teeth, preserve); err != nil {
		h.fail(w, r, "set teeth", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type toggleToothRequest struct {
	Arch  domain.Arch `json:"arch"`
	Tooth int         `json:"tooth"`
}

func (h *Handler) handleToggleTooth(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	var req toggleToothRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !validArch(req.Arch) || !domain.ValidTooth(req.Tooth) {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "unknown arch or tooth"))
		return
	}
	toggled, err := h.service.ToggleTooth(r.Context(), caseID, req.Arch, req.Tooth)
	if err != nil {
		h.fail(w, r, "toggle tooth", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"toggled": toggled})
}

type setActiveTypeRequest struct {
	Type string `json:"type"`
}

func (h *Handler) handleSetActiveType(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	var req setActiveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.service.SetActiveType(r.Context(), caseID, req.Type); err != nil {
		h.fail(w, r, "set active type", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCleanup(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Cleanup(r.Context(), caseID); err != nil {
		h.fail(w, r, "cleanup", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleArchSnapshot(w http.ResponseWriter, r *http.Request) {
	caseID, arch, ok := h.caseAndArch(w, r)
	if !ok {
		return
	}
	snap, err := h.service.ArchSnapshot(r.Context(), caseID, arch)
	if err != nil {
		h.fail(w, r, "arch snapshot", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	caseID, arch, ok := h.caseAndArch(w, r)
	if !ok {
		return
	}
	h.writeValidation(w, r, caseID, arch, nil)
}

type validateRequest struct {
	// Statuses overrides the case's derived tooth-status map, for callers
	// that track status outside the assignment store.
	Statuses map[int]string `json:"statuses"`
}

func (h *Handler) handleValidateWithStatuses(w http.ResponseWriter, r *http.Request) {
	caseID, arch, ok := h.caseAndArch(w, r)
	if !ok {
		return
	}
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "invalid request body"))
		return
	}
	for tooth := range req.Statuses {
		if !domain.ValidTooth(tooth) {
			httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "unknown tooth in statuses"))
			return
		}
	}
	h.writeValidation(w, r, caseID, arch, req.Statuses)
}

func (h *Handler) writeValidation(w http.ResponseWriter, r *http.Request, caseID uuid.UUID, arch domain.Arch, statuses map[int]string) {
	results, err := h.service.Validate(r.Context(), caseID, arch, statuses)
	if err != nil {
		h.fail(w, r, "validate", err)
		return
	}
	if results == nil {
		results = []domain.Result{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) handleFirstError(w http.ResponseWriter, r *http.Request) {
	caseID, arch, ok := h.caseAndArch(w, r)
	if !ok {
		return
	}
	result, err := h.service.FirstError(r.Context(), caseID, arch)
	if err != nil {
		h.fail(w, r, "first error", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"result": result})
}

func (h *Handler) handleValidateType(w http.ResponseWriter, r *http.Request) {
	caseID, arch, ok := h.caseAndArch(w, r)
	if !ok {
		return
	}
	typeName := chi.URLParam(r, "type")
	result, err := h.service.ValidateType(r.Context(), caseID, arch, typeName)
	if err != nil {
		h.fail(w, r, "validate type", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"result": result})
}

func (h *Handler) caseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "invalid case id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) caseAndArch(w http.ResponseWriter, r *http.Request) (uuid.UUID, domain.Arch, bool) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return uuid.Nil, "", false
	}
	arch := domain.Arch(chi.URLParam(r, "arch"))
	if !validArch(arch) {
		httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "unknown arch"))
		return uuid.Nil, "", false
	}
	return caseID, arch, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if err == cases.ErrNotFound {
		httputil.WriteError(w, apperrors.New(apperrors.CodeNotFound, "case not found"))
		return
	}
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), op+" failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func validArch(arch domain.Arch) bool {
	return arch == domain.ArchMaxillary || arch == domain.ArchMandibular
}
