package rules

import (
	"sort"
	"strconv"

	"dentops/internal/domain"
)

// Well-known tooth status names the constraint evaluators key on.
const (
	StatusPrepped      = "Prepped"
	StatusTeethInMouth = "Teeth in mouth"
	StatusMissing      = "Missing teeth"
	StatusImplant      = "Implant"
)

// abutmentStatuses defines an abutment operationally: a tooth supporting a
// prosthesis carries one of these statuses.
var abutmentStatuses = []string{StatusPrepped, StatusTeethInMouth}

// Config describes a product rule declaratively, so new constraints can be
// added as data rather than code. Build compiles it into a CheckFunc once at
// catalog-load time.
type Config struct {
	ID       string
	Products []string
	Severity domain.Severity
	Title    string
	Message  string
	Solution string

	// Teeth count bounds. ExactTeethCount overrides the min/max pair.
	ExactTeethCount *int
	MinTeethCount   *int
	MaxTeethCount   *int

	// Composition minimums.
	MinAbutments *int
	MinMissing   *int
	MinImplants  *int

	// Status membership. Required is an allow-list every selected tooth
	// must satisfy; Forbidden is a deny-list no selected tooth may carry.
	RequiredStatuses  []string
	ForbiddenStatuses []string

	// Tooth-type constraints.
	AllowedToothTypes   []domain.ToothType
	ForbiddenToothTypes []domain.ToothType

	// Positional constraints over the selected teeth.
	RequireContinuous bool
	RequireAdjacent   bool

	// RequireExternalScan fails unless the case carries a scan upload.
	RequireExternalScan bool

	// LegacyMinImplants is the older implant-count field still present in
	// some product configs; checked after the modern constraints.
	LegacyMinImplants *int

	// PricingPerTooth emits an informational notice that the product is
	// priced per selected tooth. Always proceeds.
	PricingPerTooth bool
}

// NewRule compiles a Config into a catalog-ready Rule.
func NewRule(cfg Config) Rule {
	return declRule{
		id:       cfg.ID,
		products: cfg.Products,
		severity: cfg.Severity,
		check:    Build(cfg),
	}
}

// Build composes the check function. Constraints evaluate in a fixed order
// and short-circuit on the first failure, so each evaluation yields at most
// one result.
func Build(cfg Config) CheckFunc {
	type step func(domain.ValidationData) *domain.Result
	steps := []step{
		cfg.checkTeethCount,
		cfg.checkMinAbutments,
		cfg.checkMinMissing,
		cfg.checkMinImplants,
		cfg.checkRequiredStatuses,
		cfg.checkForbiddenStatuses,
		cfg.checkToothTypes,
		cfg.checkPositional,
		cfg.checkExternalScan,
		cfg.checkLegacyMinImplants,
		cfg.checkPricingNotice,
	}
	return func(data domain.ValidationData) domain.Result {
		for _, s := range steps {
			if r := s(data); r != nil {
				return *r
			}
		}
		return domain.Valid()
	}
}

// fail builds a non-passing result from the config's message templates.
func (cfg Config) fail(data domain.ValidationData, vars map[string]string, affected []int) *domain.Result {
	if vars == nil {
		vars = map[string]string{}
	}
	vars["productName"] = data.ProductName
	vars["teethList"] = teethList(data.SelectedTeeth)
	r := domain.Result{
		IsValid:       false,
		RuleID:        cfg.ID,
		Severity:      cfg.Severity,
		Title:         cfg.Title,
		Message:       fill(cfg.Message, vars),
		Solution:      fill(cfg.Solution, vars),
		AffectedTeeth: affected,
		CanProceed:    cfg.Severity != domain.SeverityError,
	}
	return &r
}

func (cfg Config) checkTeethCount(data domain.ValidationData) *domain.Result {
	count := len(data.SelectedTeeth)
	vars := map[string]string{"count": strconv.Itoa(count)}
	if cfg.ExactTeethCount != nil {
		if count != *cfg.ExactTeethCount {
			vars["exactNumber"] = strconv.Itoa(*cfg.ExactTeethCount)
			return cfg.fail(data, vars, data.SelectedTeeth)
		}
		return nil
	}
	if cfg.MinTeethCount != nil && count < *cfg.MinTeethCount {
		vars["minNumber"] = strconv.Itoa(*cfg.MinTeethCount)
		return cfg.fail(data, vars, data.SelectedTeeth)
	}
	if cfg.MaxTeethCount != nil && count > *cfg.MaxTeethCount {
		vars["maxNumber"] = strconv.Itoa(*cfg.MaxTeethCount)
		return cfg.fail(data, vars, data.SelectedTeeth)
	}
	return nil
}

func (cfg Config) checkMinAbutments(data domain.ValidationData) *domain.Result {
	if cfg.MinAbutments == nil {
		return nil
	}
	count := data.CountWithStatus(abutmentStatuses...)
	if count < *cfg.MinAbutments {
		return cfg.fail(data, map[string]string{
			"minNumber": strconv.Itoa(*cfg.MinAbutments),
			"count":     strconv.Itoa(count),
		}, data.SelectedTeeth)
	}
	return nil
}

func (cfg Config) checkMinMissing(data domain.ValidationData) *domain.Result {
	if cfg.MinMissing == nil {
		return nil
	}
	count := data.CountWithStatus(StatusMissing)
	if count < *cfg.MinMissing {
		return cfg.fail(data, map[string]string{
			"minNumber": strconv.Itoa(*cfg.MinMissing),
			"count":     strconv.Itoa(count),
		}, data.SelectedTeeth)
	}
	return nil
}

func (cfg Config) checkMinImplants(data domain.ValidationData) *domain.Result {
	if cfg.MinImplants == nil || catalogTracksImplants(data) {
		return nil
	}
	count := data.CountWithStatus(StatusImplant)
	if count < *cfg.MinImplants {
		return cfg.fail(data, map[string]string{
			"minNumber": strconv.Itoa(*cfg.MinImplants),
			"count":     strconv.Itoa(count),
		}, data.SelectedTeeth)
	}
	return nil
}

func (cfg Config) checkRequiredStatuses(data domain.ValidationData) *domain.Result {
	if len(cfg.RequiredStatuses) == 0 {
		return nil
	}
	var offending []int
	for _, tooth := range data.SelectedTeeth {
		status := data.StatusOf(tooth)
		allowed := false
		for _, name := range cfg.RequiredStatuses {
			if status == name {
				allowed = true
				break
			}
		}
		if !allowed {
			offending = append(offending, tooth)
		}
	}
	if len(offending) > 0 {
		return cfg.fail(data, map[string]string{
			"statusName":  data.StatusOf(offending[0]),
			"toothNumber": strconv.Itoa(offending[0]),
		}, offending)
	}
	return nil
}

func (cfg Config) checkForbiddenStatuses(data domain.ValidationData) *domain.Result {
	if len(cfg.ForbiddenStatuses) == 0 {
		return nil
	}
	var offending []int
	var firstStatus string
	for _, tooth := range data.SelectedTeeth {
		status := data.StatusOf(tooth)
		for _, name := range cfg.ForbiddenStatuses {
			if status == name {
				if firstStatus == "" {
					firstStatus = status
				}
				offending = append(offending, tooth)
				break
			}
		}
	}
	if len(offending) > 0 {
		return cfg.fail(data, map[string]string{
			"statusName":  firstStatus,
			"toothNumber": strconv.Itoa(offending[0]),
		}, offending)
	}
	return nil
}

func (cfg Config) checkToothTypes(data domain.ValidationData) *domain.Result {
	if len(cfg.AllowedToothTypes) == 0 && len(cfg.ForbiddenToothTypes) == 0 {
		return nil
	}
	var offending []int
	for _, tooth := range data.SelectedTeeth {
		tt := domain.TypeOf(tooth)
		if len(cfg.AllowedToothTypes) > 0 {
			ok := false
			for _, allowed := range cfg.AllowedToothTypes {
				if tt == allowed {
					ok = true
					break
				}
			}
			if !ok {
				offending = append(offending, tooth)
				continue
			}
		}
		for _, forbidden := range cfg.ForbiddenToothTypes {
			if tt == forbidden {
				offending = append(offending, tooth)
				break
			}
		}
	}
	if len(offending) > 0 {
		return cfg.fail(data, map[string]string{
			"toothNumber": strconv.Itoa(offending[0]),
			"toothType":   string(domain.TypeOf(offending[0])),
		}, offending)
	}
	return nil
}

func (cfg Config) checkPositional(data domain.ValidationData) *domain.Result {
	if !cfg.RequireContinuous && !cfg.RequireAdjacent {
		return nil
	}
	teeth := append([]int(nil), data.SelectedTeeth...)
	sort.Ints(teeth)
	if cfg.RequireContinuous && !continuous(teeth) {
		return cfg.fail(data, nil, teeth)
	}
	if cfg.RequireAdjacent && !adjacentPair(teeth) {
		return cfg.fail(data, nil, teeth)
	}
	return nil
}

// continuous reports whether the sorted teeth form one contiguous numeric
// run, i.e. an unbroken span in the arch.
func continuous(teeth []int) bool {
	for i := 1; i < len(teeth); i++ {
		if teeth[i] != teeth[i-1]+1 {
			return false
		}
	}
	return true
}

// adjacentPair reports whether at least one pair of selected teeth are
// numeric neighbors. Vacuously true for fewer than two teeth.
func adjacentPair(teeth []int) bool {
	if len(teeth) < 2 {
		return true
	}
	for i := 1; i < len(teeth); i++ {
		if teeth[i] == teeth[i-1]+1 {
			return true
		}
	}
	return false
}

func (cfg Config) checkExternalScan(data domain.ValidationData) *domain.Result {
	if !cfg.RequireExternalScan || data.HasScanUpload {
		return nil
	}
	return cfg.fail(data, nil, nil)
}

func (cfg Config) checkLegacyMinImplants(data domain.ValidationData) *domain.Result {
	if cfg.LegacyMinImplants == nil || catalogTracksImplants(data) {
		return nil
	}
	count := data.CountWithStatus(StatusImplant)
	if count < *cfg.LegacyMinImplants {
		return cfg.fail(data, map[string]string{
			"minNumber": strconv.Itoa(*cfg.LegacyMinImplants),
			"count":     strconv.Itoa(count),
		}, data.SelectedTeeth)
	}
	return nil
}

// catalogTracksImplants reports whether the product's extraction catalog
// exposes an eligible "Implant" card. When it does, implant-site accounting
// belongs to that card's cardinality bounds; the generic implant minimums
// only cover products that track implants outside the catalog. A freshly
// seeded full-arch case with zero implants marked is valid state for such
// products.
func catalogTracksImplants(data domain.ValidationData) bool {
	_, ok := data.Catalog.TypeByName(StatusImplant)
	return ok
}

func (cfg Config) checkPricingNotice(data domain.ValidationData) *domain.Result {
	if !cfg.PricingPerTooth || len(data.SelectedTeeth) == 0 {
		return nil
	}
	r := cfg.fail(data, map[string]string{
		"count": strconv.Itoa(len(data.SelectedTeeth)),
	}, nil)
	// Informational notices never block.
	r.Severity = domain.SeverityInfo
	r.CanProceed = true
	return r
}
