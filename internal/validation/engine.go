// Package validation orchestrates rule matching, execution, and result
// reduction. The goal is to keep the rules centralized and testable.
package validation

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"dentops/internal/domain"
	"dentops/internal/rules"
	"dentops/internal/validation/metrics"
)

// Engine runs the rule catalog against assignment snapshots. The catalog is
// fixed at construction and never mutated during evaluation.
type Engine struct {
	catalog []rules.Rule
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New builds an engine over the given catalog. logger and metrics may be
// nil.
func New(catalog []rules.Rule, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{catalog: catalog, logger: logger, metrics: m}
}

// ValidateConfiguration executes every applicable rule and collects the
// non-passing results, in catalog order. A rule that panics is logged and
// treated as passing; one broken rule must never block unrelated
// validations.
func (e *Engine) ValidateConfiguration(data domain.ValidationData) []domain.Result {
	start := time.Now()
	var failures []domain.Result
	for _, rule := range e.catalog {
		if !rule.AppliesTo(data.ProductName) {
			continue
		}
		result, ok := e.runRule(rule, data)
		if !ok || result.IsValid {
			continue
		}
		e.metrics.IncrementRuleFailure(rule.ID(), string(result.Severity))
		failures = append(failures, result)
	}
	e.metrics.IncrementEvaluations()
	e.metrics.ObserveEvaluateLatency(time.Since(start))
	return failures
}

// ValidateAndGetFirstError reduces an evaluation to the single most
// relevant outcome: errors before warnings before info, catalog order
// within a tier. Returns nil when everything passes.
func (e *Engine) ValidateAndGetFirstError(data domain.ValidationData) *domain.Result {
	failures := e.ValidateConfiguration(data)
	if len(failures) == 0 {
		return nil
	}
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Severity.Rank() < failures[j].Severity.Rank()
	})
	return &failures[0]
}

// ValidateExtractionType decorates a single extraction-type card: it runs
// the cardinality bounds scoped to that type, then surfaces other failures
// only when their text explicitly references the type's name, so one card's
// indicator is not contaminated by an unrelated type's failure.
func (e *Engine) ValidateExtractionType(data domain.ValidationData, typeName string) *domain.Result {
	t, ok := data.Catalog.TypeByName(typeName)
	if ok {
		if result := rules.CheckTypeCardinality(data, t); result != nil {
			e.metrics.IncrementRuleFailure(result.RuleID, string(result.Severity))
			return result
		}
	}
	for _, rule := range e.catalog {
		if rule.ID() == rules.CardinalityRuleID {
			continue
		}
		if !rule.AppliesTo(data.ProductName) {
			continue
		}
		result, ok := e.runRule(rule, data)
		if !ok || result.IsValid {
			continue
		}
		if mentionsType(result, typeName) {
			return &result
		}
	}
	return nil
}

// runRule executes one rule with panic isolation. The second return is
// false when the rule panicked.
func (e *Engine) runRule(rule rules.Rule, data domain.ValidationData) (result domain.Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			e.metrics.IncrementRulePanic(rule.ID())
			if e.logger != nil {
				e.logger.Error("validation rule panicked, skipping",
					"rule", rule.ID(),
					"product", data.ProductName,
					"panic", r,
				)
			}
		}
	}()
	return rule.Check(data), true
}

func mentionsType(result domain.Result, typeName string) bool {
	name := strings.ToLower(typeName)
	return strings.Contains(strings.ToLower(result.Message), name) ||
		strings.Contains(strings.ToLower(result.Solution), name)
}
