// Package rules holds the declarative validation rule catalog: product
// applicability matching, the generic constraint builder, and the universal
// extraction rules. Rule bodies are pure domain logic - no I/O, no side
// effects.
package rules

import (
	"dentops/internal/domain"
)

// CheckFunc evaluates one rule against an assignment snapshot. It returns
// exactly one result; a passing check returns domain.Valid().
type CheckFunc func(domain.ValidationData) domain.Result

// Rule is the strategy object the engine executes. Rules are immutable once
// registered; the catalog is a flat ordered list and order carries no
// priority (priority comes from result severity).
type Rule interface {
	// ID returns the rule's unique identifier.
	ID() string

	// Severity grades the rule's failures.
	Severity() domain.Severity

	// AppliesTo reports whether the rule should run for the product.
	AppliesTo(productName string) bool

	// Check evaluates the rule. Must not mutate data.
	Check(data domain.ValidationData) domain.Result
}

// declRule is a Rule assembled from a declarative Config by Build.
type declRule struct {
	id       string
	products []string
	severity domain.Severity
	check    CheckFunc
}

func (r declRule) ID() string                { return r.id }
func (r declRule) Severity() domain.Severity { return r.severity }

func (r declRule) AppliesTo(productName string) bool {
	return MatchesProduct(r.products, productName)
}

func (r declRule) Check(data domain.ValidationData) domain.Result {
	return r.check(data)
}
