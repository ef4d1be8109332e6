package rules

import "strings"

// MatchAll makes a rule apply to every product.
const MatchAll = "*"

// ProductCategory is a coarse product family used for fallback matching.
type ProductCategory string

const (
	CategoryCrown      ProductCategory = "crown"
	CategoryBridge     ProductCategory = "bridge"
	CategoryImplant    ProductCategory = "implant"
	CategoryDenture    ProductCategory = "denture"
	CategoryVeneer     ProductCategory = "veneer"
	CategoryRetainer   ProductCategory = "retainer"
	CategoryFlipper    ProductCategory = "flipper"
	CategoryNightGuard ProductCategory = "night-guard"
	CategorySplint     ProductCategory = "splint"
)

// categorySynonyms lets a small rule set cover many product name variants
// without enumerating every synonym per rule. Matching a rule name to a
// category, then the product name to a synonym, is the second tier after
// exact substring matching.
var categorySynonyms = map[ProductCategory][]string{
	CategoryCrown:      {"crown", "cap", "onlay", "overlay"},
	CategoryBridge:     {"bridge", "pontic", "maryland", "cantilever"},
	CategoryImplant:    {"implant", "abutment", "all-on", "hybrid", "screw retained", "screw-retained"},
	CategoryDenture:    {"denture", "partial", "full arch", "complete"},
	CategoryVeneer:     {"veneer", "laminate"},
	CategoryRetainer:   {"retainer", "essix", "hawley"},
	CategoryFlipper:    {"flipper", "interim partial", "temporary partial"},
	CategoryNightGuard: {"night guard", "night-guard", "nightguard", "occlusal guard", "bite guard"},
	CategorySplint:     {"splint", "deprogrammer", "tmj"},
}

// MatchesProduct decides rule applicability. Tier one: "*" or a
// case-insensitive substring match between a rule product name and the
// current product. Tier two: when the rule name mentions a category, any of
// that category's synonyms appearing in the product name matches.
func MatchesProduct(ruleProducts []string, productName string) bool {
	product := strings.ToLower(strings.TrimSpace(productName))
	for _, name := range ruleProducts {
		rule := strings.ToLower(strings.TrimSpace(name))
		if rule == MatchAll {
			return true
		}
		if rule == "" {
			continue
		}
		if strings.Contains(product, rule) {
			return true
		}
		if matchesCategory(rule, product) {
			return true
		}
	}
	return false
}

func matchesCategory(ruleName, product string) bool {
	for category, synonyms := range categorySynonyms {
		if !strings.Contains(ruleName, string(category)) {
			continue
		}
		for _, syn := range synonyms {
			if strings.Contains(product, syn) {
				return true
			}
		}
	}
	return false
}
