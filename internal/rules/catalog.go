package rules

import "dentops/internal/domain"

func intp(v int) *int { return &v }

// DefaultCatalog returns the built-in rule set. The two extraction rules
// run for every product; the rest are product-family constraints compiled
// from declarative configs.
func DefaultCatalog() []Rule {
	return append([]Rule{
		StatusLegalityRule{},
		CardinalityRule{},
	}, productRules()...)
}

func productRules() []Rule {
	return []Rule{
		NewRule(Config{
			ID:           "crown-abutment-required",
			Products:     []string{"crown"},
			Severity:     domain.SeverityError,
			Title:        "Crown needs a prepared tooth",
			Message:      "A crown requires at least {minNumber} prepped tooth; found {count}.",
			Solution:     `Mark the tooth receiving the crown as "Prepped".`,
			MinAbutments: intp(1),
		}),
		NewRule(Config{
			ID:                "bridge-span",
			Products:          []string{"bridge"},
			Severity:          domain.SeverityError,
			Title:             "Bridge span is not valid",
			Message:           "A bridge needs at least {minNumber} abutment teeth and an unbroken span; selected teeth: {teethList}.",
			Solution:          "Select a contiguous run of teeth with prepped abutments at both ends.",
			MinTeethCount:     intp(3),
			MinAbutments:      intp(2),
			RequireContinuous: true,
		}),
		NewRule(Config{
			ID:          "implant-site-required",
			Products:    []string{"implant"},
			Severity:    domain.SeverityError,
			Title:       "No implant site marked",
			Message:     `{productName} requires at least {minNumber} tooth with status "Implant"; found {count}.`,
			Solution:    `Mark each implant site with the "Implant" status.`,
			MinImplants: intp(1),
		}),
		NewRule(Config{
			ID:         "partial-denture-missing-teeth",
			Products:   []string{"partial denture", "flipper"},
			Severity:   domain.SeverityError,
			Title:      "No missing teeth to replace",
			Message:    "A removable partial replaces missing teeth; at least {minNumber} required, found {count}.",
			Solution:   `Mark the teeth to be replaced as "Missing teeth".`,
			MinMissing: intp(1),
		}),
		NewRule(Config{
			ID:                "veneer-anterior-only",
			Products:          []string{"veneer"},
			Severity:          domain.SeverityError,
			Title:             "Veneers are limited to anterior teeth",
			Message:           "Tooth {toothNumber} is a {toothType}; veneers cover anterior teeth only.",
			Solution:          "Deselect posterior teeth or switch to a crown product.",
			AllowedToothTypes: []domain.ToothType{domain.ToothAnterior},
		}),
		NewRule(Config{
			ID:                "denture-no-third-molars",
			Products:          []string{"denture"},
			Severity:          domain.SeverityWarning,
			Title:             "Denture setup rarely includes molars marked in mouth",
			Message:           `Tooth {toothNumber} still carries status "{statusName}"; dentures are usually set up against extracted or missing posteriors.`,
			Solution:          "Confirm the remaining molars before fabrication.",
			ForbiddenStatuses: []string{StatusTeethInMouth},
		}),
		NewRule(Config{
			ID:                  "night-guard-scan-required",
			Products:            []string{"night-guard", "retainer", "splint"},
			Severity:            domain.SeverityError,
			Title:               "Appliance requires a scan",
			Message:             "{productName} is fabricated from an arch scan, and none is attached to this case.",
			Solution:            "Upload an intraoral scan or impression scan before submitting.",
			RequireExternalScan: true,
		}),
		NewRule(Config{
			ID:              "single-unit-exact",
			Products:        []string{"single unit crown"},
			Severity:        domain.SeverityError,
			Title:           "Single unit covers one tooth",
			Message:         "A single unit restoration covers exactly {exactNumber} tooth; {count} selected.",
			Solution:        "Deselect the extra teeth or quote a multi-unit product.",
			ExactTeethCount: intp(1),
		}),
		NewRule(Config{
			ID:                "hybrid-legacy-implant-count",
			Products:          []string{"hybrid", "all-on"},
			Severity:          domain.SeverityError,
			Title:             "Not enough implants for a fixed hybrid",
			Message:           "A fixed hybrid needs {minNumber} supporting implants; found {count}.",
			Solution:          "Mark every implant site in the arch.",
			LegacyMinImplants: intp(4),
		}),
		NewRule(Config{
			ID:              "per-tooth-pricing-notice",
			Products:        []string{"veneer", "crown", "flipper"},
			Severity:        domain.SeverityInfo,
			Title:           "Priced per tooth",
			Message:         "{productName} is billed per tooth: {count} teeth currently selected.",
			PricingPerTooth: true,
		}),
	}
}
