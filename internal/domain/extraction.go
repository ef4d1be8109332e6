package domain

// ExtractionStatus marks whether an extraction type is configured for use.
type ExtractionStatus string

const (
	ExtractionActive   ExtractionStatus = "Active"
	ExtractionInactive ExtractionStatus = "Inactive"
)

// Flag is the tri-state string the catalog source uses for boolean columns.
type Flag string

const (
	FlagYes Flag = "Yes"
	FlagNo  Flag = "No"
)

// Bool reports whether the flag is set.
func (f Flag) Bool() bool { return f == FlagYes }

// ExtractionType is read-only reference data describing a named tooth status
// a product exposes (e.g. "Prepped", "Missing teeth"). Loaded once per
// product selection; the engine never mutates it.
type ExtractionType struct {
	Name       string           `json:"name"`
	Color      string           `json:"color"`
	Code       string           `json:"code"`
	IsDefault  Flag             `json:"is_default"`
	IsRequired Flag             `json:"is_required"`
	IsOptional Flag             `json:"is_optional"`
	Status     ExtractionStatus `json:"status"`

	// Optional cardinality bounds on assigned teeth. Nil means unbounded.
	MinTeeth *int `json:"min_teeth,omitempty"`
	MaxTeeth *int `json:"max_teeth,omitempty"`
}

// Eligible reports whether this type should be visible to the user and the
// validation engine for a product: it must be Active and carry at least one
// of the default/required/optional flags.
func (t ExtractionType) Eligible() bool {
	if t.Status != ExtractionActive {
		return false
	}
	return t.IsDefault.Bool() || t.IsRequired.Bool() || t.IsOptional.Bool()
}

// ExtractionCatalog is the ordered set of extraction types a product exposes.
type ExtractionCatalog struct {
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	Types       []ExtractionType `json:"types"`
}

// Eligible returns the types that pass the visibility filter, preserving
// source order.
func (c ExtractionCatalog) Eligible() []ExtractionType {
	var out []ExtractionType
	for _, t := range c.Types {
		if t.Eligible() {
			out = append(out, t)
		}
	}
	return out
}

// Defaults returns the eligible types flagged as product defaults.
func (c ExtractionCatalog) Defaults() []ExtractionType {
	var out []ExtractionType
	for _, t := range c.Types {
		if t.Eligible() && t.IsDefault.Bool() {
			out = append(out, t)
		}
	}
	return out
}

// TypeByName looks up an eligible extraction type by its name.
func (c ExtractionCatalog) TypeByName(name string) (ExtractionType, bool) {
	for _, t := range c.Types {
		if t.Eligible() && t.Name == name {
			return t, true
		}
	}
	return ExtractionType{}, false
}
