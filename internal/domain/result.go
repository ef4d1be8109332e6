package domain

// Severity grades a validation outcome. Errors block proceeding, warnings
// surface but may proceed, info is advisory only.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities for reduction: error > warning > info. Unknown
// severities rank last.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Result is the outcome of running one validation rule.
type Result struct {
	IsValid         bool     `json:"is_valid"`
	RuleID          string   `json:"rule_id,omitempty"`
	Severity        Severity `json:"severity,omitempty"`
	Title           string   `json:"title,omitempty"`
	Message         string   `json:"message,omitempty"`
	Solution        string   `json:"solution,omitempty"`
	AffectedTeeth   []int    `json:"affected_teeth,omitempty"`
	SuggestedAction string   `json:"suggested_action,omitempty"`

	// CanProceed lets a warning or info result allow continuation despite
	// not passing. Errors never set it.
	CanProceed bool `json:"can_proceed,omitempty"`
}

// Valid is the passing result.
func Valid() Result { return Result{IsValid: true} }

// ValidationData is the immutable snapshot a rule evaluates against. Built
// by the caller at evaluation time; rules must not mutate it.
type ValidationData struct {
	ProductName   string
	Arch          Arch
	SelectedTeeth []int
	ToothStatuses map[int]string
	Catalog       ExtractionCatalog

	// HasScanUpload is set when the case carries an external scan file;
	// some appliance products require one.
	HasScanUpload bool
}

// StatusOf returns the current status for a tooth, or "" when untracked.
func (d ValidationData) StatusOf(tooth int) string {
	return d.ToothStatuses[tooth]
}

// CountWithStatus counts selected teeth whose status is one of the given
// names.
func (d ValidationData) CountWithStatus(names ...string) int {
	count := 0
	for _, tooth := range d.SelectedTeeth {
		status := d.ToothStatuses[tooth]
		for _, name := range names {
			if status == name {
				count++
				break
			}
		}
	}
	return count
}
