package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentops/internal/domain"
)

func data(teeth []int, statuses map[int]string) domain.ValidationData {
	return domain.ValidationData{
		ProductName:   "Test Crown",
		Arch:          domain.ArchMaxillary,
		SelectedTeeth: teeth,
		ToothStatuses: statuses,
	}
}

func TestBuildTeethCount(t *testing.T) {
	t.Run("exact count overrides min and max", func(t *testing.T) {
		check := Build(Config{
			ID:              "exact",
			Severity:        domain.SeverityError,
			Message:         "need {exactNumber}, got {count}",
			ExactTeethCount: intp(1),
			MinTeethCount:   intp(5),
		})
		r := check(data([]int{4, 5}, nil))
		require.False(t, r.IsValid)
		assert.Equal(t, "need 1, got 2", r.Message)
		assert.Equal(t, []int{4, 5}, r.AffectedTeeth)

		assert.True(t, check(data([]int{4}, nil)).IsValid)
	})

	t.Run("min bound", func(t *testing.T) {
		check := Build(Config{Severity: domain.SeverityError, Message: "at least {minNumber}", MinTeethCount: intp(3)})
		r := check(data([]int{4, 5}, nil))
		require.False(t, r.IsValid)
		assert.Equal(t, "at least 3", r.Message)
		assert.True(t, check(data([]int{4, 5, 6}, nil)).IsValid)
	})

	t.Run("max bound", func(t *testing.T) {
		check := Build(Config{Severity: domain.SeverityError, Message: "at most {maxNumber}", MaxTeethCount: intp(1)})
		assert.False(t, check(data([]int{4, 5}, nil)).IsValid)
		assert.True(t, check(data([]int{4}, nil)).IsValid)
	})
}

func TestBuildComposition(t *testing.T) {
	t.Run("min abutments counts prepped and in-mouth", func(t *testing.T) {
		check := Build(Config{Severity: domain.SeverityError, MinAbutments: intp(2)})
		statuses := map[int]string{4: StatusPrepped, 5: StatusMissing, 6: StatusTeethInMouth}
		assert.True(t, check(data([]int{4, 5, 6}, statuses)).IsValid)

		statuses[6] = StatusMissing
		assert.False(t, check(data([]int{4, 5, 6}, statuses)).IsValid)
	})

	t.Run("min missing", func(t *testing.T) {
		check := Build(Config{Severity: domain.SeverityError, MinMissing: intp(1)})
		assert.False(t, check(data([]int{4}, map[int]string{4: StatusPrepped})).IsValid)
		assert.True(t, check(data([]int{4}, map[int]string{4: StatusMissing})).IsValid)
	})

	t.Run("min implants", func(t *testing.T) {
		check := Build(Config{Severity: domain.SeverityError, MinImplants: intp(1)})
		assert.False(t, check(data([]int{4}, map[int]string{4: StatusPrepped})).IsValid)
		assert.True(t, check(data([]int{4}, map[int]string{4: StatusImplant})).IsValid)
	})
}

func TestBuildImplantMinimumsDeferToCatalog(t *testing.T) {
	implantCard := domain.ExtractionCatalog{
		Types: []domain.ExtractionType{
			{Name: StatusImplant, Status: domain.ExtractionActive, IsOptional: domain.FlagYes},
		},
	}
	retiredCard := domain.ExtractionCatalog{
		Types: []domain.ExtractionType{
			{Name: StatusImplant, Status: domain.ExtractionInactive, IsOptional: domain.FlagYes},
		},
	}

	// Sixteen teeth, none marked as implant sites.
	teeth := domain.ArchTeeth(domain.ArchMaxillary)
	statuses := make(map[int]string, len(teeth))
	for _, n := range teeth {
		statuses[n] = StatusMissing
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"modern minimum", Config{Severity: domain.SeverityError, MinImplants: intp(1)}},
		{"legacy minimum", Config{Severity: domain.SeverityError, LegacyMinImplants: intp(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := Build(tt.cfg)

			withCard := data(teeth, statuses)
			withCard.Catalog = implantCard
			assert.True(t, check(withCard).IsValid,
				"an eligible implant card owns implant-site accounting")

			withRetired := data(teeth, statuses)
			withRetired.Catalog = retiredCard
			assert.False(t, check(withRetired).IsValid,
				"an ineligible card does not suppress the minimum")

			assert.False(t, check(data(teeth, statuses)).IsValid,
				"no catalog, the minimum applies")
		})
	}
}

func TestBuildStatusMembership(t *testing.T) {
	t.Run("required statuses flag outliers", func(t *testing.T) {
		check := Build(Config{
			Severity:         domain.SeverityError,
			Message:          "tooth {toothNumber} is {statusName}",
			RequiredStatuses: []string{StatusPrepped},
		})
		r := check(data([]int{4, 5}, map[int]string{4: StatusPrepped, 5: StatusMissing}))
		require.False(t, r.IsValid)
		assert.Equal(t, []int{5}, r.AffectedTeeth)
		assert.Equal(t, "tooth 5 is Missing teeth", r.Message)
	})

	t.Run("forbidden statuses flag carriers", func(t *testing.T) {
		check := Build(Config{
			Severity:          domain.SeverityWarning,
			ForbiddenStatuses: []string{StatusTeethInMouth},
		})
		r := check(data([]int{4, 5}, map[int]string{4: StatusTeethInMouth, 5: StatusMissing}))
		require.False(t, r.IsValid)
		assert.Equal(t, []int{4}, r.AffectedTeeth)
		assert.True(t, r.CanProceed, "warnings proceed")
	})
}

func TestBuildToothTypes(t *testing.T) {
	check := Build(Config{
		Severity:          domain.SeverityError,
		Message:           "tooth {toothNumber} is a {toothType}",
		AllowedToothTypes: []domain.ToothType{domain.ToothAnterior},
	})
	// 8 is anterior, 14 is a molar.
	r := check(data([]int{8, 14}, nil))
	require.False(t, r.IsValid)
	assert.Equal(t, []int{14}, r.AffectedTeeth)
	assert.Equal(t, "tooth 14 is a molar", r.Message)

	assert.True(t, check(data([]int{7, 8, 9}, nil)).IsValid)

	forbid := Build(Config{
		Severity:            domain.SeverityError,
		ForbiddenToothTypes: []domain.ToothType{domain.ToothMolar},
	})
	assert.False(t, forbid(data([]int{1}, nil)).IsValid)
	assert.True(t, forbid(data([]int{4, 8}, nil)).IsValid)
}

func TestBuildPositional(t *testing.T) {
	t.Run("continuous span", func(t *testing.T) {
		check := Build(Config{Severity: domain.SeverityError, RequireContinuous: true})
		assert.True(t, check(data([]int{4, 5, 6}, nil)).IsValid)
		assert.False(t, check(data([]int{4, 6}, nil)).IsValid)
	})

	t.Run("adjacent pair", func(t *testing.T) {
		check := Build(Config{Severity: domain.SeverityError, RequireAdjacent: true})
		assert.True(t, check(data([]int{4, 5, 9}, nil)).IsValid)
		assert.False(t, check(data([]int{4, 6, 9}, nil)).IsValid)
		assert.True(t, check(data([]int{4}, nil)).IsValid, "single tooth is vacuously adjacent")
	})
}

func TestBuildExternalScan(t *testing.T) {
	check := Build(Config{Severity: domain.SeverityError, RequireExternalScan: true})
	d := data([]int{4}, nil)
	assert.False(t, check(d).IsValid)

	d.HasScanUpload = true
	assert.True(t, check(d).IsValid)
}

func TestBuildLegacyMinImplants(t *testing.T) {
	check := Build(Config{Severity: domain.SeverityError, LegacyMinImplants: intp(4)})
	statuses := map[int]string{1: StatusImplant, 2: StatusImplant, 3: StatusImplant, 4: StatusImplant}
	assert.True(t, check(data([]int{1, 2, 3, 4}, statuses)).IsValid)
	assert.False(t, check(data([]int{1, 2, 3}, statuses)).IsValid)
}

func TestBuildPricingNotice(t *testing.T) {
	check := Build(Config{
		Severity:        domain.SeverityError, // deliberately wrong; notice downgrades itself
		Message:         "{productName}: {count} teeth",
		PricingPerTooth: true,
	})
	r := check(data([]int{4, 5}, nil))
	require.False(t, r.IsValid)
	assert.Equal(t, domain.SeverityInfo, r.Severity)
	assert.True(t, r.CanProceed)
	assert.Equal(t, "Test Crown: 2 teeth", r.Message)

	assert.True(t, check(data(nil, nil)).IsValid, "no selection, no notice")
}

func TestBuildShortCircuitOrder(t *testing.T) {
	// Both the count bound and the status constraint would fail; the count
	// check runs first and is the only result.
	check := Build(Config{
		Severity:         domain.SeverityError,
		Message:          "count says {minNumber}",
		MinTeethCount:    intp(3),
		RequiredStatuses: []string{StatusPrepped},
	})
	r := check(data([]int{4}, map[int]string{4: StatusMissing}))
	require.False(t, r.IsValid)
	assert.Equal(t, "count says 3", r.Message)
}

func TestFill(t *testing.T) {
	assert.Equal(t, "a 1 b 2", fill("a {x} b {y}", map[string]string{"x": "1", "y": "2"}))
	assert.Equal(t, "{unknown} stays", fill("{unknown} stays", map[string]string{"x": "1"}))
	assert.Equal(t, "", fill("", map[string]string{"x": "1"}))
}

func TestTeethList(t *testing.T) {
	assert.Equal(t, "1, 2, 14", teethList([]int{1, 2, 14}))
	assert.Equal(t, "none", teethList(nil))
}
