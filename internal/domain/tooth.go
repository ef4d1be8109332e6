package domain

// Tooth numbers follow the universal numbering system: 1-16 maxillary
// (upper), 17-32 mandibular (lower).
const (
	FirstTooth = 1
	LastTooth  = 32

	MaxillaryFirst  = 1
	MaxillaryLast   = 16
	MandibularFirst = 17
	MandibularLast  = 32
)

// Arch identifies one of the two dental rows.
type Arch string

const (
	ArchMaxillary  Arch = "maxillary"
	ArchMandibular Arch = "mandibular"
)

// ToothType classifies a tooth by its position in the arch.
type ToothType string

const (
	ToothAnterior ToothType = "anterior"
	ToothPremolar ToothType = "premolar"
	ToothMolar    ToothType = "molar"
)

// ValidTooth reports whether n is a real tooth number.
func ValidTooth(n int) bool {
	return n >= FirstTooth && n <= LastTooth
}

// ArchOf returns the arch a tooth belongs to. The zero Arch is returned for
// numbers outside 1-32.
func ArchOf(n int) Arch {
	switch {
	case n >= MaxillaryFirst && n <= MaxillaryLast:
		return ArchMaxillary
	case n >= MandibularFirst && n <= MandibularLast:
		return ArchMandibular
	}
	return ""
}

// ArchTeeth returns all tooth numbers in the given arch, ascending.
func ArchTeeth(arch Arch) []int {
	var first, last int
	switch arch {
	case ArchMaxillary:
		first, last = MaxillaryFirst, MaxillaryLast
	case ArchMandibular:
		first, last = MandibularFirst, MandibularLast
	default:
		return nil
	}
	teeth := make([]int, 0, last-first+1)
	for n := first; n <= last; n++ {
		teeth = append(teeth, n)
	}
	return teeth
}

// TypeOf classifies a tooth number. Molars: 1-3, 14-19, 30-32. Premolars:
// 4-5, 12-13, 20-21, 28-29. Everything between is anterior.
func TypeOf(n int) ToothType {
	switch {
	case (n >= 1 && n <= 3) || (n >= 14 && n <= 19) || (n >= 30 && n <= 32):
		return ToothMolar
	case n == 4 || n == 5 || n == 12 || n == 13 || n == 20 || n == 21 || n == 28 || n == 29:
		return ToothPremolar
	case ValidTooth(n):
		return ToothAnterior
	}
	return ""
}

// InArch reports whether tooth n belongs to the given arch.
func InArch(n int, arch Arch) bool {
	return ArchOf(n) == arch
}
