// Package assignment holds the per-session tooth assignment state: which
// teeth are assigned to which extraction type in each arch, and which
// extraction type currently has focus.
package assignment

import (
	"sort"
	"sync"
	"time"

	"dentops/internal/domain"
)

// toggleDebounce suppresses duplicate UI click events on the same tooth.
const toggleDebounce = 120 * time.Millisecond

type key struct {
	typeName string
	arch     domain.Arch
}

type seedKey struct {
	productID string
	typeName  string
	arch      domain.Arch
}

// Change describes an effective teeth-selection change, delivered to
// subscribers so chart renderers can stay in sync.
type Change struct {
	TypeName string
	Arch     domain.Arch
	Teeth    []int
}

// Arena owns one session's assignment state. It is an explicitly injected
// object, not a singleton; sessions must not share one. Operations are total
// over valid inputs: unknown keys read as empty sets.
type Arena struct {
	mu         sync.Mutex
	teeth      map[key]map[int]struct{}
	writeSeq   uint64
	lastWrite  map[key]uint64
	active     string
	seeded     map[seedKey]struct{}
	lastToggle map[key]map[int]time.Time
	subs       []func(Change)
	now        func() time.Time
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{
		teeth:      make(map[key]map[int]struct{}),
		lastWrite:  make(map[key]uint64),
		seeded:     make(map[seedKey]struct{}),
		lastToggle: make(map[key]map[int]time.Time),
		now:        time.Now,
	}
}

// Subscribe registers a callback invoked after every effective selection
// change. Callbacks run synchronously on the mutating goroutine.
func (a *Arena) Subscribe(fn func(Change)) {
	a.mu.Lock()
	a.subs = append(a.subs, fn)
	a.mu.Unlock()
}

// Teeth returns the sorted teeth assigned to (typeName, arch). The returned
// slice is a copy.
func (a *Arena) Teeth(typeName string, arch domain.Arch) []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.teethLocked(key{typeName, arch})
}

func (a *Arena) teethLocked(k key) []int {
	set := a.teeth[k]
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// SetTeeth replaces the assignment for (typeName, arch). When preserveOthers
// is true, overlapping assignments under other types in the same arch are
// left alone; CleanupOverlaps resolves them later. When false, the written
// teeth are removed from every other type in the arch immediately.
func (a *Arena) SetTeeth(typeName string, arch domain.Arch, teeth []int, preserveOthers bool) {
	a.mu.Lock()
	k := key{typeName, arch}
	set := make(map[int]struct{}, len(teeth))
	for _, n := range teeth {
		if domain.InArch(n, arch) {
			set[n] = struct{}{}
		}
	}
	a.teeth[k] = set
	a.writeSeq++
	a.lastWrite[k] = a.writeSeq

	if !preserveOthers {
		for other := range a.teeth {
			if other == k || other.arch != arch {
				continue
			}
			for n := range set {
				delete(a.teeth[other], n)
			}
		}
	}
	change := Change{TypeName: typeName, Arch: arch, Teeth: a.teethLocked(k)}
	subs := a.subs
	a.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

// ActiveType returns the extraction type that currently has focus, or ""
// when none does.
func (a *Arena) ActiveType() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// SetActiveType focuses one extraction type for direct tooth clicks. The
// focus is global, not per arch; pass "" to clear it.
func (a *Arena) SetActiveType(name string) {
	a.mu.Lock()
	a.active = name
	a.mu.Unlock()
}

// ToggleTooth flips membership of a single tooth under the active extraction
// type. No-ops when no type is active, when the tooth is outside the arch,
// or when the same tooth was toggled within the debounce window.
func (a *Arena) ToggleTooth(arch domain.Arch, tooth int) bool {
	a.mu.Lock()
	if a.active == "" || !domain.InArch(tooth, arch) {
		a.mu.Unlock()
		return false
	}
	k := key{a.active, arch}

	now := a.now()
	if last, ok := a.lastToggle[k][tooth]; ok && now.Sub(last) < toggleDebounce {
		a.mu.Unlock()
		return false
	}
	if a.lastToggle[k] == nil {
		a.lastToggle[k] = make(map[int]time.Time)
	}
	a.lastToggle[k][tooth] = now

	set := a.teeth[k]
	if set == nil {
		set = make(map[int]struct{})
		a.teeth[k] = set
	}
	if _, ok := set[tooth]; ok {
		delete(set, tooth)
	} else {
		set[tooth] = struct{}{}
	}
	a.writeSeq++
	a.lastWrite[k] = a.writeSeq

	change := Change{TypeName: k.typeName, Arch: arch, Teeth: a.teethLocked(k)}
	subs := a.subs
	a.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
	return true
}

// CleanupOverlaps drops teeth that appear under more than one extraction
// type within an arch, keeping the most recently written type. Idempotent;
// safe to call unconditionally on every mount or reset.
func (a *Arena) CleanupOverlaps() {
	a.mu.Lock()
	type owner struct {
		k   key
		seq uint64
	}
	best := make(map[domain.Arch]map[int]owner)
	for k, set := range a.teeth {
		if best[k.arch] == nil {
			best[k.arch] = make(map[int]owner)
		}
		for n := range set {
			cur, ok := best[k.arch][n]
			if !ok || a.lastWrite[k] > cur.seq {
				best[k.arch][n] = owner{k: k, seq: a.lastWrite[k]}
			}
		}
	}
	for k, set := range a.teeth {
		for n := range set {
			if best[k.arch][n].k != k {
				delete(set, n)
			}
		}
	}
	a.mu.Unlock()
}

// SeedDefault assigns teeth to (typeName, arch) once per (product, type,
// arch), and only when nothing is assigned there yet. Returns whether the
// seed was applied. Subsequent user edits are never overwritten.
func (a *Arena) SeedDefault(productID, typeName string, arch domain.Arch, teeth []int) bool {
	sk := seedKey{productID, typeName, arch}
	a.mu.Lock()
	if _, done := a.seeded[sk]; done {
		a.mu.Unlock()
		return false
	}
	if len(a.teeth[key{typeName, arch}]) > 0 {
		a.seeded[sk] = struct{}{}
		a.mu.Unlock()
		return false
	}
	a.seeded[sk] = struct{}{}
	a.mu.Unlock()

	a.SetTeeth(typeName, arch, teeth, true)
	return true
}

// Statuses derives the canonical tooth -> extraction type map for an arch.
// When a tooth is assigned under several types, the most recently written
// type wins, mirroring CleanupOverlaps.
func (a *Arena) Statuses(arch domain.Arch) map[int]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[int]string)
	seq := make(map[int]uint64)
	for k, set := range a.teeth {
		if k.arch != arch {
			continue
		}
		for n := range set {
			if cur, ok := seq[n]; !ok || a.lastWrite[k] > cur {
				out[n] = k.typeName
				seq[n] = a.lastWrite[k]
			}
		}
	}
	return out
}

// SelectedTeeth returns every tooth currently assigned to any extraction
// type in the arch, sorted.
func (a *Arena) SelectedTeeth(arch domain.Arch) []int {
	statuses := a.Statuses(arch)
	out := make([]int, 0, len(statuses))
	for n := range statuses {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// TypesInArch lists every extraction type with at least one tooth assigned
// in the arch.
func (a *Arena) TypesInArch(arch domain.Arch) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for k, set := range a.teeth {
		if k.arch == arch && len(set) > 0 {
			out = append(out, k.typeName)
		}
	}
	sort.Strings(out)
	return out
}

// Clear drops every assignment in the given arch. Seed bookkeeping is kept
// so defaults are not re-applied over a deliberate clear.
func (a *Arena) Clear(arch domain.Arch) {
	a.mu.Lock()
	for k := range a.teeth {
		if k.arch == arch {
			delete(a.teeth, k)
			delete(a.lastWrite, k)
		}
	}
	a.mu.Unlock()
}

// Reset wipes all state, including seed bookkeeping and the active type.
// Used when the selected product changes.
func (a *Arena) Reset() {
	a.mu.Lock()
	a.teeth = make(map[key]map[int]struct{})
	a.lastWrite = make(map[key]uint64)
	a.seeded = make(map[seedKey]struct{})
	a.lastToggle = make(map[key]map[int]time.Time)
	a.active = ""
	a.writeSeq = 0
	a.mu.Unlock()
}

// Snapshot builds the immutable evaluation input for an arch. statuses may
// override the arena-derived map when the caller tracks status externally;
// pass nil to use the arena's own view.
func (a *Arena) Snapshot(arch domain.Arch, catalog domain.ExtractionCatalog, statuses map[int]string) domain.ValidationData {
	if statuses == nil {
		statuses = a.Statuses(arch)
	} else {
		copied := make(map[int]string, len(statuses))
		for n, s := range statuses {
			copied[n] = s
		}
		statuses = copied
	}
	selected := make([]int, 0, len(statuses))
	for n := range statuses {
		if domain.InArch(n, arch) {
			selected = append(selected, n)
		}
	}
	sort.Ints(selected)
	return domain.ValidationData{
		ProductName:   catalog.ProductName,
		Arch:          arch,
		SelectedTeeth: selected,
		ToothStatuses: statuses,
		Catalog:       catalog,
	}
}
