// Package logic holds the shared ID registry for all loaded WADs.
//
// Items and locations draw their IDs from one monotonic counter, so an ID can
// only ever be one or the other, and the same scan input always reproduces
// the same assignment. The IDs are persisted by the host randomizer, so
// stability across runs is a hard requirement, not an optimization.
package logic

import (
	"fmt"
	"sort"
	"strings"
)

// Logic is the cross-WAD registry of item and location names, IDs, and
// category groups. It is constructed once, passed explicitly to every loader,
// and becomes read-only after loading completes; there is no ambient global
// instance.
type Logic struct {
	lastID int

	itemIDs     map[string]int
	locationIDs map[string]int

	// Category name -> set of member names, for every hyphen-composable
	// subcategory combination ("big", "ammo", and "big-ammo" all index a
	// big-ammo item).
	itemGroups     map[string]map[string]struct{}
	locationGroups map[string]map[string]struct{}
}

func New() *Logic {
	return &Logic{
		itemIDs:        make(map[string]int),
		locationIDs:    make(map[string]int),
		itemGroups:     make(map[string]map[string]struct{}),
		locationGroups: make(map[string]map[string]struct{}),
	}
}

func (l *Logic) nextID() int {
	l.lastID++
	return l.lastID
}

// RegisterItem assigns (or returns the already-assigned) ID for an item name.
// The same name can be backed by different items in different WADs; resolving
// those collisions is the owning WAD's job, not the registry's.
func (l *Logic) RegisterItem(name string, categories []string) int {
	id, ok := l.itemIDs[name]
	if !ok {
		id = l.nextID()
		l.itemIDs[name] = id
	}
	for _, cat := range subcategoryStrings(categories) {
		group, ok := l.itemGroups[cat]
		if !ok {
			group = make(map[string]struct{})
			l.itemGroups[cat] = group
		}
		group[name] = struct{}{}
	}
	return id
}

// RegisterLocation assigns (or returns the already-assigned) ID for a
// location name.
func (l *Logic) RegisterLocation(name string, categories []string) int {
	id, ok := l.locationIDs[name]
	if !ok {
		id = l.nextID()
		l.locationIDs[name] = id
	}
	for _, cat := range subcategoryStrings(categories) {
		group, ok := l.locationGroups[cat]
		if !ok {
			group = make(map[string]struct{})
			l.locationGroups[cat] = group
		}
		group[name] = struct{}{}
	}
	return id
}

// RenameItem moves an already-assigned ID to a new name. Used when a key
// discovered with wider scope during tuning replaces the narrower single-map
// item that was registered during the scan.
func (l *Logic) RenameItem(oldName, newName string) error {
	id, ok := l.itemIDs[oldName]
	if !ok {
		return fmt.Errorf("rename of unregistered item %q", oldName)
	}
	if _, exists := l.itemIDs[newName]; exists {
		return fmt.Errorf("rename target %q already registered", newName)
	}
	delete(l.itemIDs, oldName)
	l.itemIDs[newName] = id
	for _, group := range l.itemGroups {
		if _, ok := group[oldName]; ok {
			delete(group, oldName)
			group[newName] = struct{}{}
		}
	}
	return nil
}

// RemoveItem drops a name from the registry. Used when a narrow key item
// merges into an already-widened item and nothing is left behind the old
// name. The ID is retired, never reused.
func (l *Logic) RemoveItem(name string) error {
	if _, ok := l.itemIDs[name]; !ok {
		return fmt.Errorf("remove of unregistered item %q", name)
	}
	delete(l.itemIDs, name)
	for _, group := range l.itemGroups {
		delete(group, name)
	}
	return nil
}

// ItemIDs returns a copy of the item name -> ID table.
func (l *Logic) ItemIDs() map[string]int { return copyIDs(l.itemIDs) }

// LocationIDs returns a copy of the location name -> ID table.
func (l *Logic) LocationIDs() map[string]int { return copyIDs(l.locationIDs) }

// ItemGroups returns a copy of the category -> item names table.
func (l *Logic) ItemGroups() map[string][]string { return copyGroups(l.itemGroups) }

// LocationGroups returns a copy of the category -> location names table.
func (l *Logic) LocationGroups() map[string][]string { return copyGroups(l.locationGroups) }

// Categories returns all known item and location category strings, sorted.
func (l *Logic) Categories() []string {
	seen := make(map[string]struct{}, len(l.itemGroups)+len(l.locationGroups))
	for cat := range l.itemGroups {
		seen[cat] = struct{}{}
	}
	for cat := range l.locationGroups {
		seen[cat] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

func copyIDs(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for name, id := range in {
		out[name] = id
	}
	return out
}

func copyGroups(in map[string]map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(in))
	for cat, members := range in {
		names := make([]string, 0, len(members))
		for name := range members {
			names = append(names, name)
		}
		sort.Strings(names)
		out[cat] = names
	}
	return out
}

// subcategoryStrings expands a category set into every sorted, hyphen-joined
// combination of its members.
func subcategoryStrings(categories []string) []string {
	cats := append([]string{}, categories...)
	sort.Strings(cats)
	var out []string
	n := len(cats)
	for mask := 1; mask < 1<<n; mask++ {
		var parts []string
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				parts = append(parts, cats[i])
			}
		}
		out = append(out, strings.Join(parts, "-"))
	}
	return out
}
