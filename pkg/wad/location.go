package wad

import (
	"fmt"
)

// Location is a single placement target: a point, secret, or event in a map
// where a check can live.
//
// Identity is the enclosing map plus Position; two locations can never share
// a position within one skill table. The display name is derived from the
// map and the original item's tag, with a disambiguation suffix appended when
// several same-named locations collide.
type Location struct {
	Reachable

	Pos        Position
	ItemName   string // base display name; the original item's tag, or "Exit"/"Secret"
	Categories map[string]struct{}
	Skill      map[int]bool
	Secret     bool
	// RegionName is the enclosing sub-region within the map, if tuning has
	// assigned one.
	RegionName string

	origItem   int // arena index of the original item, -1 for bare markers
	lockedItem int // arena index of a forced placement, -1 if none
	suffix     string
	id         int
}

func newLocation(pos Position, itemName string, categories map[string]struct{}, skills []int, secret bool) *Location {
	loc := &Location{
		Pos:        pos,
		ItemName:   itemName,
		Categories: categories,
		Skill:      make(map[int]bool),
		Secret:     secret,
		origItem:   -1,
		lockedItem: -1,
	}
	for _, sk := range skills {
		loc.Skill[clampSkill(sk)] = true
	}
	return loc
}

// Name returns the display name: map, item tag, and whatever disambiguation
// suffix has been assigned. Stable only after disambiguation has run.
func (loc *Location) Name() string {
	name := fmt.Sprintf("%s - %s", loc.Pos.MapName(), loc.ItemName)
	if loc.suffix != "" {
		name += fmt.Sprintf(" [%s]", loc.suffix)
	}
	return name
}

// ID returns the globally assigned location ID. Valid after FinalizeLogic.
func (loc *Location) ID() int { return loc.id }

func (loc *Location) String() string {
	return fmt.Sprintf("Location#%d(%s @ %s)", loc.id, loc.Name(), loc.Pos)
}

func (loc *Location) HasCategory(cat string) bool {
	_, ok := loc.Categories[cat]
	return ok
}

// CategoryKey is the canonical hyphen-joined category set, used for bucket
// lookup during pool selection.
func (loc *Location) CategoryKey() string {
	return (&Item{Categories: loc.Categories}).CategoryKey()
}

func (loc *Location) categoryList() []string {
	return (&Item{Categories: loc.Categories}).categoryList()
}

// OnSkill reports whether this location exists at the given difficulty.
func (loc *Location) OnSkill(skill int) bool {
	return loc.Skill[clampSkill(skill)]
}

// OrigItem returns the item originally found here, or nil for bare markers
// like exits and secret sectors.
func (loc *Location) OrigItem(w *WAD) *Item {
	if loc.origItem < 0 {
		return nil
	}
	return w.items[loc.origItem]
}

// LockedItem returns the item forced into this location by vanilla placement
// or synthetic tokens, or nil.
func (loc *Location) LockedItem(w *WAD) *Item {
	if loc.lockedItem < 0 {
		return nil
	}
	return w.items[loc.lockedItem]
}

// LockItem forces an item placement (vanilla ratios, exit clear tokens).
func (loc *Location) LockItem(item *Item) {
	loc.lockedItem = item.arena
}

// AccessRule compiles this location's reachability predicate. On top of the
// shared rule chain, key locations get the sole-key exemption: a level cannot
// require its own only key to enter, so the sole copy of a key in a non-hub
// map must be reachable with zero prerequisites.
func (loc *Location) AccessRule(world World, w *WAD) (Rule, error) {
	m, ok := w.maps[loc.Pos.MapName()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMap, loc.Pos.MapName())
	}
	ov := ruleOverrides{}
	if w.soleKeyLocation(loc) {
		ov.fallback = func(State) bool { return true }
	}
	return loc.accessRule(world, w, m, ov, make(map[string]bool))
}
