package wad

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wadrando/wadrando/pkg/logic"
)

// WAD is the aggregate root for one game world: every map, item, location,
// key, and region discovered by scanning and refined by tuning.
//
// Cross-references inside the model are arena indices and name lookups
// through the WAD, never back-pointers, so the whole structure stays acyclic
// and serializable. Lifecycle is construct, ingest, finalize (twice), then
// share read-only.
type WAD struct {
	Name  string
	Skill int

	flags    map[string]struct{}
	hubLogic bool
	hubExits []string

	maps     map[string]*Map
	mapOrder []string

	items     []*Item
	itemSlots map[string]regSlot

	locations []*Location
	locSlots  map[string]regSlot
	// locsByPos dedups locations by position, one table per skill: the same
	// physical point may hold different items per difficulty.
	locsByPos map[int]map[Position]int

	itemsByType map[string]*Item

	keys    map[string]*Key // by FQIN
	regions map[string]*Region

	logic *logic.Logic

	scanDone    bool
	idsAssigned bool
	tuned       bool

	untunedLocations int
}

type slotState int

const (
	slotUnset slotState = iota
	slotNeedsDisambiguation
	slotResolved
)

// regSlot is one name-registration slot. A slot left in the
// NeedsDisambiguation state remembers that a name was contested, so later
// arrivals with the same name are renamed immediately instead of colliding.
type regSlot struct {
	state slotState
	arena int
}

func New(name string, lg *logic.Logic) *WAD {
	return &WAD{
		Name:        name,
		Skill:       3,
		flags:       make(map[string]struct{}),
		maps:        make(map[string]*Map),
		itemSlots:   make(map[string]regSlot),
		locSlots:    make(map[string]regSlot),
		locsByPos:   map[int]map[Position]int{1: {}, 2: {}, 3: {}},
		itemsByType: make(map[string]*Item),
		keys:        make(map[string]*Key),
		regions:     make(map[string]*Region),
		logic:       lg,
	}
}

// SetFlags records WAD-wide behavior flags from the scan header.
func (w *WAD) SetFlags(flags []string) {
	for _, flag := range flags {
		w.flags[flag] = struct{}{}
		if flag == "use_hub_logic" {
			w.hubLogic = true
		}
		if rest, ok := strings.CutPrefix(flag, "hub_logic_exits="); ok {
			w.hubExits = strings.Split(rest, ",")
		}
	}
}

func (w *WAD) HubLogic() bool       { return w.hubLogic }
func (w *WAD) HubExits() []string   { return w.hubExits }
func (w *WAD) HasFlag(f string) bool { _, ok := w.flags[f]; return ok }

// NewMap registers a map definition from the scan, along with its synthetic
// access/automap/clear token items and exit location.
func (w *WAD) NewMap(name, checksum string, info MapInfo, monsterCount int, rank *int, clusterName string) error {
	if w.scanDone {
		return fmt.Errorf("%w: map %q", ErrFrozen, name)
	}
	if _, exists := w.maps[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateMap, name)
	}

	r := len(w.mapOrder)
	if rank != nil {
		r = *rank
	}
	m := newMap(name, checksum, info, monsterCount, r, clusterName)
	w.maps[name] = m
	w.mapOrder = append(w.mapOrder, name)

	access, err := w.registerItem(name, NewItem(name, "token", "", "Level Access", []int{1, 2, 3}))
	if err != nil {
		return err
	}
	automap, err := w.registerItem(name, NewItem(name, "map", "", "Automap", []int{1, 2, 3}))
	if err != nil {
		return err
	}
	clear, err := w.registerItem(name, NewItem(name, "token", "", "Level Clear", []int{1, 2, 3}))
	if err != nil {
		return err
	}
	m.AddLooseItem(access.Name(), 1)
	m.AddLooseItem(automap.Name(), 1)

	exit := newLocation(
		EventPosition{Map: name, EventType: "exit"},
		"Exit",
		splitCategories("token"),
		[]int{1, 2, 3},
		false,
	)
	exit.LockItem(clear)
	return w.registerLocation(m, exit)
}

// NewItem adds a scanned item to the pool and its position to the location
// table. Items we never randomize are dropped entirely: no ID, no location.
// name, when non-empty, overrides the location's display name.
func (w *WAD) NewItem(mapName, category, typename, tag string, pos []any, skills []int, secret bool, name string) error {
	if w.scanDone {
		return fmt.Errorf("%w: item %q", ErrFrozen, tag)
	}
	m, ok := w.maps[mapName]
	if !ok {
		return fmt.Errorf("%w: %q for item %q", ErrUnknownMap, mapName, tag)
	}
	if len(skills) == 0 {
		skills = []int{1, 2, 3}
	}

	item := NewItem(mapName, category, typename, tag, skills)
	item.Secret = secret
	if !item.CanReplace() {
		return nil
	}

	position, err := ToPosition(mapName, pos)
	if err != nil {
		return err
	}

	displayName := tag
	if name != "" {
		displayName = name
	}
	loc := newLocation(position, displayName, item.Categories, skills, secret)

	if item.ShouldInclude() {
		registered, err := w.registerItem(mapName, item)
		if err != nil {
			return err
		}
		loc.origItem = registered.arena
	}

	return w.registerLocation(m, loc)
}

// NewSecret adds a secret marker location with no backing item.
func (w *WAD) NewSecret(mapName string, pos []any, skills []int, name string) error {
	if w.scanDone {
		return fmt.Errorf("%w: secret in %q", ErrFrozen, mapName)
	}
	m, ok := w.maps[mapName]
	if !ok {
		return fmt.Errorf("%w: %q for secret", ErrUnknownMap, mapName)
	}
	if len(skills) == 0 {
		skills = []int{1, 2, 3}
	}
	position, err := ToPosition(mapName, pos)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Secret"
	}
	loc := newLocation(position, name, splitCategories("secret"), skills, true)
	return w.registerLocation(m, loc)
}

// NewKey registers a key record. A key already known under a narrower scope
// (one map) is retroactively replaced by the wider one: the per-map key items
// merge into a single scoped item, and every map in the key's map-set points
// at the new FQIN.
func (w *WAD) NewKey(tag, typename, scopename string, cluster int, mapNames []string) error {
	if w.tuned {
		return fmt.Errorf("%w: key %q", ErrFrozen, typename)
	}
	fqin := (&Key{Typename: typename, Scope: scopename}).FQIN()

	key, exists := w.keys[fqin]
	if !exists {
		key = &Key{
			Tag:      tag,
			Typename: typename,
			Scope:    scopename,
			Cluster:  cluster,
			Maps:     make(map[string]struct{}),
		}
		w.keys[fqin] = key
	}

	for _, mapName := range mapNames {
		m, ok := w.maps[mapName]
		if !ok {
			return fmt.Errorf("%w: %q for key %q", ErrUnknownMap, mapName, typename)
		}
		key.Maps[mapName] = struct{}{}

		if oldFQIN, ok := m.keysByType[typename]; ok && oldFQIN != fqin {
			if err := w.mergeNarrowKey(oldFQIN, key); err != nil {
				return err
			}
		}
		m.keysByType[typename] = fqin
	}
	return nil
}

// mergeNarrowKey folds a single-map key into a wider key discovered later.
// The narrow key's pool item is rescoped to the wide key's scope name; if the
// wide key already has an item (another narrow key was widened first), the
// two items merge and the arena slot is aliased so existing location
// references resolve to the survivor.
func (w *WAD) mergeNarrowKey(oldFQIN string, wide *Key) error {
	oldKey, ok := w.keys[oldFQIN]
	delete(w.keys, oldFQIN)
	if !ok || oldKey.ItemName == "" {
		return nil
	}

	slot, ok := w.itemSlots[oldKey.ItemName]
	if !ok || slot.state != slotResolved {
		return nil
	}
	old := w.items[slot.arena]
	oldName := old.Name()
	old.ScopeName = wide.Scope
	newName := old.Name()

	delete(w.itemSlots, oldName)

	if target, ok := w.itemSlots[newName]; ok && target.state == slotResolved {
		survivor := w.items[target.arena]
		survivor.MergeCounts(old)
		w.items[slot.arena] = survivor
		wide.ItemName = newName
		if w.idsAssigned {
			return w.logic.RemoveItem(oldName)
		}
		return nil
	}

	w.itemSlots[newName] = slot
	wide.ItemName = newName
	if w.idsAssigned {
		if err := w.logic.RenameItem(oldName, newName); err != nil {
			return err
		}
	}
	return nil
}

// registerItem adds an item to the arena, or merges it into an identical
// existing item. Name collisions between distinct items flip both onto
// typename-suffixed names; a collision that survives that is fatal.
func (w *WAD) registerItem(mapName string, item *Item) (*Item, error) {
	name := item.Name()
	slot, ok := w.itemSlots[name]
	if !ok {
		item.arena = len(w.items)
		w.items = append(w.items, item)
		w.itemSlots[name] = regSlot{state: slotResolved, arena: item.arena}
		w.trackItem(mapName, item)
		return item, nil
	}

	switch slot.state {
	case slotNeedsDisambiguation:
		if item.Disambiguate {
			return nil, fmt.Errorf("%w: item %q", ErrNameCollision, name)
		}
		item.Disambiguate = true
		return w.registerItem(mapName, item)

	case slotResolved:
		other := w.items[slot.arena]
		if other.SameIdentity(item) {
			other.MergeCounts(item)
			w.trackItem(mapName, other)
			return other, nil
		}
		if item.Disambiguate || other.Disambiguate {
			return nil, fmt.Errorf("%w: item %q", ErrNameCollision, name)
		}
		// Leave the contested name in the NeedsDisambiguation state so any
		// later item landing on it gets renamed up front.
		w.itemSlots[name] = regSlot{state: slotNeedsDisambiguation}
		other.Disambiguate = true
		item.Disambiguate = true
		if _, err := w.registerItem("", other); err != nil {
			return nil, err
		}
		w.refreshKeyItemName(other)
		return w.registerItem(mapName, item)
	}
	return nil, fmt.Errorf("%w: item %q", ErrNameCollision, name)
}

// trackItem updates per-map key tracking and the typename index.
func (w *WAD) trackItem(mapName string, item *Item) {
	if item.Typename != "" {
		if _, ok := w.itemsByType[item.Typename]; !ok {
			w.itemsByType[item.Typename] = item
		}
	}
	if mapName == "" || !item.HasCategory("key") {
		return
	}
	m := w.maps[mapName]
	if m == nil {
		return
	}
	fqin := (&Key{Typename: item.Typename, Scope: item.ScopeName}).FQIN()
	key, ok := w.keys[fqin]
	if !ok {
		key = &Key{
			Tag:      item.Tag,
			Typename: item.Typename,
			Scope:    item.ScopeName,
			Maps:     make(map[string]struct{}),
		}
		w.keys[fqin] = key
	}
	key.Maps[mapName] = struct{}{}
	key.ItemName = item.Name()
	if _, ok := m.keysByType[item.Typename]; !ok {
		m.keysByType[item.Typename] = fqin
	}
}

// refreshKeyItemName re-records a key item's display name after a
// disambiguation rename.
func (w *WAD) refreshKeyItemName(item *Item) {
	if !item.HasCategory("key") {
		return
	}
	fqin := (&Key{Typename: item.Typename, Scope: item.ScopeName}).FQIN()
	if key, ok := w.keys[fqin]; ok {
		key.ItemName = item.Name()
	}
}

// keyInventoryName maps a key FQIN to the inventory name its pool item is
// registered under.
func (w *WAD) keyInventoryName(fqin string) string {
	if key, ok := w.keys[fqin]; ok {
		return key.InventoryName()
	}
	return fqin
}

// registerLocation adds a location unless its position is already taken on
// every skill it appears on. Duplicate positions are silently dropped.
func (w *WAD) registerLocation(m *Map, loc *Location) error {
	freeSkills := make(map[int]bool)
	for sk := range loc.Skill {
		if _, taken := w.locsByPos[sk][loc.Pos]; !taken {
			freeSkills[sk] = true
		}
	}
	if len(freeSkills) == 0 {
		return nil
	}
	loc.Skill = freeSkills

	idx := len(w.locations)
	w.locations = append(w.locations, loc)
	m.locations = append(m.locations, idx)
	for sk := range freeSkills {
		w.locsByPos[sk][loc.Pos] = idx
	}
	return nil
}

// TuneLocation folds one tuning record into the model. The record is routed
// by name: a map name feeds that map's extra rules, "MAP/region" feeds the
// region, anything else is a location. Unknown location names are reported
// as ErrUnknownLocation so the loader can skip stale tuning without
// aborting.
func (w *WAD) TuneLocation(name string, keys []string, region string, unreachable *bool) error {
	if !w.scanDone {
		return fmt.Errorf("tuning record for %q before scan completed", name)
	}

	if m, ok := w.maps[name]; ok {
		if m.ExtraRules == nil {
			m.ExtraRules = &Reachable{}
		}
		return m.ExtraRules.Record(keys, unreachable)
	}

	if mapName, sub, ok := strings.Cut(name, "/"); ok {
		if _, exists := w.maps[mapName]; exists {
			return w.regionFor(mapName, sub).RecordTuning(keys, unreachable)
		}
	}

	slot, ok := w.locSlots[name]
	if !ok || slot.state != slotResolved {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	loc := w.locations[slot.arena]

	if region != "" {
		loc.RegionName = region
		if err := w.regionFor(loc.Pos.MapName(), region).RecordTuning(keys, unreachable); err != nil {
			return err
		}
	}
	return loc.Record(keys, unreachable)
}

func (w *WAD) regionFor(mapName, sub string) *Region {
	name := mapName + "/" + sub
	r, ok := w.regions[name]
	if !ok {
		r = newRegion(mapName, sub)
		w.regions[name] = r
	}
	return r
}

// FinalizeScan is phase one: freeze registration, disambiguate all names,
// and assign global IDs. Runs once, triggered by the scan-complete record.
func (w *WAD) FinalizeScan(skill int) error {
	if w.scanDone {
		return fmt.Errorf("%w: scan", ErrAlreadyFinalized)
	}
	if skill != 0 {
		w.Skill = clampSkill(skill)
	}
	w.scanDone = true
	return w.finalizeLogic()
}

func (w *WAD) finalizeLogic() error {
	for _, name := range w.mapOrder {
		if err := w.disambiguateInMap(w.maps[name]); err != nil {
			return err
		}
	}

	// Bind the (now final) location names, then assign IDs from the shared
	// registry in registration order. Item arena order and location arena
	// order are both deterministic given identical input, which makes the
	// ID assignment replayable.
	for idx, loc := range w.locations {
		name := loc.Name()
		if prev, ok := w.locSlots[name]; ok && prev.arena != idx {
			return fmt.Errorf("%w: location %q", ErrNameCollision, name)
		}
		w.locSlots[name] = regSlot{state: slotResolved, arena: idx}
	}

	seen := make(map[*Item]bool)
	for _, item := range w.items {
		if seen[item] {
			continue
		}
		seen[item] = true
		item.id = w.logic.RegisterItem(item.Name(), item.categoryList())
	}
	for _, loc := range w.locations {
		loc.id = w.logic.RegisterLocation(loc.Name(), loc.categoryList())
	}
	w.idsAssigned = true
	return nil
}

// disambiguateInMap splits every group of same-named locations in a map into
// uniquely-named singletons: compass suffix first, then (x,y), then (x,y,z),
// then a final ordinal for coordinate-less or skill-split twins.
func (w *WAD) disambiguateInMap(m *Map) error {
	bbox := newBoundingBox()
	for _, loc := range m.Locations(w) {
		if cp, ok := loc.Pos.(CoordPosition); ok {
			bbox.addPoint(float64(cp.X), float64(cp.Y))
		}
	}

	groups := make(map[string][]*Location)
	order := []string{}
	for _, loc := range m.Locations(w) {
		name := loc.Name()
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], loc)
	}

	for _, name := range order {
		group := groups[name]
		if len(group) > 1 {
			splitGroup(bbox, group, 1)
		}
	}
	return nil
}

func splitGroup(bbox *boundingBox, group []*Location, stage int) {
	if stage > 4 {
		return
	}
	bins := make(map[string][]*Location)
	binOrder := []string{}
	for i, loc := range group {
		suffix := locationSuffix(bbox, loc, stage, i)
		loc.suffix = suffix
		if _, ok := bins[suffix]; !ok {
			binOrder = append(binOrder, suffix)
		}
		bins[suffix] = append(bins[suffix], loc)
	}
	for _, suffix := range binOrder {
		if bin := bins[suffix]; len(bin) > 1 {
			splitGroup(bbox, bin, stage+1)
		}
	}
}

func locationSuffix(bbox *boundingBox, loc *Location, stage, ordinal int) string {
	cp, hasCoords := loc.Pos.(CoordPosition)
	if !hasCoords {
		switch p := loc.Pos.(type) {
		case SecretPosition:
			if stage < 4 {
				return fmt.Sprintf("%s %d", p.SecretType, p.SecretID)
			}
		case EventPosition:
			if stage < 4 {
				return p.EventType
			}
		}
		return fmt.Sprintf("#%d", ordinal+1)
	}
	switch stage {
	case 1:
		return bbox.positionName(float64(cp.X), float64(cp.Y))
	case 2:
		return fmt.Sprintf("%d,%d", cp.X, cp.Y)
	case 3:
		return fmt.Sprintf("%d,%d,%d", cp.X, cp.Y, cp.Z)
	default:
		return fmt.Sprintf("#%d", ordinal+1)
	}
}

// FinalizeTuning is phase two: derive weapon/clear priors, freeze every
// reachability node with its pessimistic default, and apply pool caps. Runs
// once, after every tuning file for this WAD has been ingested.
func (w *WAD) FinalizeTuning() error {
	if !w.idsAssigned {
		return fmt.Errorf("%w: tuning finalized before logic", ErrNotFinalized)
	}
	if w.tuned {
		return fmt.Errorf("%w: tuning", ErrAlreadyFinalized)
	}

	w.buildPriors()

	for _, loc := range w.locations {
		if err := loc.Finalize(w.locationDefault(loc)); err != nil {
			return err
		}
	}
	for _, name := range w.regionNames() {
		if err := w.regions[name].FinalizeTuning(); err != nil {
			return err
		}
	}
	for _, name := range w.mapOrder {
		m := w.maps[name]
		if m.ExtraRules != nil {
			if err := m.ExtraRules.Finalize(nil); err != nil {
				return err
			}
		}
	}

	maxGuns := len(w.maps) / 8
	if maxGuns < 1 {
		maxGuns = 1
	}
	seen := make(map[*Item]bool)
	for _, item := range w.items {
		if seen[item] {
			continue
		}
		seen[item] = true
		if item.HasCategory("weapon") {
			item.setMaxCount(maxGuns)
		} else if item.HasCategory("key") {
			item.setMaxCount(1)
		}
	}

	w.tuned = true
	return nil
}

// locationDefault is the pessimistic default for a location with no tuning
// evidence: defer to the enclosing region if one is known, exempt the sole
// key of a non-hub map, otherwise demand every key in the map.
func (w *WAD) locationDefault(loc *Location) []TokenSet {
	if loc.HasTuning() {
		return nil
	}
	if loc.RegionName != "" {
		return []TokenSet{NewTokenSet([]string{"map/" + loc.Pos.MapName() + "/" + loc.RegionName})}
	}
	if w.soleKeyLocation(loc) {
		return []TokenSet{{}}
	}
	w.untunedLocations++
	return []TokenSet{w.maps[loc.Pos.MapName()].defaultKeyTokens()}
}

// buildPriors recomputes the derived per-map weapon and clear-token sets
// from location contents, in rank order.
func (w *WAD) buildPriors() {
	ranked := w.AllMaps()

	for _, m := range ranked {
		m.LocalWeapons = make(map[string]struct{})
		for _, loc := range m.Locations(w) {
			item := loc.OrigItem(w)
			if item == nil || loc.Secret || loc.Unreachable() {
				continue
			}
			if item.HasCategory("weapon") {
				m.LocalWeapons[item.Name()] = struct{}{}
			}
		}
	}

	clears := make(map[string]struct{})
	carryover := make(map[string]struct{})
	for _, m := range ranked {
		m.PriorClears = copySet(clears)
		m.CarryoverWeapons = copySet(carryover)
		clears[m.ClearTokenName()] = struct{}{}
		for name := range m.LocalWeapons {
			carryover[name] = struct{}{}
		}
	}
}

// soleKeyLocation reports whether loc holds the only non-secret copy of its
// key type in a non-hub map. Such a location must be reachable bare-handed:
// a level cannot require its own sole key to enter. Maps with several copies
// of one key type are deliberately not exempted.
func (w *WAD) soleKeyLocation(loc *Location) bool {
	item := loc.OrigItem(w)
	if item == nil || !item.HasCategory("key") || w.hubLogic {
		return false
	}
	m := w.maps[loc.Pos.MapName()]
	copies := 0
	for _, other := range m.Locations(w) {
		oi := other.OrigItem(w)
		if oi != nil && !other.Secret && oi.Typename == item.Typename && oi.HasCategory("key") {
			copies++
		}
	}
	return copies == 1
}

// Queries. All of these require the relevant finalize phase to have run.

func (w *WAD) Tuned() bool    { return w.tuned }
func (w *WAD) ScanDone() bool { return w.scanDone }

// Item resolves an item by display name.
func (w *WAD) Item(name string) (*Item, error) {
	slot, ok := w.itemSlots[name]
	if !ok || slot.state != slotResolved {
		return nil, fmt.Errorf("unknown item %q in %s", name, w.Name)
	}
	return w.items[slot.arena], nil
}

func (w *WAD) itemByType(typename string) *Item {
	return w.itemsByType[typename]
}

// GetMap resolves a map by lump name.
func (w *WAD) GetMap(name string) (*Map, error) {
	m, ok := w.maps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownMap, name, w.Name)
	}
	return m, nil
}

// AllMaps returns the maps in rank order.
func (w *WAD) AllMaps() []*Map {
	out := make([]*Map, 0, len(w.maps))
	for _, name := range w.mapOrder {
		out = append(out, w.maps[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// AllLocations returns every location in registration order.
func (w *WAD) AllLocations() []*Location {
	return append([]*Location{}, w.locations...)
}

// Location resolves a location by display name.
func (w *WAD) Location(name string) (*Location, error) {
	slot, ok := w.locSlots[name]
	if !ok || slot.state != slotResolved {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return w.locations[slot.arena], nil
}

// Items returns every distinct item in registration order.
func (w *WAD) Items() []*Item {
	seen := make(map[*Item]bool)
	var out []*Item
	for _, item := range w.items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func (w *WAD) ProgressionItems() []*Item { return w.itemsWhere((*Item).IsProgression) }
func (w *WAD) UsefulItems() []*Item      { return w.itemsWhere((*Item).IsUseful) }
func (w *WAD) FillerItems() []*Item      { return w.itemsWhere((*Item).IsFiller) }

func (w *WAD) itemsWhere(pred func(*Item) bool) []*Item {
	var out []*Item
	for _, item := range w.Items() {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// KeysForMap returns the keys applying to a map, sorted by FQIN.
func (w *WAD) KeysForMap(mapName string) []*Key {
	var out []*Key
	for _, fqin := range w.keyNames() {
		if w.keys[fqin].AppliesTo(mapName) {
			out = append(out, w.keys[fqin])
		}
	}
	return out
}

// Regions returns all known regions sorted by name.
func (w *WAD) Regions() []*Region {
	var out []*Region
	for _, name := range w.regionNames() {
		out = append(out, w.regions[name])
	}
	return out
}

// UntunedLocations is the count of locations that fell back to the
// pessimistic full-keyset default, reported as a soft warning after load.
func (w *WAD) UntunedLocations() int { return w.untunedLocations }

func (w *WAD) keyNames() []string {
	out := make([]string, 0, len(w.keys))
	for name := range w.keys {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (w *WAD) regionNames() []string {
	out := make([]string, 0, len(w.regions))
	for name := range w.regions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
