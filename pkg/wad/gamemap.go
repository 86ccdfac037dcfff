package wad

import (
	"fmt"
	"math"
	"sort"
)

// MapInfo carries the engine-facing metadata for one level, decoded from the
// scan record.
type MapInfo struct {
	Levelnum   int      `json:"levelnum"`
	Cluster    int      `json:"cluster"`
	Title      string   `json:"title"`
	IsLookup   bool     `json:"is_lookup"`
	Music      string   `json:"music"`
	MusicTrack int      `json:"music_track"`
	Sky1       string   `json:"sky1"`
	Sky1Speed  float64  `json:"sky1speed"`
	Sky2       string   `json:"sky2"`
	Sky2Speed  float64  `json:"sky2speed"`
	Flags      []string `json:"flags"`
}

// Map is one level in the WAD: its locations, the keys that gate them, and
// the weapon/level-order information its access rule is computed from.
//
// The "can you get in at all" and "do you have enough gun" checks live here;
// "do you have the keys" lives on the individual Locations.
type Map struct {
	Name         string
	Checksum     string
	Info         MapInfo
	MonsterCount int
	// Rank is the position of this map in the WAD's scanned level order,
	// starting at 0. It drives level-order bias and weapon carryover.
	Rank        int
	ClusterName string

	// keysByType maps key typename to the FQIN of the Key that applies to
	// this map. The keyset of a map is exactly the keys whose map-set
	// contains it.
	keysByType map[string]string

	// LocalWeapons holds the names of non-secret, reachable weapons found in
	// this map; CarryoverWeapons the union of LocalWeapons over all
	// lower-ranked maps. Both are derived during FinalizeTuning, never
	// stored redundantly.
	LocalWeapons     map[string]struct{}
	CarryoverWeapons map[string]struct{}
	// PriorClears holds the clear-token names of all lower-ranked maps.
	PriorClears map[string]struct{}

	// LooseItems are pool items not tied to any location (access, automap),
	// added when this map is selected for play.
	LooseItems map[string]int

	// ExtraRules holds map-level tuning prerequisites not tied to a specific
	// location.
	ExtraRules *Reachable

	locations []int // arena indices into the owning WAD
}

func newMap(name, checksum string, info MapInfo, monsterCount, rank int, clusterName string) *Map {
	return &Map{
		Name:             name,
		Checksum:         checksum,
		Info:             info,
		MonsterCount:     monsterCount,
		Rank:             rank,
		ClusterName:      clusterName,
		keysByType:       make(map[string]string),
		LocalWeapons:     make(map[string]struct{}),
		CarryoverWeapons: make(map[string]struct{}),
		PriorClears:      make(map[string]struct{}),
		LooseItems:       make(map[string]int),
	}
}

func (m *Map) AccessTokenName() string { return fmt.Sprintf("Level Access (%s)", m.Name) }
func (m *Map) AutomapName() string     { return fmt.Sprintf("Automap (%s)", m.Name) }
func (m *Map) ClearTokenName() string  { return fmt.Sprintf("Level Clear (%s)", m.Name) }
func (m *Map) ExitLocationName() string {
	return fmt.Sprintf("%s - Exit", m.Name)
}

// KeyByType resolves a key typename to its FQIN within this map.
func (m *Map) KeyByType(typename string) (string, bool) {
	fqin, ok := m.keysByType[typename]
	return fqin, ok
}

// Keyset returns the FQINs of all keys that apply to this map, sorted.
func (m *Map) Keyset() []string {
	out := make([]string, 0, len(m.keysByType))
	for _, fqin := range m.keysByType {
		out = append(out, fqin)
	}
	sort.Strings(out)
	return out
}

// KeyTypenames returns the typenames of all keys in this map, sorted.
func (m *Map) KeyTypenames() []string {
	out := make([]string, 0, len(m.keysByType))
	for typename := range m.keysByType {
		out = append(out, typename)
	}
	sort.Strings(out)
	return out
}

// defaultKeyTokens is the pessimistic tuning default for untuned locations
// in this map: all keys known to exist here, as one AND set.
func (m *Map) defaultKeyTokens() TokenSet {
	ts := make(TokenSet, len(m.keysByType))
	for typename := range m.keysByType {
		ts["key/"+typename] = struct{}{}
	}
	return ts
}

// Locations returns this map's locations in registration order.
func (m *Map) Locations(w *WAD) []*Location {
	out := make([]*Location, 0, len(m.locations))
	for _, idx := range m.locations {
		out = append(out, w.locations[idx])
	}
	return out
}

// AllLocations filters this map's locations by skill and category set.
func (m *Map) AllLocations(w *WAD, skill int, categories map[string]struct{}) []*Location {
	var out []*Location
	for _, loc := range m.Locations(w) {
		if !loc.OnSkill(skill) {
			continue
		}
		if len(categories) > 0 {
			match := false
			for cat := range categories {
				if loc.HasCategory(cat) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, loc)
	}
	return out
}

// AddLooseItem registers a pool item not tied to any location.
func (m *Map) AddLooseItem(name string, count int) {
	m.LooseItems[name] += count
}

// StartingItems returns the items granted when this map is a starting level.
func (m *Map) StartingItems(world World, w *WAD) []string {
	items := []string{m.AccessTokenName()}
	if world.StartWithKeys() {
		for _, fqin := range m.Keyset() {
			items = append(items, w.keyInventoryName(fqin))
		}
	}
	return items
}

// AccessRule compiles this map's gating predicate: an ordered short-circuit
// chain over level access, extra map rules, and the weapon/level-order bias
// thresholds.
func (m *Map) AccessRule(world World, w *WAD) (Rule, error) {
	return m.compileAccessRule(world, w, make(map[string]bool))
}

func (m *Map) compileAccessRule(world World, w *WAD, visited map[string]bool) (Rule, error) {
	node := "map/" + m.Name
	visited[node] = true
	defer delete(visited, node)

	var extraBranches []Rule
	if m.ExtraRules != nil {
		prereqs, err := m.ExtraRules.Prereqs()
		if err != nil {
			return nil, err
		}
		for _, ts := range prereqs {
			branch, err := compilePrereqSet(world, w, m, ts, visited)
			if err != nil {
				return nil, err
			}
			extraBranches = append(extraBranches, branch)
		}
	}

	player := world.Player()
	return func(state State) bool {
		if world.PretuningMode() {
			return true
		}

		if !state.Has(m.AccessTokenName(), player) {
			return false
		}

		if len(extraBranches) > 0 && !anyBranch(extraBranches, state) {
			return false
		}

		// Starting levels are exempt from all balancing checks.
		if world.IsStartingMap(m.Name) {
			return true
		}

		// External trackers can request maximally permissive logic.
		if state.Has(world.GlitchItemName(), player) {
			return true
		}

		// With hub logic all maps share one world state; per-map weapon
		// balancing is meaningless.
		if w.HubLogic() {
			return true
		}

		if ownedCount(state, player, m.CarryoverWeapons) < roundBias(world.CarryoverWeaponBias(), len(m.CarryoverWeapons)) {
			return false
		}

		if ownedCount(state, player, m.LocalWeapons) < roundBias(world.LocalWeaponBias(), len(m.LocalWeapons)) {
			return false
		}

		if ownedCount(state, player, m.PriorClears) < roundBias(world.LevelOrderBias(), len(m.PriorClears)) {
			return false
		}

		return true
	}, nil
}

func anyBranch(branches []Rule, state State) bool {
	for _, branch := range branches {
		if branch(state) {
			return true
		}
	}
	return false
}

func ownedCount(state State, player int, names map[string]struct{}) int {
	n := 0
	for name := range names {
		if state.Has(name, player) {
			n++
		}
	}
	return n
}

// roundBias converts a percentage knob into a count threshold. Rounding is
// half-to-even: round(0.5) == 0, round(1.5) == 2. 0% disables the check
// entirely, 100% demands full compliance.
func roundBias(pct, n int) int {
	return int(math.RoundToEven(float64(pct) / 100 * float64(n)))
}
