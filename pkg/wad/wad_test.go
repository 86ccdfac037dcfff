package wad

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/wadrando/wadrando/pkg/logic"
)

func at(x, y, z float64) []any {
	return []any{x, y, z}
}

func addMap(t *testing.T, w *WAD, name string) {
	t.Helper()
	if err := w.NewMap(name, "cksum", MapInfo{Title: name}, 10, nil, ""); err != nil {
		t.Fatalf("NewMap(%s) error: %v", name, err)
	}
}

func addItem(t *testing.T, w *WAD, mapName, category, typename, tag string, pos []any) {
	t.Helper()
	if err := w.NewItem(mapName, category, typename, tag, pos, nil, false, ""); err != nil {
		t.Fatalf("NewItem(%s, %s) error: %v", mapName, tag, err)
	}
}

func finalize(t *testing.T, w *WAD) {
	t.Helper()
	if err := w.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}
	if err := w.FinalizeTuning(); err != nil {
		t.Fatalf("FinalizeTuning() error: %v", err)
	}
}

func locRule(t *testing.T, w *WAD, name string) Rule {
	t.Helper()
	loc, err := w.Location(name)
	if err != nil {
		t.Fatalf("Location(%s) error: %v", name, err)
	}
	rule, err := loc.AccessRule(newTestWorld(), w)
	if err != nil {
		t.Fatalf("AccessRule(%s) error: %v", name, err)
	}
	return rule
}

func TestSoleKeyLocationExemption(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "key", "RedCard", "Red Keycard", at(0, 0, 0))
	finalize(t, w)

	loc, err := w.Location("MAP01 - Red Keycard")
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	pr, err := loc.Prereqs()
	if err != nil {
		t.Fatalf("Prereqs() error: %v", err)
	}
	if len(pr) != 1 || len(pr[0]) != 0 {
		t.Errorf("sole key prereqs = %v, want one empty set", pr)
	}
	if !locRule(t, w, "MAP01 - Red Keycard")(testState{}) {
		t.Error("sole key location not reachable bare-handed")
	}
}

func TestUntunedLocationRequiresAllKeys(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "key", "RedCard", "Red Keycard", at(0, 0, 0))
	addItem(t, w, "MAP01", "key", "BlueCard", "Blue Keycard", at(100, 100, 0))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 0, 0))
	finalize(t, w)

	loc, err := w.Location("MAP01 - Shotgun")
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	pr, err := loc.Prereqs()
	if err != nil {
		t.Fatalf("Prereqs() error: %v", err)
	}
	want := sets([]string{"RedCard", "BlueCard"})
	if !reflect.DeepEqual(pr, want) {
		t.Errorf("untuned prereqs = %v, want %v", pr, want)
	}

	rule := locRule(t, w, "MAP01 - Shotgun")
	if rule(testState{}) {
		t.Error("reachable with no keys")
	}
	if rule(testState{"Red Keycard (MAP01)": true}) {
		t.Error("reachable with one of two keys")
	}
	if !rule(testState{"Red Keycard (MAP01)": true, "Blue Keycard (MAP01)": true}) {
		t.Error("unreachable with all keys")
	}

	// The shotgun and the exit both fell back to the pessimistic default.
	if got := w.UntunedLocations(); got != 2 {
		t.Errorf("UntunedLocations() = %d, want 2", got)
	}
}

func TestTuningOverridesDefault(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "key", "RedCard", "Red Keycard", at(0, 0, 0))
	addItem(t, w, "MAP01", "key", "BlueCard", "Blue Keycard", at(100, 100, 0))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 0, 0))
	if err := w.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}

	// A narrower observation later in the log supersedes a wider one.
	if err := w.TuneLocation("MAP01 - Shotgun", []string{"RedCard", "BlueCard"}, "", nil); err != nil {
		t.Fatalf("TuneLocation() error: %v", err)
	}
	if err := w.TuneLocation("MAP01 - Shotgun", []string{"RedCard"}, "", nil); err != nil {
		t.Fatalf("TuneLocation() error: %v", err)
	}
	if err := w.FinalizeTuning(); err != nil {
		t.Fatalf("FinalizeTuning() error: %v", err)
	}

	loc, err := w.Location("MAP01 - Shotgun")
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	pr, err := loc.Prereqs()
	if err != nil {
		t.Fatalf("Prereqs() error: %v", err)
	}
	if !reflect.DeepEqual(pr, sets([]string{"RedCard"})) {
		t.Errorf("tuned prereqs = %v, want {{key/RedCard}}", pr)
	}
	if !locRule(t, w, "MAP01 - Shotgun")(testState{"Red Keycard (MAP01)": true}) {
		t.Error("unreachable with the observed-sufficient key")
	}
}

func TestDisjointTuningBranches(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "key", "RedCard", "Red Keycard", at(0, 0, 0))
	addItem(t, w, "MAP01", "key", "BlueCard", "Blue Keycard", at(100, 100, 0))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 0, 0))
	if err := w.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}
	if err := w.TuneLocation("MAP01 - Shotgun", []string{"RedCard"}, "", nil); err != nil {
		t.Fatalf("TuneLocation() error: %v", err)
	}
	if err := w.TuneLocation("MAP01 - Shotgun", []string{"BlueCard"}, "", nil); err != nil {
		t.Fatalf("TuneLocation() error: %v", err)
	}
	if err := w.FinalizeTuning(); err != nil {
		t.Fatalf("FinalizeTuning() error: %v", err)
	}

	rule := locRule(t, w, "MAP01 - Shotgun")
	if !rule(testState{"Red Keycard (MAP01)": true}) {
		t.Error("first branch not honored")
	}
	if !rule(testState{"Blue Keycard (MAP01)": true}) {
		t.Error("second branch not honored")
	}
	if rule(testState{}) {
		t.Error("reachable with neither key")
	}
}

func TestTuningRouting(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "key", "BlueCard", "Blue Keycard", at(0, 0, 0))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 0, 0))

	if err := w.TuneLocation("MAP01 - Shotgun", nil, "", nil); err == nil {
		t.Error("TuneLocation() before scan completed, want error")
	}
	if err := w.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}

	if err := w.TuneLocation("MAP99 - Nothing", nil, "", nil); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("unknown location error = %v, want ErrUnknownLocation", err)
	}

	// A record addressed to a map feeds its extra rules.
	if err := w.TuneLocation("MAP01", []string{"weapon/Shotgun"}, "", nil); err != nil {
		t.Fatalf("TuneLocation(map) error: %v", err)
	}
	// A record addressed to MAP/sub feeds the region.
	if err := w.TuneLocation("MAP01/courtyard", []string{"BlueCard"}, "", nil); err != nil {
		t.Fatalf("TuneLocation(region) error: %v", err)
	}
	if err := w.FinalizeTuning(); err != nil {
		t.Fatalf("FinalizeTuning() error: %v", err)
	}

	m, err := w.GetMap("MAP01")
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	world := newTestWorld()
	rule, err := m.AccessRule(world, w)
	if err != nil {
		t.Fatalf("AccessRule() error: %v", err)
	}
	if rule(testState{"Level Access (MAP01)": true}) {
		t.Error("map open without satisfying its extra rule")
	}
	if !rule(testState{"Level Access (MAP01)": true, "Shotgun": true}) {
		t.Error("map blocked despite access token and extra rule")
	}

	regions := w.Regions()
	if len(regions) != 1 || regions[0].Name() != "MAP01/courtyard" {
		t.Fatalf("Regions() = %v, want [MAP01/courtyard]", regions)
	}
	regionRule, err := regions[0].AccessRule(world, w)
	if err != nil {
		t.Fatalf("region AccessRule() error: %v", err)
	}
	// Region prerequisites implicitly include reaching the enclosing map.
	if regionRule(testState{"Blue Keycard (MAP01)": true}) {
		t.Error("region open without map access")
	}
	if !regionRule(testState{
		"Blue Keycard (MAP01)": true,
		"Level Access (MAP01)": true,
		"Shotgun":              true,
	}) {
		t.Error("region blocked despite key and map access")
	}
}

func TestLocationRegionBinding(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "key", "BlueCard", "Blue Keycard", at(0, 0, 0))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 0, 0))
	if err := w.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}
	if err := w.TuneLocation("MAP01 - Shotgun", []string{"BlueCard"}, "courtyard", nil); err != nil {
		t.Fatalf("TuneLocation() error: %v", err)
	}
	if err := w.FinalizeTuning(); err != nil {
		t.Fatalf("FinalizeTuning() error: %v", err)
	}

	loc, err := w.Location("MAP01 - Shotgun")
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if loc.RegionName != "courtyard" {
		t.Errorf("RegionName = %q, want %q", loc.RegionName, "courtyard")
	}
	if len(w.Regions()) != 1 {
		t.Errorf("Regions() = %v, want the bound region", w.Regions())
	}
}

func TestItemDisambiguation(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "big", "Soulsphere", "Supercharge", at(0, 0, 0))
	addItem(t, w, "MAP01", "big", "MegaSoulsphere", "Supercharge", at(100, 100, 0))
	finalize(t, w)

	if _, err := w.Item("Supercharge"); err == nil {
		t.Error("contested bare name still resolves")
	}
	for _, name := range []string{"Supercharge [Soulsphere]", "Supercharge [MegaSoulsphere]"} {
		if _, err := w.Item(name); err != nil {
			t.Errorf("Item(%q) error: %v", name, err)
		}
	}
}

func TestLocationDisambiguation(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(-100, -100, 0))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(100, 100, 0))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 50, 10))
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 50, 20))
	finalize(t, w)

	var got []string
	for _, loc := range w.AllLocations() {
		if loc.HasCategory("weapon") {
			got = append(got, loc.Name())
		}
	}
	sort.Strings(got)

	// Compass direction splits what it can; coordinate suffixes handle
	// locations that share a bearing or a 2D point.
	want := []string{
		"MAP01 - Shotgun [100,100]",
		"MAP01 - Shotgun [50,50,10]",
		"MAP01 - Shotgun [50,50,20]",
		"MAP01 - Shotgun [SW]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("disambiguated names = %v, want %v", got, want)
	}
}

func TestPositionDedup(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(0, 0, 0))
	addItem(t, w, "MAP01", "weapon", "Chaingun", "Chaingun", at(0, 0, 0))
	finalize(t, w)

	m, err := w.GetMap("MAP01")
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	// Exit plus the first claimant of the contested position.
	if got := len(m.Locations(w)); got != 2 {
		t.Errorf("locations = %d, want 2", got)
	}
	if _, err := w.Location("MAP01 - Shotgun"); err != nil {
		t.Errorf("first claimant lost its location: %v", err)
	}
	if _, err := w.Location("MAP01 - Chaingun"); err == nil {
		t.Error("duplicate position not dropped")
	}
}

func TestNonReplaceableItemsDropped(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	addItem(t, w, "MAP01", "health", "Medikit", "Medikit", at(0, 0, 0))
	finalize(t, w)

	if _, err := w.Item("Medikit"); err == nil {
		t.Error("non-replaceable item registered")
	}
	if _, err := w.Location("MAP01 - Medikit"); err == nil {
		t.Error("non-replaceable item produced a location")
	}
}

func TestKeyWidening(t *testing.T) {
	lg := logic.New()
	w := New("demo", lg)
	addMap(t, w, "MAP01")
	addMap(t, w, "MAP02")
	addItem(t, w, "MAP01", "key", "RedCard", "Red Keycard", at(0, 0, 0))
	addItem(t, w, "MAP02", "key", "RedCard", "Red Keycard", at(0, 0, 0))
	addItem(t, w, "MAP02", "weapon", "Shotgun", "Shotgun", at(50, 0, 0))
	if err := w.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}

	// Tuning reveals the two per-map keys are one hub-wide key.
	if err := w.NewKey("Red Keycard", "RedCard", "hub", 1, []string{"MAP01", "MAP02"}); err != nil {
		t.Fatalf("NewKey() error: %v", err)
	}

	item, err := w.Item("Red Keycard (hub)")
	if err != nil {
		t.Fatalf("widened key item missing: %v", err)
	}
	if got := item.CountForSkill(3); got != 2 {
		t.Errorf("merged key count = %d, want 2", got)
	}
	for _, stale := range []string{"Red Keycard (MAP01)", "Red Keycard (MAP02)"} {
		if _, err := w.Item(stale); err == nil {
			t.Errorf("stale narrow key %q still resolves", stale)
		}
	}

	// Both narrow names leave the ID registry: the first through a rename, the
	// second through removal when it merges into the already-widened item.
	ids := lg.ItemIDs()
	if _, ok := ids["Red Keycard (hub)"]; !ok {
		t.Error("widened key missing from ID table")
	}
	for _, stale := range []string{"Red Keycard (MAP01)", "Red Keycard (MAP02)"} {
		if _, ok := ids[stale]; ok {
			t.Errorf("stale narrow key %q still in ID table", stale)
		}
	}

	if err := w.FinalizeTuning(); err != nil {
		t.Fatalf("FinalizeTuning() error: %v", err)
	}
	// Finalize caps keys at one copy regardless of how many merged in.
	if got := item.CountForSkill(3); got != 1 {
		t.Errorf("finalized key count = %d, want 1", got)
	}

	// Locations gated on the key typename now check the widened item name.
	rule := locRule(t, w, "MAP02 - Shotgun")
	if !rule(testState{"Red Keycard (hub)": true}) {
		t.Error("widened key does not satisfy the key requirement")
	}
	if rule(testState{"Red Keycard (MAP01)": true}) {
		t.Error("stale narrow key name satisfies the key requirement")
	}
}

func TestMapRuleCycleFails(t *testing.T) {
	tune := func(t *testing.T, w *WAD, name string, tokens []string) {
		t.Helper()
		if err := w.TuneLocation(name, tokens, "", nil); err != nil {
			t.Fatalf("TuneLocation(%s) error: %v", name, err)
		}
	}

	t.Run("mutual map references", func(t *testing.T) {
		w := New("demo", logic.New())
		addMap(t, w, "MAP01")
		addMap(t, w, "MAP02")
		if err := w.FinalizeScan(0); err != nil {
			t.Fatalf("FinalizeScan() error: %v", err)
		}
		tune(t, w, "MAP01", []string{"map/MAP02"})
		tune(t, w, "MAP02", []string{"map/MAP01"})
		if err := w.FinalizeTuning(); err != nil {
			t.Fatalf("FinalizeTuning() error: %v", err)
		}

		m, err := w.GetMap("MAP01")
		if err != nil {
			t.Fatalf("GetMap() error: %v", err)
		}
		if _, err := m.AccessRule(newTestWorld(), w); !errors.Is(err, ErrRuleCycle) {
			t.Errorf("cyclic map rules error = %v, want ErrRuleCycle", err)
		}
	})

	t.Run("self reference", func(t *testing.T) {
		w := New("demo", logic.New())
		addMap(t, w, "MAP01")
		if err := w.FinalizeScan(0); err != nil {
			t.Fatalf("FinalizeScan() error: %v", err)
		}
		tune(t, w, "MAP01", []string{"map/MAP01"})
		if err := w.FinalizeTuning(); err != nil {
			t.Fatalf("FinalizeTuning() error: %v", err)
		}

		m, err := w.GetMap("MAP01")
		if err != nil {
			t.Fatalf("GetMap() error: %v", err)
		}
		if _, err := m.AccessRule(newTestWorld(), w); !errors.Is(err, ErrRuleCycle) {
			t.Errorf("self-referencing map rule error = %v, want ErrRuleCycle", err)
		}
	})

	t.Run("shared upstream dependency is not a cycle", func(t *testing.T) {
		w := New("demo", logic.New())
		for _, name := range []string{"MAP01", "MAP02", "MAP03", "MAP04"} {
			addMap(t, w, name)
		}
		if err := w.FinalizeScan(0); err != nil {
			t.Fatalf("FinalizeScan() error: %v", err)
		}
		tune(t, w, "MAP02", []string{"map/MAP01"})
		tune(t, w, "MAP03", []string{"map/MAP01"})
		tune(t, w, "MAP04", []string{"map/MAP02", "map/MAP03"})
		if err := w.FinalizeTuning(); err != nil {
			t.Fatalf("FinalizeTuning() error: %v", err)
		}

		m, err := w.GetMap("MAP04")
		if err != nil {
			t.Fatalf("GetMap() error: %v", err)
		}
		if _, err := m.AccessRule(newTestWorld(), w); err != nil {
			t.Errorf("diamond-shaped map rules error = %v, want nil", err)
		}
	})
}

func TestLifecycleErrors(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	if err := w.NewMap("MAP01", "", MapInfo{}, 0, nil, ""); !errors.Is(err, ErrDuplicateMap) {
		t.Errorf("duplicate map error = %v, want ErrDuplicateMap", err)
	}
	if err := w.FinalizeTuning(); !errors.Is(err, ErrNotFinalized) {
		t.Errorf("FinalizeTuning() before scan error = %v, want ErrNotFinalized", err)
	}
	if err := w.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}
	if err := w.FinalizeScan(0); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("second FinalizeScan() error = %v, want ErrAlreadyFinalized", err)
	}
	if err := w.NewMap("MAP02", "", MapInfo{}, 0, nil, ""); !errors.Is(err, ErrFrozen) {
		t.Errorf("NewMap() after scan error = %v, want ErrFrozen", err)
	}
	if err := w.NewItem("MAP01", "key", "RedCard", "Red Keycard", at(0, 0, 0), nil, false, ""); !errors.Is(err, ErrFrozen) {
		t.Errorf("NewItem() after scan error = %v, want ErrFrozen", err)
	}
	if err := w.FinalizeTuning(); err != nil {
		t.Fatalf("FinalizeTuning() error: %v", err)
	}
	if err := w.FinalizeTuning(); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("second FinalizeTuning() error = %v, want ErrAlreadyFinalized", err)
	}
	if err := w.NewKey("K", "K", "hub", 0, nil); !errors.Is(err, ErrFrozen) {
		t.Errorf("NewKey() after tuning error = %v, want ErrFrozen", err)
	}
}

func TestFinalizeScanSkill(t *testing.T) {
	w := New("demo", logic.New())
	if err := w.FinalizeScan(2); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}
	if w.Skill != 2 {
		t.Errorf("Skill = %d, want 2", w.Skill)
	}

	w2 := New("demo", logic.New())
	if err := w2.FinalizeScan(0); err != nil {
		t.Fatalf("FinalizeScan() error: %v", err)
	}
	if w2.Skill != 3 {
		t.Errorf("Skill = %d, want default 3", w2.Skill)
	}
}

func TestSetFlags(t *testing.T) {
	w := New("demo", logic.New())
	w.SetFlags([]string{"use_hub_logic", "hub_logic_exits=MAP30,MAP31", "pistol_start"})
	if !w.HubLogic() {
		t.Error("HubLogic() = false")
	}
	if got := w.HubExits(); !reflect.DeepEqual(got, []string{"MAP30", "MAP31"}) {
		t.Errorf("HubExits() = %v", got)
	}
	if !w.HasFlag("pistol_start") || w.HasFlag("nightmare") {
		t.Error("HasFlag() misreported")
	}
}

func TestIDAssignmentIsReplayable(t *testing.T) {
	build := func() *logic.Logic {
		lg := logic.New()
		w := New("demo", lg)
		addMap(t, w, "MAP01")
		addMap(t, w, "MAP02")
		addItem(t, w, "MAP01", "key", "RedCard", "Red Keycard", at(0, 0, 0))
		addItem(t, w, "MAP01", "weapon", "Shotgun", "Shotgun", at(50, 0, 0))
		addItem(t, w, "MAP02", "key", "BlueCard", "Blue Keycard", at(0, 0, 0))
		addItem(t, w, "MAP02", "big", "Soulsphere", "Supercharge", at(10, 10, 0))
		finalize(t, w)
		return lg
	}

	a, b := build(), build()
	if !reflect.DeepEqual(a.ItemIDs(), b.ItemIDs()) {
		t.Error("item IDs differ between identical builds")
	}
	if !reflect.DeepEqual(a.LocationIDs(), b.LocationIDs()) {
		t.Error("location IDs differ between identical builds")
	}
}

func TestExitLocationLocked(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	finalize(t, w)

	loc, err := w.Location("MAP01 - Exit")
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	locked := loc.LockedItem(w)
	if locked == nil || locked.Name() != "Level Clear (MAP01)" {
		t.Errorf("exit locked item = %v, want the clear token", locked)
	}
}

func TestSecretLocations(t *testing.T) {
	w := New("demo", logic.New())
	addMap(t, w, "MAP01")
	if err := w.NewSecret("MAP01", []any{"secret", "sector", float64(7)}, nil, ""); err != nil {
		t.Fatalf("NewSecret() error: %v", err)
	}
	finalize(t, w)

	loc, err := w.Location("MAP01 - Secret")
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if !loc.Secret || !loc.HasCategory("secret") {
		t.Error("secret location missing secret marker")
	}
	if loc.OrigItem(w) != nil {
		t.Error("secret location has a backing item")
	}
}
