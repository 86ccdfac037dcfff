package logic

import (
	"reflect"
	"sort"
	"testing"
)

func TestIDsShareOneCounter(t *testing.T) {
	l := New()
	itemID := l.RegisterItem("Shotgun", []string{"weapon"})
	locID := l.RegisterLocation("MAP01 - Shotgun", []string{"weapon"})
	keyID := l.RegisterItem("Red Keycard (MAP01)", []string{"key"})

	if itemID != 1 || locID != 2 || keyID != 3 {
		t.Errorf("IDs = %d, %d, %d, want 1, 2, 3", itemID, locID, keyID)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	l := New()
	first := l.RegisterItem("Shotgun", []string{"weapon"})
	second := l.RegisterItem("Shotgun", []string{"weapon"})
	if first != second {
		t.Errorf("re-registration changed the ID: %d then %d", first, second)
	}

	firstLoc := l.RegisterLocation("MAP01 - Exit", []string{"token"})
	secondLoc := l.RegisterLocation("MAP01 - Exit", []string{"token"})
	if firstLoc != secondLoc {
		t.Errorf("re-registration changed the location ID: %d then %d", firstLoc, secondLoc)
	}
}

func TestCategoryGroupsExpandSubsets(t *testing.T) {
	l := New()
	l.RegisterItem("Backpack", []string{"big", "ammo"})

	groups := l.ItemGroups()
	for _, cat := range []string{"ammo", "big", "ammo-big"} {
		if !reflect.DeepEqual(groups[cat], []string{"Backpack"}) {
			t.Errorf("ItemGroups()[%q] = %v, want [Backpack]", cat, groups[cat])
		}
	}

	want := []string{"ammo", "ammo-big", "big"}
	if got := l.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}

func TestSubcategoryStringsAreOrderIndependent(t *testing.T) {
	a := subcategoryStrings([]string{"big", "ammo"})
	b := subcategoryStrings([]string{"ammo", "big"})
	sort.Strings(a)
	sort.Strings(b)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expansions differ: %v vs %v", a, b)
	}
}

func TestRenameItem(t *testing.T) {
	l := New()
	id := l.RegisterItem("Red Keycard (MAP01)", []string{"key"})

	if err := l.RenameItem("Red Keycard (MAP01)", "Red Keycard (hub)"); err != nil {
		t.Fatalf("RenameItem() error: %v", err)
	}

	ids := l.ItemIDs()
	if got, ok := ids["Red Keycard (hub)"]; !ok || got != id {
		t.Errorf("renamed ID = %d (present=%v), want %d", got, ok, id)
	}
	if _, ok := ids["Red Keycard (MAP01)"]; ok {
		t.Error("old name still registered after rename")
	}
	if got := l.ItemGroups()["key"]; !reflect.DeepEqual(got, []string{"Red Keycard (hub)"}) {
		t.Errorf("group membership after rename = %v", got)
	}
}

func TestRenameItemErrors(t *testing.T) {
	l := New()
	l.RegisterItem("A", []string{"key"})
	l.RegisterItem("B", []string{"key"})

	if err := l.RenameItem("missing", "C"); err == nil {
		t.Error("rename of unregistered item succeeded")
	}
	if err := l.RenameItem("A", "B"); err == nil {
		t.Error("rename onto an existing name succeeded")
	}
}

func TestRemoveItem(t *testing.T) {
	l := New()
	l.RegisterItem("Red Keycard (MAP02)", []string{"key"})
	kept := l.RegisterItem("Red Keycard (hub)", []string{"key"})

	if err := l.RemoveItem("Red Keycard (MAP02)"); err != nil {
		t.Fatalf("RemoveItem() error: %v", err)
	}

	ids := l.ItemIDs()
	if _, ok := ids["Red Keycard (MAP02)"]; ok {
		t.Error("removed name still registered")
	}
	if got := ids["Red Keycard (hub)"]; got != kept {
		t.Errorf("surviving ID = %d, want %d", got, kept)
	}
	if got := l.ItemGroups()["key"]; !reflect.DeepEqual(got, []string{"Red Keycard (hub)"}) {
		t.Errorf("group membership after remove = %v", got)
	}

	if err := l.RemoveItem("missing"); err == nil {
		t.Error("remove of unregistered item succeeded")
	}

	// The retired ID is never handed out again.
	if next := l.RegisterItem("Shotgun", []string{"weapon"}); next <= kept {
		t.Errorf("new ID %d reused retired range (last kept %d)", next, kept)
	}
}

func TestTablesAreCopies(t *testing.T) {
	l := New()
	l.RegisterItem("Shotgun", []string{"weapon"})

	ids := l.ItemIDs()
	ids["Shotgun"] = 999
	if got := l.ItemIDs()["Shotgun"]; got == 999 {
		t.Error("ItemIDs() exposed internal state")
	}

	groups := l.ItemGroups()
	groups["weapon"][0] = "tampered"
	if got := l.ItemGroups()["weapon"][0]; got == "tampered" {
		t.Error("ItemGroups() exposed internal state")
	}
}
