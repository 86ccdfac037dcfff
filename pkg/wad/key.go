package wad

import (
	"fmt"
	"sort"
)

// Key is one logical key: not the in-game pickup, but the concept of the key
// itself, including which maps it unlocks and how it is named.
//
// Keys are discovered two ways. The scanner emits single-map keys alongside
// the items that represent them. During tuning, the game may report a
// "dynamic" key that turns out to unlock several maps of a hub cluster; when
// that happens the wider key must retroactively replace every narrower
// reference to the same physical key.
type Key struct {
	Tag      string
	Typename string
	Scope    string // usually a map name; hub/episode name for multi-map keys
	Cluster  int
	Maps     map[string]struct{}

	// ItemName is the display name of the pool item that grants this key,
	// recorded when the item is registered. Access rules check this name
	// against the inventory, since the FQIN is typename-based and the pool
	// names items by tag.
	ItemName string
}

// FQIN is the fully-qualified key name: the stable identity keys are indexed
// under, independent of how the pool item ends up being displayed.
func (k *Key) FQIN() string {
	return fmt.Sprintf("%s (%s)", k.Typename, k.Scope)
}

// InventoryName is the name checked against the player inventory.
func (k *Key) InventoryName() string {
	if k.ItemName != "" {
		return k.ItemName
	}
	return k.FQIN()
}

func (k *Key) MapNames() []string {
	out := make([]string, 0, len(k.Maps))
	for name := range k.Maps {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (k *Key) AppliesTo(mapName string) bool {
	_, ok := k.Maps[mapName]
	return ok
}

func (k *Key) String() string {
	if len(k.Maps) > 1 {
		return fmt.Sprintf("Key[%s] %v@C%d", k.FQIN(), k.MapNames(), k.Cluster)
	}
	return fmt.Sprintf("Key[%s]", k.FQIN())
}
