package wad

import (
	"math/rand"
)

// testWorld implements World for testing with permissive defaults.
type testWorld struct {
	player              int
	rng                 *rand.Rand
	inspection          bool
	pretuning           bool
	allKeysVanilla      bool
	startWithKeys       bool
	startingMaps        map[string]bool
	excludedMaps        map[string]bool
	spawnFilter         int
	levelOrderBias      int
	localWeaponBias     int
	carryoverWeaponBias int
	ratios              map[string]Ratio
}

func newTestWorld() *testWorld {
	return &testWorld{
		player:      1,
		rng:         rand.New(rand.NewSource(1)),
		spawnFilter: 3,
	}
}

func (w *testWorld) Player() int              { return w.player }
func (w *testWorld) Rand() *rand.Rand         { return w.rng }
func (w *testWorld) InspectionMode() bool     { return w.inspection }
func (w *testWorld) PretuningMode() bool      { return w.pretuning }
func (w *testWorld) AllKeysVanilla() bool     { return w.allKeysVanilla }
func (w *testWorld) StartWithKeys() bool      { return w.startWithKeys }
func (w *testWorld) GlitchItemName() string   { return "[Glitch Logic Token]" }
func (w *testWorld) SpawnFilter() int         { return w.spawnFilter }
func (w *testWorld) LevelOrderBias() int      { return w.levelOrderBias }
func (w *testWorld) LocalWeaponBias() int     { return w.localWeaponBias }
func (w *testWorld) CarryoverWeaponBias() int { return w.carryoverWeaponBias }

func (w *testWorld) IsStartingMap(mapName string) bool {
	return w.startingMaps[mapName]
}

func (w *testWorld) IncludesMap(mapName string) bool {
	return !w.excludedMaps[mapName]
}

func (w *testWorld) CategoryRatio(bucket string) Ratio {
	if r, ok := w.ratios[bucket]; ok {
		return r
	}
	return Ratio{Frac: 1}
}

// testState is an inventory stub.
type testState map[string]bool

func (s testState) Has(itemName string, _ int) bool { return s[itemName] }
