package config

import (
	"math/rand"

	"github.com/wadrando/wadrando/pkg/wad"
)

// GlitchTokenName is the marker item external trackers grant to request
// maximally permissive logic. It never has an ID and never enters the pool.
const GlitchTokenName = "[Glitch Logic Token]"

// World adapts Settings into the context the logic model compiles rules
// against. One World serves one generation or tracking session.
type World struct {
	settings   *Settings
	rng        *rand.Rand
	inspection bool
}

// NewWorld builds a rule-evaluation context from validated settings. The RNG
// is seeded from the settings so pool selection is replayable.
func NewWorld(s *Settings) *World {
	return &World{
		settings: s,
		rng:      rand.New(rand.NewSource(s.Seed)),
	}
}

// NewInspectionWorld builds a context for trackers, where the unreachable
// flag is authoritative.
func NewInspectionWorld(s *Settings) *World {
	w := NewWorld(s)
	w.inspection = true
	return w
}

var _ wad.World = (*World)(nil)

func (w *World) Player() int          { return w.settings.Player }
func (w *World) Rand() *rand.Rand     { return w.rng }
func (w *World) InspectionMode() bool { return w.inspection }
func (w *World) PretuningMode() bool  { return w.settings.Pretuning }
func (w *World) AllKeysVanilla() bool { return w.settings.AllKeysVanilla }
func (w *World) StartWithKeys() bool  { return w.settings.StartWithKeys }

func (w *World) GlitchItemName() string { return GlitchTokenName }

func (w *World) IsStartingMap(mapName string) bool {
	return w.settings.IsStartingLevel(mapName)
}

func (w *World) IncludesMap(mapName string) bool {
	return w.settings.IncludesLevel(mapName)
}

func (w *World) SpawnFilter() int { return w.settings.SpawnFilter }

func (w *World) LevelOrderBias() int      { return w.settings.LevelOrderBias }
func (w *World) LocalWeaponBias() int     { return w.settings.LocalWeaponBias }
func (w *World) CarryoverWeaponBias() int { return w.settings.CarryoverWeaponBias }

func (w *World) CategoryRatio(bucket string) wad.Ratio {
	return w.settings.Ratio(bucket)
}
