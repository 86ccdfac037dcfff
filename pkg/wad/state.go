package wad

import (
	"fmt"
	"math/rand"
	"strconv"
)

// State is the inventory-ownership query rules are evaluated against. It is
// the only thing the compiled logic ever asks about the live game.
type State interface {
	Has(itemName string, player int) bool
}

// World supplies the generation/tracking context rules are compiled against:
// player identity, configuration knobs, and the seeded RNG used for pool
// selection. Implementations live with the callers (generator, tracker,
// tests); the model never constructs one.
type World interface {
	Player() int
	Rand() *rand.Rand

	// InspectionMode is true when a tracker is generating rather than a real
	// randomization run; the unreachable flag becomes authoritative.
	InspectionMode() bool
	// PretuningMode disables all balance logic: the vanilla game is being
	// played to gather tuning data.
	PretuningMode() bool
	// AllKeysVanilla is true when configuration forces every key into its
	// original location.
	AllKeysVanilla() bool
	StartWithKeys() bool

	// GlitchItemName is the marker item external trackers grant to request
	// maximally permissive logic.
	GlitchItemName() string
	IsStartingMap(mapName string) bool
	// IncludesMap reports whether a map participates in the run at all.
	// Excluded maps contribute no locations and no loose items to the pool.
	IncludesMap(mapName string) bool

	// SpawnFilter is the skill level locations are filtered by (1..3).
	SpawnFilter() int

	// Bias knobs, in percent. 0 disables a check, 100 demands full compliance.
	LevelOrderBias() int
	LocalWeaponBias() int
	CarryoverWeaponBias() int

	// CategoryRatio resolves the configured inclusion ratio for a category
	// bucket.
	CategoryRatio(bucket string) Ratio
}

// RatioKind discriminates the special category ratio values.
type RatioKind int

const (
	// RatioFraction includes ceil(bucket * Frac) locations.
	RatioFraction RatioKind = iota
	// RatioVanilla forces original items to stay; locations remain checks.
	RatioVanilla
	// RatioStart moves items to the starting inventory; locations remain
	// normal checks.
	RatioStart
)

// Ratio is one category's inclusion setting.
type Ratio struct {
	Kind RatioKind
	Frac float64
}

func (r Ratio) IsZero() bool { return r.Kind == RatioFraction && r.Frac == 0 }

// ParseRatio accepts a number in [0,1], "all", "none", "vanilla" or "start".
func ParseRatio(v any) (Ratio, error) {
	switch val := v.(type) {
	case int:
		if val == 0 {
			return Ratio{}, nil
		}
		if val == 1 {
			return Ratio{Frac: 1}, nil
		}
	case float64:
		if val >= 0 && val <= 1 {
			return Ratio{Frac: val}, nil
		}
	case string:
		switch val {
		case "none":
			return Ratio{}, nil
		case "all":
			return Ratio{Frac: 1}, nil
		case "vanilla":
			return Ratio{Kind: RatioVanilla, Frac: 1}, nil
		case "start":
			return Ratio{Kind: RatioStart, Frac: 1}, nil
		default:
			if f, err := strconv.ParseFloat(val, 64); err == nil && f >= 0 && f <= 1 {
				return Ratio{Frac: f}, nil
			}
		}
	}
	return Ratio{}, fmt.Errorf("%w: %v", ErrInvalidRatio, v)
}
