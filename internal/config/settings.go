package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/wadrando/wadrando/pkg/wad"
)

// Settings are the per-run generation options, loaded from a YAML file.
// Validation happens at load time so a bad ratio string or a conflicting win
// condition surfaces before any logic is compiled.
type Settings struct {
	Wad    string `yaml:"wad"`
	Seed   int64  `yaml:"seed"`
	Player int    `yaml:"player"`

	Skill       int  `yaml:"skill"`
	SpawnFilter int  `yaml:"spawn_filter"`
	Pretuning   bool `yaml:"pretuning"`

	AllKeysVanilla bool `yaml:"all_keys_vanilla"`
	StartWithKeys  bool `yaml:"start_with_keys"`

	LevelOrderBias      int `yaml:"level_order_bias"`
	LocalWeaponBias     int `yaml:"local_weapon_bias"`
	CarryoverWeaponBias int `yaml:"carryover_weapon_bias"`

	// Level selections accept glob patterns ("E1M*").
	StartingLevels []string `yaml:"starting_levels"`
	IncludedLevels []string `yaml:"included_levels"`
	ExcludedLevels []string `yaml:"excluded_levels"`

	// CategoryRatios maps a category bucket ("key", "big-ammo") to a ratio:
	// a number in [0,1], "all", "none", "vanilla", or "start". The special
	// string values are only meaningful for key, weapon, and map buckets.
	CategoryRatios map[string]any `yaml:"category_ratios"`

	WinConditions WinConditions `yaml:"win_conditions"`

	ratios map[string]wad.Ratio
}

// WinConditions selects how the run is won: clearing a number of levels, or
// clearing a specific set. Setting both is a conflict.
type WinConditions struct {
	NrofMaps     int      `yaml:"nrof_maps"`
	SpecificMaps []string `yaml:"specific_maps"`
}

// specialRatioBuckets are the buckets allowed to use "vanilla" and "start".
var specialRatioBuckets = map[string]bool{
	"key":    true,
	"weapon": true,
	"map":    true,
}

// LoadSettings reads and validates a settings file.
func LoadSettings(filename string) (*Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", filename, err)
	}
	s := &Settings{
		Skill:               3,
		SpawnFilter:         3,
		StartWithKeys:       true,
		LevelOrderBias:      25,
		LocalWeaponBias:     50,
		CarryoverWeaponBias: 50,
		Player:              1,
		WinConditions:       WinConditions{NrofMaps: -1},
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", filename, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", filename, err)
	}
	return s, nil
}

// Validate parses the category ratios and checks the win conditions. Called
// by LoadSettings; exposed for settings built in code.
func (s *Settings) Validate() error {
	s.ratios = make(map[string]wad.Ratio, len(s.CategoryRatios))
	for bucket, raw := range s.CategoryRatios {
		ratio, err := wad.ParseRatio(raw)
		if err != nil {
			return fmt.Errorf("category %q: %w", bucket, err)
		}
		if (ratio.Kind == wad.RatioVanilla || ratio.Kind == wad.RatioStart) && !specialRatioBuckets[primaryCategory(bucket)] {
			return fmt.Errorf("category %q: %w: %v only allowed for key/weapon/map", bucket, wad.ErrInvalidRatio, raw)
		}
		s.ratios[bucket] = ratio
	}

	if s.WinConditions.NrofMaps >= 0 && len(s.WinConditions.SpecificMaps) > 0 {
		return fmt.Errorf("%w: nrof_maps and specific_maps are mutually exclusive", wad.ErrBadWinCondition)
	}

	for _, knob := range []int{s.LevelOrderBias, s.LocalWeaponBias, s.CarryoverWeaponBias} {
		if knob < 0 || knob > 100 {
			return fmt.Errorf("bias values must be 0..100, got %d", knob)
		}
	}
	return nil
}

// Ratio resolves a bucket's configured inclusion ratio. Unconfigured buckets
// are excluded.
func (s *Settings) Ratio(bucket string) wad.Ratio {
	if r, ok := s.ratios[bucket]; ok {
		return r
	}
	return wad.Ratio{}
}

// MatchesLevel applies the starting/included/excluded globs to a map name.
func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// IsStartingLevel reports whether a map is configured as a starting level.
func (s *Settings) IsStartingLevel(name string) bool {
	return matchAny(s.StartingLevels, name)
}

// IncludesLevel applies the included/excluded globs. An empty included list
// means all levels.
func (s *Settings) IncludesLevel(name string) bool {
	if matchAny(s.ExcludedLevels, name) {
		return false
	}
	if len(s.IncludedLevels) == 0 {
		return true
	}
	return matchAny(s.IncludedLevels, name)
}

// primaryCategory strips subcategory suffixes: "big-ammo" ratios are checked
// against the rules for "big".
func primaryCategory(bucket string) string {
	for i := 0; i < len(bucket); i++ {
		if bucket[i] == '-' {
			return bucket[:i]
		}
	}
	return bucket
}
