package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadrando/wadrando/pkg/wad"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, "wad: demo\n"))
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Wad)
	assert.Equal(t, 3, s.Skill)
	assert.Equal(t, 3, s.SpawnFilter)
	assert.Equal(t, 1, s.Player)
	assert.True(t, s.StartWithKeys)
	assert.Equal(t, 25, s.LevelOrderBias)
	assert.Equal(t, 50, s.LocalWeaponBias)
	assert.Equal(t, 50, s.CarryoverWeaponBias)
	assert.Equal(t, -1, s.WinConditions.NrofMaps)
}

func TestLoadSettingsRatios(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, `
wad: demo
category_ratios:
  key: vanilla
  weapon: start
  big: 0.5
  powerup: all
  tool: none
`))
	require.NoError(t, err)

	assert.Equal(t, wad.Ratio{Kind: wad.RatioVanilla, Frac: 1}, s.Ratio("key"))
	assert.Equal(t, wad.Ratio{Kind: wad.RatioStart, Frac: 1}, s.Ratio("weapon"))
	assert.Equal(t, wad.Ratio{Frac: 0.5}, s.Ratio("big"))
	assert.Equal(t, wad.Ratio{Frac: 1}, s.Ratio("powerup"))
	assert.True(t, s.Ratio("tool").IsZero())

	// Unconfigured buckets are excluded entirely.
	assert.True(t, s.Ratio("ammo").IsZero())
}

func TestLoadSettingsRatioErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "vanilla only for key/weapon/map",
			content: "category_ratios:\n  big: vanilla\n",
		},
		{
			name:    "start only for key/weapon/map",
			content: "category_ratios:\n  powerup: start\n",
		},
		{
			name:    "fraction out of range",
			content: "category_ratios:\n  big: 1.5\n",
		},
		{
			name:    "unparseable string",
			content: "category_ratios:\n  big: sometimes\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tt.content))
			assert.ErrorIs(t, err, wad.ErrInvalidRatio)
		})
	}

	// Subcategory buckets are checked against their primary category.
	s, err := LoadSettings(writeSettings(t, "category_ratios:\n  weapon-big: vanilla\n"))
	require.NoError(t, err)
	assert.Equal(t, wad.RatioVanilla, s.Ratio("weapon-big").Kind)
}

func TestLoadSettingsWinConditionConflict(t *testing.T) {
	_, err := LoadSettings(writeSettings(t, `
win_conditions:
  nrof_maps: 5
  specific_maps: [MAP30]
`))
	assert.ErrorIs(t, err, wad.ErrBadWinCondition)

	s, err := LoadSettings(writeSettings(t, "win_conditions:\n  specific_maps: [MAP30]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"MAP30"}, s.WinConditions.SpecificMaps)
}

func TestLoadSettingsBiasRange(t *testing.T) {
	_, err := LoadSettings(writeSettings(t, "level_order_bias: 150\n"))
	assert.ErrorContains(t, err, "bias values")

	_, err = LoadSettings(writeSettings(t, "local_weapon_bias: -1\n"))
	assert.ErrorContains(t, err, "bias values")
}

func TestLevelGlobs(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, `
starting_levels: ["MAP01", "E1M*"]
included_levels: ["MAP*"]
excluded_levels: ["MAP3?"]
`))
	require.NoError(t, err)

	assert.True(t, s.IsStartingLevel("MAP01"))
	assert.True(t, s.IsStartingLevel("E1M5"))
	assert.False(t, s.IsStartingLevel("MAP02"))

	assert.True(t, s.IncludesLevel("MAP02"))
	assert.False(t, s.IncludesLevel("MAP30"), "excluded globs win")
	assert.False(t, s.IncludesLevel("E2M1"), "not in the included set")
}

func TestIncludesLevelDefaultsToAll(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, "wad: demo\n"))
	require.NoError(t, err)
	assert.True(t, s.IncludesLevel("MAP01"))
	assert.True(t, s.IncludesLevel("E4M9"))
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWorldAdaptsSettings(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, `
wad: demo
seed: 42
player: 3
pretuning: true
all_keys_vanilla: true
starting_levels: ["MAP01"]
excluded_levels: ["MAP31"]
`))
	require.NoError(t, err)

	w := NewWorld(s)
	assert.Equal(t, 3, w.Player())
	assert.True(t, w.PretuningMode())
	assert.True(t, w.AllKeysVanilla())
	assert.False(t, w.InspectionMode())
	assert.True(t, w.IsStartingMap("MAP01"))
	assert.False(t, w.IsStartingMap("MAP02"))
	assert.True(t, w.IncludesMap("MAP01"))
	assert.False(t, w.IncludesMap("MAP31"))
	assert.Equal(t, GlitchTokenName, w.GlitchItemName())

	// The RNG is seeded from the settings, so two worlds agree.
	w2 := NewWorld(s)
	assert.Equal(t, w.Rand().Int63(), w2.Rand().Int63())

	assert.True(t, NewInspectionWorld(s).InspectionMode())
}
