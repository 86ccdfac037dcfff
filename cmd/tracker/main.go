package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wadrando/wadrando/internal/cache"
	"github.com/wadrando/wadrando/internal/config"
	"github.com/wadrando/wadrando/internal/logger"
	"github.com/wadrando/wadrando/internal/loader"
	"github.com/wadrando/wadrando/pkg/logic"
	"github.com/wadrando/wadrando/pkg/wad"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <settings.yaml> [wad-name]\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.Setup(cfg)

	settings, err := config.LoadSettings(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}

	wadName := settings.Wad
	if len(os.Args) > 2 {
		wadName = os.Args[2]
	}
	if wadName == "" {
		fmt.Fprintf(os.Stderr, "No wad selected; set `wad:` in settings or pass a wad name\n")
		os.Exit(1)
	}

	c, err := cache.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize cache: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	l := loader.New(cfg, logic.New(), c, log)
	w, err := l.LoadWAD(context.Background(), wadName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load logic for %s: %v\n", wadName, err)
		os.Exit(1)
	}

	world := config.NewInspectionWorld(settings)
	rules, err := compileRules(w, world)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to compile access rules: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewTrackerUI(w, world, rules), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// compileRules builds every location's and map's predicate up front; the UI
// just re-evaluates them against the live inventory.
func compileRules(w *wad.WAD, world wad.World) (*ruleSet, error) {
	rs := &ruleSet{
		mapRules: make(map[string]wad.Rule),
		locRules: make(map[string]wad.Rule),
	}
	for _, m := range w.AllMaps() {
		rule, err := m.AccessRule(world, w)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", m.Name, err)
		}
		rs.mapRules[m.Name] = rule

		for _, loc := range m.Locations(w) {
			rule, err := loc.AccessRule(world, w)
			if err != nil {
				return nil, fmt.Errorf("location %s: %w", loc.Name(), err)
			}
			rs.locRules[loc.Name()] = rule
		}
	}
	return rs, nil
}

type ruleSet struct {
	mapRules map[string]wad.Rule
	locRules map[string]wad.Rule
}

// inventory is the live toggled item set, evaluated as the rule state.
type inventory map[string]bool

var _ wad.State = inventory(nil)

func (inv inventory) Has(itemName string, _ int) bool {
	return inv[itemName]
}
