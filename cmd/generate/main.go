// Command generate loads a WAD's logic and tuning, fills the item pool for
// the configured seed, and writes the resulting placement plan as JSON. The
// engine-side lump writer consumes this output.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wadrando/wadrando/internal/cache"
	"github.com/wadrando/wadrando/internal/config"
	"github.com/wadrando/wadrando/internal/loader"
	"github.com/wadrando/wadrando/internal/logger"
	"github.com/wadrando/wadrando/pkg/logic"
)

type planLocation struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Map    string `json:"map"`
	Secret bool   `json:"secret,omitempty"`
	Locked string `json:"locked_item,omitempty"`
}

type plan struct {
	Wad         string         `json:"wad"`
	Seed        int64          `json:"seed"`
	Skill       int            `json:"skill"`
	ItemIDs     map[string]int `json:"item_ids"`
	LocationIDs map[string]int `json:"location_ids"`
	Locations   []planLocation `json:"locations"`
	Pool        map[string]int `json:"pool"`
	Starting    map[string]int `json:"starting_inventory"`
	Warnings    []string       `json:"warnings,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <settings.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.Setup(cfg)

	settings, err := config.LoadSettings(os.Args[1])
	if err != nil {
		log.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}
	if settings.Wad == "" {
		log.Error("No wad selected; set `wad:` in settings")
		os.Exit(1)
	}

	c, err := cache.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	lg := logic.New()
	l := loader.New(cfg, lg, c, log)
	w, err := l.LoadWAD(context.Background(), settings.Wad)
	if err != nil {
		log.Error("Failed to load logic", "wad", settings.Wad, "error", err)
		os.Exit(1)
	}

	world := config.NewWorld(settings)
	pool, err := w.FillPool(world)
	if err != nil {
		log.Error("Failed to fill pool", "error", err)
		os.Exit(1)
	}
	for _, warning := range pool.Warnings() {
		log.Warn(warning, "wad", w.Name)
	}

	// Starting levels contribute their access tokens (and keys, if
	// configured) on top of whatever "start" ratios moved over.
	starting := pool.StartingInventory()
	for _, m := range w.AllMaps() {
		if !world.IsStartingMap(m.Name) {
			continue
		}
		for _, name := range m.StartingItems(world, w) {
			starting[name]++
		}
	}

	out := plan{
		Wad:         w.Name,
		Seed:        settings.Seed,
		Skill:       settings.Skill,
		ItemIDs:     lg.ItemIDs(),
		LocationIDs: lg.LocationIDs(),
		Pool:        pool.AllPoolItems(),
		Starting:    starting,
		Warnings:    pool.Warnings(),
	}
	for _, loc := range pool.Locations() {
		pl := planLocation{
			ID:     loc.ID(),
			Name:   loc.Name(),
			Map:    loc.Pos.MapName(),
			Secret: loc.Secret,
		}
		if locked := loc.LockedItem(w); locked != nil {
			pl.Locked = locked.Name()
		}
		out.Locations = append(out.Locations, pl)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error("Failed to write plan", "error", err)
		os.Exit(1)
	}
}
