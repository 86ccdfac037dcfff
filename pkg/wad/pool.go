package wad

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Pool is the outcome of location/item selection for one randomization run:
// which locations participate as checks, how many of each item the free pool
// holds, and what moved into the starting inventory instead.
type Pool struct {
	wad  *WAD
	maps []*Map // maps participating in this run

	locations []*Location
	byMap     map[string][]*Location

	counts   map[string]int
	starting map[string]int

	warnings []string
}

// FillPool selects the participating locations and items for one run. The
// category ratios come from the world configuration; selection is driven by
// the world's seeded RNG, so the same seed and configuration always produce
// the same pool.
func (w *WAD) FillPool(world World) (*Pool, error) {
	if !w.tuned {
		return nil, fmt.Errorf("%w: pool filled before tuning", ErrNotFinalized)
	}

	p := &Pool{
		wad:      w,
		byMap:    make(map[string][]*Location),
		counts:   make(map[string]int),
		starting: make(map[string]int),
	}
	skill := clampSkill(world.SpawnFilter())
	rng := world.Rand()

	for _, m := range w.AllMaps() {
		if !world.IncludesMap(m.Name) {
			continue
		}
		p.maps = append(p.maps, m)

		buckets := make(map[string][]*Location)
		var bucketOrder []string
		for _, loc := range m.AllLocations(w, skill, nil) {
			key := loc.CategoryKey()
			if _, ok := buckets[key]; !ok {
				bucketOrder = append(bucketOrder, key)
			}
			buckets[key] = append(buckets[key], loc)
		}
		sort.Strings(bucketOrder)

		for _, bucket := range bucketOrder {
			ratio := world.CategoryRatio(bucket)
			if ratio.IsZero() {
				continue
			}
			for _, loc := range sampleLocations(rng, buckets[bucket], ratio.Frac) {
				p.takeLocation(loc, ratio)
			}
		}

		for name, count := range m.LooseItems {
			p.counts[name] += count
			item, err := w.Item(name)
			if err != nil {
				continue
			}
			if world.CategoryRatio(item.CategoryKey()).Kind == RatioStart {
				p.starting[name] += count
			}
		}
	}

	p.applyLimits(skill)
	p.subtractStarting()

	if len(p.itemsWhere((*Item).IsFiller)) == 0 {
		p.warnings = append(p.warnings, "no filler items in pool; balance will degrade")
	}
	return p, nil
}

// sampleLocations picks ceil(n*frac) locations without replacement. The input
// is sorted by name first so the choice depends only on the seed, not map
// iteration order, and the chosen subset keeps name order.
func sampleLocations(rng *rand.Rand, locs []*Location, frac float64) []*Location {
	sorted := append([]*Location{}, locs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	count := int(math.Ceil(float64(len(sorted)) * frac))
	if count >= len(sorted) {
		return sorted
	}
	chosen := make(map[int]bool, count)
	for _, idx := range rng.Perm(len(sorted))[:count] {
		chosen[idx] = true
	}
	out := make([]*Location, 0, count)
	for i, loc := range sorted {
		if chosen[i] {
			out = append(out, loc)
		}
	}
	return out
}

func (p *Pool) takeLocation(loc *Location, ratio Ratio) {
	p.locations = append(p.locations, loc)
	mapName := loc.Pos.MapName()
	p.byMap[mapName] = append(p.byMap[mapName], loc)

	// Locations with a forced placement (exit clear tokens) are checks, but
	// their item never enters the free pool.
	if loc.LockedItem(p.wad) != nil {
		return
	}
	item := loc.OrigItem(p.wad)
	if item == nil {
		return
	}

	switch ratio.Kind {
	case RatioVanilla:
		// The original item stays put; the location is still a check.
		loc.LockItem(item)
	case RatioStart:
		p.counts[item.Name()]++
		p.starting[item.Name()]++
	default:
		p.counts[item.Name()]++
	}
}

// applyLimits clamps pool counts into each item's (min, max) bound. Every
// unlocked item reachable through a participating map is considered, not just
// the sampled ones: an item with a positive lower bound enters the pool even
// when its category bucket was excluded. Items locked in place (exit clear
// tokens, vanilla carve-outs) never do.
func (p *Pool) applyLimits(skill int) {
	mapCount := len(p.maps)
	seen := make(map[*Item]bool)
	clamp := func(item *Item) {
		if seen[item] {
			return
		}
		seen[item] = true
		name := item.Name()
		lo, hi := item.PoolLimits(mapCount)
		if p.counts[name] < lo {
			p.counts[name] = lo
		}
		if p.counts[name] > hi {
			p.counts[name] = hi
		}
	}

	for _, m := range p.maps {
		for _, loc := range m.AllLocations(p.wad, skill, nil) {
			if loc.LockedItem(p.wad) != nil {
				continue
			}
			if item := loc.OrigItem(p.wad); item != nil {
				clamp(item)
			}
		}
		for name := range m.LooseItems {
			if item, err := p.wad.Item(name); err == nil {
				clamp(item)
			}
		}
	}
}

// subtractStarting moves starting-inventory counts out of the free pool. The
// pool never goes negative; if the starting inventory demands more than is
// available, the starting count is clamped to what the pool held.
func (p *Pool) subtractStarting() {
	for name, want := range p.starting {
		avail := p.counts[name]
		take := want
		if take > avail {
			take = avail
		}
		p.counts[name] = avail - take
		p.starting[name] = take
	}
}

// Locations returns every selected location in selection order.
func (p *Pool) Locations() []*Location {
	return append([]*Location{}, p.locations...)
}

// LocationsInMap returns the selected locations of one map.
func (p *Pool) LocationsInMap(mapName string) []*Location {
	return append([]*Location{}, p.byMap[mapName]...)
}

// AllPoolItems returns the item name -> count table of the free pool.
func (p *Pool) AllPoolItems() map[string]int {
	out := make(map[string]int, len(p.counts))
	for name, n := range p.counts {
		if n > 0 {
			out[name] = n
		}
	}
	return out
}

// StartingInventory returns the items moved to the player's starting
// inventory, after clamping against pool availability.
func (p *Pool) StartingInventory() map[string]int {
	out := make(map[string]int, len(p.starting))
	for name, n := range p.starting {
		if n > 0 {
			out[name] = n
		}
	}
	return out
}

func (p *Pool) ProgressionItems() []*Item { return p.itemsWhere((*Item).IsProgression) }
func (p *Pool) UsefulItems() []*Item      { return p.itemsWhere((*Item).IsUseful) }
func (p *Pool) FillerItems() []*Item      { return p.itemsWhere((*Item).IsFiller) }

func (p *Pool) itemsWhere(pred func(*Item) bool) []*Item {
	names := make([]string, 0, len(p.counts))
	for name, n := range p.counts {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var out []*Item
	for _, name := range names {
		item, err := p.wad.Item(name)
		if err == nil && pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Warnings returns the soft warnings collected during pool selection.
func (p *Pool) Warnings() []string {
	return append([]string{}, p.warnings...)
}
