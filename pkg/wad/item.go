package wad

import (
	"fmt"
	"sort"
	"strings"
)

// Classification buckets items by how much the randomizer cares about them.
type Classification int

const (
	ClassFiller Classification = iota
	ClassUseful
	ClassProgression
)

// Item is one de-duplicated class of randomizable item.
//
// Items that are not map-specific (ammo, weapons) get one Item with per-skill
// counts. Map-scoped items (keys, automaps, tokens) get one Item per map.
// Identity is the derived display name: tag, plus a type suffix when
// disambiguation was forced, plus the scope suffix for scoped items.
type Item struct {
	Categories   map[string]struct{}
	Typename     string // in-engine class name
	Tag          string // user-visible name in the engine
	ScopeName    string // map or cluster name for scoped items, "" for global
	Count        map[int]int
	Disambiguate bool
	Secret       bool

	id    int
	arena int // index in the owning WAD's item arena
}

var scopedCategories = map[string]bool{
	"key":   true,
	"map":   true,
	"token": true,
}

// NewItem builds a provisional item from a scan record. skills lists the
// difficulty levels the item appears on.
func NewItem(mapName, category, typename, tag string, skills []int) *Item {
	item := &Item{
		Categories: splitCategories(category),
		Typename:   typename,
		Tag:        tag,
		Count:      make(map[int]int),
	}
	for _, sk := range skills {
		item.Count[clampSkill(sk)]++
	}
	for cat := range item.Categories {
		if scopedCategories[cat] {
			item.ScopeName = mapName
			break
		}
	}
	return item
}

// splitCategories expands a hyphen-composed category string ("big-ammo") into
// its component set.
func splitCategories(category string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, cat := range strings.Split(category, "-") {
		if cat != "" {
			out[cat] = struct{}{}
		}
	}
	return out
}

func (it *Item) HasCategory(cat string) bool {
	_, ok := it.Categories[cat]
	return ok
}

// CategoryKey is the canonical hyphen-joined form of the category set.
func (it *Item) CategoryKey() string {
	cats := make([]string, 0, len(it.Categories))
	for cat := range it.Categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return strings.Join(cats, "-")
}

// categoryList returns the category set as a sorted slice.
func (it *Item) categoryList() []string {
	cats := make([]string, 0, len(it.Categories))
	for cat := range it.Categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// SameIdentity reports whether two provisional items are the same underlying
// item (true duplicates are merged, not disambiguated).
func (it *Item) SameIdentity(other *Item) bool {
	return it.Tag == other.Tag && it.ScopeName == other.ScopeName && it.Typename == other.Typename
}

// Name returns the display name, which is also the identity used for
// inventory lookups. Stable only after disambiguation has run.
func (it *Item) Name() string {
	name := it.Tag
	if it.Disambiguate {
		name += fmt.Sprintf(" [%s]", it.Typename)
	}
	if it.ScopeName != "" {
		name += fmt.Sprintf(" (%s)", it.ScopeName)
	}
	return name
}

// ID returns the globally assigned item ID. Valid after FinalizeLogic.
func (it *Item) ID() int { return it.id }

func (it *Item) String() string {
	return fmt.Sprintf("Item#%d(%s)", it.id, it.Name())
}

// MergeCounts folds another sighting of the same item into the per-skill
// counts.
func (it *Item) MergeCounts(other *Item) {
	for sk, n := range other.Count {
		it.Count[sk] += n
	}
}

// CountForSkill returns the pool count at the given skill.
func (it *Item) CountForSkill(skill int) int {
	return it.Count[clampSkill(skill)]
}

func (it *Item) setMaxCount(max int) {
	for sk, n := range it.Count {
		if n > max {
			it.Count[sk] = max
		}
	}
}

func (it *Item) Classification() Classification {
	switch {
	case it.HasCategory("key") || it.HasCategory("token") || it.HasCategory("weapon"):
		return ClassProgression
	case it.HasCategory("map") || it.HasCategory("upgrade"):
		return ClassUseful
	default:
		return ClassFiller
	}
}

func (it *Item) IsProgression() bool { return it.Classification() == ClassProgression }
func (it *Item) IsUseful() bool      { return it.Classification() == ClassUseful }
func (it *Item) IsFiller() bool      { return it.Classification() == ClassFiller }

// CanReplace reports whether locations holding this item type are eligible
// randomization destinations.
func (it *Item) CanReplace() bool {
	for _, cat := range []string{"key", "weapon", "map", "upgrade", "powerup", "big", "tool", "token"} {
		if it.HasCategory(cat) {
			return true
		}
	}
	return false
}

// ShouldInclude reports whether the item itself goes into the pool. Automaps
// travel as loose items instead.
func (it *Item) ShouldInclude() bool {
	return it.CanReplace() && !it.HasCategory("map")
}

// PoolLimits computes the (min, max) pool-count bound for this item given the
// number of maps in play. Keys are capped at one per map; weapons at roughly
// one per episode.
func (it *Item) PoolLimits(mapCount int) (int, int) {
	switch {
	case it.HasCategory("key"):
		return 1, 1
	case it.HasCategory("weapon"):
		upper := mapCount / 8
		if upper < 1 {
			upper = 1
		}
		return 1, upper
	case it.HasCategory("token"):
		n := it.CountForSkill(3)
		return n, n
	default:
		return 0, 1 << 30
	}
}

func clampSkill(skill int) int {
	if skill < 1 {
		return 1
	}
	if skill > 3 {
		return 3
	}
	return skill
}
