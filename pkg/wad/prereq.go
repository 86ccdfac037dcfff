package wad

import (
	"fmt"
	"strings"
)

// Prerequisite tokens form a tiny language: `fqin/<name>`, `key/<typename>`
// (or `key/*`), `item/<typename>`, `weapon/<typename>[/strictness]`, and
// `map/<mapname>[/subregion]`. Tokens are parsed once, at rule-compile time,
// into a tagged atom; evaluation never re-parses strings.

type prereqKind int

const (
	prereqFQIN prereqKind = iota
	prereqKey
	prereqItem
	prereqWeapon
	prereqMap
)

type prereqAtom struct {
	kind prereqKind
	name string // item name, key typename, item typename, or map name
	arg  string // weapon strictness or map subregion
}

func parsePrereq(token string) (prereqAtom, error) {
	fields := strings.Split(token, "/")
	switch fields[0] {
	case "fqin":
		if len(fields) != 2 {
			return prereqAtom{}, fmt.Errorf("%w: %q", ErrUnknownPrereq, token)
		}
		return prereqAtom{kind: prereqFQIN, name: fields[1]}, nil
	case "key":
		if len(fields) != 2 {
			return prereqAtom{}, fmt.Errorf("%w: %q", ErrUnknownPrereq, token)
		}
		return prereqAtom{kind: prereqKey, name: fields[1]}, nil
	case "item":
		if len(fields) != 2 {
			return prereqAtom{}, fmt.Errorf("%w: %q", ErrUnknownPrereq, token)
		}
		return prereqAtom{kind: prereqItem, name: fields[1]}, nil
	case "weapon":
		switch len(fields) {
		case 2:
			return prereqAtom{kind: prereqWeapon, name: fields[1], arg: "need"}, nil
		case 3:
			return prereqAtom{kind: prereqWeapon, name: fields[1], arg: fields[2]}, nil
		}
		return prereqAtom{}, fmt.Errorf("%w: %q", ErrUnknownPrereq, token)
	case "map":
		switch len(fields) {
		case 2:
			return prereqAtom{kind: prereqMap, name: fields[1]}, nil
		case 3:
			return prereqAtom{kind: prereqMap, name: fields[1], arg: fields[2]}, nil
		}
		return prereqAtom{}, fmt.Errorf("%w: %q", ErrUnknownPrereq, token)
	default:
		return prereqAtom{}, fmt.Errorf("%w: %q", ErrUnknownPrereq, token)
	}
}

// compilePrereqSet compiles one AND-branch: all tokens must hold. visited
// tracks the map/region nodes on the current compile path so that cyclic
// tuning data fails with ErrRuleCycle instead of recursing forever.
func compilePrereqSet(world World, w *WAD, m *Map, ts TokenSet, visited map[string]bool) (Rule, error) {
	rules := make([]Rule, 0, len(ts))
	for _, token := range ts.Sorted() {
		rule, err := compilePrereq(world, w, m, token, visited)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return func(state State) bool {
		for _, rule := range rules {
			if !rule(state) {
				return false
			}
		}
		return true
	}, nil
}

// compilePrereq resolves one token against the WAD and the map it is
// evaluated in the context of. Resolution failures are compile-time errors:
// an unknown key or map name means broken tuning data, and must fail the
// load rather than silently misevaluate.
func compilePrereq(world World, w *WAD, m *Map, token string, visited map[string]bool) (Rule, error) {
	atom, err := parsePrereq(token)
	if err != nil {
		return nil, err
	}

	switch atom.kind {
	case prereqFQIN:
		return hasRule(world, atom.name), nil

	case prereqKey:
		if atom.name == "*" {
			// Any key known to this map.
			rules := make([]Rule, 0, len(m.keysByType))
			for _, fqin := range m.Keyset() {
				rules = append(rules, hasRule(world, w.keyInventoryName(fqin)))
			}
			return func(state State) bool {
				for _, rule := range rules {
					if rule(state) {
						return true
					}
				}
				return false
			}, nil
		}
		fqin, ok := m.keysByType[atom.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q in map %s", ErrUnknownKey, atom.name, m.Name)
		}
		return hasRule(world, w.keyInventoryName(fqin)), nil

	case prereqItem:
		item := w.itemByType(atom.name)
		if item == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, atom.name)
		}
		return hasRule(world, item.Name()), nil

	case prereqWeapon:
		if atom.arg != "need" {
			// Relaxed strictness is reserved for fuzzier weapon logic and is
			// currently always satisfiable.
			return func(State) bool { return true }, nil
		}
		item := w.itemByType(atom.name)
		if item == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, atom.name)
		}
		return hasRule(world, item.Name()), nil

	case prereqMap:
		if atom.arg == "" {
			node := "map/" + atom.name
			if visited[node] {
				return nil, fmt.Errorf("%w: %q", ErrRuleCycle, node)
			}
			other, ok := w.maps[atom.name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownMap, atom.name)
			}
			return other.compileAccessRule(world, w, visited)
		}
		name := atom.name + "/" + atom.arg
		if visited["map/"+name] {
			return nil, fmt.Errorf("%w: %q", ErrRuleCycle, "map/"+name)
		}
		region, ok := w.regions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
		}
		return region.compileAccessRule(world, w, visited)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPrereq, token)
}

func hasRule(world World, name string) Rule {
	player := world.Player()
	return func(state State) bool {
		return state.Has(name, player)
	}
}
