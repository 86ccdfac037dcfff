package wad

import (
	"fmt"
	"sort"
)

// Rule is a compiled reachability predicate, evaluated against the current
// inventory state.
type Rule func(State) bool

// Reachable holds the tuning-driven reachability state shared by Locations,
// Regions, and map-level extra rules.
//
// Evidence arrives as observed-sufficient requirement sets: "the player got
// here holding these". Different play sessions may take different valid
// paths, so evidence cannot simply be intersected; instead it is minimized
// into an antichain of alternative requirement sets (an OR of ANDs), where
// within each branch requirements only ever shrink.
type Reachable struct {
	tuning      []TokenSet
	prereqs     []TokenSet // nil until finalized; antichain, canonically ordered
	finalized   bool
	unreachable bool
}

// Record appends one tuning record. Tokens without a '/' are shorthand for
// key requirements. A non-nil unreachable marks the node permanently
// unreachable, which is a stronger fact than "no evidence yet".
func (r *Reachable) Record(tokens []string, unreachable *bool) error {
	if r.finalized {
		return fmt.Errorf("%w: tuning record after finalize", ErrFrozen)
	}
	if unreachable != nil {
		r.unreachable = *unreachable
	}
	r.tuning = append(r.tuning, NewTokenSet(tokens))
	return nil
}

// Unreachable reports whether direct observation has flagged this node as
// unreachable.
func (r *Reachable) Unreachable() bool { return r.unreachable }

// HasTuning reports whether any tuning evidence was recorded.
func (r *Reachable) HasTuning() bool { return len(r.tuning) > 0 }

// Finalize minimizes the recorded evidence into the canonical antichain and
// freezes it. If no evidence was recorded, def supplies the pessimistic
// default. Minimization keeps, for each candidate set, only members that are
// not dominated: an existing member that is a proper superset of the
// candidate is dropped, and the candidate is skipped if some member is
// already a subset of it. Insertion order does not affect the result.
func (r *Reachable) Finalize(def []TokenSet) error {
	if r.finalized {
		return fmt.Errorf("%w: reachability state", ErrAlreadyFinalized)
	}
	evidence := r.tuning
	if len(evidence) == 0 {
		evidence = def
	}
	r.prereqs = minimize(evidence)
	r.finalized = true
	return nil
}

// Prereqs returns the finalized antichain in canonical order.
func (r *Reachable) Prereqs() ([]TokenSet, error) {
	if !r.finalized {
		return nil, fmt.Errorf("%w: reachability prereqs", ErrNotFinalized)
	}
	return r.prereqs, nil
}

func minimize(evidence []TokenSet) []TokenSet {
	var keysets []TokenSet
	for _, cand := range evidence {
		// Drop members the candidate dominates (proper supersets of it).
		kept := keysets[:0]
		for _, ks := range keysets {
			if !cand.ProperSubsetOf(ks) {
				kept = append(kept, ks)
			}
		}
		keysets = kept

		redundant := false
		for _, ks := range keysets {
			if ks.SubsetOf(cand) {
				redundant = true
				break
			}
		}
		if !redundant {
			keysets = append(keysets, cand.Clone())
		}
	}
	sort.Slice(keysets, func(i, j int) bool {
		return keysets[i].canonical() < keysets[j].canonical()
	})
	return keysets
}

// ruleOverrides are the short-circuit checks layered around the compiled
// OR-of-ANDs, applied in order by accessRule.
type ruleOverrides struct {
	// fallback runs after the compiled rule and the all-keys-vanilla check
	// have both failed; used by key locations for the sole-key exemption.
	fallback Rule
}

// accessRule compiles the finalized antichain into a single predicate against
// the inventory state, resolving tokens in the context of the given map.
// visited carries the map/region compile path for cycle detection.
func (r *Reachable) accessRule(world World, w *WAD, m *Map, ov ruleOverrides, visited map[string]bool) (Rule, error) {
	prereqs, err := r.Prereqs()
	if err != nil {
		return nil, err
	}
	branches := make([]Rule, 0, len(prereqs))
	for _, ts := range prereqs {
		branch, err := compilePrereqSet(world, w, m, ts, visited)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	unreachable := r.unreachable
	return func(state State) bool {
		// In inspection (tracker) mode the unreachable flag is authoritative:
		// direct observation beats whatever the compiled rule says.
		if world.InspectionMode() && unreachable {
			return false
		}

		// Pretuning plays the vanilla game; logic is known beatable.
		if world.PretuningMode() {
			return true
		}

		// An empty antichain means no prerequisites at all.
		if len(branches) == 0 {
			return true
		}

		for _, branch := range branches {
			if branch(state) {
				return true
			}
		}

		// If every key is forced into its vanilla location, key-based
		// progression works as in the original game and key gating is moot.
		if world.AllKeysVanilla() {
			return true
		}

		if ov.fallback != nil && ov.fallback(state) {
			return true
		}
		return false
	}, nil
}
