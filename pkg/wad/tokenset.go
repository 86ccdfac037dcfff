package wad

import (
	"sort"
	"strings"
)

// TokenSet is a set of prerequisite token strings. One TokenSet is one
// AND-branch of a reachability rule: all tokens must be satisfied.
type TokenSet map[string]struct{}

// NewTokenSet normalizes raw tuning tokens into a set. Tokens without a '/'
// are shorthand for key requirements.
func NewTokenSet(tokens []string) TokenSet {
	ts := make(TokenSet, len(tokens))
	for _, tok := range tokens {
		if !strings.Contains(tok, "/") {
			tok = "key/" + tok
		}
		ts[tok] = struct{}{}
	}
	return ts
}

func (ts TokenSet) Has(tok string) bool {
	_, ok := ts[tok]
	return ok
}

func (ts TokenSet) Clone() TokenSet {
	out := make(TokenSet, len(ts))
	for tok := range ts {
		out[tok] = struct{}{}
	}
	return out
}

// With returns a copy of the set with extra tokens added.
func (ts TokenSet) With(tokens ...string) TokenSet {
	out := ts.Clone()
	for _, tok := range tokens {
		out[tok] = struct{}{}
	}
	return out
}

// SubsetOf reports whether every token of ts is in other.
func (ts TokenSet) SubsetOf(other TokenSet) bool {
	if len(ts) > len(other) {
		return false
	}
	for tok := range ts {
		if !other.Has(tok) {
			return false
		}
	}
	return true
}

// ProperSubsetOf reports whether ts is a subset of other and not equal to it.
func (ts TokenSet) ProperSubsetOf(other TokenSet) bool {
	return len(ts) < len(other) && ts.SubsetOf(other)
}

func (ts TokenSet) Equal(other TokenSet) bool {
	return len(ts) == len(other) && ts.SubsetOf(other)
}

// Sorted returns the tokens in lexical order. Used wherever iteration order
// must be deterministic (rule compilation, canonical keys, tests).
func (ts TokenSet) Sorted() []string {
	out := make([]string, 0, len(ts))
	for tok := range ts {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// canonical returns a stable string form of the set, used to order antichain
// members deterministically.
func (ts TokenSet) canonical() string {
	return strings.Join(ts.Sorted(), "\x00")
}

func (ts TokenSet) String() string {
	return "{" + strings.Join(ts.Sorted(), ", ") + "}"
}
