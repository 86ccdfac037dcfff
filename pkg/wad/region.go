package wad

// Region is a named reachability node for an area within a map that tuning
// has identified ("MAP07/courtyard"). Its prerequisites always implicitly
// include reaching the enclosing map, so every recorded requirement set and
// the finalize default both carry a map/<name> token.
type Region struct {
	Reachable

	MapName   string
	Subregion string
}

func newRegion(mapName, subregion string) *Region {
	return &Region{MapName: mapName, Subregion: subregion}
}

func (r *Region) Name() string {
	return r.MapName + "/" + r.Subregion
}

func (r *Region) mapToken() string {
	return "map/" + r.MapName
}

// RecordTuning records one tuning observation, adding the implicit
// enclosing-map dependency.
func (r *Region) RecordTuning(tokens []string, unreachable *bool) error {
	return r.Record(append(append([]string{}, tokens...), r.mapToken()), unreachable)
}

// FinalizeTuning finalizes with the trivially-true default (regions with no
// evidence defer entirely to the enclosing map).
func (r *Region) FinalizeTuning() error {
	return r.Finalize([]TokenSet{NewTokenSet([]string{r.mapToken()})})
}

// AccessRule compiles the region's reachability predicate.
func (r *Region) AccessRule(world World, w *WAD) (Rule, error) {
	return r.compileAccessRule(world, w, make(map[string]bool))
}

func (r *Region) compileAccessRule(world World, w *WAD, visited map[string]bool) (Rule, error) {
	m, ok := w.maps[r.MapName]
	if !ok {
		return nil, ErrUnknownMap
	}
	node := "map/" + r.Name()
	visited[node] = true
	defer delete(visited, node)
	return r.accessRule(world, w, m, ruleOverrides{}, visited)
}
