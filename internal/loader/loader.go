// Package loader streams scan and tuning event logs into the logic model.
//
// Loading is a sequential fold: logic file first, then every tuning file for
// the same WAD in a defined order. Record parsing is memoized through the
// cache; replaying cached records and re-reading the file produce the same
// model.
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/wadrando/wadrando/internal/cache"
	"github.com/wadrando/wadrando/internal/config"
	"github.com/wadrando/wadrando/pkg/events"
	"github.com/wadrando/wadrando/pkg/logic"
	"github.com/wadrando/wadrando/pkg/wad"
)

// Loader ingests event logs and owns the WADs it has built. After Load
// returns, the WADs are finalized and read-only.
type Loader struct {
	cfg    *config.Config
	logic  *logic.Logic
	cache  cache.Cache
	logger *slog.Logger

	wads     map[string]*wad.WAD
	counters map[string]int
}

func New(cfg *config.Config, lg *logic.Logic, c cache.Cache, logger *slog.Logger) *Loader {
	return &Loader{
		cfg:      cfg,
		logic:    lg,
		cache:    c,
		logger:   logger,
		wads:     make(map[string]*wad.WAD),
		counters: make(map[string]int),
	}
}

// WAD returns a loaded WAD by name.
func (l *Loader) WAD(name string) (*wad.WAD, error) {
	w, ok := l.wads[name]
	if !ok {
		return nil, fmt.Errorf("no logic loaded for wad %q", name)
	}
	return w, nil
}

// WADNames returns the names of all loaded WADs, sorted.
func (l *Loader) WADNames() []string {
	names := make([]string, 0, len(l.wads))
	for name := range l.wads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadAll discovers and loads every WAD with a logic file.
func (l *Loader) LoadAll(ctx context.Context) error {
	logicFiles, err := logicFiles(l.cfg.LogicDir)
	if err != nil {
		return err
	}
	for _, file := range logicFiles {
		if _, err := l.LoadWAD(ctx, wadName(file)); err != nil {
			return err
		}
	}
	return nil
}

// LoadWAD loads one WAD: its logic file, then all its tuning files, then both
// finalize phases. Loading the same WAD twice returns the first result.
func (l *Loader) LoadWAD(ctx context.Context, name string) (*wad.WAD, error) {
	if w, ok := l.wads[name]; ok {
		return w, nil
	}

	logicFile, err := logicFileFor(l.cfg.LogicDir, name)
	if err != nil {
		return nil, err
	}

	w := wad.New(name, l.logic)
	log := l.logger.With("wad", name)

	if err := l.loadFile(ctx, w, logicFile); err != nil {
		return nil, err
	}

	tuningFiles, err := tuningFilesFor(l.cfg.TuningDir, name)
	if err != nil {
		return nil, err
	}
	for _, file := range tuningFiles {
		if err := l.loadFile(ctx, w, file); err != nil {
			return nil, err
		}
	}

	if err := w.FinalizeTuning(); err != nil {
		return nil, fmt.Errorf("finalizing %s: %w", name, err)
	}

	if n := w.UntunedLocations(); n > 0 {
		log.Warn("locations without tuning data fell back to the full-keyset default", "count", n)
	}
	l.logStats(log, w)

	l.wads[name] = w
	return w, nil
}

// loadFile replays one event log into the model, through the record cache.
func (l *Loader) loadFile(ctx context.Context, w *wad.WAD, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	key := w.Name + ":" + baseName(path)
	records, hit, err := l.cache.Load(ctx, key, info.ModTime())
	if err != nil {
		l.logger.Warn("cache load failed, re-reading source", "file", path, "error", err)
	}
	if !hit {
		records, err = readRecords(path)
		if err != nil {
			return err
		}
		if err := l.cache.Store(ctx, key, info.ModTime(), records); err != nil {
			l.logger.Warn("cache store failed", "file", path, "error", err)
		}
	}

	for i, record := range records {
		if err := l.apply(w, record); err != nil {
			return fmt.Errorf("%s record %d (%s): %w", path, i+1, record.Kind, err)
		}
	}
	return nil
}

// apply dispatches one record into the model. Tuning records that name a
// location missing from current logic are stale, not fatal; everything else
// that fails aborts the load.
func (l *Loader) apply(w *wad.WAD, record cache.Record) error {
	payload, err := events.Parse(record.Kind, record.Payload)
	if err != nil {
		return err
	}
	if payload == nil {
		return nil
	}
	l.counters[record.Kind]++

	switch p := payload.(type) {
	case *events.ScanPayload:
		w.SetFlags(p.Flags)
		return nil
	case *events.MapPayload:
		return w.NewMap(p.Map, p.Checksum, p.Info, p.MonsterCount, p.Rank, p.ClusterName)
	case *events.ItemPayload:
		return w.NewItem(p.Map, p.Category, p.Typename, p.Tag, p.Position, p.Skill, p.Secret, p.Name)
	case *events.KeyPayload:
		return w.NewKey(p.Tag, p.Typename, p.ScopeName, p.Cluster, p.Maps)
	case *events.SecretPayload:
		return w.NewSecret(p.Map, p.Position, p.Skill, p.Name)
	case *events.CheckPayload:
		err := w.TuneLocation(p.Name, p.Keys, p.Region, p.Unreachable)
		if errors.Is(err, wad.ErrUnknownLocation) {
			l.logger.Warn("stale tuning record, skipping", "wad", w.Name, "location", p.Name)
			return nil
		}
		return err
	case *events.ScanDonePayload:
		return w.FinalizeScan(p.Skill)
	default:
		return fmt.Errorf("%w: %T", events.ErrUnknownKind, payload)
	}
}

// readRecords parses one event log file into validated records. A payload may
// continue over multiple lines until one ends in '}'; lines outside a record
// that do not start with "AP-" are scanner noise and skipped.
func readRecords(path string) ([]cache.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []cache.Record
	var buf strings.Builder

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if buf.Len() == 0 && !strings.HasPrefix(line, "AP-") {
			continue
		}
		if !strings.HasSuffix(line, "}") {
			buf.WriteString(line)
			buf.WriteString("\n")
			continue
		}
		if buf.Len() > 0 {
			line = buf.String() + line
			buf.Reset()
		}

		kind, payload, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%s:%d: malformed record %q", path, lineno, line)
		}
		if events.Ignored(events.Kind(kind)) {
			continue
		}
		if err := events.Validate(events.Kind(kind), []byte(payload)); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineno, err)
		}
		records = append(records, cache.Record{Kind: kind, Payload: []byte(payload)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if buf.Len() > 0 {
		return nil, fmt.Errorf("%s: truncated record at end of file", path)
	}
	return records, nil
}

// ValidateFile parses one event log and, if it defines maps, replays it into
// a throwaway model, reporting the first error. Files holding only tuning
// records are checked for record validity alone, since they cannot be
// replayed without their logic file. Returns per-kind record counts.
func (l *Loader) ValidateFile(path string) (map[string]int, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	hasMaps := false
	for _, record := range records {
		counts[record.Kind]++
		if record.Kind == string(events.KindMap) {
			hasMaps = true
		}
	}
	if !hasMaps {
		return counts, nil
	}

	w := wad.New(wadName(path), l.logic)
	for i, record := range records {
		if err := l.apply(w, record); err != nil {
			return counts, fmt.Errorf("%s record %d (%s): %w", path, i+1, record.Kind, err)
		}
	}
	if w.ScanDone() {
		if err := w.FinalizeTuning(); err != nil {
			return counts, fmt.Errorf("finalizing %s: %w", path, err)
		}
	}
	return counts, nil
}

func (l *Loader) logStats(log *slog.Logger, w *wad.WAD) {
	maps := w.AllMaps()
	monsters := 0
	for _, m := range maps {
		monsters += m.MonsterCount
	}
	log.Info("logic loaded",
		"maps", len(maps),
		"monsters", monsters,
		"items", l.counters["AP-ITEM"],
		"secrets", l.counters["AP-SECRET"],
		"checks", l.counters["AP-CHECK"],
	)
}
