package wad

import (
	"fmt"
	"math"
)

// Position identifies a place in a map where a check can live: a physical
// point, a secret sector/marker, or an abstract event like "exited the level".
// Implementations are small comparable value types, so a Position can be used
// directly as a map key for location dedup.
type Position interface {
	MapName() string
	HasCoords() bool
	IsSecret() bool
	String() string
}

// CoordPosition is a physical point in a map, copied from the scanned actor
// position plus the containing map name (two locations with the same
// coordinates in different maps are not the same location).
type CoordPosition struct {
	Map     string
	X, Y, Z int
}

func (p CoordPosition) MapName() string { return p.Map }
func (p CoordPosition) HasCoords() bool { return true }
func (p CoordPosition) IsSecret() bool  { return false }
func (p CoordPosition) String() string {
	return fmt.Sprintf("%s(%d,%d,%d)", p.Map, p.X, p.Y, p.Z)
}

// SecretPosition identifies a secret by sector index or TID.
type SecretPosition struct {
	Map        string
	SecretType string
	SecretID   int
}

func (p SecretPosition) MapName() string { return p.Map }
func (p SecretPosition) HasCoords() bool { return false }
func (p SecretPosition) IsSecret() bool  { return true }
func (p SecretPosition) String() string {
	return fmt.Sprintf("%s(secret %s %d)", p.Map, p.SecretType, p.SecretID)
}

// EventPosition identifies an abstract event, such as exiting the level.
type EventPosition struct {
	Map       string
	EventType string
}

func (p EventPosition) MapName() string { return p.Map }
func (p EventPosition) HasCoords() bool { return false }
func (p EventPosition) IsSecret() bool  { return false }
func (p EventPosition) String() string {
	return fmt.Sprintf("%s(event %s)", p.Map, p.EventType)
}

// ToPosition decodes the `pos` array of a scan record. The array is either
// [x, y, z] for a physical point, ["secret", type, id], or ["event", type].
func ToPosition(mapName string, args []any) (Position, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
	}
	switch v := args[0].(type) {
	case float64:
		if len(args) != 3 {
			return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
		}
		x, ok1 := asInt(args[0])
		y, ok2 := asInt(args[1])
		z, ok3 := asInt(args[2])
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
		}
		return CoordPosition{Map: mapName, X: x, Y: y, Z: z}, nil
	case string:
		switch v {
		case "secret":
			if len(args) != 3 {
				return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
			}
			st, ok := args[1].(string)
			id, okID := asInt(args[2])
			if !ok || !okID {
				return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
			}
			return SecretPosition{Map: mapName, SecretType: st, SecretID: id}, nil
		case "event":
			if len(args) != 2 {
				return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
			}
			et, ok := args[1].(string)
			if !ok {
				return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
			}
			return EventPosition{Map: mapName, EventType: et}, nil
		}
	}
	return nil, fmt.Errorf("%w: map=%s pos=%v", ErrBadPosition, mapName, args)
}

func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}
