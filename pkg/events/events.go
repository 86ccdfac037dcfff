// Package events defines the line protocol emitted by the game-side scanner
// and tuning recorder.
//
// Records are newline-delimited `AP-<KIND> <json-payload>` lines; a payload
// may continue over multiple lines until one ends in '}'. The payload of each
// kind is validated against an embedded JSON schema before decoding, so a
// malformed record fails at the protocol boundary with a useful message
// instead of deep inside the model.
package events

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wadrando/wadrando/pkg/wad"
)

// Kind is the record tag, e.g. "AP-MAP".
type Kind string

const (
	KindScan     Kind = "AP-SCAN"
	KindMap      Kind = "AP-MAP"
	KindItem     Kind = "AP-ITEM"
	KindKey      Kind = "AP-KEY"
	KindSecret   Kind = "AP-SECRET"
	KindCheck    Kind = "AP-CHECK"
	KindScanDone Kind = "AP-SCAN-DONE"
)

// ignoredKinds are multiplayer chatter the logic core does not consume.
var ignoredKinds = map[Kind]struct{}{
	"AP-XON":    {},
	"AP-ACK":    {},
	"AP-STATUS": {},
	"AP-CHAT":   {},
	"AP-XOFF":   {},
	"AP-DEATH":  {},
}

// Ignored reports whether a kind is recognized but irrelevant.
func Ignored(k Kind) bool {
	_, ok := ignoredKinds[k]
	return ok
}

// ErrUnknownKind marks a record tag outside the protocol.
var ErrUnknownKind = fmt.Errorf("unknown event kind")

// Payload is the closed set of decoded record payloads. Exactly one concrete
// type exists per Kind; dispatch on the concrete type is exhaustive.
type Payload interface {
	Kind() Kind
}

// ScanPayload sets WAD-wide behavior flags.
type ScanPayload struct {
	Flags []string `json:"flags"`
}

// MapPayload defines one level.
type MapPayload struct {
	Map          string      `json:"map"`
	Checksum     string      `json:"checksum"`
	Info         wad.MapInfo `json:"info"`
	MonsterCount int         `json:"monster_count"`
	Rank         *int        `json:"rank,omitempty"`
	ClusterName  string      `json:"clustername,omitempty"`
}

// ItemPayload reports one scanned item and its position.
type ItemPayload struct {
	Map      string `json:"map"`
	Category string `json:"category"`
	Typename string `json:"typename"`
	Tag      string `json:"tag"`
	Position []any  `json:"position"`
	Skill    []int  `json:"skill,omitempty"`
	Secret   bool   `json:"secret,omitempty"`
	Name     string `json:"name,omitempty"`
	TID      int    `json:"tid,omitempty"`
}

// KeyPayload declares a logical key and the maps it unlocks.
type KeyPayload struct {
	Tag       string   `json:"tag,omitempty"`
	Typename  string   `json:"typename"`
	ScopeName string   `json:"scopename"`
	Cluster   int      `json:"cluster,omitempty"`
	Maps      []string `json:"maps"`
}

// SecretPayload reports a secret marker with no backing item.
type SecretPayload struct {
	Map      string `json:"map"`
	Position []any  `json:"position"`
	Skill    []int  `json:"skill,omitempty"`
	Name     string `json:"name,omitempty"`
}

// CheckPayload is one piece of tuning evidence: the player reached a named
// node holding these keys.
type CheckPayload struct {
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"name"`
	Position    []any   `json:"position,omitempty"`
	Keys        []string `json:"keys,omitempty"`
	Region      string  `json:"region,omitempty"`
	Unreachable *bool   `json:"unreachable,omitempty"`
}

// ScanDonePayload ends the scan phase.
type ScanDonePayload struct {
	Skill int `json:"skill,omitempty"`
}

func (*ScanPayload) Kind() Kind     { return KindScan }
func (*MapPayload) Kind() Kind      { return KindMap }
func (*ItemPayload) Kind() Kind     { return KindItem }
func (*KeyPayload) Kind() Kind      { return KindKey }
func (*SecretPayload) Kind() Kind   { return KindSecret }
func (*CheckPayload) Kind() Kind    { return KindCheck }
func (*ScanDonePayload) Kind() Kind { return KindScanDone }

// Parse validates and decodes one record payload. Ignored kinds return
// (nil, nil); unknown kinds are an error, since an unrecognized tag means
// either corrupt data or a protocol version we do not speak.
func Parse(kind string, data []byte) (Payload, error) {
	k := Kind(kind)
	if Ignored(k) {
		return nil, nil
	}

	if err := Validate(k, data); err != nil {
		return nil, err
	}

	var payload Payload
	switch k {
	case KindScan:
		payload = &ScanPayload{}
	case KindMap:
		payload = &MapPayload{}
	case KindItem:
		payload = &ItemPayload{}
	case KindKey:
		payload = &KeyPayload{}
	case KindSecret:
		payload = &SecretPayload{}
	case KindCheck:
		payload = &CheckPayload{}
	case KindScanDone:
		payload = &ScanDonePayload{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", kind, err)
	}
	return payload, nil
}
