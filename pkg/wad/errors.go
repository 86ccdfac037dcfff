package wad

import "errors"

// Structural errors. All of these indicate broken scan/tuning data and must
// abort the whole load; none are safe to recover from.
var (
	ErrDuplicateMap      = errors.New("duplicate map definition")
	ErrBadPosition       = errors.New("cannot decode position")
	ErrUnknownPrereq     = errors.New("unknown prerequisite")
	ErrUnknownKey        = errors.New("unknown key typename")
	ErrUnknownMap        = errors.New("unknown map")
	ErrUnknownRegion     = errors.New("unknown region")
	ErrUnknownItemType   = errors.New("unknown item typename")
	ErrNameCollision     = errors.New("unresolvable name collision")
	ErrFrozen            = errors.New("registration after finalize")
	ErrAlreadyFinalized  = errors.New("finalize called twice")
	ErrNotFinalized      = errors.New("queried before finalize")
	ErrUnknownLocation   = errors.New("unknown location")
	ErrRuleCycle         = errors.New("prerequisite cycle")
	ErrInvalidRatio      = errors.New("invalid category ratio")
	ErrBadWinCondition   = errors.New("conflicting win conditions")
	ErrUnknownSecretType = errors.New("unknown secret type")
)
