package combat

import "errors"

// Every failure in the core is non-fatal. Commands return these so callers
// can tell what happened; the frame step resolves them to no effect.
var (
	ErrNoAmmo            = errors.New("no ammunition for selected weapon")
	ErrNoLineOfSight     = errors.New("no line of sight")
	ErrStaleHandle       = errors.New("target no longer exists")
	ErrOutOfRange        = errors.New("target out of range")
	ErrOutOfCone         = errors.New("target outside cone")
	ErrEmptyCandidateSet = errors.New("no candidates")
	ErrUnknownWeapon     = errors.New("unknown weapon")
	ErrDecoyCooldown     = errors.New("countermeasure cooling down")
	ErrNoDecoys          = errors.New("no countermeasures left")
	ErrPlayerDown        = errors.New("player destroyed")
)
