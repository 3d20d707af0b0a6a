package identity

import (
	"errors"

	"fedid/engine/library"
	"fedid/state/actions"
	"fedid/state/authorization"
	"fedid/state/replay"
)

var (
	ErrUnknownIdentity = errors.New("unknown identity")
	ErrUnknownAction   = errors.New("unknown action")
	ErrWrongTarget     = errors.New("action targets a different identity")

	ErrInvalidActionShape             = actions.ErrInvalidActionShape
	ErrProofRelationshipNotRegistered = authorization.ErrProofRelationshipNotRegistered
	ErrMalformedSignature             = authorization.ErrMalformedSignature
	ErrSignatureMismatch              = authorization.ErrSignatureMismatch
	ErrActionReplayed                 = replay.ErrActionReplayed
)

type Mapped map[library.Address]Identity

// Identity is one holder's ordered set of relationships. The same relationship may appear more
// than once; duplicates are only collapsed when the identity is queried.
type Identity struct {
	Address       library.Address   `json:"address"`
	Relationships []library.Address `json:"relationships"`
}
