// Package authorization decides whether a signed action may change an identity.
package authorization

import (
	"errors"
	"fmt"

	"fedid/engine/library"
	"fedid/engine/signer"
	"fedid/state/relationships"
	"golang.org/x/exp/slices"
)

var (
	ErrProofRelationshipNotRegistered = errors.New("proof relationship is not registered in the identity")
	ErrMalformedSignature             = errors.New("malformed signature")
	ErrSignatureMismatch              = errors.New("signature does not match the proof relationship's signing key")
)

// Lookup finds a relationship by address.
type Lookup interface {
	Relationship(addr library.Address) (relationships.Relationship, bool)
}

// Authorize checks, in order, that proof is one of members, that sig recovers a signer over the
// action address, and that the signer is proof's signing key. It has no side effects.
func Authorize(members []library.Address, action, proof library.Address, sig library.Signature, lookup Lookup) error {
	if !slices.Contains(members, proof) {
		return fmt.Errorf("%w: %s", ErrProofRelationshipNotRegistered, proof)
	}
	r, ok := lookup.Relationship(proof)
	if !ok {
		return fmt.Errorf("%w: %s is not a relationship", ErrProofRelationshipNotRegistered, proof)
	}
	signerAddr, err := signer.Recover(action, sig)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedSignature, err)
	}
	if signerAddr != r.SigningKeyAddress() {
		return fmt.Errorf("%w: signed by %s, relationship %s is bound to %s", ErrSignatureMismatch, signerAddr, proof, r.SigningKeyAddress())
	}
	return nil
}
