package identity

import (
	"fmt"

	"fedid/engine/library"
	"fedid/state/actions"
	"fedid/state/addresses"
	"fedid/state/authorization"
	"fedid/state/query"
	"fedid/state/relationships"
	"fedid/state/replay"
	"golang.org/x/exp/slices"
)

// Create stores initial verbatim, order and duplicates included.
func Create(ctx library.CallerContext, initial []library.Address) (library.Address, error) {
	startDb()
	addr := library.DeriveAddress(ctx.From, ctx.Nonce)
	if err := addresses.Claim(addr, addresses.Identity); err != nil {
		return library.ZeroAddress, err
	}
	currentState.mutex.Lock()
	currentState.upsert(Identity{Address: addr, Relationships: slices.Clone(initial)})
	currentState.mutex.Unlock()
	library.LogCLI(fmt.Sprintf("identity %s created with %d relationships", addr, len(initial)), 3)
	return addr, nil
}

// Handle applies action to the identity if proof is one of its relationships and sig is that
// relationship's key signing the action address. Either every check passes and the whole change is
// applied, or the identity is left exactly as it was.
func Handle(ctx library.CallerContext, identity, action, proof library.Address, sig library.Signature) error {
	startDb()
	e, ok := getEntry(identity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIdentity, identity)
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	err := handle(e, action, proof, sig)
	if err != nil {
		library.LogCLI(fmt.Sprintf("%s rejected action %s from %s: %s", identity, action, ctx.From, err), 2)
		return err
	}
	library.LogCLI(fmt.Sprintf("%s accepted action %s proven by %s", identity, action, proof), 3)
	return nil
}

// handle runs with e.mutex held.
func handle(e *entry, actionAddr, proof library.Address, sig library.Signature) error {
	a, ok := actions.Get(actionAddr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, actionAddr)
	}
	if a.Target != e.identity.Address {
		return fmt.Errorf("%w: %s targets %s", ErrWrongTarget, actionAddr, a.Target)
	}
	if _, err := a.Shape(); err != nil {
		return err
	}
	members := e.identity.Relationships
	if err := authorization.Authorize(members, actionAddr, proof, sig, relationships.Lookup{}); err != nil {
		return err
	}
	if err := replay.Check(e.identity.Address, actionAddr); err != nil {
		return err
	}
	e.identity.Relationships = apply(members, a)
	replay.Record(e.identity.Address, actionAddr)
	return nil
}

// apply returns the relationship list after a, never modifying members.
func apply(members []library.Address, a actions.Action) []library.Address {
	next := slices.Clone(members)
	switch a.Kind {
	case actions.Register:
		next = append(next, a.Relationships()...)
	case actions.Revoke:
		for _, r := range a.Relationships() {
			if i := slices.Index(next, r); i >= 0 {
				next = slices.Delete(next, i, i+1)
			}
		}
	}
	return next
}

// RelationshipsTo returns what the identity discloses to authority: one relationship per distinct
// mask, the earliest registered one winning.
func RelationshipsTo(identity, authority library.Address) ([]library.Address, error) {
	i, ok := Get(identity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentity, identity)
	}
	return query.Resolve(i.Relationships, authority, relationships.Lookup{}), nil
}

// Relationships returns the identity's full stored list, duplicates and all.
func Relationships(identity library.Address) ([]library.Address, error) {
	i, ok := Get(identity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentity, identity)
	}
	return i.Relationships, nil
}

// StateHash commits to the identity's ordered relationship list.
func StateHash(identity library.Address) (string, error) {
	members, err := Relationships(identity)
	if err != nil {
		return "", err
	}
	return Identity{Address: identity, Relationships: members}.StateHash(), nil
}

// StateHash commits to the address and the ordered relationship list of i.
func (i Identity) StateHash() string {
	b := make([]byte, 0, len(i.Relationships)*library.AddressLength)
	for _, r := range i.Relationships {
		b = append(b, r[:]...)
	}
	return library.Keccak256Hex(i.Address[:], b)
}
