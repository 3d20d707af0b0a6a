// Package addresses is the shared address space. Every entity the engine creates claims its
// address here first, so an address names exactly one authority, relationship, identity or action.
package addresses

import (
	"errors"
	"fmt"

	"fedid/engine/library"
	"github.com/sasha-s/go-deadlock"
)

type Kind int

const (
	Unknown Kind = iota
	Authority
	Relationship
	Identity
	Action
)

func (k Kind) String() string {
	switch k {
	case Authority:
		return "authority"
	case Relationship:
		return "relationship"
	case Identity:
		return "identity"
	case Action:
		return "action"
	}
	return "unknown"
}

var ErrAddressInUse = errors.New("address already in use")

var space = make(map[library.Address]Kind)
var mu = &deadlock.Mutex{}

// Claim reserves addr for an entity of the given kind.
func Claim(addr library.Address, kind Kind) error {
	mu.Lock()
	defer mu.Unlock()
	if addr.IsZero() {
		return fmt.Errorf("%w: the zero address is reserved", ErrAddressInUse)
	}
	if existing, ok := space[addr]; ok {
		return fmt.Errorf("%w: %s is a %s", ErrAddressInUse, addr, existing)
	}
	space[addr] = kind
	return nil
}

// Release gives back an address whose creation did not complete.
func Release(addr library.Address) {
	mu.Lock()
	defer mu.Unlock()
	delete(space, addr)
}

func KindOf(addr library.Address) Kind {
	mu.Lock()
	defer mu.Unlock()
	return space[addr]
}
