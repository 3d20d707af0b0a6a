package actions

import (
	"fmt"

	"fedid/engine/library"
	"fedid/state/addresses"
)

// Create stores a proposed action against target. Pass the zero address as single for a bulk
// action and a nil bulk list for a single one; any other combination fails with
// ErrInvalidActionShape and nothing is stored.
func Create(ctx library.CallerContext, target library.Address, kind Kind, single library.Address, bulk []library.Address) (library.Address, error) {
	startDb()
	if _, err := shapeOf(kind, single, bulk); err != nil {
		return library.ZeroAddress, err
	}
	addr := library.DeriveAddress(ctx.From, ctx.Nonce)
	if err := addresses.Claim(addr, addresses.Action); err != nil {
		return library.ZeroAddress, err
	}
	a := Action{
		Address: addr,
		Target:  target,
		Kind:    kind,
		Single:  single,
		Bulk:    append([]library.Address(nil), bulk...),
	}
	currentState.mutex.Lock()
	currentState.upsert(a)
	currentState.mutex.Unlock()
	library.LogCLI(fmt.Sprintf("action %s (%s) created against identity %s", addr, kind, target), 3)
	return addr, nil
}
