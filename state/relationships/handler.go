package relationships

import (
	"fmt"

	"fedid/engine/library"
	"fedid/state/addresses"
)

// Create stores a new relationship and returns its address. There is no uniqueness rule over
// (authority, mask, signing key): identical relationships are legal and are collapsed only when
// an identity is queried.
func Create(ctx library.CallerContext, authority library.Address, mask []byte, signingKey library.Address) (library.Address, error) {
	startDb()
	addr := library.DeriveAddress(ctx.From, ctx.Nonce)
	if err := addresses.Claim(addr, addresses.Relationship); err != nil {
		return library.ZeroAddress, err
	}
	r := Relationship{
		Address:    addr,
		Authority:  authority,
		MaskBytes:  make([]byte, len(mask)),
		SigningKey: signingKey,
	}
	copy(r.MaskBytes, mask)
	currentState.mutex.Lock()
	currentState.upsert(r)
	currentState.mutex.Unlock()
	library.LogCLI(fmt.Sprintf("relationship %s created for authority %s", addr, authority), 3)
	return addr, nil
}
