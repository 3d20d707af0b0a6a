package authorities

import (
	"fmt"

	"fedid/engine/library"
	"fedid/messaging/notifications"
	"fedid/state/addresses"
	"fedid/state/identity"
	"github.com/google/uuid"
)

// Deploy creates a new authority owned by the caller.
func Deploy(ctx library.CallerContext) (library.Address, error) {
	startDb()
	addr := library.DeriveAddress(ctx.From, ctx.Nonce)
	if err := addresses.Claim(addr, addresses.Authority); err != nil {
		return library.ZeroAddress, err
	}
	currentState.mutex.Lock()
	currentState.upsert(Authority{Address: addr, Deployer: ctx.From})
	currentState.mutex.Unlock()
	library.LogCLI(fmt.Sprintf("authority %s deployed by %s", addr, ctx.From), 3)
	return addr, nil
}

// Prepare builds a request for authority to inspect ident without recording it.
func Prepare(authority, ident library.Address, mask []byte) Request {
	startDb()
	currentState.mutex.Lock()
	now := clock.Now().UTC()
	currentState.mutex.Unlock()
	return Request{
		ID:        uuid.New().String(),
		Authority: authority,
		Identity:  ident,
		Mask:      append([]byte{}, mask...),
		At:        now,
	}
}

// Announce records r and publishes it on notifications.Default.
func Announce(ctx library.CallerContext, r Request) error {
	startDb()
	if !Exists(r.Authority) {
		return fmt.Errorf("%w: %s", ErrUnknownAuthority, r.Authority)
	}
	if _, ok := identity.Get(r.Identity); !ok {
		return fmt.Errorf("%w: %s", identity.ErrUnknownIdentity, r.Identity)
	}
	r.Mask = append([]byte{}, r.Mask...)
	currentState.mutex.Lock()
	currentState.requests[r.Authority] = append(currentState.requests[r.Authority], r)
	currentState.mutex.Unlock()
	notifications.Default.Publish(notifications.Notification{
		ID:        r.ID,
		Kind:      notifications.NewRequest,
		Authority: r.Authority,
		Identity:  r.Identity,
		Mask:      r.Mask,
		At:        r.At,
	})
	library.LogCLI(fmt.Sprintf("%s requested %s to inspect identity %s", ctx.From, r.Authority, r.Identity), 3)
	return nil
}

// Ask records a disclosure request against authority and announces it.
func Ask(ctx library.CallerContext, authority, ident library.Address, mask []byte) (Request, error) {
	r := Prepare(authority, ident, mask)
	if err := Announce(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Restore puts back a request read from the journal without announcing it again. Restoring a
// request that is already present does nothing.
func Restore(r Request) error {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	if _, ok := currentState.data[r.Authority]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAuthority, r.Authority)
	}
	for _, existing := range currentState.requests[r.Authority] {
		if existing.ID == r.ID {
			return nil
		}
	}
	currentState.requests[r.Authority] = append(currentState.requests[r.Authority], r)
	return nil
}
