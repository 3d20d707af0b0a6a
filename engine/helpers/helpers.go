// Package helpers strings conductor transactions together into the flows an operator exercises by hand.
package helpers

import (
	"context"
	"fmt"

	"fedid/engine/library"
	"fedid/engine/signer"
	"fedid/messaging/conductor"
	"fedid/state/actions"
)

// Demo is what RunDemo created.
type Demo struct {
	Authority library.Address
	First     library.Address
	Second    library.Address
	Identity  library.Address
	Action    library.Address
}

// RunDemo deploys an authority, creates an identity holding one relationship, registers a second
// relationship under another mask with an action signed by key, and asks the authority to look at
// the identity. Every step goes through c as from.
func RunDemo(ctx context.Context, c *conductor.Conductor, from library.Address, key *signer.Key) (d Demo, err error) {
	submit := func(tx conductor.Tx) library.Address {
		if err != nil {
			return library.ZeroAddress
		}
		tx.From = from
		var r conductor.Receipt
		r, err = c.Submit(ctx, tx)
		if err != nil {
			err = fmt.Errorf("%s: %w", tx.Kind, err)
		}
		return r.Address
	}
	d.Authority = submit(conductor.Tx{Kind: conductor.DeployAuthority})
	d.First = submit(conductor.Tx{Kind: conductor.CreateRelationship, Authority: d.Authority, Mask: []byte("very-secure-mask-for-pii"), SigningKey: key.Address()})
	d.Second = submit(conductor.Tx{Kind: conductor.CreateRelationship, Authority: d.Authority, Mask: []byte("another-secure-mask-for-pii"), SigningKey: key.Address()})
	d.Identity = submit(conductor.Tx{Kind: conductor.CreateIdentity, Relationships: []library.Address{d.First}})
	d.Action = submit(conductor.Tx{Kind: conductor.CreateAction, Target: d.Identity, ActionKind: actions.Register, Single: d.Second})
	if err != nil {
		return
	}
	sig, err := key.Sign(d.Action)
	if err != nil {
		return
	}
	submit(conductor.Tx{Kind: conductor.Handle, Identity: d.Identity, Action: d.Action, Proof: d.First, Signature: sig})
	submit(conductor.Tx{Kind: conductor.Request, Authority: d.Authority, Identity: d.Identity, Mask: []byte("very-secure-mask-for-pii")})
	return
}
