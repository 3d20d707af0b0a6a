package conductor

import (
	"fmt"

	"fedid/engine/library"
	"fedid/state/actions"
	"fedid/state/addresses"
	"fedid/state/authorities"
	"fedid/state/identity"
	"fedid/state/relationships"
	"fedid/state/replay"
)

// prepare works out the receipt tx will get if it is accepted at ctx.Nonce, so the journal entry can
// be written before any mind is touched.
func prepare(ctx library.CallerContext, tx Tx) (r Receipt, err error) {
	r.Nonce = ctx.Nonce
	if _, ok := creates(tx.Kind); ok {
		r.Address = library.DeriveAddress(ctx.From, ctx.Nonce)
		return r, nil
	}
	switch tx.Kind {
	case Handle:
	case Request:
		req := authorities.Prepare(tx.Authority, tx.Identity, tx.Mask)
		r.Request = &req
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownTx, tx.Kind)
	}
	return
}

// execute routes tx to the mind that owns it and checks the outcome against the prepared receipt.
func execute(ctx library.CallerContext, tx Tx, want Receipt) error {
	var (
		got library.Address
		err error
	)
	switch tx.Kind {
	case DeployAuthority:
		got, err = authorities.Deploy(ctx)
	case CreateRelationship:
		got, err = relationships.Create(ctx, tx.Authority, tx.Mask, tx.SigningKey)
	case CreateIdentity:
		got, err = identity.Create(ctx, tx.Relationships)
	case CreateAction:
		got, err = actions.Create(ctx, tx.Target, tx.ActionKind, tx.Single, tx.Relationships)
	case Handle:
		return identity.Handle(ctx, tx.Identity, tx.Action, tx.Proof, tx.Signature)
	case Request:
		if want.Request == nil {
			return fmt.Errorf("request from %s without a prepared receipt", ctx.From)
		}
		return authorities.Announce(ctx, *want.Request)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTx, tx.Kind)
	}
	if err != nil {
		return err
	}
	if got != want.Address {
		return fmt.Errorf("%s created %s, expected %s", tx.Kind, got, want.Address)
	}
	return nil
}

func creates(k TxKind) (addresses.Kind, bool) {
	switch k {
	case DeployAuthority:
		return addresses.Authority, true
	case CreateRelationship:
		return addresses.Relationship, true
	case CreateIdentity:
		return addresses.Identity, true
	case CreateAction:
		return addresses.Action, true
	}
	return addresses.Unknown, false
}

type handled struct {
	identity library.Address
	action   library.Address
}

// restorer applies journal entries, skipping those whose effect is already present in this
// process so a journal can be reopened without doubling state.
type restorer struct {
	handles map[handled]int
}

func (r *restorer) restore(e Entry) error {
	ctx := library.CallerContext{From: e.Tx.From, Nonce: e.Receipt.Nonce}
	if kind, ok := creates(e.Tx.Kind); ok {
		if addresses.KindOf(library.DeriveAddress(ctx.From, ctx.Nonce)) == kind {
			return nil
		}
		if err := execute(ctx, e.Tx, e.Receipt); err != nil {
			return fmt.Errorf("journal entry %d: %w", e.Receipt.Seq, err)
		}
		return nil
	}
	switch e.Tx.Kind {
	case Handle:
		key := handled{identity: e.Tx.Identity, action: e.Tx.Action}
		r.handles[key]++
		if replay.Times(key.identity, key.action) >= r.handles[key] {
			return nil
		}
		return execute(ctx, e.Tx, e.Receipt)
	case Request:
		if e.Receipt.Request == nil {
			return fmt.Errorf("journal entry %d is a request without its receipt", e.Receipt.Seq)
		}
		return authorities.Restore(*e.Receipt.Request)
	}
	return fmt.Errorf("%w: %q", ErrUnknownTx, e.Tx.Kind)
}
