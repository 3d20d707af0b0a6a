package authorization

import (
	"errors"
	"testing"

	"fedid/engine/library"
	"fedid/engine/signer"
	"fedid/state/relationships"
	"github.com/stretchr/testify/require"
)

type fakeLookup map[library.Address]relationships.Relationship

func (f fakeLookup) Relationship(addr library.Address) (relationships.Relationship, bool) {
	r, ok := f[addr]
	return r, ok
}

type fixture struct {
	lookup  fakeLookup
	key1    *signer.Key
	key2    *signer.Key
	r1, r2  library.Address
	action  library.Address
	members []library.Address
}

func newFixture(t *testing.T) fixture {
	k1, err := signer.KeyFromHex("0x348ce564d427a3311b6536bbcff9390d69395b06ed6c486954e971d960fe8709")
	require.NoError(t, err)
	k2, err := signer.KeyFromHex("0x748ce564d427a3311b6536bbcff9390d69395b06ed6c486954e971d960fe8709")
	require.NoError(t, err)
	authority := library.AddressFromBytes([]byte("authority"))
	f := fixture{
		lookup: fakeLookup{},
		key1:   k1,
		key2:   k2,
		r1:     library.DeriveAddress(authority, 1),
		r2:     library.DeriveAddress(authority, 2),
		action: library.DeriveAddress(authority, 3),
	}
	f.lookup[f.r1] = relationships.Relationship{Address: f.r1, Authority: authority, MaskBytes: []byte("m"), SigningKey: k1.Address()}
	f.lookup[f.r2] = relationships.Relationship{Address: f.r2, Authority: authority, MaskBytes: []byte("n"), SigningKey: k2.Address()}
	f.members = []library.Address{f.r2}
	return f
}

func TestAuthorizeSuccess(t *testing.T) {
	f := newFixture(t)
	sig, err := f.key2.Sign(f.action)
	require.NoError(t, err)
	require.NoError(t, Authorize(f.members, f.action, f.r2, sig, f.lookup))
}

func TestAuthorizeProofNotMember(t *testing.T) {
	f := newFixture(t)
	sig, err := f.key1.Sign(f.action)
	require.NoError(t, err)
	err = Authorize(f.members, f.action, f.r1, sig, f.lookup)
	require.True(t, errors.Is(err, ErrProofRelationshipNotRegistered))
}

func TestAuthorizeProofNotARelationship(t *testing.T) {
	f := newFixture(t)
	stranger := library.DeriveAddress(library.ZeroAddress, 1)
	sig, err := f.key2.Sign(f.action)
	require.NoError(t, err)
	err = Authorize(append(f.members, stranger), f.action, stranger, sig, f.lookup)
	require.True(t, errors.Is(err, ErrProofRelationshipNotRegistered))
}

func TestAuthorizeSignatureMismatch(t *testing.T) {
	f := newFixture(t)
	sig, err := f.key1.Sign(f.action)
	require.NoError(t, err)
	err = Authorize(f.members, f.action, f.r2, sig, f.lookup)
	require.True(t, errors.Is(err, ErrSignatureMismatch))
}

func TestAuthorizeSignatureForAnotherAction(t *testing.T) {
	f := newFixture(t)
	sig, err := f.key2.Sign(library.DeriveAddress(f.action, 1))
	require.NoError(t, err)
	err = Authorize(f.members, f.action, f.r2, sig, f.lookup)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrProofRelationshipNotRegistered))
}

func TestAuthorizeMalformedSignature(t *testing.T) {
	f := newFixture(t)
	sig, err := f.key2.Sign(f.action)
	require.NoError(t, err)

	sig.V = 99
	err = Authorize(f.members, f.action, f.r2, sig, f.lookup)
	require.True(t, errors.Is(err, ErrMalformedSignature))

	err = Authorize(f.members, f.action, f.r2, library.Signature{V: 27}, f.lookup)
	require.True(t, errors.Is(err, ErrMalformedSignature))
}

// Membership is checked before the signature, so a garbage signature with a non member proof
// reports the membership failure.
func TestAuthorizeCheckOrder(t *testing.T) {
	f := newFixture(t)
	err := Authorize(f.members, f.action, f.r1, library.Signature{}, f.lookup)
	require.True(t, errors.Is(err, ErrProofRelationshipNotRegistered))
}
