package addresses

import (
	"errors"
	"testing"

	"fedid/engine/library"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	addr := library.DeriveAddress(library.AddressFromBytes([]byte("addresses test")), 1)
	require.Equal(t, Unknown, KindOf(addr))
	require.NoError(t, Claim(addr, Identity))
	require.Equal(t, Identity, KindOf(addr))

	err := Claim(addr, Action)
	require.True(t, errors.Is(err, ErrAddressInUse))
	require.Equal(t, Identity, KindOf(addr))

	Release(addr)
	require.Equal(t, Unknown, KindOf(addr))
	require.NoError(t, Claim(addr, Action))
}

func TestClaimZero(t *testing.T) {
	require.True(t, errors.Is(Claim(library.ZeroAddress, Authority), ErrAddressInUse))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "relationship", Relationship.String())
	require.Equal(t, "unknown", Kind(42).String())
}
