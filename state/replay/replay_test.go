package replay

import (
	"errors"
	"testing"

	"fedid/engine/actors"
	"fedid/engine/library"
	"github.com/stretchr/testify/require"
)

func TestRecordAndCheck(t *testing.T) {
	identity := library.DeriveAddress(library.AddressFromBytes([]byte("replay test")), 1)
	action := library.DeriveAddress(identity, 1)

	require.False(t, WasConsumed(identity, action))
	require.NoError(t, Check(identity, action))
	Record(identity, action)
	require.True(t, WasConsumed(identity, action))
	require.Equal(t, []library.Address{action}, Consumed(identity))
	Record(identity, action)
	require.Equal(t, 2, Times(identity, action))
	require.Equal(t, 0, Times(identity, identity))

	// replays pass unless protection is switched on
	require.NoError(t, Check(identity, action))
	actors.MakeOrGetConfig().Set("replayProtection", true)
	defer actors.MakeOrGetConfig().Set("replayProtection", false)
	require.True(t, errors.Is(Check(identity, action), ErrActionReplayed))
	require.NoError(t, Check(identity, library.DeriveAddress(identity, 2)))
}

func TestStateHashChanges(t *testing.T) {
	identity := library.DeriveAddress(library.AddressFromBytes([]byte("replay test")), 2)
	before := GetStateHash()
	require.Equal(t, before, GetStateHash())
	Record(identity, library.DeriveAddress(identity, 1))
	require.NotEqual(t, before, GetStateHash())
}

func TestGetMapIsACopy(t *testing.T) {
	identity := library.DeriveAddress(library.AddressFromBytes([]byte("replay test")), 3)
	Record(identity, library.DeriveAddress(identity, 1))
	m := GetMap()
	m[identity][0] = library.ZeroAddress
	require.Equal(t, library.DeriveAddress(identity, 1), Consumed(identity)[0])
}
