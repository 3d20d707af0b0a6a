package actions

import (
	"errors"
	"testing"

	"fedid/engine/library"
	"github.com/stretchr/testify/require"
)

var nonce uint64

func caller() library.CallerContext {
	nonce++
	return library.CallerContext{From: library.AddressFromBytes([]byte("actions test")), Nonce: nonce}
}

func addr(n uint64) library.Address {
	return library.DeriveAddress(library.AddressFromBytes([]byte("some relationship")), n)
}

func TestCreateValidShapes(t *testing.T) {
	target := addr(100)
	for _, tc := range []struct {
		name   string
		kind   Kind
		single library.Address
		bulk   []library.Address
		shape  Shape
	}{
		{"register single", Register, addr(1), nil, Single},
		{"register bulk", Register, library.ZeroAddress, []library.Address{addr(1), addr(2)}, Bulk},
		{"revoke single", Revoke, addr(3), nil, Single},
		{"revoke bulk", Revoke, library.ZeroAddress, []library.Address{addr(3)}, Bulk},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Create(caller(), target, tc.kind, tc.single, tc.bulk)
			require.NoError(t, err)
			got, ok := Get(a)
			require.True(t, ok)
			require.Equal(t, a, got.Address)
			require.Equal(t, target, got.Target)
			require.Equal(t, tc.kind, got.Kind)
			shape, err := got.Shape()
			require.NoError(t, err)
			require.Equal(t, tc.shape, shape)
			if tc.shape == Single {
				require.Equal(t, []library.Address{tc.single}, got.Relationships())
			} else {
				require.Equal(t, tc.bulk, got.Relationships())
			}
		})
	}
}

func TestCreateInvalidShapes(t *testing.T) {
	target := addr(100)
	for _, tc := range []struct {
		name   string
		kind   Kind
		single library.Address
		bulk   []library.Address
	}{
		{"no payload", Register, library.ZeroAddress, nil},
		{"empty bulk", Revoke, library.ZeroAddress, []library.Address{}},
		{"both payloads", Register, addr(1), []library.Address{addr(2)}},
		{"unknown kind", Kind(7), addr(1), nil},
		{"zero in bulk", Revoke, library.ZeroAddress, []library.Address{addr(1), library.ZeroAddress}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			before := len(GetMap())
			_, err := Create(caller(), target, tc.kind, tc.single, tc.bulk)
			require.True(t, errors.Is(err, ErrInvalidActionShape))
			require.Equal(t, before, len(GetMap()))
		})
	}
}

func TestActionIsImmutable(t *testing.T) {
	bulk := []library.Address{addr(1), addr(2)}
	a, err := Create(caller(), addr(100), Register, library.ZeroAddress, bulk)
	require.NoError(t, err)
	bulk[0] = addr(9)

	got, _ := Get(a)
	require.Equal(t, addr(1), got.Bulk[0])
	got.Bulk[1] = addr(9)
	again, _ := Get(a)
	require.Equal(t, addr(2), again.Bulk[1])
}

func TestKindString(t *testing.T) {
	require.Equal(t, "register", Register.String())
	require.Equal(t, "revoke", Revoke.String())
	require.Equal(t, "kind(9)", Kind(9).String())
}
