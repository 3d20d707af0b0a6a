package query

import (
	"testing"

	"fedid/engine/library"
	"fedid/state/relationships"
	"github.com/stretchr/testify/require"
)

type fakeLookup map[library.Address]relationships.Relationship

func (f fakeLookup) Relationship(addr library.Address) (relationships.Relationship, bool) {
	r, ok := f[addr]
	return r, ok
}

var (
	authorityA = library.AddressFromBytes([]byte("authority a"))
	authorityB = library.AddressFromBytes([]byte("authority b"))
)

func (f fakeLookup) add(n uint64, authority library.Address, mask string) library.Address {
	addr := library.DeriveAddress(library.ZeroAddress, n)
	f[addr] = relationships.Relationship{
		Address:    addr,
		Authority:  authority,
		MaskBytes:  []byte(mask),
		SigningKey: library.DeriveAddress(authority, n),
	}
	return addr
}

func TestResolveFirstMaskWins(t *testing.T) {
	l := fakeLookup{}
	m1 := l.add(1, authorityA, "m")
	m2 := l.add(2, authorityA, "m")
	n := l.add(3, authorityA, "n")

	require.Equal(t, []library.Address{m1, n}, Resolve([]library.Address{m1, m2, n}, authorityA, l))
	require.Equal(t, []library.Address{m2, n}, Resolve([]library.Address{m2, n, m1}, authorityA, l))
	require.Equal(t, [][]byte{[]byte("m"), []byte("n")}, Masks([]library.Address{m1, n, m2}, authorityA, l))
}

func TestResolveFiltersByAuthority(t *testing.T) {
	l := fakeLookup{}
	a := l.add(1, authorityA, "m")
	b := l.add(2, authorityB, "m")
	c := l.add(3, authorityB, "n")
	members := []library.Address{a, b, c}

	require.Equal(t, []library.Address{a}, Resolve(members, authorityA, l))
	require.Equal(t, []library.Address{b, c}, Resolve(members, authorityB, l))
	for _, addr := range Resolve(members, authorityB, l) {
		require.Equal(t, authorityB, l[addr].BoundAuthority())
	}
}

func TestResolveDuplicateReferences(t *testing.T) {
	l := fakeLookup{}
	a := l.add(1, authorityA, "m")
	require.Equal(t, []library.Address{a}, Resolve([]library.Address{a, a, a}, authorityA, l))
}

func TestResolveEmpty(t *testing.T) {
	l := fakeLookup{}
	unknown := library.DeriveAddress(library.ZeroAddress, 99)
	require.Empty(t, Resolve(nil, authorityA, l))
	require.Empty(t, Resolve([]library.Address{unknown}, authorityA, l))
	require.NotNil(t, Resolve(nil, authorityA, l))
}

func TestResolveMaskBytesAreOpaque(t *testing.T) {
	l := fakeLookup{}
	a := l.add(1, authorityA, "\x00\xff")
	b := l.add(2, authorityA, "\x00\xfe")
	c := l.add(3, authorityA, "")
	d := l.add(4, authorityA, "")
	require.Equal(t, []library.Address{a, b, c}, Resolve([]library.Address{a, b, c, d}, authorityA, l))
}
