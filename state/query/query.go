// Package query resolves what an identity discloses to one authority.
package query

import (
	"fedid/engine/library"
	"fedid/state/relationships"
)

// Lookup finds a relationship by address.
type Lookup interface {
	Relationship(addr library.Address) (relationships.Relationship, bool)
}

// Resolve walks members in insertion order and returns the relationships bound to authority,
// keeping only the first relationship seen for each distinct mask. Later relationships with an
// already returned mask are left out of the result; they stay in the identity. Addresses that
// do not resolve to a relationship are skipped.
func Resolve(members []library.Address, authority library.Address, lookup Lookup) []library.Address {
	seen := make(map[string]struct{})
	result := []library.Address{}
	for _, addr := range members {
		r, ok := lookup.Relationship(addr)
		if !ok || r.BoundAuthority() != authority {
			continue
		}
		mask := string(r.MaskBytes)
		if _, dup := seen[mask]; dup {
			continue
		}
		seen[mask] = struct{}{}
		result = append(result, addr)
	}
	return result
}

// Masks returns the distinct masks members disclose to authority, in the order Resolve returns them.
func Masks(members []library.Address, authority library.Address, lookup Lookup) [][]byte {
	var masks [][]byte
	for _, addr := range Resolve(members, authority, lookup) {
		r, _ := lookup.Relationship(addr)
		masks = append(masks, r.Mask())
	}
	return masks
}
