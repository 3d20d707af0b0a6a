package relationships

import (
	"fedid/engine/library"
)

type Mapped map[library.Address]Relationship

// Relationship binds one authority and one disclosed attribute label (the mask) to a
// signing key the holder controls. It never changes after it is created.
type Relationship struct {
	Address    library.Address `json:"address"`
	Authority  library.Address `json:"authority"`
	MaskBytes  []byte          `json:"mask"`
	SigningKey library.Address `json:"signing_key"`
}

// Mask returns a copy of the mask bytes exactly as they were supplied at creation.
func (r Relationship) Mask() []byte {
	m := make([]byte, len(r.MaskBytes))
	copy(m, r.MaskBytes)
	return m
}

func (r Relationship) BoundAuthority() library.Address {
	return r.Authority
}

func (r Relationship) SigningKeyAddress() library.Address {
	return r.SigningKey
}
