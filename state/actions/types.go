package actions

import (
	"errors"
	"fmt"

	"fedid/engine/library"
)

var ErrInvalidActionShape = errors.New("invalid action shape")

type Mapped map[library.Address]Action

// Kind is the integer an action is created with: 0 registers, 1 revokes.
type Kind int

const (
	Register Kind = iota
	Revoke
)

func (k Kind) String() string {
	switch k {
	case Register:
		return "register"
	case Revoke:
		return "revoke"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Shape says whether an action carries one relationship or a list of them.
type Shape int

const (
	Single Shape = iota + 1
	Bulk
)

// Action is a proposed change to one identity's relationships. Its address is the message a
// relationship key signs to authorize it, so a signature is bound to exactly this change.
type Action struct {
	Address library.Address   `json:"address"`
	Target  library.Address   `json:"target"`
	Kind    Kind              `json:"kind"`
	Single  library.Address   `json:"single"`
	Bulk    []library.Address `json:"bulk"`
}

// Shape validates the kind/payload combination. Exactly one of Single and Bulk must be populated.
func (a Action) Shape() (Shape, error) {
	return shapeOf(a.Kind, a.Single, a.Bulk)
}

// Relationships lists the relationships the action registers or revokes, in order.
func (a Action) Relationships() []library.Address {
	if len(a.Bulk) > 0 {
		out := make([]library.Address, len(a.Bulk))
		copy(out, a.Bulk)
		return out
	}
	return []library.Address{a.Single}
}

func shapeOf(kind Kind, single library.Address, bulk []library.Address) (Shape, error) {
	if kind != Register && kind != Revoke {
		return 0, fmt.Errorf("%w: unknown kind %d", ErrInvalidActionShape, int(kind))
	}
	switch {
	case !single.IsZero() && len(bulk) == 0:
		return Single, nil
	case single.IsZero() && len(bulk) > 0:
		for _, r := range bulk {
			if r.IsZero() {
				return 0, fmt.Errorf("%w: bulk %s contains the zero address", ErrInvalidActionShape, kind)
			}
		}
		return Bulk, nil
	case single.IsZero():
		return 0, fmt.Errorf("%w: %s names no relationship", ErrInvalidActionShape, kind)
	}
	return 0, fmt.Errorf("%w: %s names both a single relationship and a bulk list", ErrInvalidActionShape, kind)
}
