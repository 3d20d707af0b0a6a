package authorities

import (
	"errors"
	"time"

	"fedid/engine/library"
)

var ErrUnknownAuthority = errors.New("unknown authority")

type Authority struct {
	Address  library.Address `json:"address"`
	Deployer library.Address `json:"deployer"`
}

// Request asks an authority to look at what an identity discloses under a mask.
type Request struct {
	ID        string          `json:"id"`
	Authority library.Address `json:"authority"`
	Identity  library.Address `json:"identity"`
	Mask      []byte          `json:"mask"`
	At        time.Time       `json:"at"`
}

type Mapped map[library.Address]Authority
