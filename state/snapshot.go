// Package state gathers what every mind currently holds into one value.
package state

import (
	"fedid/engine/library"
	"fedid/state/actions"
	"fedid/state/authorities"
	"fedid/state/identity"
	"fedid/state/query"
	"fedid/state/relationships"
	"fedid/state/replay"
)

type Snapshot struct {
	Authorities   authorities.Mapped   `json:"authorities"`
	Relationships relationships.Mapped `json:"relationships"`
	Identities    identity.Mapped      `json:"identities"`
	Actions       actions.Mapped       `json:"actions"`
	Replay        replay.Mapped        `json:"replay"`
	Hashes        map[string]string    `json:"hashes"`
}

// Current copies every mind. The minds are read one after another, so a snapshot taken while
// transactions are being applied may straddle one of them.
func Current() Snapshot {
	s := Snapshot{
		Authorities:   authorities.GetMap(),
		Relationships: relationships.GetMap(),
		Identities:    identity.GetMap(),
		Actions:       actions.GetMap(),
		Replay:        replay.GetMap(),
		Hashes:        make(map[string]string),
	}
	s.Hashes["replay"] = s.Replay.StateHash()
	for address, i := range s.Identities {
		s.Hashes[address.String()] = i.StateHash()
	}
	return s
}

// Disclosures maps every identity to what it discloses to each authority that gets anything.
func (s Snapshot) Disclosures() map[library.Address]map[library.Address][]library.Address {
	m := make(map[library.Address]map[library.Address][]library.Address)
	for address, i := range s.Identities {
		for authority := range s.Authorities {
			disclosed := query.Resolve(i.Relationships, authority, lookup(s.Relationships))
			if len(disclosed) == 0 {
				continue
			}
			if m[address] == nil {
				m[address] = make(map[library.Address][]library.Address)
			}
			m[address][authority] = disclosed
		}
	}
	return m
}

type lookup relationships.Mapped

func (l lookup) Relationship(addr library.Address) (relationships.Relationship, bool) {
	r, ok := l[addr]
	return r, ok
}
