package replay

import (
	"bytes"
	"sort"

	"fedid/engine/actors"
	"fedid/engine/library"
	"github.com/sasha-s/go-deadlock"
)

type Mapped map[library.Address][]library.Address

type db struct {
	data  map[library.Address][]library.Address
	mutex *deadlock.Mutex
}

var currentState = db{
	data:  make(map[library.Address][]library.Address),
	mutex: &deadlock.Mutex{},
}

var started = false
var available = &deadlock.Mutex{}

func startDb() {
	available.Lock()
	defer available.Unlock()
	if !started {
		started = true
		ready := make(chan struct{})
		go start(ready)
		<-ready
		library.LogCLI("Replay Mind has started", 4)
	}
}

func start(ready chan struct{}) {
	actors.GetWaitGroup().Add(1)
	terminate := actors.GetTerminateChan()
	close(ready)
	<-terminate
	actors.GetWaitGroup().Done()
	library.LogCLI("Replay Mind has shut down", 4)
}

func GetMap() Mapped {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	return getMap()
}

func getMap() Mapped {
	m := make(Mapped, len(currentState.data))
	for identity, consumed := range currentState.data {
		m[identity] = append([]library.Address(nil), consumed...)
	}
	return m
}

func (s *db) upsert(identity, action library.Address) {
	s.data[identity] = append(s.data[identity], action)
}

// Consumed lists the actions the identity has accepted, oldest first.
func Consumed(identity library.Address) []library.Address {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	return append([]library.Address(nil), currentState.data[identity]...)
}

func WasConsumed(identity, action library.Address) bool {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	return wasConsumed(identity, action)
}

// Times counts how often identity accepted action.
func Times(identity, action library.Address) (n int) {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	for _, a := range currentState.data[identity] {
		if a == action {
			n++
		}
	}
	return
}

func wasConsumed(identity, action library.Address) bool {
	for _, a := range currentState.data[identity] {
		if a == action {
			return true
		}
	}
	return false
}

// GetStateHash commits to every (identity, consumed actions) pair.
func GetStateHash() string {
	return GetMap().StateHash()
}

func (m Mapped) StateHash() string {
	var identities []library.Address
	for identity := range m {
		identities = append(identities, identity)
	}
	sort.Slice(identities, func(i, j int) bool {
		return bytes.Compare(identities[i][:], identities[j][:]) < 0
	})
	b := bytes.Buffer{}
	for _, identity := range identities {
		b.Write(identity[:])
		for _, action := range m[identity] {
			b.Write(action[:])
		}
	}
	return library.Keccak256Hex(b.Bytes())
}
