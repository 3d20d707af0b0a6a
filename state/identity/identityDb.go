package identity

import (
	"fedid/engine/actors"
	"fedid/engine/library"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"
)

// entry carries its own lock: Handle holds it for the whole check-and-apply, so every identity has
// a single writer and readers only ever copy a committed relationship list.
type entry struct {
	mutex    *deadlock.Mutex
	identity Identity
}

type db struct {
	data  map[library.Address]*entry
	mutex *deadlock.Mutex
}

var currentState = db{
	data:  make(map[library.Address]*entry),
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
		library.LogCLI("Identity Mind has started", 4)
	}
}

func start(ready chan struct{}) {
	actors.GetWaitGroup().Add(1)
	terminate := actors.GetTerminateChan()
	close(ready)
	<-terminate
	actors.GetWaitGroup().Done()
	library.LogCLI("Identity Mind has shut down", 4)
}

func getEntry(addr library.Address) (*entry, bool) {
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	e, ok := currentState.data[addr]
	return e, ok
}

func (s *db) upsert(i Identity) {
	s.data[i.Address] = &entry{mutex: &deadlock.Mutex{}, identity: i}
}

// snapshot copies the committed state of one identity.
func (e *entry) snapshot() Identity {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return Identity{Address: e.identity.Address, Relationships: slices.Clone(e.identity.Relationships)}
}

func GetMap() Mapped {
	startDb()
	currentState.mutex.Lock()
	entries := make([]*entry, 0, len(currentState.data))
	for _, e := range currentState.data {
		entries = append(entries, e)
	}
	currentState.mutex.Unlock()
	m := make(Mapped, len(entries))
	for _, e := range entries {
		i := e.snapshot()
		m[i.Address] = i
	}
	return m
}

// Get returns a copy of the identity's current state.
func Get(addr library.Address) (Identity, bool) {
	startDb()
	e, ok := getEntry(addr)
	if !ok {
		return Identity{}, false
	}
	return e.snapshot(), true
}
