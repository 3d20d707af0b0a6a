package relationships

import (
	"fedid/engine/actors"
	"fedid/engine/library"
	"github.com/sasha-s/go-deadlock"
)

type db struct {
	data  map[library.Address]Relationship
	mutex *deadlock.Mutex
}

var currentState = db{
	data:  make(map[library.Address]Relationship),
	mutex: &deadlock.Mutex{},
}

var started = false
var available = &deadlock.Mutex{}

// StartDb starts the database for this mind. It blocks until the database is ready to use.
func startDb() {
	available.Lock()
	defer available.Unlock()
	if !started {
		started = true
		ready := make(chan struct{})
		go start(ready)
		<-ready
		library.LogCLI("Relationships Mind has started", 4)
	}
}

func start(ready chan struct{}) {
	actors.GetWaitGroup().Add(1)
	terminate := actors.GetTerminateChan()
	close(ready)
	<-terminate
	actors.GetWaitGroup().Done()
	library.LogCLI("Relationships Mind has shut down", 4)
}

// Get returns the relationship at addr.
func Get(addr library.Address) (Relationship, bool) {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	r, ok := currentState.data[addr]
	return r.copy(), ok
}

// Lookup is Get with the signature the authorization and query engines expect.
type Lookup struct{}

func (Lookup) Relationship(addr library.Address) (Relationship, bool) {
	return Get(addr)
}

func GetMap() Mapped {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	return getMap()
}

func getMap() Mapped {
	m := make(Mapped, len(currentState.data))
	for address, r := range currentState.data {
		m[address] = r.copy()
	}
	return m
}

// copy detaches the mask from the stored relationship so callers cannot rewrite it.
func (r Relationship) copy() Relationship {
	if r.MaskBytes != nil {
		r.MaskBytes = append([]byte{}, r.MaskBytes...)
	}
	return r
}

func (s *db) upsert(r Relationship) {
	s.data[r.Address] = r
}
