package authorities

import (
	"fedid/engine/actors"
	"fedid/engine/library"
	"github.com/jonboulle/clockwork"
	"github.com/sasha-s/go-deadlock"
)

type db struct {
	data     map[library.Address]Authority
	requests map[library.Address][]Request
	mutex    *deadlock.Mutex
}

var currentState = db{
	data:     make(map[library.Address]Authority),
	requests: make(map[library.Address][]Request),
	mutex:    &deadlock.Mutex{},
}

var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the clock used to timestamp requests.
func SetClock(c clockwork.Clock) {
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	clock = c
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
		library.LogCLI("Authorities Mind has started", 4)
	}
}

func start(ready chan struct{}) {
	actors.GetWaitGroup().Add(1)
	terminate := actors.GetTerminateChan()
	close(ready)
	<-terminate
	actors.GetWaitGroup().Done()
	library.LogCLI("Authorities Mind has shut down", 4)
}

func Exists(addr library.Address) bool {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	_, ok := currentState.data[addr]
	return ok
}

// Requests returns every request made to authority, oldest first.
func Requests(authority library.Address) []Request {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	r := make([]Request, len(currentState.requests[authority]))
	copy(r, currentState.requests[authority])
	return r
}

func GetMap() Mapped {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	m := make(Mapped, len(currentState.data))
	for address, a := range currentState.data {
		m[address] = a
	}
	return m
}

func (s *db) upsert(a Authority) {
	s.data[a.Address] = a
}
