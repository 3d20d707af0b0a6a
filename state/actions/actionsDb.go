package actions

import (
	"fedid/engine/actors"
	"fedid/engine/library"
	"github.com/sasha-s/go-deadlock"
)

type db struct {
	data  map[library.Address]Action
	mutex *deadlock.Mutex
}

var currentState = db{
	data:  make(map[library.Address]Action),
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
		library.LogCLI("Actions Mind has started", 4)
	}
}

func start(ready chan struct{}) {
	actors.GetWaitGroup().Add(1)
	terminate := actors.GetTerminateChan()
	close(ready)
	<-terminate
	actors.GetWaitGroup().Done()
	library.LogCLI("Actions Mind has shut down", 4)
}

func Get(addr library.Address) (Action, bool) {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	a, ok := currentState.data[addr]
	if ok {
		a.Bulk = append([]library.Address(nil), a.Bulk...)
	}
	return a, ok
}

func GetMap() Mapped {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	m := make(Mapped, len(currentState.data))
	for address, a := range currentState.data {
		a.Bulk = append([]library.Address(nil), a.Bulk...)
		m[address] = a
	}
	return m
}

func (s *db) upsert(a Action) {
	s.data[a.Address] = a
}
