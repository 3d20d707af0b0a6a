package actors

import (
	"github.com/sasha-s/go-deadlock"
)

var terminateChan = make(chan struct{})
var terminateOnce = &deadlock.Mutex{}
var terminated bool
var waitGroup = &deadlock.WaitGroup{}

func SetTerminateChan(term chan struct{}) {
	terminateOnce.Lock()
	defer terminateOnce.Unlock()
	terminateChan = term
	terminated = false
}

func GetTerminateChan() chan struct{} {
	terminateOnce.Lock()
	defer terminateOnce.Unlock()
	return terminateChan
}

// GetWaitGroup is incremented by every long running goroutine so that Shutdown can wait for them.
func GetWaitGroup() *deadlock.WaitGroup {
	return waitGroup
}

// Shutdown closes the terminate channel once and waits for everything that registered on the wait group.
func Shutdown() {
	terminateOnce.Lock()
	if !terminated {
		terminated = true
		close(terminateChan)
	}
	terminateOnce.Unlock()
	waitGroup.Wait()
}
