package library

import (
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// ValidateSaneExecutionTime returns a func that must be called when the work is done.
// If the work takes longer than the deadlock detector allows, go-deadlock reports the
// goroutines holding it, which is how stuck relay calls show up in the logs.
func ValidateSaneExecutionTime(label string) func() {
	started := time.Now()
	mu := deadlock.Mutex{}
	mu.Lock()
	go func() {
		mu.Lock()
		mu.Unlock()
	}()
	return func() {
		mu.Unlock()
		if elapsed := time.Since(started); elapsed > time.Second*10 {
			LogCLI(fmt.Sprintf("%s took %s", label, elapsed), 2)
		}
	}
}
