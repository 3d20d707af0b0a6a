package relays

import (
	"context"
	"fmt"
	"time"

	"fedid/engine/library"
	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
)

// Publisher sends events to relays. PublishToRelays is the one used outside tests.
type Publisher func(events []nostr.Event, relays []string)

// PublishToRelays sends events to every relay concurrently and returns once each relay has been
// tried. Failures are logged and otherwise ignored.
func PublishToRelays(events []nostr.Event, relays []string) {
	var wg = &deadlock.WaitGroup{}
	for _, url := range relays {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			defer library.ValidateSaneExecutionTime("publish to " + url)()
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			relay, err := nostr.RelayConnect(ctx, url)
			if err != nil {
				library.LogCLI(fmt.Sprintf("could not connect to relay %s: %s", url, err), 2)
				return
			}
			defer relay.Close()
			for _, event := range events {
				if _, err := relay.Publish(ctx, event); err != nil {
					library.LogCLI(fmt.Sprintf("could not publish %s to relay %s: %s", event.ID, url, err), 2)
				}
			}
		}(url)
	}
	wg.Wait()
}
