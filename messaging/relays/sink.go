package relays

import (
	"fmt"

	"fedid/engine/actors"
	"fedid/engine/library"
	"fedid/messaging/notifications"
	"github.com/nbd-wtf/go-nostr"
)

// Sink republishes NewRequest notifications from a bus to the configured relays.
type Sink struct {
	cancel func()
	done   chan struct{}
}

// StartSink subscribes to bus and hands every NewRequest, signed by wallet, to publish.
// Nothing is published while doNotPublish is set.
func StartSink(bus *notifications.Bus, wallet library.Wallet, publish Publisher) *Sink {
	ch, cancel := bus.Subscribe()
	s := &Sink{cancel: cancel, done: make(chan struct{})}
	actors.GetWaitGroup().Add(1)
	go func() {
		defer actors.GetWaitGroup().Done()
		defer close(s.done)
		terminate := actors.GetTerminateChan()
		for {
			select {
			case n, ok := <-ch:
				if !ok {
					return
				}
				forward(n, wallet, publish)
			case <-terminate:
				cancel()
				return
			}
		}
	}()
	library.LogCLI("Relay sink has started", 4)
	return s
}

func forward(n notifications.Notification, wallet library.Wallet, publish Publisher) {
	if n.Kind != notifications.NewRequest {
		return
	}
	conf := actors.MakeOrGetConfig()
	if conf.GetBool("doNotPublish") {
		library.LogCLI(fmt.Sprintf("not publishing request %s, doNotPublish is set", n.ID), 4)
		return
	}
	e, err := EventFor(n, conf.GetInt("notificationKind"), wallet)
	if err != nil {
		library.LogCLI(fmt.Sprintf("could not sign request %s: %s", n.ID, err), 1)
		return
	}
	library.LogCLI(fmt.Sprintf("publishing request %s as event %s", n.ID, e.ID), 4)
	publish([]nostr.Event{e}, conf.GetStringSlice("relays"))
}

// Stop unsubscribes and waits for the notification in flight, if any.
func (s *Sink) Stop() {
	s.cancel()
	<-s.done
}
