// Package eventcatcher follows a relay for the NewRequest events this node's relay sink (or any
// other node's) publishes, and hands the ones addressed to an authority to its listener.
package eventcatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fedid/engine/actors"
	"fedid/engine/library"
	"fedid/messaging/notifications"
	"fedid/messaging/relays"
	"github.com/nbd-wtf/go-nostr"
)

var errDropped = errors.New("relay dropped the subscription")
var errSleep = errors.New("system sleep detected")

// Catch delivers every valid notification for authority (all authorities if it is zero) to out,
// each at most once. It reconnects whenever the relay goes quiet or drops the subscription and
// returns when ctx is done, the engine terminates, or the machine goes to sleep.
func Catch(ctx context.Context, url string, authority library.Address, kind int, out chan<- notifications.Notification) error {
	sleepChan := make(chan bool, 1)
	sleeper(sleepChan)
	seen := make(map[string]bool)
	for {
		err := catch(ctx, url, authority, kind, out, seen, sleepChan)
		if err == nil || errors.Is(err, errSleep) {
			return err
		}
		library.LogCLI(fmt.Sprintf("%s: %s, reconnecting", url, err), 3)
		select {
		case <-time.After(time.Second * 5):
		case <-ctx.Done():
			return nil
		case <-actors.GetTerminateChan():
			return nil
		}
	}
}

func catch(ctx context.Context, url string, authority library.Address, kind int, out chan<- notifications.Notification, seen map[string]bool, sleepChan chan bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return err
	}
	defer relay.Close()
	sub, err := relay.Subscribe(ctx, nostr.Filters{nostr.Filter{Kinds: []int{kind}}})
	if err != nil {
		return err
	}
	defer sub.Close()
	library.LogCLI("Listening to "+url, 4)
	lastEventTime := time.Now()
	for {
		select {
		case <-sleepChan:
			library.LogCLI("system sleep detected, terminating listener", 2)
			return errSleep
		case ev := <-sub.Events:
			if ev == nil {
				return errDropped
			}
			lastEventTime = time.Now()
			n, ok := accept(*ev, authority, seen)
			if !ok {
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return nil
			}
		case <-time.After(time.Minute):
			if time.Since(lastEventTime) > time.Minute*2 {
				return fmt.Errorf("no events for %s", time.Since(lastEventTime).Round(time.Second))
			}
		case <-ctx.Done():
			return nil
		case <-actors.GetTerminateChan():
			return nil
		}
	}
}

// accept decodes e and reports whether it is a NewRequest for authority that has not been seen yet.
func accept(e nostr.Event, authority library.Address, seen map[string]bool) (notifications.Notification, bool) {
	n, err := relays.NotificationFromEvent(e)
	if err != nil {
		library.LogCLI(err.Error(), 5)
		return n, false
	}
	if n.Kind != notifications.NewRequest || seen[n.ID] {
		return n, false
	}
	if !authority.IsZero() && n.Authority != authority {
		return n, false
	}
	seen[n.ID] = true
	return n, true
}
