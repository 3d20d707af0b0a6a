package relays

import (
	"encoding/hex"
	"errors"
	"fmt"

	"fedid/engine/library"
	"fedid/messaging/notifications"
	"github.com/nbd-wtf/go-nostr"
	json "github.com/nikkolasg/hexjson"
)

var ErrNotANotification = errors.New("event is not a signed notification")

// EventFor wraps n in a nostr event of the given kind signed by wallet. The event is
// parameterized replaceable on the notification id.
func EventFor(n notifications.Notification, kind int, wallet library.Wallet) (nostr.Event, error) {
	content, err := json.Marshal(n)
	if err != nil {
		return nostr.Event{}, err
	}
	e := nostr.Event{
		PubKey:    wallet.Account,
		CreatedAt: nostr.Timestamp(n.At.Unix()),
		Kind:      kind,
		Tags: nostr.Tags{
			nostr.Tag{"d", n.ID},
			nostr.Tag{"authority", n.Authority.String()},
			nostr.Tag{"identity", n.Identity.String()},
			nostr.Tag{"mask", hex.EncodeToString(n.Mask)},
		},
		Content: string(content),
	}
	e.ID = e.GetID()
	if err := e.Sign(wallet.PrivateKey); err != nil {
		return nostr.Event{}, err
	}
	return e, nil
}

// NotificationFromEvent is the inverse of EventFor. The tags must agree with the content.
func NotificationFromEvent(e nostr.Event) (n notifications.Notification, err error) {
	if ok, _ := e.CheckSignature(); !ok {
		return n, fmt.Errorf("%w: bad signature on %s", ErrNotANotification, e.ID)
	}
	if err = json.Unmarshal([]byte(e.Content), &n); err != nil {
		return n, fmt.Errorf("%w: %s", ErrNotANotification, err)
	}
	authority, ok := library.GetAddressTag(e, "authority")
	if !ok || authority != n.Authority {
		return n, fmt.Errorf("%w: authority tag does not match content", ErrNotANotification)
	}
	identity, ok := library.GetAddressTag(e, "identity")
	if !ok || identity != n.Identity {
		return n, fmt.Errorf("%w: identity tag does not match content", ErrNotANotification)
	}
	return n, nil
}
