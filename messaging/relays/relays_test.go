package relays

import (
	"errors"
	"testing"
	"time"

	"fedid/engine/actors"
	"fedid/engine/library"
	"fedid/messaging/notifications"
	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/require"
)

const nodeKey = "348ce564d427a3311b6536bbcff9390d69395b06ed6c486954e971d960fe8709"

func wallet(t *testing.T) library.Wallet {
	w, err := actors.WalletFromPrivateKey(nodeKey)
	require.NoError(t, err)
	return w
}

func notification() notifications.Notification {
	return notifications.Notification{
		Seq:       7,
		ID:        "6f1c3c0e-3b51-4a43-9d3c-2b1f4a0d2a11",
		Kind:      notifications.NewRequest,
		Authority: library.AddressFromBytes([]byte("authority")),
		Identity:  library.AddressFromBytes([]byte("identity")),
		Mask:      []byte("very-secure-mask-for-pii"),
		At:        time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC),
	}
}

func TestEventRoundTrip(t *testing.T) {
	w := wallet(t)
	n := notification()
	e, err := EventFor(n, 30400, w)
	require.NoError(t, err)
	require.Equal(t, 30400, e.Kind)
	require.Equal(t, w.Account, e.PubKey)
	ok, err := e.CheckSignature()
	require.NoError(t, err)
	require.True(t, ok)

	d, ok := library.GetFirstTag(e, "d")
	require.True(t, ok)
	require.Equal(t, n.ID, d)
	mask, ok := library.GetFirstTag(e, "mask")
	require.True(t, ok)
	require.Equal(t, "766572792d7365637572652d6d61736b2d666f722d706969", mask)

	back, err := NotificationFromEvent(e)
	require.NoError(t, err)
	require.Equal(t, n, back)
}

func TestNotificationFromEventRejectsMismatchedTags(t *testing.T) {
	w := wallet(t)
	e, err := EventFor(notification(), 30400, w)
	require.NoError(t, err)

	unsigned := e
	unsigned.Content = "{}"
	_, err = NotificationFromEvent(unsigned)
	require.True(t, errors.Is(err, ErrNotANotification))

	e.Tags = nostr.Tags{nostr.Tag{"authority", library.AddressFromBytes([]byte("someone else")).String()}}
	e.ID = e.GetID()
	require.NoError(t, e.Sign(w.PrivateKey))
	_, err = NotificationFromEvent(e)
	require.True(t, errors.Is(err, ErrNotANotification))
}

func TestSinkPublishesRequests(t *testing.T) {
	conf := actors.MakeOrGetConfig()
	conf.Set("doNotPublish", false)
	conf.Set("relays", []string{"ws://127.0.0.1:1"})
	defer conf.Set("doNotPublish", true)
	defer conf.Set("relays", []string{})

	type call struct {
		events []nostr.Event
		relays []string
	}
	published := make(chan call, 4)
	bus := notifications.NewBus()
	s := StartSink(bus, wallet(t), func(events []nostr.Event, relays []string) {
		published <- call{events: events, relays: relays}
	})
	defer s.Stop()

	bus.Publish(notifications.Notification{Kind: "something else"})
	n := bus.Publish(notification())
	select {
	case c := <-published:
		require.Equal(t, []string{"ws://127.0.0.1:1"}, c.relays)
		require.Len(t, c.events, 1)
		back, err := NotificationFromEvent(c.events[0])
		require.NoError(t, err)
		require.Equal(t, n, back)
	case <-time.After(time.Second * 5):
		t.Fatal("nothing published")
	}

	conf.Set("doNotPublish", true)
	bus.Publish(notification())
	select {
	case <-published:
		t.Fatal("published while doNotPublish is set")
	case <-time.After(time.Millisecond * 100):
	}
}
