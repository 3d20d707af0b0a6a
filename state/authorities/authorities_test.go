package authorities

import (
	"errors"
	"sync"
	"testing"
	"time"

	"fedid/engine/library"
	"fedid/messaging/notifications"
	"fedid/state/addresses"
	"fedid/state/identity"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var deployer = library.AddressFromBytes([]byte("authorities test deployer"))
var nonce uint64
var nonceMu sync.Mutex

func caller() library.CallerContext {
	nonceMu.Lock()
	defer nonceMu.Unlock()
	nonce++
	return library.CallerContext{From: deployer, Nonce: nonce}
}

func TestDeploy(t *testing.T) {
	c := caller()
	addr, err := Deploy(c)
	require.NoError(t, err)
	require.Equal(t, library.DeriveAddress(c.From, c.Nonce), addr)
	require.True(t, Exists(addr))
	require.Equal(t, addresses.Authority, addresses.KindOf(addr))
	require.Equal(t, deployer, GetMap()[addr].Deployer)

	_, err = Deploy(c)
	require.True(t, errors.Is(err, addresses.ErrAddressInUse))
}

func TestAskPublishesNotification(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC))
	SetClock(fake)
	defer SetClock(clockwork.NewRealClock())

	authority, err := Deploy(caller())
	require.NoError(t, err)
	ident, err := identity.Create(caller(), nil)
	require.NoError(t, err)

	ch, cancel := notifications.Default.Subscribe()
	defer cancel()

	r, err := Ask(caller(), authority, ident, []byte("very-secure-mask-for-pii"))
	require.NoError(t, err)
	_, err = uuid.Parse(r.ID)
	require.NoError(t, err)
	require.Equal(t, fake.Now(), r.At)
	require.Equal(t, []Request{r}, Requests(authority))

	select {
	case n := <-ch:
		require.Equal(t, notifications.NewRequest, n.Kind)
		require.Equal(t, r.ID, n.ID)
		require.Equal(t, authority, n.Authority)
		require.Equal(t, ident, n.Identity)
		require.Equal(t, []byte("very-secure-mask-for-pii"), n.Mask)
		require.Equal(t, r.At, n.At)
	case <-time.After(time.Second * 5):
		t.Fatal("no notification")
	}
}

func TestAskRejectsUnknownParties(t *testing.T) {
	ident, err := identity.Create(caller(), nil)
	require.NoError(t, err)
	unknown := library.AddressFromBytes([]byte("not an authority"))
	_, err = Ask(caller(), unknown, ident, nil)
	require.True(t, errors.Is(err, ErrUnknownAuthority))
	require.Empty(t, Requests(unknown))

	authority, err := Deploy(caller())
	require.NoError(t, err)
	_, err = Ask(caller(), authority, library.AddressFromBytes([]byte("not an identity")), nil)
	require.True(t, errors.Is(err, identity.ErrUnknownIdentity))
	require.Empty(t, Requests(authority))
}

func TestRestoreIsSilentAndIdempotent(t *testing.T) {
	authority, err := Deploy(caller())
	require.NoError(t, err)
	ch, cancel := notifications.Default.Subscribe()
	defer cancel()

	r := Request{ID: uuid.New().String(), Authority: authority, Identity: deployer, Mask: []byte("m")}
	require.NoError(t, Restore(r))
	require.NoError(t, Restore(r))
	require.Len(t, Requests(authority), 1)

	select {
	case n := <-ch:
		t.Fatalf("restore published %s", n.ID)
	case <-time.After(time.Millisecond * 50):
	}

	r.Authority = library.AddressFromBytes([]byte("nobody"))
	require.True(t, errors.Is(Restore(r), ErrUnknownAuthority))
}
