package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests drive addClient/removeClient/broadcast directly instead of
// going through RegisterClient, which would need a live websocket.

func newTestClient(hub *Hub, eventID uint) *Client {
	return &Client{
		id:      "test",
		eventID: eventID,
		send:    make(chan []byte, 8),
		hub:     hub,
	}
}

func TestHubSubscribesOncePerEvent(t *testing.T) {
	broker := NewBroker()
	hub := NewHub(broker)

	first := newTestClient(hub, 1)
	second := newTestClient(hub, 1)
	hub.addClient(first)
	hub.addClient(second)

	hub.mu.Lock()
	assert.Len(t, hub.clients[1], 2)
	assert.NotNil(t, hub.subs[1])
	hub.mu.Unlock()

	broker.mu.Lock()
	assert.Len(t, broker.subs, 1)
	broker.mu.Unlock()
}

func TestHubReleasesSubscriptionWithLastClient(t *testing.T) {
	broker := NewBroker()
	hub := NewHub(broker)

	first := newTestClient(hub, 1)
	second := newTestClient(hub, 1)
	hub.addClient(first)
	hub.addClient(second)

	hub.removeClient(first)

	broker.mu.Lock()
	assert.Len(t, broker.subs, 1, "subscription stays while a client remains")
	broker.mu.Unlock()

	hub.removeClient(second)

	broker.mu.Lock()
	assert.Empty(t, broker.subs)
	broker.mu.Unlock()

	// Removing an already-removed client is harmless.
	hub.removeClient(second)
}

func TestHubBroadcastReachesOnlyTheEvent(t *testing.T) {
	hub := NewHub(NewBroker())

	watching := newTestClient(hub, 1)
	other := newTestClient(hub, 2)
	hub.addClient(watching)
	hub.addClient(other)

	hub.broadcast(context.Background(), 1)

	select {
	case raw := <-watching.send:
		var msg ChangeMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "changed", msg.Type)
		assert.Equal(t, ScopeEvent, msg.Scope)
		assert.Equal(t, uint(1), msg.ID)
	default:
		t.Fatal("watching client received nothing")
	}

	select {
	case <-other.send:
		t.Fatal("client on another event must not be woken")
	default:
	}
}

func TestHubEvictsSlowClientAndReleasesSubscription(t *testing.T) {
	broker := NewBroker()
	hub := NewHub(broker)

	slow := &Client{
		id:      "slow",
		eventID: 1,
		send:    make(chan []byte), // nothing drains this
		hub:     hub,
	}
	hub.addClient(slow)

	hub.broadcast(context.Background(), 1)

	hub.mu.Lock()
	assert.Empty(t, hub.clients, "evicted client must not linger")
	assert.Empty(t, hub.subs)
	hub.mu.Unlock()

	broker.mu.Lock()
	assert.Empty(t, broker.subs, "last-client eviction must release the subscription")
	broker.mu.Unlock()

	// The readPump's unregister lands after the eviction; it must be a
	// no-op.
	hub.removeClient(slow)
}

func TestHubDeliversOverLiveConnection(t *testing.T) {
	broker := NewBroker()
	hub := NewHub(broker)
	go hub.Run()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(conn, 1)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients[1]) == 1
	}, 2*time.Second, 10*time.Millisecond)

	broker.Notify(Scope{Kind: ScopeEvent, ID: 1})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg ChangeMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "changed", msg.Type)
	assert.Equal(t, uint(1), msg.ID)

	// Closing the connection unwinds both pumps and frees the
	// subscription.
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		broker.mu.Lock()
		defer broker.mu.Unlock()
		return len(broker.subs) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubBroadcastDropsStaleContext(t *testing.T) {
	hub := NewHub(NewBroker())

	client := newTestClient(hub, 1)
	hub.addClient(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.broadcast(ctx, 1)

	select {
	case <-client.send:
		t.Fatal("stale notification must not reach clients")
	default:
	}
}
