package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receivedEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func newHubClient(hub *Hub, userID uint) *Client {
	client := &Client{hub: hub, send: make(chan []byte, 16), userID: userID}
	hub.Register(client)
	return client
}

// readEvent pops one queued event off a client's send channel.
func readEvent(t *testing.T, client *Client) receivedEvent {
	t.Helper()
	select {
	case data, ok := <-client.send:
		require.True(t, ok, "send channel closed")
		var event receivedEvent
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return receivedEvent{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastReachesSubscribersOnly(t *testing.T) {
	hub := startHub(t)
	alice := newHubClient(hub, 1)
	bob := newHubClient(hub, 2)
	carol := newHubClient(hub, 3)

	hub.Subscribe(alice, RoomTopic(7))
	hub.Subscribe(bob, RoomTopic(7))

	hub.Broadcast(RoomTopic(7), "receive_message", map[string]string{"content": "hi"})

	for _, client := range []*Client{alice, bob} {
		event := readEvent(t, client)
		assert.Equal(t, "receive_message", event.Type)
	}
	assertNoEvent(t, carol)
}

func TestBroadcastExceptSkipsOneConnection(t *testing.T) {
	hub := startHub(t)
	alice := newHubClient(hub, 1)
	bob := newHubClient(hub, 2)

	topic := ConversationTopic(1, 2)
	hub.Subscribe(alice, topic)
	hub.Subscribe(bob, topic)

	hub.BroadcastExcept(topic, alice, "receive_direct_message", map[string]string{"content": "hello"})

	event := readEvent(t, bob)
	assert.Equal(t, "receive_direct_message", event.Type)
	assertNoEvent(t, alice)
}

func TestSubscribeIsIdempotent(t *testing.T) {
	hub := startHub(t)
	alice := newHubClient(hub, 1)
	bob := newHubClient(hub, 2)

	hub.Subscribe(alice, RoomTopic(1))
	hub.Subscribe(alice, RoomTopic(1))
	hub.Subscribe(bob, RoomTopic(1))

	hub.Broadcast(RoomTopic(1), "receive_message", nil)

	readEvent(t, alice)
	assertNoEvent(t, alice)
}

func TestPresenceIsRefCounted(t *testing.T) {
	hub := startHub(t)
	observer := newHubClient(hub, 9)

	// Two live connections for the same user.
	first := newHubClient(hub, 1)
	second := newHubClient(hub, 1)

	hub.Announce(first)
	event := readEvent(t, observer)
	assert.Equal(t, "user_online", event.Type)

	// A second announce from the same user is silent.
	hub.Announce(second)
	assertNoEvent(t, observer)
	assert.True(t, hub.IsOnline(1))

	// Dropping one of two connections keeps the user online.
	hub.Unregister(first)
	assertNoEvent(t, observer)

	hub.Unregister(second)
	select {
	case data := <-observer.send:
		var offline receivedEvent
		require.NoError(t, json.Unmarshal(data, &offline))
		assert.Equal(t, "user_offline", offline.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for user_offline")
	}

	assert.Eventually(t, func() bool { return !hub.IsOnline(1) }, time.Second, 10*time.Millisecond)
}

func TestAnnounceDoesNotEchoToSelf(t *testing.T) {
	hub := startHub(t)
	alice := newHubClient(hub, 1)
	bob := newHubClient(hub, 2)

	hub.Announce(alice)

	event := readEvent(t, bob)
	assert.Equal(t, "user_online", event.Type)
	assertNoEvent(t, alice)
}

func TestBroadcastDuringDisconnect(t *testing.T) {
	hub := startHub(t)
	topic := RoomTopic(1)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.Broadcast(topic, "receive_message", nil)
					hub.BroadcastAll(nil, "user_online", presencePayload{UserID: 1})
				}
			}
		}()
	}

	// Tiny send buffers keep the stale-removal path firing while
	// connections churn; a send racing a close panics the process.
	for i := 0; i < 300; i++ {
		client := &Client{hub: hub, send: make(chan []byte, 1), userID: uint(i%7) + 1}
		hub.Register(client)
		hub.Subscribe(client, topic)
		hub.Unregister(client)
	}

	close(done)
	wg.Wait()

	// The hub must still deliver after the churn.
	survivor := newHubClient(hub, 99)
	hub.Subscribe(survivor, topic)
	hub.Broadcast(topic, "receive_message", nil)
	received := readEvent(t, survivor)
	assert.Equal(t, "receive_message", received.Type)
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "room:12", RoomTopic(12))
	assert.Equal(t, "user:3", UserTopic(3))
	assert.Equal(t, "dm:3_9", ConversationTopic(9, 3))
	assert.Equal(t, ConversationTopic(3, 9), ConversationTopic(9, 3))
}
