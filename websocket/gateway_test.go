package websocket

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sanchar-app/chat_backend/models"
	"github.com/sanchar-app/chat_backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type gatewayFixture struct {
	db      *gorm.DB
	hub     *Hub
	gateway *Gateway
	dir     *store.Directory
	msgs    *store.Messages
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomUser{},
		&models.Invitation{},
		&models.DirectMessage{},
		&models.Message{},
		&models.Reaction{},
	))

	hub := NewHub()
	dir := store.NewDirectory(db)
	msgs := store.NewMessages(db)
	gateway := NewGateway(hub, db, dir, msgs)
	go hub.Run()

	return &gatewayFixture{db: db, hub: hub, gateway: gateway, dir: dir, msgs: msgs}
}

func (f *gatewayFixture) user(t *testing.T, name, email string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "secret1"}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

// connect builds a client the way HandleConnection would, minus the
// network: registered, bound to its user, on its personal topic.
func (f *gatewayFixture) connect(userID uint) *Client {
	client := &Client{hub: f.hub, gateway: f.gateway, send: make(chan []byte, 16), userID: userID}
	f.hub.Register(client)
	f.hub.Subscribe(client, UserTopic(userID))
	return client
}

func event(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{"type": eventType, "payload": payload})
	require.NoError(t, err)
	return data
}

func TestJoinRoomRequiresMembership(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")
	room, err := f.dir.CreateRoom("general", false, ann.ID, nil)
	require.NoError(t, err)

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)

	f.gateway.HandleEvent(annClient, event(t, "join_room", map[string]string{"topic": RoomTopic(room.ID)}))
	f.gateway.HandleEvent(bobClient, event(t, "join_room", map[string]string{"topic": RoomTopic(room.ID)}))

	denied := readEvent(t, bobClient)
	assert.Equal(t, "error", denied.Type)

	f.hub.Broadcast(RoomTopic(room.ID), "receive_message", nil)
	received := readEvent(t, annClient)
	assert.Equal(t, "receive_message", received.Type)
	assertNoEvent(t, bobClient)
}

func TestJoinOwnTopicsOnly(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")

	annClient := f.connect(ann.ID)

	// Own conversation topic is allowed.
	f.gateway.HandleEvent(annClient, event(t, "join_room",
		map[string]string{"topic": ConversationTopic(ann.ID, bob.ID)}))
	assertNoEvent(t, annClient)

	// Someone else's personal topic is not.
	f.gateway.HandleEvent(annClient, event(t, "join_room",
		map[string]string{"topic": UserTopic(bob.ID)}))
	denied := readEvent(t, annClient)
	assert.Equal(t, "error", denied.Type)
}

func TestSendMessagePersistsAndFansOutToRoom(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")
	room, err := f.dir.CreateRoom("general", false, ann.ID, []uint{bob.ID})
	require.NoError(t, err)

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)
	f.hub.Subscribe(annClient, RoomTopic(room.ID))
	f.hub.Subscribe(bobClient, RoomTopic(room.ID))

	f.gateway.HandleEvent(annClient, event(t, "send_message",
		map[string]interface{}{"roomId": room.ID, "content": "hi"}))

	// Both subscribers, sender included, get exactly one copy.
	for _, client := range []*Client{annClient, bobClient} {
		received := readEvent(t, client)
		assert.Equal(t, "receive_message", received.Type)

		var message models.Message
		require.NoError(t, json.Unmarshal(received.Payload, &message))
		assert.Equal(t, "hi", message.Content)
		assert.Equal(t, "Ann", message.User.Name)
		assertNoEvent(t, client)
	}

	messages, err := f.msgs.RoomMessages(room.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestSendMessageDroppedForNonMembers(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")
	room, err := f.dir.CreateRoom("general", false, ann.ID, nil)
	require.NoError(t, err)

	bobClient := f.connect(bob.ID)
	f.gateway.HandleEvent(bobClient, event(t, "send_message",
		map[string]interface{}{"roomId": room.ID, "content": "sneaky"}))

	messages, err := f.msgs.RoomMessages(room.ID)
	require.NoError(t, err)
	assert.Empty(t, messages, "non-member sends are dropped")
}

func TestDualPathDirectMessage(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)
	conversation := ConversationTopic(ann.ID, bob.ID)
	f.hub.Subscribe(annClient, conversation)
	f.hub.Subscribe(bobClient, conversation)

	// HTTP path persisted the message already.
	thread, err := f.dir.FindOrCreateDirectThread(ann.ID, bob.ID)
	require.NoError(t, err)
	persisted, err := f.msgs.AppendDirectMessage(thread.ID, ann.ID, "hello")
	require.NoError(t, err)

	// Push path carries the id: fan-out only, never back to the sender.
	f.gateway.HandleEvent(annClient, event(t, "send_direct_message", map[string]interface{}{
		"receiverId": bob.ID,
		"content":    "hello",
		"messageId":  persisted.ID,
	}))

	received := readEvent(t, bobClient)
	assert.Equal(t, "receive_direct_message", received.Type)
	var message models.Message
	require.NoError(t, json.Unmarshal(received.Payload, &message))
	assert.Equal(t, persisted.ID, message.ID)
	assert.Equal(t, "Ann", message.User.Name)

	// Bob is on both the personal and the conversation topic but the
	// receiving client still de-duplicates by message id; here the hub
	// itself only queued one per subscribed topic.
	extra := readEvent(t, bobClient)
	assert.Equal(t, persisted.ID, messageID(t, extra.Payload))
	assertNoEvent(t, bobClient)

	assertNoEvent(t, annClient)

	var count int64
	require.NoError(t, f.db.Model(&models.Message{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "fan-out must not persist a second row")
}

func TestDirectMessageFallbackPersists(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)

	// No messageId: the push path persists the message itself.
	f.gateway.HandleEvent(annClient, event(t, "send_direct_message", map[string]interface{}{
		"receiverId": bob.ID,
		"content":    "fallback hello",
	}))

	received := readEvent(t, bobClient)
	assert.Equal(t, "receive_direct_message", received.Type)

	thread, err := f.dir.DirectThreadBetween(ann.ID, bob.ID)
	require.NoError(t, err)
	messages, err := f.msgs.DirectMessages(thread.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "fallback hello", messages[0].Content)
}

func TestDirectMessageFanOutIgnoresPayloadReceiver(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")
	eve := f.user(t, "Eve", "eve@example.com")

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)
	eveClient := f.connect(eve.ID)

	thread, err := f.dir.FindOrCreateDirectThread(ann.ID, bob.ID)
	require.NoError(t, err)
	persisted, err := f.msgs.AppendDirectMessage(thread.ID, ann.ID, "for bob")
	require.NoError(t, err)

	// The receiver field points at a third user; the thread decides the
	// target, so the message must still land on bob and never on eve.
	f.gateway.HandleEvent(annClient, event(t, "send_direct_message", map[string]interface{}{
		"receiverId": eve.ID,
		"content":    "for bob",
		"messageId":  persisted.ID,
	}))

	received := readEvent(t, bobClient)
	assert.Equal(t, "receive_direct_message", received.Type)
	assert.Equal(t, persisted.ID, messageID(t, received.Payload))
	assertNoEvent(t, eveClient)
	assertNoEvent(t, annClient)
}

func TestDirectMessageFanOutUnknownIDIsDropped(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)

	f.gateway.HandleEvent(annClient, event(t, "send_direct_message", map[string]interface{}{
		"receiverId": bob.ID,
		"content":    "ghost",
		"messageId":  12345,
	}))

	assertNoEvent(t, bobClient)
	var count int64
	require.NoError(t, f.db.Model(&models.Message{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "unknown fan-out ids must never create rows")
}

func TestTypingRelayToRoom(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")
	room, err := f.dir.CreateRoom("general", false, ann.ID, []uint{bob.ID})
	require.NoError(t, err)

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)
	f.hub.Subscribe(annClient, RoomTopic(room.ID))
	f.hub.Subscribe(bobClient, RoomTopic(room.ID))

	f.gateway.HandleEvent(annClient, event(t, "typing",
		map[string]interface{}{"roomId": room.ID, "isTyping": true}))

	received := readEvent(t, bobClient)
	assert.Equal(t, "user_typing", received.Type)
	var payload typingPayload
	require.NoError(t, json.Unmarshal(received.Payload, &payload))
	assert.Equal(t, ann.ID, payload.UserID, "actor id comes from the connection, not the payload")
	assertNoEvent(t, annClient)

	f.gateway.HandleEvent(annClient, event(t, "typing",
		map[string]interface{}{"roomId": room.ID, "isTyping": false}))
	stopped := readEvent(t, bobClient)
	assert.Equal(t, "user_stopped_typing", stopped.Type)
}

func TestTypingRelayToCounterpart(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	bob := f.user(t, "Bob", "bob@example.com")

	annClient := f.connect(ann.ID)
	bobClient := f.connect(bob.ID)

	f.gateway.HandleEvent(annClient, event(t, "typing",
		map[string]interface{}{"userId": bob.ID, "isTyping": true}))

	received := readEvent(t, bobClient)
	assert.Equal(t, "user_typing", received.Type)
	var payload typingPayload
	require.NoError(t, json.Unmarshal(received.Payload, &payload))
	assert.Equal(t, ann.ID, payload.UserID)
	assertNoEvent(t, annClient)
}

func TestPresencePersistedBestEffort(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	observer := f.user(t, "Obs", "obs@example.com")

	annClient := f.connect(ann.ID)
	obsClient := f.connect(observer.ID)

	f.gateway.HandleEvent(annClient, event(t, "user_online", map[string]interface{}{}))

	online := readEvent(t, obsClient)
	assert.Equal(t, "user_online", online.Type)

	var user models.User
	require.NoError(t, f.db.First(&user, ann.ID).Error)
	assert.True(t, user.IsOnline)

	f.hub.Unregister(annClient)
	assert.Eventually(t, func() bool {
		var u models.User
		if err := f.db.First(&u, ann.ID).Error; err != nil {
			return false
		}
		return !u.IsOnline
	}, time.Second, 10*time.Millisecond)
}

func TestMalformedEventsAreDropped(t *testing.T) {
	f := newGatewayFixture(t)
	ann := f.user(t, "Ann", "ann@example.com")
	annClient := f.connect(ann.ID)

	f.gateway.HandleEvent(annClient, []byte("not json"))
	f.gateway.HandleEvent(annClient, event(t, "send_message", "wrong shape"))
	f.gateway.HandleEvent(annClient, event(t, "no_such_event", map[string]string{}))

	assertNoEvent(t, annClient)
}

func messageID(t *testing.T, payload json.RawMessage) uint {
	t.Helper()
	var message models.Message
	require.NoError(t, json.Unmarshal(payload, &message))
	return message.ID
}
