package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sanchar-app/chat_backend/models"
	"github.com/sanchar-app/chat_backend/store"
	"github.com/sanchar-app/chat_backend/utils"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// Gateway authenticates websocket connections and routes their events to
// the message store and back out through the hub.
type Gateway struct {
	hub       *Hub
	db        *gorm.DB
	directory *store.Directory
	messages  *store.Messages
}

func NewGateway(hub *Hub, db *gorm.DB, directory *store.Directory, messages *store.Messages) *Gateway {
	g := &Gateway{
		hub:       hub,
		db:        db,
		directory: directory,
		messages:  messages,
	}
	hub.OnPresenceChange = g.persistPresence
	return g
}

// HandleConnection upgrades an HTTP request to a websocket connection.
// The bearer token is resolved here; the connection carries that identity
// for its whole lifetime and client-supplied user ids are never trusted.
func (g *Gateway) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token"})
		return
	}

	userID, err := utils.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("error upgrading connection: %v", err)
		return
	}

	client := &Client{
		hub:     g.hub,
		gateway: g,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  userID,
	}

	g.hub.Register(client)

	// Every connection joins its own personal channel.
	g.hub.Subscribe(client, UserTopic(userID))

	go client.readPump()
	go client.writePump()
}

type joinRoomPayload struct {
	Topic string `json:"topic"`
}

type sendMessagePayload struct {
	RoomID  uint   `json:"roomId"`
	Content string `json:"content"`
}

type sendDirectMessagePayload struct {
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
	MessageID  uint   `json:"messageId,omitempty"`
}

type typingPayload struct {
	RoomID   uint `json:"roomId,omitempty"`
	UserID   uint `json:"userId,omitempty"`
	IsTyping bool `json:"isTyping"`
}

// HandleEvent dispatches one inbound event. Failures are logged and the
// event dropped; the connection is never torn down from here.
func (g *Gateway) HandleEvent(client *Client, raw []byte) {
	var event InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Printf("error unmarshaling event: %v", err)
		return
	}

	switch event.Type {
	case "join_room":
		var payload joinRoomPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			log.Printf("error unmarshaling join_room payload: %v", err)
			return
		}
		g.handleJoin(client, payload.Topic)
	case "leave_room":
		var payload joinRoomPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			log.Printf("error unmarshaling leave_room payload: %v", err)
			return
		}
		g.hub.Unsubscribe(client, payload.Topic)
	case "user_online":
		g.hub.Announce(client)
	case "send_message":
		var payload sendMessagePayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			log.Printf("error unmarshaling send_message payload: %v", err)
			return
		}
		g.handleSendMessage(client, payload)
	case "send_direct_message":
		var payload sendDirectMessagePayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			log.Printf("error unmarshaling send_direct_message payload: %v", err)
			return
		}
		g.handleSendDirectMessage(client, payload)
	case "typing":
		var payload typingPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			log.Printf("error unmarshaling typing payload: %v", err)
			return
		}
		g.handleTyping(client, payload)
	default:
		log.Printf("unknown event type %q from user %d", event.Type, client.userID)
	}
}

// handleJoin subscribes the connection to a topic. Room topics require
// membership; personal and conversation topics must be derived from the
// caller's own identity.
func (g *Gateway) handleJoin(client *Client, topic string) {
	ok, err := g.authorizeTopic(client, topic)
	if err != nil {
		log.Printf("error authorizing topic %q for user %d: %v", topic, client.userID, err)
		return
	}
	if !ok {
		client.sendEvent("error", gin.H{"error": fmt.Sprintf("not allowed to join %s", topic)})
		return
	}
	g.hub.Subscribe(client, topic)
}

func (g *Gateway) authorizeTopic(client *Client, topic string) (bool, error) {
	switch {
	case strings.HasPrefix(topic, "room:"):
		roomID, err := strconv.ParseUint(strings.TrimPrefix(topic, "room:"), 10, 32)
		if err != nil {
			return false, nil
		}
		return g.directory.IsRoomMember(uint(roomID), client.userID)
	case strings.HasPrefix(topic, "user:"):
		return topic == UserTopic(client.userID), nil
	case strings.HasPrefix(topic, "dm:"):
		pair := strings.SplitN(strings.TrimPrefix(topic, "dm:"), "_", 2)
		if len(pair) != 2 {
			return false, nil
		}
		a, errA := strconv.ParseUint(pair[0], 10, 32)
		b, errB := strconv.ParseUint(pair[1], 10, 32)
		if errA != nil || errB != nil || a >= b {
			return false, nil
		}
		return uint(a) == client.userID || uint(b) == client.userID, nil
	default:
		return false, nil
	}
}

// handleSendMessage persists a room message and fans it out to the room
// topic, sender included.
func (g *Gateway) handleSendMessage(client *Client, payload sendMessagePayload) {
	member, err := g.directory.IsRoomMember(payload.RoomID, client.userID)
	if err != nil {
		log.Printf("error checking membership for user %d in room %d: %v", client.userID, payload.RoomID, err)
		return
	}
	if !member {
		log.Printf("user %d attempted to send to room %d without membership", client.userID, payload.RoomID)
		return
	}

	message, err := g.messages.AppendRoomMessage(payload.RoomID, client.userID, payload.Content)
	if err != nil {
		log.Printf("error saving room message: %v", err)
		return
	}

	g.hub.Broadcast(RoomTopic(payload.RoomID), "receive_message", message)
}

// handleSendDirectMessage covers both halves of the dual-path protocol.
// With a messageId the row was already persisted over HTTP: re-read it and
// fan out to the counterpart, never back to the originating connection.
// Without one this is the best-effort fallback: persist, then fan out.
// The fallback never writes under a client-chosen id, so it cannot
// duplicate a row the HTTP path already created.
func (g *Gateway) handleSendDirectMessage(client *Client, payload sendDirectMessagePayload) {
	var message models.Message
	var receiverID uint
	if payload.MessageID != 0 {
		var err error
		message, err = g.messages.ByID(payload.MessageID)
		if err != nil {
			log.Printf("error fetching direct message %d for fan-out: %v", payload.MessageID, err)
			return
		}
		if message.UserID != client.userID || message.DirectMessageID == nil {
			log.Printf("user %d attempted to fan out message %d they do not own", client.userID, payload.MessageID)
			return
		}
		thread, err := g.directory.ThreadByID(*message.DirectMessageID)
		if err != nil {
			log.Printf("error fetching conversation for message %d: %v", payload.MessageID, err)
			return
		}
		// The target is the thread counterpart; the payload's receiver
		// field never picks the topic.
		switch client.userID {
		case thread.UserOneID:
			receiverID = thread.UserTwoID
		case thread.UserTwoID:
			receiverID = thread.UserOneID
		default:
			log.Printf("user %d is not a participant of conversation %d", client.userID, thread.ID)
			return
		}
	} else {
		receiverID = payload.ReceiverID
		if receiverID == 0 || receiverID == client.userID {
			log.Printf("user %d sent direct message with bad receiver %d", client.userID, receiverID)
			return
		}
		thread, err := g.directory.FindOrCreateDirectThread(client.userID, receiverID)
		if err != nil {
			log.Printf("error resolving conversation for users %d/%d: %v", client.userID, receiverID, err)
			return
		}
		message, err = g.messages.AppendDirectMessage(thread.ID, client.userID, payload.Content)
		if err != nil {
			log.Printf("error saving direct message: %v", err)
			return
		}
	}

	g.hub.BroadcastExcept(UserTopic(receiverID), client, "receive_direct_message", message)
	g.hub.BroadcastExcept(ConversationTopic(client.userID, receiverID), client, "receive_direct_message", message)
}

// handleTyping relays a typing transition to the room, or to the
// counterpart's personal and conversation channels, excluding the sender.
// The hub never expires typing state; clients self-clear.
func (g *Gateway) handleTyping(client *Client, payload typingPayload) {
	eventType := "user_typing"
	if !payload.IsTyping {
		eventType = "user_stopped_typing"
	}

	if payload.RoomID != 0 {
		member, err := g.directory.IsRoomMember(payload.RoomID, client.userID)
		if err != nil || !member {
			if err != nil {
				log.Printf("error checking membership for typing event: %v", err)
			}
			return
		}
		g.hub.BroadcastExcept(RoomTopic(payload.RoomID), client, eventType, typingPayload{
			RoomID:   payload.RoomID,
			UserID:   client.userID,
			IsTyping: payload.IsTyping,
		})
		return
	}

	if payload.UserID == 0 || payload.UserID == client.userID {
		return
	}
	out := typingPayload{UserID: client.userID, IsTyping: payload.IsTyping}
	g.hub.BroadcastExcept(UserTopic(payload.UserID), client, eventType, out)
	g.hub.BroadcastExcept(ConversationTopic(client.userID, payload.UserID), client, eventType, out)
}

// persistPresence mirrors the hub's refcounted presence into the users
// table, best-effort. The in-memory count stays authoritative.
func (g *Gateway) persistPresence(userID uint, online bool) {
	if g.db == nil {
		return
	}
	if err := g.db.Model(&models.User{}).Where("id = ?", userID).
		Update("is_online", online).Error; err != nil {
		log.Printf("error updating online flag for user %d: %v", userID, err)
	}
}
