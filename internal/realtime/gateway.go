package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
)

// Envelope is the frame exchanged over the websocket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type registerPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

type roomPayload struct {
	OtherUserID uuid.UUID `json:"other_user_id"`
}

type sendMessagePayload struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	Text       string    `json:"text"`
}

type connectionPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

// Gateway owns the websocket endpoint. Every mutation goes through the
// services first; pushes only happen once the write is durable.
type Gateway struct {
	hub         *Hub
	chatService service.ChatService
	connService service.ConnectionService
	logger      *slog.Logger
}

func NewGateway(hub *Hub, chatService service.ChatService, connService service.ConnectionService, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:         hub,
		chatService: chatService,
		connService: connService,
		logger:      logger,
	}
}

// Upgrade gates the endpoint to websocket upgrade requests.
func (g *Gateway) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket connection loop.
func (g *Gateway) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := NewClient(conn)
		var userID uuid.UUID

		defer func() {
			if userID != uuid.Nil {
				g.hub.Unregister(userID, client)
			}
			conn.Close()
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var env Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				g.logger.Warn("dropping malformed websocket frame", "error", err)
				continue
			}

			switch env.Event {
			case "register_user":
				var p registerPayload
				if err := json.Unmarshal(env.Data, &p); err != nil || p.UserID == uuid.Nil {
					continue
				}
				if userID != uuid.Nil && userID != p.UserID {
					g.hub.Unregister(userID, client)
				}
				userID = p.UserID
				g.hub.Register(userID, client)

			case "join_chat":
				var p roomPayload
				if err := json.Unmarshal(env.Data, &p); err != nil || userID == uuid.Nil {
					continue
				}
				roomID := model.RoomID(userID, p.OtherUserID)
				g.hub.JoinRoom(roomID, userID)
				if err := g.chatService.MarkRead(context.Background(), userID, p.OtherUserID); err != nil {
					g.logger.Error("failed to mark room read", "room", roomID, "error", err)
				}

			case "leave_chat":
				var p roomPayload
				if err := json.Unmarshal(env.Data, &p); err != nil || userID == uuid.Nil {
					continue
				}
				g.hub.LeaveRoom(model.RoomID(userID, p.OtherUserID), userID)

			case "send_message":
				var p sendMessagePayload
				if err := json.Unmarshal(env.Data, &p); err != nil || userID == uuid.Nil {
					continue
				}
				g.handleSendMessage(client, userID, p)

			case "send_connection_request":
				var p connectionPayload
				if err := json.Unmarshal(env.Data, &p); err != nil || userID == uuid.Nil {
					continue
				}
				// A request to a user that no longer exists drops silently;
				// the sender has nothing actionable to do about it.
				if err := g.connService.SendRequest(context.Background(), userID, p.UserID); err != nil &&
					!errors.Is(err, service.ErrUserNotFound) {
					g.sendError(client, err)
				}

			case "accept_connection_request":
				var p connectionPayload
				if err := json.Unmarshal(env.Data, &p); err != nil || userID == uuid.Nil {
					continue
				}
				if err := g.connService.RespondToRequest(context.Background(), p.UserID, userID, true); err != nil {
					g.sendError(client, err)
					continue
				}
				g.pushConnectionUpdate(userID, p.UserID, true)

			case "reject_connection_request":
				var p connectionPayload
				if err := json.Unmarshal(env.Data, &p); err != nil || userID == uuid.Nil {
					continue
				}
				if err := g.connService.RespondToRequest(context.Background(), p.UserID, userID, false); err != nil {
					g.sendError(client, err)
					continue
				}
				g.pushConnectionUpdate(userID, p.UserID, false)

			case "cancel_connection_request":
				var p connectionPayload
				if err := json.Unmarshal(env.Data, &p); err != nil || userID == uuid.Nil {
					continue
				}
				if err := g.connService.CancelConnection(context.Background(), userID, p.UserID); err != nil {
					g.sendError(client, err)
					continue
				}
				g.pushConnectionUpdate(userID, p.UserID, false)

			default:
				g.logger.Warn("unknown websocket event", "event", env.Event)
			}
		}
	})
}

func (g *Gateway) handleSendMessage(client Client, senderID uuid.UUID, p sendMessagePayload) {
	msg, err := g.chatService.SendMessage(context.Background(), senderID, p.ReceiverID, p.Text)
	if err != nil {
		g.sendError(client, err)
		return
	}

	// Receivers with the room open get the message in place; everyone else
	// gets a global ping so conversation lists can update.
	if g.hub.InRoom(msg.RoomID, p.ReceiverID) {
		g.hub.BroadcastRoom(msg.RoomID, frame("receive_message", msg))
		return
	}

	client.SendJSON(frame("receive_message", msg))
	g.hub.SendToUser(p.ReceiverID, frame("receive_message_global", msg))
}

// pushConnectionUpdate tells both parties the request state changed. The
// durable record is already written; an offline party just misses the push.
func (g *Gateway) pushConnectionUpdate(userA, userB uuid.UUID, connected bool) {
	update := map[string]interface{}{"user_a": userA, "user_b": userB, "connected": connected}
	g.hub.SendToUser(userA, frame("connection_update", update))
	g.hub.SendToUser(userB, frame("connection_update", update))
}

func (g *Gateway) sendError(client Client, err error) {
	client.SendJSON(frame("error", map[string]string{"message": err.Error()}))
}

func frame(event string, data interface{}) map[string]interface{} {
	return map[string]interface{}{"event": event, "data": data}
}
