package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/realtime"
	"github.com/atendesk/helpdesk/internal/service"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

const (
	wsPrincipalKey = "ws_principal"
	wsTicketIDKey  = "ws_ticket_id"
)

// RealtimeHandler upgrades connections into ticket rooms. Access is
// checked before the upgrade so a rejected client gets a proper HTTP
// error instead of a dropped socket.
type RealtimeHandler struct {
	hub     *realtime.Hub
	tickets *service.TicketService
	logger  *zap.Logger
}

// NewRealtimeHandler constructs handler.
func NewRealtimeHandler(hub *realtime.Hub, tickets *service.TicketService, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, tickets: tickets, logger: logger}
}

// Upgrade GET /ws/tickets/:id pre-upgrade gate.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return apperrors.NewValidationError("websocket upgrade required", nil)
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	// visibility check doubles as existence check
	if _, _, err := h.tickets.GetTicket(c.Context(), principal, ticketID); err != nil {
		return err
	}
	c.Locals(wsPrincipalKey, principal)
	c.Locals(wsTicketIDKey, ticketID)
	return c.Next()
}

// inboundMessage is what a room client may send: a new thread message.
type inboundMessage struct {
	Body string `json:"body"`
}

// Room is the post-upgrade handler. The connection joins the ticket's
// room; messages it writes go through the normal posting path so they
// persist and fan out to every subscriber.
func (h *RealtimeHandler) Room() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		principal, ok := conn.Locals(wsPrincipalKey).(domain.Principal)
		if !ok {
			_ = conn.Close()
			return
		}
		ticketID, ok := conn.Locals(wsTicketIDKey).(int64)
		if !ok {
			_ = conn.Close()
			return
		}

		h.hub.Join(ticketID, conn)
		defer func() {
			h.hub.Leave(ticketID, conn)
			_ = conn.Close()
		}()

		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if _, err := h.tickets.PostMessage(context.Background(), principal, ticketID, msg.Body); err != nil {
				domainErr := apperrors.ToDomainError(err)
				if writeErr := conn.WriteJSON(fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}); writeErr != nil {
					return
				}
				h.logger.Debug("room message rejected",
					zap.Int64("ticket_id", ticketID),
					zap.Int64("user_id", principal.ID),
					zap.String("code", domainErr.Code))
			}
		}
	})
}
