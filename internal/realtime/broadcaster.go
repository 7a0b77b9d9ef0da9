package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atendesk/helpdesk/internal/events"
)

const roomChannel = "helpdesk:ticket_rooms"

// Broadcaster bridges domain message events into ticket rooms. With a
// Redis client it publishes through pub/sub so every instance's hub
// sees the message; without one it feeds the local hub directly.
type Broadcaster struct {
	hub    *Hub
	client *redis.Client
	logger *zap.Logger
}

// NewBroadcaster creates the broadcaster.
func NewBroadcaster(hub *Hub, client *redis.Client, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, client: client, logger: logger}
}

// RegisterHandlers subscribes to message events on the dispatcher.
func (b *Broadcaster) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketMessageAdded, b.handleMessageAdded)
}

func (b *Broadcaster) handleMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok {
		return nil
	}
	msg := RoomMessage{
		TicketID:   event.TicketID,
		AuthorName: payload.AuthorName,
		Body:       payload.Body,
		CreatedAt:  payload.CreatedAt,
	}
	if b.client == nil {
		b.hub.Broadcast(msg)
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, roomChannel, data).Err(); err != nil {
		b.logger.Warn("redis publish failed; falling back to local broadcast", zap.Error(err))
		b.hub.Broadcast(msg)
	}
	return nil
}

// Run consumes the Redis channel and fans messages into the local hub.
// It blocks until the context is cancelled; callers run it in a
// goroutine. A nil client makes Run a no-op since handleMessageAdded
// already broadcasts locally.
func (b *Broadcaster) Run(ctx context.Context) {
	if b.client == nil {
		return
	}
	sub := b.client.Subscribe(ctx, roomChannel)
	defer sub.Close() //nolint:errcheck

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			var msg RoomMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				b.logger.Warn("bad room message payload", zap.Error(err))
				continue
			}
			b.hub.Broadcast(msg)
		}
	}
}
