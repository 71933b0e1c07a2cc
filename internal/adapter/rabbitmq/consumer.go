package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn     Connection
	prefetch int
	logger   logger.Logger
}

func NewConsumer(conn Connection, prefetch int, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, prefetch: prefetch, logger: logger}
}

// ConsumeOrders feeds relay_queue deliveries to handler until ctx is done,
// reopening the channel whenever the broker drops it.
func (c *consumer) ConsumeOrders(ctx context.Context, handler interfaces.OrderMessageHandler) error {
	return c.loop(ctx, "relay_consumer", func(ctx context.Context) error {
		return c.consumeOrders(ctx, handler)
	})
}

func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	return c.loop(ctx, "notification_consumer", func(ctx context.Context) error {
		return c.consumeNotifications(ctx, handler)
	})
}

func (c *consumer) loop(ctx context.Context, action string, run func(context.Context) error) error {
	for {
		err := run(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Error(action+"_disconnected", fmt.Sprintf("Consumer disconnected, reconnecting in %s", reconnectDelay), "", nil, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *consumer) consumeOrders(ctx context.Context, handler interfaces.OrderMessageHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareRelayTopology(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(RelayQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			herr := handler(ctx, msg.Body)
			if err := settle(msg, herr); err != nil {
				c.logger.Error("delivery_settle_failed", "Failed to ack/nack delivery", msg.MessageId, nil, err)
			}
			if herr != nil {
				c.logger.Error("relay_delivery_failed", "Relay attempt failed", msg.MessageId, map[string]interface{}{
					"redelivered": msg.Redelivered,
				}, herr)
			}
		}
	}
}

// settle acks a handled delivery. A retryable failure gets exactly one more
// attempt through a requeue; anything else is dead-lettered.
func settle(msg amqp.Delivery, handlerErr error) error {
	switch {
	case handlerErr == nil:
		return msg.Ack(false)
	case errors.Is(handlerErr, interfaces.ErrRetryable) && !msg.Redelivered:
		return msg.Nack(false, true)
	default:
		return msg.Nack(false, false)
	}
}

func (c *consumer) consumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// exclusive server-named queue: every subscriber sees every update
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", NotificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			// auto-acked; a bad notification is only logged by the handler
			_ = handler(ctx, msg.Body)
		}
	}
}
