package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange        = "orders_topic"
	DeadLetterExchange    = "orders_dlq"
	RelayQueue            = "relay_queue"
	RelayDeadLetterQueue  = "relay_queue_dlq"
	RelayRoutingKey       = "relay.form"
	NotificationsExchange = "notifications_fanout"
)

// declareRelayTopology sets up the order exchange, the relay queue and its
// dead-letter pair. Declarations are idempotent.
func declareRelayTopology(ch Channel) error {
	if err := ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare orders exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(RelayDeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	if err := ch.QueueBind(RelayDeadLetterQueue, RelayRoutingKey, DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange": DeadLetterExchange,
	}
	if _, err := ch.QueueDeclare(RelayQueue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare relay queue: %w", err)
	}

	if err := ch.QueueBind(RelayQueue, "relay.#", OrdersExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind relay queue: %w", err)
	}

	return nil
}
