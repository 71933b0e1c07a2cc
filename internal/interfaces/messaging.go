package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

// ErrRetryable marks a relay failure worth one more delivery attempt
// (network error, 5xx, 429).
var ErrRetryable = errors.New("retryable relay failure")

// RabbitMQ messages
type OrderMessage struct {
	FormID string        `json:"form_id"`
	Order  *domain.Order `json:"order"`
}

type StatusUpdateMessage struct {
	OrderID   string        `json:"order_id"`
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	ChangedBy string        `json:"changed_by"`
	Timestamp time.Time     `json:"timestamp"`
}

type MessagePublisher interface {
	PublishOrder(ctx context.Context, msg OrderMessage) error
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type MessageConsumer interface {
	ConsumeOrders(ctx context.Context, handler OrderMessageHandler) error
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type (
	OrderMessageHandler func(ctx context.Context, body []byte) error
	NotificationHandler func(ctx context.Context, body []byte) error
)

// OrderRelay is the best-effort notification step run after an order is
// committed locally.
type OrderRelay interface {
	Relay(ctx context.Context, formID string, order *domain.Order) error
}

// StatusNotifier fans out status changes to whoever listens.
type StatusNotifier interface {
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

// ActivitySink receives a copy of every recorded activity entry.
type ActivitySink interface {
	Publish(ctx context.Context, entry domain.Activity) error
	Close() error
}

// Advisor produces free-form operator advice from serialized order history.
type Advisor interface {
	Advise(ctx context.Context, storeName, history string) (string, error)
}
