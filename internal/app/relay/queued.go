package relay

import (
	"context"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Queued hands orders to the message broker instead of posting them. The
// checkout only learns whether the broker accepted the message.
type Queued struct {
	publisher interfaces.MessagePublisher
}

func NewQueued(publisher interfaces.MessagePublisher) *Queued {
	return &Queued{publisher: publisher}
}

func (q *Queued) Relay(ctx context.Context, formID string, order *domain.Order) error {
	return q.publisher.PublishOrder(ctx, interfaces.OrderMessage{
		FormID: formID,
		Order:  order,
	})
}
