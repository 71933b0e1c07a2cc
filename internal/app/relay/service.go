package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

var ErrMalformedMessage = errors.New("order message has no order")

// Service is the relay worker: it takes queued orders and posts them to the
// form endpoint.
type Service struct {
	client interfaces.OrderRelay
	logger logger.Logger
}

func NewService(client interfaces.OrderRelay, logger logger.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// ProcessOrder returns an error wrapping interfaces.ErrRetryable when the
// delivery is worth another attempt.
func (s *Service) ProcessOrder(ctx context.Context, msg interfaces.OrderMessage) error {
	if msg.Order == nil {
		return ErrMalformedMessage
	}

	s.logger.Debug("relay_started", fmt.Sprintf("Relaying order %s", msg.Order.ID), msg.Order.ID, map[string]interface{}{
		"form_id": msg.FormID,
	})

	if err := s.client.Relay(ctx, msg.FormID, msg.Order); err != nil {
		return fmt.Errorf("failed to relay order %s: %w", msg.Order.ID, err)
	}

	s.logger.Info("relay_completed", fmt.Sprintf("Order %s relayed", msg.Order.ID), msg.Order.ID, nil)
	return nil
}
