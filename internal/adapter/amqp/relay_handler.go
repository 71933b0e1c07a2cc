package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type RelayHandler struct {
	service interfaces.RelayService
	logger  logger.Logger
}

func NewRelayHandler(service interfaces.RelayService, logger logger.Logger) *RelayHandler {
	return &RelayHandler{
		service: service,
		logger:  logger,
	}
}

// HandleOrder decodes a queued order. Undecodable bodies are never retried.
func (h *RelayHandler) HandleOrder(ctx context.Context, body []byte) error {
	var msg interfaces.OrderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse order message", "", nil, err)
		return fmt.Errorf("failed to parse order message: %w", err)
	}

	return h.service.ProcessOrder(ctx, msg)
}
