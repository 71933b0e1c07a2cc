package tracking

import (
	"context"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Service is the customer-facing, read-only view over the order collection.
type Service struct {
	orders interfaces.OrderService
	logger logger.Logger
}

func NewService(orders interfaces.OrderService, logger logger.Logger) *Service {
	return &Service{
		orders: orders,
		logger: logger,
	}
}

// ActiveOrder returns the newest order owned by who that is still moving
// through the kitchen. Dispatched and cancelled orders drop out.
func (s *Service) ActiveOrder(ctx context.Context, who domain.Identity) (*interfaces.TrackingOrderResponse, error) {
	if who.Empty() {
		return nil, domain.ErrMissingIdentity
	}

	for _, o := range s.orders.ListOrders(ctx) {
		if who.Owns(&o) && !o.Status.Terminal() {
			return toResponse(&o), nil
		}
	}

	return nil, domain.ErrOrderNotFound
}

func (s *Service) OrderStatus(ctx context.Context, orderID string) (*interfaces.TrackingOrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toResponse(order), nil
}

func toResponse(o *domain.Order) *interfaces.TrackingOrderResponse {
	return &interfaces.TrackingOrderResponse{
		OrderID:       o.ID,
		CurrentStatus: o.Status,
		StatusLabel:   o.Status.Label(),
		Steps:         o.Progress(),
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
