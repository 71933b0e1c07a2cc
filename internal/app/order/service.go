package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/whatsapp"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
	"github.com/YelzhanWeb/storefront/internal/persist"
)

var errIDSpaceExhausted = errors.New("no free order id left")

type Service struct {
	store    *persist.Store
	carts    interfaces.CartService
	settings interfaces.SettingsService
	activity interfaces.ActivityService
	relay    interfaces.OrderRelay
	notifier interfaces.StatusNotifier
	logger   logger.Logger
	now      func() time.Time

	mu     sync.RWMutex
	orders []domain.Order

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// NewService loads the persisted order collection. relay and notifier may be
// nil, which disables that notification step.
func NewService(
	ctx context.Context,
	store *persist.Store,
	carts interfaces.CartService,
	settings interfaces.SettingsService,
	activity interfaces.ActivityService,
	relay interfaces.OrderRelay,
	notifier interfaces.StatusNotifier,
	logger logger.Logger,
) *Service {
	return &Service{
		store:    store,
		carts:    carts,
		settings: settings,
		activity: activity,
		relay:    relay,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		orders:   persist.Load(ctx, store, persist.KeyOrders, []domain.Order{}),
		inflight: make(map[string]struct{}),
	}
}

// Checkout turns the identity's cart into a pending order. Persisting the
// collection is the commit point: once it succeeds the order exists, the
// ordered quantities leave the cart, and a failing relay is only reported back.
func (s *Service) Checkout(ctx context.Context, who domain.Identity, form domain.CheckoutForm) (*interfaces.CheckoutResult, error) {
	if who.Empty() {
		return nil, domain.ErrMissingIdentity
	}

	key := who.Key()
	if !s.begin(key) {
		return nil, domain.ErrCheckoutInFlight
	}
	defer s.end(key)

	items := s.carts.Items(ctx, who)
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	cfg := s.settings.Current(ctx)
	if !cfg.IsOpen {
		return nil, domain.ErrStoreClosed
	}

	now := s.now().UTC()

	s.mu.Lock()
	id, err := s.nextID(now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	order, err := domain.NewOrder(id, who, form, items, cfg.DeliveryFee, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	next := make([]domain.Order, 0, len(s.orders)+1)
	next = append(next, *order)
	next = append(next, s.orders...)
	if err := s.store.Save(ctx, persist.KeyOrders, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("order_persist_failed", "Failed to persist order collection", "", map[string]interface{}{
			"order_id": id,
		}, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.orders = next
	s.mu.Unlock()

	s.carts.Remove(ctx, who, items)
	s.activity.Record(ctx, domain.ActivityOrder, fmt.Sprintf("New order %s from %s: R$ %s", order.ID, customerLabel(order), order.Total.StringFixed(2)))
	s.logger.Info("order_created", "Order created", "", map[string]interface{}{
		"order_id": order.ID,
		"identity": key,
		"total":    order.Total.StringFixed(2),
	})

	result := &interfaces.CheckoutResult{
		Order:       order,
		WhatsAppURL: whatsapp.Link(cfg.WhatsAppNumber, cfg.StoreName, order),
	}

	if s.relay != nil {
		if err := s.relay.Relay(ctx, cfg.FormID, order); err != nil {
			s.logger.Error("order_relay_failed", "Order saved but relay failed", "", map[string]interface{}{
				"order_id": order.ID,
			}, err)
			result.RelayErr = err
		}
	}

	return result, nil
}

// UpdateStatus sets the order status. Setting the current value changes
// nothing and notifies nobody.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.Status, changedBy string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	s.mu.Lock()
	idx := s.indexOf(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrOrderNotFound
	}

	updated := s.orders[idx]
	oldStatus := updated.Status
	changed, err := updated.SetStatus(status, s.now().UTC())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !changed {
		s.mu.Unlock()
		return &updated, nil
	}

	next := append([]domain.Order(nil), s.orders...)
	next[idx] = updated
	if err := s.store.Save(ctx, persist.KeyOrders, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("order_persist_failed", "Failed to persist status change", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		return nil, fmt.Errorf("failed to save order status: %w", err)
	}
	s.orders = next
	s.mu.Unlock()

	s.activity.Record(ctx, domain.ActivityStatus, fmt.Sprintf("Order %s is now %s", orderID, status.Label()))
	s.logger.Debug("order_status_changed", "Order status changed", "", map[string]interface{}{
		"order_id":   orderID,
		"old_status": oldStatus,
		"new_status": status,
	})

	if s.notifier != nil {
		msg := interfaces.StatusUpdateMessage{
			OrderID:   orderID,
			OldStatus: oldStatus,
			NewStatus: status,
			ChangedBy: changedBy,
			Timestamp: updated.UpdatedAt,
		}
		if err := s.notifier.PublishStatusUpdate(ctx, msg); err != nil {
			s.logger.Error("rabbitmq_publish_failed", "Failed to publish status update", "", nil, err)
		}
	}

	return &updated, nil
}

// ListOrders returns every order, newest first by creation time.
func (s *Service) ListOrders(ctx context.Context) []domain.Order {
	s.mu.RLock()
	out := append([]domain.Order(nil), s.orders...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Service) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(orderID)
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}
	found := s.orders[idx]
	return &found, nil
}

func (s *Service) begin(key string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()

	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Service) end(key string) {
	s.inflightMu.Lock()
	delete(s.inflight, key)
	s.inflightMu.Unlock()
}

func (s *Service) indexOf(orderID string) int {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

// nextID starts from the last four digits of the millisecond clock and
// walks forward until it finds an id not yet in the collection. Callers
// hold s.mu.
func (s *Service) nextID(now time.Time) (string, error) {
	start := now.UnixMilli() % 10000
	for i := int64(0); i < 10000; i++ {
		id := fmt.Sprintf("#M%04d", (start+i)%10000)
		if s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", errIDSpaceExhausted
}

func customerLabel(o *domain.Order) string {
	switch {
	case o.CustomerName != "":
		return o.CustomerName
	case o.CustomerEmail != "":
		return o.CustomerEmail
	default:
		return o.CustomerPhone
	}
}
