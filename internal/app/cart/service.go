package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Service keeps one cart per identity key. Carts live in memory only and
// are lost on restart.
type Service struct {
	catalog  interfaces.CatalogService
	settings interfaces.SettingsService
	logger   logger.Logger

	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewService(catalog interfaces.CatalogService, settings interfaces.SettingsService, logger logger.Logger) *Service {
	return &Service{
		catalog:  catalog,
		settings: settings,
		logger:   logger,
		carts:    make(map[string]*domain.Cart),
	}
}

func (s *Service) Get(ctx context.Context, who domain.Identity) interfaces.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(ctx, s.carts[who.Key()])
}

// Add snapshots the current product record into the cart. A closed store
// refuses new items but leaves the existing cart alone.
func (s *Service) Add(ctx context.Context, who domain.Identity, productID string) (interfaces.CartView, error) {
	if !s.settings.Current(ctx).IsOpen {
		return interfaces.CartView{}, domain.ErrStoreClosed
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return interfaces.CartView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(who)
	c.Add(*product)

	s.logger.Debug("cart_item_added", "Item added to cart", "", map[string]interface{}{
		"identity":   who.Key(),
		"product_id": productID,
		"quantity":   c.Quantity(productID),
	})

	return s.view(ctx, c), nil
}

func (s *Service) Increment(ctx context.Context, who domain.Identity, productID string) interfaces.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(who)
	c.Increment(productID)
	return s.view(ctx, c)
}

func (s *Service) Decrement(ctx context.Context, who domain.Identity, productID string) interfaces.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(who)
	c.Decrement(productID)
	return s.view(ctx, c)
}

func (s *Service) SetNote(ctx context.Context, who domain.Identity, productID, note string) interfaces.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(who)
	c.SetNote(productID, strings.TrimSpace(note))
	return s.view(ctx, c)
}

func (s *Service) Clear(ctx context.Context, who domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, who.Key())
}

// Remove takes the ordered quantities out of the identity's cart. Anything
// added since the items were read is left in place.
func (s *Service) Remove(ctx context.Context, who domain.Identity, items []domain.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[who.Key()]
	if !ok {
		return
	}
	c.Remove(items)
	if c.Empty() {
		delete(s.carts, who.Key())
	}
}

func (s *Service) Items(ctx context.Context, who domain.Identity) []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[who.Key()]
	if !ok {
		return nil
	}
	return c.Snapshot()
}

// cartFor returns the identity's cart, creating it on first use. Callers
// hold s.mu.
func (s *Service) cartFor(who domain.Identity) *domain.Cart {
	c, ok := s.carts[who.Key()]
	if !ok {
		c = &domain.Cart{}
		s.carts[who.Key()] = c
	}
	return c
}

func (s *Service) view(ctx context.Context, c *domain.Cart) interfaces.CartView {
	fee := s.settings.Current(ctx).DeliveryFee
	if c == nil {
		c = &domain.Cart{}
	}

	items := c.Snapshot()
	subtotal := c.Subtotal()
	return interfaces.CartView{
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}
