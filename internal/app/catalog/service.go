package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
	"github.com/YelzhanWeb/storefront/internal/persist"
)

type Service struct {
	store    *persist.Store
	activity interfaces.ActivityService
	logger   logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	products []domain.Product
}

func NewService(ctx context.Context, store *persist.Store, activity interfaces.ActivityService, logger logger.Logger) *Service {
	return &Service{
		store:    store,
		activity: activity,
		logger:   logger,
		now:      time.Now,
		products: persist.Load(ctx, store, persist.KeyProducts, DefaultProducts()),
	}
}

// List filters by category; an empty category means the whole menu.
func (s *Service) List(ctx context.Context, category domain.Category) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	p.ID = s.nextID()
	next := append(append([]domain.Product(nil), s.products...), p)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.activity.Record(ctx, domain.ActivityInventory, fmt.Sprintf("Product %s added to the menu", p.Name))
	s.logger.Debug("product_created", "Product created", "", map[string]interface{}{"product_id": p.ID})

	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, p domain.Product) (*domain.Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = id

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrProductNotFound
	}
	next := append([]domain.Product(nil), s.products...)
	next[idx] = p
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.activity.Record(ctx, domain.ActivityInventory, fmt.Sprintf("Product %s updated", p.Name))

	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrProductNotFound
	}
	name := s.products[idx].Name
	next := make([]domain.Product, 0, len(s.products)-1)
	next = append(next, s.products[:idx]...)
	next = append(next, s.products[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.activity.Record(ctx, domain.ActivityInventory, fmt.Sprintf("Product %s removed from the menu", name))

	return nil
}

// commit persists next and only then makes it the live collection.
// Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next []domain.Product) error {
	if err := s.store.Save(ctx, persist.KeyProducts, next); err != nil {
		s.logger.Error("catalog_persist_failed", "Failed to persist catalog", "", nil, err)
		return err
	}
	s.products = next
	return nil
}

func (s *Service) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives p-<unix ms>, bumping on collision. Callers hold s.mu.
func (s *Service) nextID() string {
	ms := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("p-%d", ms)
		if s.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}
