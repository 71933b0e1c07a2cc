package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
	"github.com/YelzhanWeb/storefront/internal/persist"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Service owns the singleton store configuration.
type Service struct {
	store    *persist.Store
	activity interfaces.ActivityService
	logger   logger.Logger

	mu  sync.RWMutex
	cfg domain.BusinessConfig
}

// Defaults turns the business section of the service configuration into the
// record used when nothing is persisted yet.
func Defaults(c config.BusinessConfig) (domain.BusinessConfig, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(c.AdminPIN), bcrypt.DefaultCost)
	if err != nil {
		return domain.BusinessConfig{}, fmt.Errorf("failed to hash admin PIN: %w", err)
	}

	return domain.BusinessConfig{
		IsOpen:         c.IsOpen,
		AdminPINHash:   string(hash),
		StoreName:      c.StoreName,
		DeliveryFee:    decimal.NewFromFloat(c.DeliveryFee).Round(2),
		WhatsAppNumber: c.WhatsAppNumber,
		FormID:         c.FormID,
	}, nil
}

func NewService(ctx context.Context, store *persist.Store, def domain.BusinessConfig, activity interfaces.ActivityService, logger logger.Logger) *Service {
	cfg := persist.Load(ctx, store, persist.KeyConfig, def)
	if cfg.AdminPINHash == "" {
		// a record without a PIN would lock the operator out for good
		cfg.AdminPINHash = def.AdminPINHash
	}

	return &Service{
		store:    store,
		activity: activity,
		logger:   logger,
		cfg:      cfg,
	}
}

func (s *Service) Current(ctx context.Context) domain.BusinessConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Service) Update(ctx context.Context, patch domain.ConfigPatch) (domain.BusinessConfig, error) {
	if err := patch.Validate(); err != nil {
		return domain.BusinessConfig{}, err
	}

	var pinHash string
	if patch.AdminPIN != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.AdminPIN), bcrypt.DefaultCost)
		if err != nil {
			return domain.BusinessConfig{}, fmt.Errorf("failed to hash admin PIN: %w", err)
		}
		pinHash = string(hash)
	}

	s.mu.Lock()
	next := s.cfg
	var changes []string
	if patch.IsOpen != nil && *patch.IsOpen != next.IsOpen {
		next.IsOpen = *patch.IsOpen
		if next.IsOpen {
			changes = append(changes, "store opened")
		} else {
			changes = append(changes, "store closed")
		}
	}
	if patch.StoreName != nil {
		next.StoreName = strings.TrimSpace(*patch.StoreName)
	}
	if patch.DeliveryFee != nil {
		next.DeliveryFee = *patch.DeliveryFee
		changes = append(changes, "delivery fee R$ "+next.DeliveryFee.StringFixed(2))
	}
	if patch.WhatsAppNumber != nil {
		next.WhatsAppNumber, _ = domain.NormalizePhone(*patch.WhatsAppNumber)
	}
	if patch.FormID != nil {
		next.FormID = strings.TrimSpace(*patch.FormID)
	}
	if pinHash != "" {
		next.AdminPINHash = pinHash
		changes = append(changes, "operator PIN changed")
	}

	if err := s.store.Save(ctx, persist.KeyConfig, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("config_persist_failed", "Failed to persist store configuration", "", nil, err)
		return domain.BusinessConfig{}, err
	}
	s.cfg = next
	s.mu.Unlock()

	msg := "Store settings updated"
	if len(changes) > 0 {
		msg += ": " + strings.Join(changes, ", ")
	}
	s.activity.Record(ctx, domain.ActivitySystem, msg)

	return next, nil
}

// VerifyPIN compares against the stored bcrypt hash.
func (s *Service) VerifyPIN(ctx context.Context, pin string) bool {
	s.mu.RLock()
	hash := s.cfg.AdminPINHash
	s.mu.RUnlock()

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
