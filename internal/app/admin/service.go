package admin

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FallbackEmptyAdvice  = "Continue monitorando seus KPIs estratégicos."
	FallbackFailedAdvice = "Falha ao processar análise estratégica no momento."

	// TokenTTL bounds an operator session; unlock again after it lapses.
	TokenTTL = 12 * time.Hour
)

// Service gates the operator panel and serves its read models.
type Service struct {
	settings    interfaces.SettingsService
	orders      interfaces.OrderService
	activity    interfaces.ActivityService
	advisor     interfaces.Advisor
	historySize int
	logger      logger.Logger
	now         func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry

	advising atomic.Bool
}

// NewService wires the operator panel. advisor may be nil, in which case
// every advice request gets the failure fallback.
func NewService(
	settings interfaces.SettingsService,
	orders interfaces.OrderService,
	activity interfaces.ActivityService,
	advisor interfaces.Advisor,
	historySize int,
	logger logger.Logger,
) *Service {
	if historySize <= 0 {
		historySize = 10
	}
	return &Service{
		settings:    settings,
		orders:      orders,
		activity:    activity,
		advisor:     advisor,
		historySize: historySize,
		logger:      logger,
		now:         time.Now,
		tokens:      make(map[string]time.Time),
	}
}

// Unlock trades a correct PIN for an operator token.
func (s *Service) Unlock(ctx context.Context, pin string) (string, error) {
	if !s.settings.VerifyPIN(ctx, pin) {
		s.logger.Info("admin_unlock_denied", "Wrong operator PIN", "", nil)
		return "", domain.ErrInvalidPIN
	}

	token := uuid.NewString()
	now := s.now()
	s.mu.Lock()
	s.pruneLocked(now)
	s.tokens[token] = now.Add(TokenTTL)
	s.mu.Unlock()

	s.activity.Record(ctx, domain.ActivitySystem, "Operator panel unlocked")
	return token, nil
}

func (s *Service) Lock(ctx context.Context, token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *Service) Authorized(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.tokens[token]
	if !ok {
		return false
	}
	if !s.now().Before(expires) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// pruneLocked drops lapsed tokens. Callers hold s.mu.
func (s *Service) pruneLocked(now time.Time) {
	for token, expires := range s.tokens {
		if !now.Before(expires) {
			delete(s.tokens, token)
		}
	}
}

// Dashboard sums every order ever taken, cancelled ones included.
func (s *Service) Dashboard(ctx context.Context) interfaces.DashboardResponse {
	orders := s.orders.ListOrders(ctx)

	resp := interfaces.DashboardResponse{
		Revenue:    decimal.Zero,
		OrderCount: len(orders),
		IsOpen:     s.settings.Current(ctx).IsOpen,
		ByStatus:   make(map[domain.Status]int),
	}
	for _, o := range orders {
		resp.Revenue = resp.Revenue.Add(o.Total)
		resp.ByStatus[o.Status]++
	}

	return resp
}

// Advice asks the advisor about the most recent orders. Only one request
// runs at a time; model failures degrade to a canned answer.
func (s *Service) Advice(ctx context.Context) (string, error) {
	if !s.advising.CompareAndSwap(false, true) {
		return "", domain.ErrAdviceInFlight
	}
	defer s.advising.Store(false)

	if s.advisor == nil {
		return FallbackFailedAdvice, nil
	}

	orders := s.orders.ListOrders(ctx)
	if len(orders) > s.historySize {
		orders = orders[:s.historySize]
	}

	history, err := json.Marshal(orders)
	if err != nil {
		s.logger.Error("advice_history_failed", "Failed to serialize order history", "", nil, err)
		return FallbackFailedAdvice, nil
	}

	advice, err := s.advisor.Advise(ctx, s.settings.Current(ctx).StoreName, string(history))
	if err != nil {
		s.logger.Error("advice_failed", "Advisor request failed", "", nil, err)
		return FallbackFailedAdvice, nil
	}
	if strings.TrimSpace(advice) == "" {
		return FallbackEmptyAdvice, nil
	}

	return advice, nil
}
