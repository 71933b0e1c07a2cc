package activity

import (
	"context"
	"sync"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
	"github.com/YelzhanWeb/storefront/internal/persist"

	"github.com/google/uuid"
)

// MaxEntries is how many of the most recent entries are kept.
const MaxEntries = 50

type Service struct {
	store  *persist.Store
	sink   interfaces.ActivitySink
	logger logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []domain.Activity
}

// NewService loads the persisted log. sink may be nil.
func NewService(ctx context.Context, store *persist.Store, sink interfaces.ActivitySink, logger logger.Logger) *Service {
	return &Service{
		store:   store,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
		entries: persist.Load(ctx, store, persist.KeyActivity, []domain.Activity{}),
	}
}

// Record prepends an entry and trims the log. Failures are logged only: the
// log is observational and must never fail the operation it describes.
func (s *Service) Record(ctx context.Context, kind domain.ActivityType, message string) {
	entry := domain.Activity{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		Timestamp: s.now().UTC(),
	}

	s.mu.Lock()
	next := make([]domain.Activity, 0, MaxEntries)
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	s.entries = next
	err := s.store.Save(ctx, persist.KeyActivity, next)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("activity_persist_failed", "Failed to persist activity log", "", nil, err)
	}

	if s.sink != nil {
		if err := s.sink.Publish(ctx, entry); err != nil {
			s.logger.Error("activity_sink_failed", "Failed to forward activity entry", "", map[string]interface{}{
				"type": kind,
			}, err)
		}
	}
}

// List returns the entries newest first.
func (s *Service) List(ctx context.Context) []domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Activity, len(s.entries))
	copy(out, s.entries)
	return out
}
