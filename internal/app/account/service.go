package account

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
	"github.com/YelzhanWeb/storefront/internal/persist"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type Service struct {
	store  *persist.Store
	logger logger.Logger

	mu       sync.RWMutex
	users    []domain.User
	sessions map[string]string // token -> email
}

func NewService(ctx context.Context, store *persist.Store, logger logger.Logger) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		users:    persist.Load(ctx, store, persist.KeyUsers, []domain.User{}),
		sessions: persist.Load(ctx, store, persist.KeySessions, map[string]string{}),
	}
}

// Register creates the account and signs it in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*interfaces.Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "a valid email is required")
	}
	if len(password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("password must have at least %d characters", minPasswordLength))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Photo:        avatarURL(name),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(email) != nil {
		return nil, domain.ErrEmailTaken
	}

	users := append(append([]domain.User(nil), s.users...), user)
	if err := s.store.Save(ctx, persist.KeyUsers, users); err != nil {
		return nil, err
	}
	s.users = users

	s.logger.Info("account_registered", "Account registered", "", map[string]interface{}{"email": email})

	return s.openSession(ctx, &user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*interfaces.Session, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.find(email)
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return nil
	}

	next := s.copySessions()
	delete(next, token)
	if err := s.store.Save(ctx, persist.KeySessions, next); err != nil {
		return err
	}
	s.sessions = next
	return nil
}

// Resolve maps a session token to its user.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	user := s.find(email)
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	found := *user
	return &found, nil
}

// openSession issues a token for user. Callers hold s.mu.
func (s *Service) openSession(ctx context.Context, user *domain.User) (*interfaces.Session, error) {
	token := uuid.NewString()

	next := s.copySessions()
	next[token] = user.Email
	if err := s.store.Save(ctx, persist.KeySessions, next); err != nil {
		return nil, err
	}
	s.sessions = next

	u := *user
	return &interfaces.Session{Token: token, User: &u}, nil
}

func (s *Service) copySessions() map[string]string {
	out := make(map[string]string, len(s.sessions)+1)
	for k, v := range s.sessions {
		out[k] = v
	}
	return out
}

func (s *Service) find(email string) *domain.User {
	for i := range s.users {
		if s.users[i].Email == email {
			return &s.users[i]
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=c4a661&color=000"
}
