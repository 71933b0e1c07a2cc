package account

import (
	"context"
	"testing"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/memory"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *persist.Store) {
	store := persist.New(memory.NewKVStore(), "test", logger.Nop())
	return NewService(context.Background(), store, logger.Nop()), store
}

func TestRegisterLoginResolveLogout(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Ana Souza", " Ana@Example.com ", "segredo1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ana@example.com", session.User.Email)
	assert.NotEqual(t, "segredo1", session.User.PasswordHash)
	assert.Contains(t, session.User.Photo, "name=Ana+Souza")

	login, err := svc.Login(ctx, "ana@example.com", "segredo1")
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, login.Token)

	user, err := svc.Resolve(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", user.Name)

	require.NoError(t, svc.Logout(ctx, login.Token))
	_, err = svc.Resolve(ctx, login.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// the registration session is untouched
	_, err = svc.Resolve(ctx, session.Token)
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "segredo1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Outra Ana", "ANA@example.com", "segredo2")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "", "not-an-email", "123")
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "segredo1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ana@example.com", "errado")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ghost@example.com", "segredo1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSessionsSurviveRestart(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "Ana", "ana@example.com", "segredo1")
	require.NoError(t, err)

	reloaded := NewService(ctx, store, logger.Nop())
	user, err := reloaded.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
}
