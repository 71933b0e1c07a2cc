package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Relay(ctx context.Context, formID string, order *domain.Order) error {
	args := m.Called(ctx, formID, order)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrder(ctx context.Context, msg interfaces.OrderMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockPublisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestProcessOrder(t *testing.T) {
	order := &domain.Order{ID: "#M0001"}
	client := &MockClient{}
	client.On("Relay", mock.Anything, "form-1", order).Return(nil).Once()

	svc := NewService(client, logger.Nop())
	require.NoError(t, svc.ProcessOrder(context.Background(), interfaces.OrderMessage{FormID: "form-1", Order: order}))
	client.AssertExpectations(t)
}

func TestProcessOrderKeepsRetryableMarker(t *testing.T) {
	client := &MockClient{}
	client.On("Relay", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.Join(interfaces.ErrRetryable, errors.New("503")))

	svc := NewService(client, logger.Nop())
	err := svc.ProcessOrder(context.Background(), interfaces.OrderMessage{FormID: "f", Order: &domain.Order{ID: "#M0001"}})
	assert.ErrorIs(t, err, interfaces.ErrRetryable)
}

func TestProcessOrderRejectsEmptyMessage(t *testing.T) {
	svc := NewService(&MockClient{}, logger.Nop())

	err := svc.ProcessOrder(context.Background(), interfaces.OrderMessage{FormID: "f"})
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestQueuedPublishes(t *testing.T) {
	order := &domain.Order{ID: "#M0001"}
	pub := &MockPublisher{}
	pub.On("PublishOrder", mock.Anything, interfaces.OrderMessage{FormID: "form-1", Order: order}).Return(nil).Once()

	require.NoError(t, NewQueued(pub).Relay(context.Background(), "form-1", order))
	pub.AssertExpectations(t)
}
