package amqp

import (
	"bytes"
	"context"
	"testing"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRelayService struct {
	mock.Mock
}

func (m *MockRelayService) ProcessOrder(ctx context.Context, msg interfaces.OrderMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestRelayHandlerDecodes(t *testing.T) {
	svc := &MockRelayService{}
	svc.On("ProcessOrder", mock.Anything, mock.MatchedBy(func(msg interfaces.OrderMessage) bool {
		return msg.FormID == "abc" && msg.Order != nil && msg.Order.ID == "#M0001"
	})).Return(nil).Once()

	h := NewRelayHandler(svc, logger.Nop())
	require.NoError(t, h.HandleOrder(context.Background(), []byte(`{"form_id":"abc","order":{"id":"#M0001"}}`)))
	svc.AssertExpectations(t)
}

func TestRelayHandlerRejectsGarbage(t *testing.T) {
	svc := &MockRelayService{}
	h := NewRelayHandler(svc, logger.Nop())

	err := h.HandleOrder(context.Background(), []byte("not json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrRetryable)
	svc.AssertNotCalled(t, "ProcessOrder", mock.Anything, mock.Anything)
}

func TestNotificationHandlerPrints(t *testing.T) {
	var out bytes.Buffer
	h := NewNotificationHandler(&out, logger.Nop())

	body := []byte(`{"order_id":"#M0001","old_status":"pending","new_status":"preparing","changed_by":"operator"}`)
	require.NoError(t, h.HandleNotification(context.Background(), body))
	assert.Equal(t, "Notification for order #M0001: Status changed from 'Pendente' to 'Preparando' by operator\n", out.String())
}
