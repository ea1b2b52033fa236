package push

import (
	"context"

	"go.uber.org/zap"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
)

// MockPushSender is a push sender for development and tests. It logs
// instead of delivering and can be told to fail.
type MockPushSender struct {
	logger *zap.Logger

	// FailWith, when non-nil, is returned from every Send call.
	FailWith error
}

var _ repositories.PushSender = (*MockPushSender)(nil)

// NewMockPushSender creates a new mock push sender
func NewMockPushSender(logger *zap.Logger) *MockPushSender {
	return &MockPushSender{logger: logger}
}

// Send implements PushSender
func (m *MockPushSender) Send(ctx context.Context, token string, notification entities.PushNotification) error {
	if m.FailWith != nil {
		return m.FailWith
	}

	m.logger.Info("Mock push delivered",
		zap.String("token", token),
		zap.String("device_id", notification.DeviceID),
		zap.String("body", notification.Body),
		zap.String("status", string(notification.Status)))

	return nil
}
