package repositories

import (
	"context"

	"github.com/wicaksana/garda/domain/entities"
)

// DeviceRepository defines data access methods for devices
type DeviceRepository interface {
	// Create persists a new device. It returns entities.ErrTokenBound when
	// the supplied push token is already held by another device.
	Create(ctx context.Context, device *entities.Device) error
	// GetByID returns entities.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*entities.Device, error)
	// List returns devices visible within the scope, all devices for an
	// unrestricted scope.
	List(ctx context.Context, scope entities.Scope) ([]*entities.Device, error)
	Update(ctx context.Context, device *entities.Device) error
	Delete(ctx context.Context, id string) error
	// BindPushToken clears the token from any current holder, then sets it
	// on the device. The clear-then-set must be atomic with respect to
	// concurrent binds of the same token.
	BindPushToken(ctx context.Context, deviceID, token string) error
}

// OperatorRepository defines data access methods for operators
type OperatorRepository interface {
	Create(ctx context.Context, operator *entities.Operator, secret string) error
	GetByID(ctx context.Context, id string) (*entities.Operator, error)
	GetByEmail(ctx context.Context, email string) (*entities.Operator, error)
	// Authenticate validates login credentials and returns the operator.
	Authenticate(ctx context.Context, email, secret string) (*entities.Operator, error)
}
