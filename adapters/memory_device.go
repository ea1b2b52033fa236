package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wicaksana/garda/domain/entities"
)

// MemoryDeviceRepository is an in-memory implementation of DeviceRepository.
// It backs local development (when no MongoDB URI is configured) and tests.
type MemoryDeviceRepository struct {
	mu      sync.RWMutex
	devices map[string]*entities.Device // id -> device
	tokens  map[string]string           // push token -> holding device id
}

// NewMemoryDeviceRepository creates a new in-memory device repository
func NewMemoryDeviceRepository() *MemoryDeviceRepository {
	return &MemoryDeviceRepository{
		devices: make(map[string]*entities.Device),
		tokens:  make(map[string]string),
	}
}

// Create implements DeviceRepository. The token index is maintained under
// the same lock as the device map, so at most one device can ever hold a
// given push token.
func (m *MemoryDeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if device.PushToken != nil {
		if _, exists := m.tokens[*device.PushToken]; exists {
			return entities.ErrTokenBound
		}
	}

	if device.ID == "" {
		device.ID = uuid.New().String()
	}

	now := time.Now()
	device.CreatedAt = now
	device.UpdatedAt = now

	deviceCopy := *device
	m.devices[device.ID] = &deviceCopy
	if device.PushToken != nil {
		m.tokens[*device.PushToken] = device.ID
	}

	return nil
}

// GetByID implements DeviceRepository interface
func (m *MemoryDeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	device, exists := m.devices[id]
	if !exists {
		return nil, entities.ErrNotFound
	}

	// Return a copy to prevent external modifications
	deviceCopy := *device
	return &deviceCopy, nil
}

// List implements DeviceRepository interface
func (m *MemoryDeviceRepository) List(ctx context.Context, scope entities.Scope) ([]*entities.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*entities.Device, 0, len(m.devices))
	for _, device := range m.devices {
		if !scope.Allows(device) {
			continue
		}
		deviceCopy := *device
		result = append(result, &deviceCopy)
	}

	return result, nil
}

// Update implements DeviceRepository. The stored push token is preserved:
// token changes only go through BindPushToken.
func (m *MemoryDeviceRepository) Update(ctx context.Context, device *entities.Device) error {
	if device.ID == "" {
		return entities.ErrNotFound
	}
	if err := device.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.devices[device.ID]
	if !exists {
		return entities.ErrNotFound
	}

	device.CreatedAt = existing.CreatedAt
	device.UpdatedAt = time.Now()
	device.PushToken = existing.PushToken

	deviceCopy := *device
	m.devices[device.ID] = &deviceCopy

	return nil
}

// Delete implements DeviceRepository interface
func (m *MemoryDeviceRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	device, exists := m.devices[id]
	if !exists {
		return entities.ErrNotFound
	}

	delete(m.devices, id)
	if device.PushToken != nil {
		delete(m.tokens, *device.PushToken)
	}

	return nil
}

// BindPushToken implements DeviceRepository. The clear-then-set runs under
// a single lock acquisition, so concurrent binds of the same token always
// leave exactly one holder.
func (m *MemoryDeviceRepository) BindPushToken(ctx context.Context, deviceID, token string) error {
	if token == "" {
		return &entities.ValidationError{Field: "push_token", Reason: "push token is required"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	device, exists := m.devices[deviceID]
	if !exists {
		return entities.ErrNotFound
	}

	// Clear the token from any current holder.
	if holderID, held := m.tokens[token]; held && holderID != deviceID {
		if holder, ok := m.devices[holderID]; ok {
			holder.PushToken = nil
			holder.UpdatedAt = time.Now()
		}
	}

	// Drop the index entry for the device's previous token, if any.
	if device.PushToken != nil && *device.PushToken != token {
		delete(m.tokens, *device.PushToken)
	}

	tokenCopy := token
	device.PushToken = &tokenCopy
	device.UpdatedAt = time.Now()
	m.tokens[token] = deviceID

	return nil
}
