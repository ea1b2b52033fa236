package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
)

// DeviceService orchestrates the device registry: scoping, validation,
// partial updates, command translation and the post-commit push handoff.
type DeviceService struct {
	devices  repositories.DeviceRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewDeviceService creates a new device service
func NewDeviceService(devices repositories.DeviceRepository, notifier Notifier, logger *zap.Logger) *DeviceService {
	return &DeviceService{
		devices:  devices,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateDeviceInput carries the fields of a device creation request.
type CreateDeviceInput struct {
	Name      string
	OwnerID   string
	Status    *entities.Status
	PushToken string
}

// List returns the devices visible to the operator.
func (s *DeviceService) List(ctx context.Context, op *entities.Operator) ([]*entities.Device, error) {
	return s.devices.List(ctx, entities.ScopeFor(op))
}

// Get returns a single device. Devices outside the operator's scope are
// reported as not found, never as forbidden.
func (s *DeviceService) Get(ctx context.Context, op *entities.Operator, id string) (*entities.Device, error) {
	return s.getScoped(ctx, op, id)
}

// Create registers a new device with a not-yet-bound push token.
func (s *DeviceService) Create(ctx context.Context, op *entities.Operator, input CreateDeviceInput) (*entities.Device, error) {
	if input.PushToken == "" {
		return nil, &entities.ValidationError{Field: "push_token", Reason: "push token is required"}
	}

	ownerID := input.OwnerID
	if op.Role == entities.RoleOwner {
		// Owners only create devices for themselves.
		ownerID = op.ID
	}

	device := entities.NewDevice(input.Name, ownerID)
	if input.Status != nil {
		device.Status = *input.Status
	}
	token := input.PushToken
	device.PushToken = &token

	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}

	s.logger.Info("Device created",
		zap.String("device_id", device.ID),
		zap.String("owner_id", device.OwnerID))

	return device, nil
}

// Update applies a partial update and returns the post-mutation device.
// When the update carries a status differing from the stored one, a push
// notification is dispatched after the commit.
func (s *DeviceService) Update(ctx context.Context, op *entities.Operator, id string, patch entities.DevicePatch) (*entities.Device, error) {
	if op.Role == entities.RoleOwner && patch.OwnerID != nil && *patch.OwnerID != op.ID {
		return nil, &entities.ValidationError{Field: "owner_id", Reason: "owners cannot reassign devices"}
	}

	device, err := s.getScoped(ctx, op, id)
	if err != nil {
		return nil, err
	}

	// The pre-update status decides whether the mutation warrants a push.
	previousStatus := device.Status

	patch.Apply(device)
	if err := s.devices.Update(ctx, device); err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != previousStatus {
		s.notify(device, entities.StatusLabel(device.Status), device.Status)
	}

	return device, nil
}

// Delete removes a device permanently.
func (s *DeviceService) Delete(ctx context.Context, op *entities.Operator, id string) error {
	if _, err := s.getScoped(ctx, op, id); err != nil {
		return err
	}
	if err := s.devices.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Device deleted", zap.String("device_id", id))
	return nil
}

// RegisterPushToken binds a push token to the device, clearing it from any
// previous holder.
func (s *DeviceService) RegisterPushToken(ctx context.Context, op *entities.Operator, id, token string) error {
	if _, err := s.getScoped(ctx, op, id); err != nil {
		return err
	}
	if err := s.devices.BindPushToken(ctx, id, token); err != nil {
		return err
	}

	s.logger.Info("Push token registered", zap.String("device_id", id))
	return nil
}

// SendCommand resolves a symbolic command, persists its state mutation and
// dispatches a push notification. The returned string is the notification
// body acknowledged to the caller.
func (s *DeviceService) SendCommand(ctx context.Context, op *entities.Operator, id string, command entities.Command, message string) (*entities.Device, string, error) {
	device, err := s.getScoped(ctx, op, id)
	if err != nil {
		return nil, "", err
	}

	spec, err := entities.Translate(command)
	if err != nil {
		return nil, "", err
	}

	// Commands are pointless without a delivery endpoint; reject before
	// mutating anything.
	if device.PushToken == nil {
		return nil, "", entities.ErrNoPushToken
	}

	body := spec.Label
	if command == entities.CommandSendMessage {
		body = message
	} else {
		spec.Patch.Apply(device)
		if err := s.devices.Update(ctx, device); err != nil {
			return nil, "", err
		}
	}

	// Every command dispatches, send_message included. The payload status
	// is the resolved one for state commands and the stored one for
	// send_message.
	s.notify(device, body, device.Status)

	s.logger.Info("Command sent",
		zap.String("device_id", device.ID),
		zap.String("command", string(command)))

	return device, body, nil
}

func (s *DeviceService) getScoped(ctx context.Context, op *entities.Operator, id string) (*entities.Device, error) {
	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entities.ScopeFor(op).Allows(device) {
		return nil, entities.ErrNotFound
	}
	return device, nil
}

func (s *DeviceService) notify(device *entities.Device, body string, status entities.Status) {
	if device.PushToken == nil {
		return
	}
	s.notifier.Enqueue(*device.PushToken, entities.PushNotification{
		DeviceID:   device.ID,
		DeviceName: device.Name,
		Body:       body,
		Status:     status,
		SentAt:     time.Now(),
	})
}
