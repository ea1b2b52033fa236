package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/wicaksana/garda/adapters"
	"github.com/wicaksana/garda/domain/entities"
)

type recordingNotifier struct {
	mu     sync.Mutex
	tokens []string
	sent   []entities.PushNotification
}

func (r *recordingNotifier) Enqueue(token string, notification entities.PushNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, token)
	r.sent = append(r.sent, notification)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *recordingNotifier) last() entities.PushNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

func newTestService(t *testing.T) (*DeviceService, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	service := NewDeviceService(adapters.NewMemoryDeviceRepository(), notifier, zap.NewNop())
	return service, notifier
}

var (
	testAdmin = &entities.Operator{ID: "admin-1", Role: entities.RoleAdministrator}
	testOwner = &entities.Operator{ID: "owner-1", Role: entities.RoleOwner}
)

func mustCreate(t *testing.T, service *DeviceService, op *entities.Operator, name, ownerID, token string) *entities.Device {
	t.Helper()
	device, err := service.Create(context.Background(), op, CreateDeviceInput{
		Name:      name,
		OwnerID:   ownerID,
		PushToken: token,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return device
}

func TestCreateRequiresFields(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, testAdmin, CreateDeviceInput{OwnerID: "owner-1", PushToken: "token-1"})
	if !entities.IsValidation(err) {
		t.Errorf("Expected validation error for missing name, got: %v", err)
	}

	_, err = service.Create(ctx, testAdmin, CreateDeviceInput{Name: "d1", PushToken: "token-1"})
	if !entities.IsValidation(err) {
		t.Errorf("Expected validation error for missing owner, got: %v", err)
	}

	_, err = service.Create(ctx, testAdmin, CreateDeviceInput{Name: "d1", OwnerID: "owner-1"})
	if !entities.IsValidation(err) {
		t.Errorf("Expected validation error for missing push token, got: %v", err)
	}
}

func TestCreateDuplicateTokenConflicts(t *testing.T) {
	service, _ := newTestService(t)
	mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	_, err := service.Create(context.Background(), testAdmin, CreateDeviceInput{
		Name:      "d2",
		OwnerID:   "owner-1",
		PushToken: "token-1",
	})
	if !errors.Is(err, entities.ErrTokenBound) {
		t.Errorf("Expected ErrTokenBound, got: %v", err)
	}
}

func TestOwnerCreatesForSelf(t *testing.T) {
	service, _ := newTestService(t)

	device := mustCreate(t, service, testOwner, "d1", "someone-else", "token-1")
	if device.OwnerID != testOwner.ID {
		t.Errorf("Expected owner-created device to belong to %s, got %s", testOwner.ID, device.OwnerID)
	}
}

func TestUpdateStatusChangeTriggersOnePush(t *testing.T) {
	service, notifier := newTestService(t)
	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	lock := entities.StatusLock
	updated, err := service.Update(context.Background(), testAdmin, device.ID, entities.DevicePatch{Status: &lock})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Status != entities.StatusLock {
		t.Errorf("Expected status lock, got %s", updated.Status)
	}
	if notifier.count() != 1 {
		t.Fatalf("Expected exactly one push, got %d", notifier.count())
	}
	note := notifier.last()
	if note.Body != "Lock Device" {
		t.Errorf("Expected body Lock Device, got %s", note.Body)
	}
	if note.Status != entities.StatusLock {
		t.Errorf("Expected payload status lock, got %s", note.Status)
	}
	if note.SentAt.IsZero() {
		t.Error("Expected dispatch timestamp to be set")
	}
}

func TestUpdateSameStatusTriggersNoPush(t *testing.T) {
	service, notifier := newTestService(t)
	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	unlock := entities.StatusUnlock
	if _, err := service.Update(context.Background(), testAdmin, device.ID, entities.DevicePatch{Status: &unlock}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if notifier.count() != 0 {
		t.Errorf("Expected no push for unchanged status, got %d", notifier.count())
	}
}

func TestUpdateWithoutStatusTriggersNoPush(t *testing.T) {
	service, notifier := newTestService(t)
	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	name := "renamed"
	if _, err := service.Update(context.Background(), testAdmin, device.ID, entities.DevicePatch{Name: &name}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if notifier.count() != 0 {
		t.Errorf("Expected no push for a name change, got %d", notifier.count())
	}
}

func TestSendCommandLockDevice(t *testing.T) {
	service, notifier := newTestService(t)
	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	updated, message, err := service.SendCommand(context.Background(), testAdmin, device.ID, entities.CommandLockDeviceEnable, "")
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}

	if updated.Status != entities.StatusLock {
		t.Errorf("Expected status lock, got %s", updated.Status)
	}
	if updated.LockDevice != entities.ToggleEnable {
		t.Errorf("Expected lock_device enable, got %s", updated.LockDevice)
	}
	if message != "Lock Device" {
		t.Errorf("Expected acknowledgment Lock Device, got %s", message)
	}

	if notifier.count() != 1 {
		t.Fatalf("Expected one push, got %d", notifier.count())
	}
	note := notifier.last()
	if note.Body != "Lock Device" || note.Status != entities.StatusLock {
		t.Errorf("Unexpected push payload: %+v", note)
	}

	// The mutation is persisted, not just returned.
	stored, err := service.Get(context.Background(), testAdmin, device.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status != entities.StatusLock {
		t.Errorf("Expected persisted status lock, got %s", stored.Status)
	}
}

func TestSendCommandSendMessage(t *testing.T) {
	service, notifier := newTestService(t)
	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	_, message, err := service.SendCommand(context.Background(), testAdmin, device.ID, entities.CommandSendMessage, "hello there")
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	if message != "hello there" {
		t.Errorf("Expected caller text to be acknowledged, got %s", message)
	}

	if notifier.count() != 1 {
		t.Fatalf("Expected one push, got %d", notifier.count())
	}
	note := notifier.last()
	if note.Body != "hello there" {
		t.Errorf("Expected push body hello there, got %s", note.Body)
	}
	// send_message carries the stored status, and stores nothing.
	if note.Status != entities.StatusUnlock {
		t.Errorf("Expected stored status unlock, got %s", note.Status)
	}

	stored, _ := service.Get(context.Background(), testAdmin, device.ID)
	if stored.Status != entities.StatusUnlock {
		t.Errorf("Expected send_message to leave status untouched, got %s", stored.Status)
	}
}

func TestSendCommandUnknownCommand(t *testing.T) {
	service, notifier := newTestService(t)
	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	_, _, err := service.SendCommand(context.Background(), testAdmin, device.ID, entities.Command("explode"), "")
	if !errors.Is(err, entities.ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got: %v", err)
	}
	if notifier.count() != 0 {
		t.Errorf("Expected no push for unknown command, got %d", notifier.count())
	}
}

func TestSendCommandWithoutTokenRejected(t *testing.T) {
	service, notifier := newTestService(t)
	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	// Re-home the token so d1 has none bound anymore.
	other := mustCreate(t, service, testAdmin, "d2", "owner-1", "token-2")
	if err := service.RegisterPushToken(context.Background(), testAdmin, other.ID, "token-1"); err != nil {
		t.Fatalf("RegisterPushToken failed: %v", err)
	}

	_, _, err := service.SendCommand(context.Background(), testAdmin, device.ID, entities.CommandLockDeviceEnable, "")
	if !errors.Is(err, entities.ErrNoPushToken) {
		t.Fatalf("Expected ErrNoPushToken, got: %v", err)
	}

	// No mutation happened.
	stored, _ := service.Get(context.Background(), testAdmin, device.ID)
	if stored.Status != entities.StatusUnlock || stored.LockDevice != entities.ToggleDisable {
		t.Error("Expected rejected command to leave state untouched")
	}
	if notifier.count() != 0 {
		t.Errorf("Expected no push, got %d", notifier.count())
	}
}

func TestScopingHidesForeignDevices(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	mine := mustCreate(t, service, testAdmin, "mine", testOwner.ID, "token-1")
	foreign := mustCreate(t, service, testAdmin, "foreign", "owner-2", "token-2")

	listed, err := service.List(ctx, testOwner)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != mine.ID {
		t.Errorf("Expected owner to see only their device, got %d devices", len(listed))
	}

	all, err := service.List(ctx, testAdmin)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected administrator to see all devices, got %d", len(all))
	}

	// Out-of-scope access reads as not found, never as forbidden.
	if _, err := service.Get(ctx, testOwner, foreign.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign get, got: %v", err)
	}
	if _, err := service.Update(ctx, testOwner, foreign.ID, entities.DevicePatch{}); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign update, got: %v", err)
	}
	if err := service.Delete(ctx, testOwner, foreign.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign delete, got: %v", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	device := mustCreate(t, service, testAdmin, "d1", "owner-1", "token-1")

	if err := service.Delete(ctx, testAdmin, device.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := service.Get(ctx, testAdmin, device.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: %v", err)
	}
	if err := service.Delete(ctx, testAdmin, "missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got: %v", err)
	}
}
