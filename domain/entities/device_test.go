package entities

import (
	"errors"
	"testing"
)

func TestNewDeviceDefaults(t *testing.T) {
	device := NewDevice("warehouse-tablet", "owner-1")

	if device.Status != StatusUnlock {
		t.Errorf("Expected status %s, got %s", StatusUnlock, device.Status)
	}

	for name, toggle := range map[string]Toggle{
		"factory_reset":  device.FactoryReset,
		"location":       device.LocationEnabled,
		"battery_status": device.BatteryStatusEnabled,
		"camera":         device.CameraEnabled,
		"wifi":           device.WifiEnabled,
		"bluetooth":      device.BluetoothEnabled,
		"lock_device":    device.LockDevice,
	} {
		if toggle != ToggleDisable {
			t.Errorf("Expected %s to default to disable, got %s", name, toggle)
		}
	}

	if device.PushToken != nil {
		t.Error("Expected no push token on a new device")
	}
}

func TestDeviceValidate(t *testing.T) {
	device := NewDevice("warehouse-tablet", "owner-1")
	if err := device.Validate(); err != nil {
		t.Errorf("Valid device should not have validation errors, got: %v", err)
	}

	device.Name = ""
	if err := device.Validate(); err == nil {
		t.Error("Device with empty name should have validation error")
	} else if !IsValidation(err) {
		t.Errorf("Expected a validation error, got: %v", err)
	}

	device.Name = "warehouse-tablet"
	device.OwnerID = ""
	if err := device.Validate(); err == nil {
		t.Error("Device with empty owner id should have validation error")
	}
}

func TestPatchApplyMergesOnlySuppliedFields(t *testing.T) {
	device := NewDevice("warehouse-tablet", "owner-1")
	lat := "1.234"
	device.Latitude = &lat

	newName := "floor-tablet"
	lock := StatusLock
	camera := ToggleEnable
	patch := DevicePatch{Name: &newName, Status: &lock, CameraEnabled: &camera}
	patch.Apply(device)

	if device.Name != newName {
		t.Errorf("Expected name %s, got %s", newName, device.Name)
	}
	if device.Status != StatusLock {
		t.Errorf("Expected status %s, got %s", StatusLock, device.Status)
	}
	if device.CameraEnabled != ToggleEnable {
		t.Errorf("Expected camera enable, got %s", device.CameraEnabled)
	}

	// Unspecified fields keep their prior values.
	if device.OwnerID != "owner-1" {
		t.Errorf("Expected owner to be untouched, got %s", device.OwnerID)
	}
	if device.Latitude == nil || *device.Latitude != lat {
		t.Error("Expected latitude to be untouched")
	}
	if device.WifiEnabled != ToggleDisable {
		t.Errorf("Expected wifi to be untouched, got %s", device.WifiEnabled)
	}
}

func TestPatchApplyNeverTouchesPushToken(t *testing.T) {
	device := NewDevice("warehouse-tablet", "owner-1")
	token := "push-token-1"
	device.PushToken = &token

	lock := StatusLock
	patch := DevicePatch{Status: &lock}
	patch.Apply(device)

	if device.PushToken == nil || *device.PushToken != token {
		t.Error("Expected push token to survive a patch")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdministrator.Valid() || !RoleOwner.Valid() {
		t.Error("Known roles should be valid")
	}
	if Role("admin").Valid() {
		t.Error("Unknown role string should not be valid")
	}
}

func TestScopeAllows(t *testing.T) {
	admin := &Operator{ID: "op-1", Role: RoleAdministrator}
	owner := &Operator{ID: "op-2", Role: RoleOwner}

	theirs := NewDevice("d1", "op-2")
	others := NewDevice("d2", "op-3")

	if !ScopeFor(admin).Allows(theirs) || !ScopeFor(admin).Allows(others) {
		t.Error("Administrator scope should allow every device")
	}
	if !ScopeFor(owner).Allows(theirs) {
		t.Error("Owner scope should allow the owner's device")
	}
	if ScopeFor(owner).Allows(others) {
		t.Error("Owner scope should not allow another owner's device")
	}
}

func TestValidationErrorAs(t *testing.T) {
	err := error(&ValidationError{Field: "name", Reason: "name is required"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("Expected errors.As to match ValidationError")
	}
	if ve.Field != "name" {
		t.Errorf("Expected field name, got %s", ve.Field)
	}
}
