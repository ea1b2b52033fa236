package entities

import (
	"fmt"
	"time"
)

// Command is a symbolic operation name sent by an operator.
type Command string

const (
	CommandFactoryResetEnable   Command = "factory_reset_enable"
	CommandFactoryResetDisable  Command = "factory_reset_disable"
	CommandLocationEnable       Command = "location_enable"
	CommandLocationDisable      Command = "location_disable"
	CommandCameraEnable         Command = "camera_enable"
	CommandCameraDisable        Command = "camera_disable"
	CommandWifiEnable           Command = "wifi_enable"
	CommandWifiDisable          Command = "wifi_disable"
	CommandBluetoothEnable      Command = "bluetooth_enable"
	CommandBluetoothDisable     Command = "bluetooth_disable"
	CommandBatteryStatusEnable  Command = "battery_status_enable"
	CommandBatteryStatusDisable Command = "battery_status_disable"
	CommandLockDeviceEnable     Command = "lock_device_enable"
	CommandLockDeviceDisable    Command = "lock_device_disable"
	CommandSendMessage          Command = "send_message"
)

// CommandSpec is the state mutation and display label a command resolves
// to. send_message has an empty patch: it only carries caller text.
type CommandSpec struct {
	Label string
	Patch DevicePatch
}

var (
	cmdEnable  = ToggleEnable
	cmdDisable = ToggleDisable
	cmdLock    = StatusLock
	cmdUnlock  = StatusUnlock
)

func commandStatus(c Command) *Status {
	s := Status(c)
	return &s
}

// commandTable is the fixed command vocabulary. It is built once and never
// mutated; handlers dispatch through Translate.
var commandTable = map[Command]CommandSpec{
	CommandFactoryResetEnable: {
		Label: "Factory Reset Enable",
		Patch: DevicePatch{FactoryReset: &cmdEnable, Status: commandStatus(CommandFactoryResetEnable)},
	},
	CommandFactoryResetDisable: {
		Label: "Factory Reset Disable",
		Patch: DevicePatch{FactoryReset: &cmdDisable, Status: commandStatus(CommandFactoryResetDisable)},
	},
	CommandLocationEnable: {
		Label: "Location Enable",
		Patch: DevicePatch{LocationEnabled: &cmdEnable, Status: commandStatus(CommandLocationEnable)},
	},
	CommandLocationDisable: {
		Label: "Location Disable",
		Patch: DevicePatch{LocationEnabled: &cmdDisable, Status: commandStatus(CommandLocationDisable)},
	},
	CommandCameraEnable: {
		Label: "Camera Enable",
		Patch: DevicePatch{CameraEnabled: &cmdEnable, Status: commandStatus(CommandCameraEnable)},
	},
	CommandCameraDisable: {
		Label: "Camera Disable",
		Patch: DevicePatch{CameraEnabled: &cmdDisable, Status: commandStatus(CommandCameraDisable)},
	},
	CommandWifiEnable: {
		Label: "Wifi Enable",
		Patch: DevicePatch{WifiEnabled: &cmdEnable, Status: commandStatus(CommandWifiEnable)},
	},
	CommandWifiDisable: {
		Label: "Wifi Disable",
		Patch: DevicePatch{WifiEnabled: &cmdDisable, Status: commandStatus(CommandWifiDisable)},
	},
	CommandBluetoothEnable: {
		Label: "Bluetooth Enable",
		Patch: DevicePatch{BluetoothEnabled: &cmdEnable, Status: commandStatus(CommandBluetoothEnable)},
	},
	CommandBluetoothDisable: {
		Label: "Bluetooth Disable",
		Patch: DevicePatch{BluetoothEnabled: &cmdDisable, Status: commandStatus(CommandBluetoothDisable)},
	},
	CommandBatteryStatusEnable: {
		Label: "Battery Status Enable",
		Patch: DevicePatch{BatteryStatusEnabled: &cmdEnable, Status: commandStatus(CommandBatteryStatusEnable)},
	},
	CommandBatteryStatusDisable: {
		Label: "Battery Status Disable",
		Patch: DevicePatch{BatteryStatusEnabled: &cmdDisable, Status: commandStatus(CommandBatteryStatusDisable)},
	},
	CommandLockDeviceEnable: {
		Label: "Lock Device",
		Patch: DevicePatch{LockDevice: &cmdEnable, Status: &cmdLock},
	},
	CommandLockDeviceDisable: {
		Label: "Active Device",
		Patch: DevicePatch{LockDevice: &cmdDisable, Status: &cmdUnlock},
	},
	CommandSendMessage: {},
}

// Translate resolves a command name to its mutation and label. Unknown
// names are rejected rather than passed through.
func Translate(c Command) (CommandSpec, error) {
	spec, ok := commandTable[c]
	if !ok {
		return CommandSpec{}, fmt.Errorf("%w: %q", ErrUnknownCommand, c)
	}
	return spec, nil
}

// StatusLabel returns the display label for a status value, used when a
// direct field update (rather than a command) changes the status.
func StatusLabel(s Status) string {
	switch s {
	case StatusLock:
		return "Lock Device"
	case StatusUnlock:
		return "Active Device"
	}
	if spec, ok := commandTable[Command(s)]; ok {
		return spec.Label
	}
	return string(s)
}

// PushNotification is the payload handed to the push provider.
type PushNotification struct {
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	Body       string    `json:"body"`
	Status     Status    `json:"status"`
	SentAt     time.Time `json:"sent_at"`
}
