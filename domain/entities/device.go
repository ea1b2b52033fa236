package entities

import "time"

// Toggle is an enable/disable switch on a managed device feature.
type Toggle string

const (
	ToggleEnable  Toggle = "enable"
	ToggleDisable Toggle = "disable"
)

// Status is the device lock state. Besides the two stable values it can
// hold a transitional command-derived value such as "location_enable".
type Status string

const (
	StatusUnlock Status = "unlock"
	StatusLock   Status = "lock"
)

// Device represents a managed mobile device
type Device struct {
	ID                   string    `json:"id" bson:"_id,omitempty"`
	Name                 string    `json:"name" bson:"name"`
	OwnerID              string    `json:"owner_id" bson:"owner_id"`
	Status               Status    `json:"status" bson:"status"`
	PushToken            *string   `json:"push_token" bson:"push_token,omitempty"`
	FactoryReset         Toggle    `json:"factory_reset" bson:"factory_reset"`
	LocationEnabled      Toggle    `json:"location_enabled" bson:"location_enabled"`
	BatteryStatusEnabled Toggle    `json:"battery_status_enabled" bson:"battery_status_enabled"`
	CameraEnabled        Toggle    `json:"camera_enabled" bson:"camera_enabled"`
	WifiEnabled          Toggle    `json:"wifi_enabled" bson:"wifi_enabled"`
	BluetoothEnabled     Toggle    `json:"bluetooth_enabled" bson:"bluetooth_enabled"`
	LockDevice           Toggle    `json:"lock_device" bson:"lock_device"`
	Latitude             *string   `json:"latitude" bson:"latitude,omitempty"`
	Longitude            *string   `json:"longitude" bson:"longitude,omitempty"`
	DeviceInfo           *string   `json:"device_info" bson:"device_info,omitempty"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// NewDevice creates a device with the default state for every managed field.
func NewDevice(name, ownerID string) *Device {
	return &Device{
		Name:                 name,
		OwnerID:              ownerID,
		Status:               StatusUnlock,
		FactoryReset:         ToggleDisable,
		LocationEnabled:      ToggleDisable,
		BatteryStatusEnabled: ToggleDisable,
		CameraEnabled:        ToggleDisable,
		WifiEnabled:          ToggleDisable,
		BluetoothEnabled:     ToggleDisable,
		LockDevice:           ToggleDisable,
	}
}

func (d *Device) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if d.OwnerID == "" {
		return &ValidationError{Field: "owner_id", Reason: "owner id is required"}
	}
	return nil
}

// DevicePatch is a partial update: only non-nil fields are applied.
type DevicePatch struct {
	Name                 *string `json:"name"`
	OwnerID              *string `json:"owner_id"`
	Status               *Status `json:"status"`
	FactoryReset         *Toggle `json:"factory_reset"`
	LocationEnabled      *Toggle `json:"location_enabled"`
	BatteryStatusEnabled *Toggle `json:"battery_status_enabled"`
	CameraEnabled        *Toggle `json:"camera_enabled"`
	WifiEnabled          *Toggle `json:"wifi_enabled"`
	BluetoothEnabled     *Toggle `json:"bluetooth_enabled"`
	LockDevice           *Toggle `json:"lock_device"`
	Latitude             *string `json:"latitude"`
	Longitude            *string `json:"longitude"`
	DeviceInfo           *string `json:"device_info"`
}

// Apply merges the patch into the device. Unset fields keep their prior
// values. The push token is never touched here; binding goes through the
// repository so the single-holder invariant stays with the store.
func (p *DevicePatch) Apply(d *Device) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.OwnerID != nil {
		d.OwnerID = *p.OwnerID
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.FactoryReset != nil {
		d.FactoryReset = *p.FactoryReset
	}
	if p.LocationEnabled != nil {
		d.LocationEnabled = *p.LocationEnabled
	}
	if p.BatteryStatusEnabled != nil {
		d.BatteryStatusEnabled = *p.BatteryStatusEnabled
	}
	if p.CameraEnabled != nil {
		d.CameraEnabled = *p.CameraEnabled
	}
	if p.WifiEnabled != nil {
		d.WifiEnabled = *p.WifiEnabled
	}
	if p.BluetoothEnabled != nil {
		d.BluetoothEnabled = *p.BluetoothEnabled
	}
	if p.LockDevice != nil {
		d.LockDevice = *p.LockDevice
	}
	if p.Latitude != nil {
		d.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		d.Longitude = p.Longitude
	}
	if p.DeviceInfo != nil {
		d.DeviceInfo = p.DeviceInfo
	}
}
