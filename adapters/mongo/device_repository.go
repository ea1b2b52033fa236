package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
)

type DeviceRepository struct {
	collection *mongo.Collection
}

// deviceDoc is the persisted shape of a device. The id is a native
// ObjectID in the store and a hex string everywhere else.
type deviceDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Name                 string             `bson:"name"`
	OwnerID              string             `bson:"owner_id"`
	Status               entities.Status    `bson:"status"`
	PushToken            *string            `bson:"push_token,omitempty"`
	FactoryReset         entities.Toggle    `bson:"factory_reset"`
	LocationEnabled      entities.Toggle    `bson:"location_enabled"`
	BatteryStatusEnabled entities.Toggle    `bson:"battery_status_enabled"`
	CameraEnabled        entities.Toggle    `bson:"camera_enabled"`
	WifiEnabled          entities.Toggle    `bson:"wifi_enabled"`
	BluetoothEnabled     entities.Toggle    `bson:"bluetooth_enabled"`
	LockDevice           entities.Toggle    `bson:"lock_device"`
	Latitude             *string            `bson:"latitude,omitempty"`
	Longitude            *string            `bson:"longitude,omitempty"`
	DeviceInfo           *string            `bson:"device_info,omitempty"`
	CreatedAt            time.Time          `bson:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at"`
}

func (d *deviceDoc) toEntity() *entities.Device {
	return &entities.Device{
		ID:                   d.ID.Hex(),
		Name:                 d.Name,
		OwnerID:              d.OwnerID,
		Status:               d.Status,
		PushToken:            d.PushToken,
		FactoryReset:         d.FactoryReset,
		LocationEnabled:      d.LocationEnabled,
		BatteryStatusEnabled: d.BatteryStatusEnabled,
		CameraEnabled:        d.CameraEnabled,
		WifiEnabled:          d.WifiEnabled,
		BluetoothEnabled:     d.BluetoothEnabled,
		LockDevice:           d.LockDevice,
		Latitude:             d.Latitude,
		Longitude:            d.Longitude,
		DeviceInfo:           d.DeviceInfo,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

// NewDeviceRepository creates a new MongoDB device repository
func NewDeviceRepository(db *mongo.Database) repositories.DeviceRepository {
	return &DeviceRepository{
		collection: db.Collection("devices"),
	}
}

// EnsureIndexes creates the unique sparse index on push_token. The index
// is what makes concurrent binds of the same token resolve to exactly one
// holder.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("devices").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "push_token", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create push_token index: %w", err)
	}

	_, err = db.Collection("operators").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create operator email index: %w", err)
	}

	return nil
}

// Create implements repositories.DeviceRepository
func (r *DeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}

	now := time.Now()
	device.CreatedAt = now
	device.UpdatedAt = now

	doc := deviceDoc{
		Name:                 device.Name,
		OwnerID:              device.OwnerID,
		Status:               device.Status,
		PushToken:            device.PushToken,
		FactoryReset:         device.FactoryReset,
		LocationEnabled:      device.LocationEnabled,
		BatteryStatusEnabled: device.BatteryStatusEnabled,
		CameraEnabled:        device.CameraEnabled,
		WifiEnabled:          device.WifiEnabled,
		BluetoothEnabled:     device.BluetoothEnabled,
		LockDevice:           device.LockDevice,
		Latitude:             device.Latitude,
		Longitude:            device.Longitude,
		DeviceInfo:           device.DeviceInfo,
		CreatedAt:            device.CreatedAt,
		UpdatedAt:            device.UpdatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entities.ErrTokenBound
		}
		return fmt.Errorf("failed to create device: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		device.ID = oid.Hex()
	}

	return nil
}

// GetByID implements repositories.DeviceRepository
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a stored device.
		return nil, entities.ErrNotFound
	}

	var doc deviceDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device %s: %w", id, err)
	}

	return doc.toEntity(), nil
}

// List implements repositories.DeviceRepository
func (r *DeviceRepository) List(ctx context.Context, scope entities.Scope) ([]*entities.Device, error) {
	filter := bson.M{}
	if scope.OwnerID != nil {
		filter["owner_id"] = *scope.OwnerID
	}

	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer cursor.Close(ctx)

	devices := []*entities.Device{}
	for cursor.Next(ctx) {
		var doc deviceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode device: %w", err)
		}
		devices = append(devices, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}

	return devices, nil
}

// Update implements repositories.DeviceRepository. The push token is not
// part of the update document: token changes only go through
// BindPushToken.
func (r *DeviceRepository) Update(ctx context.Context, device *entities.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}

	objectID, err := primitive.ObjectIDFromHex(device.ID)
	if err != nil {
		return entities.ErrNotFound
	}

	device.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":                   device.Name,
			"owner_id":               device.OwnerID,
			"status":                 device.Status,
			"factory_reset":          device.FactoryReset,
			"location_enabled":       device.LocationEnabled,
			"battery_status_enabled": device.BatteryStatusEnabled,
			"camera_enabled":         device.CameraEnabled,
			"wifi_enabled":           device.WifiEnabled,
			"bluetooth_enabled":      device.BluetoothEnabled,
			"lock_device":            device.LockDevice,
			"latitude":               device.Latitude,
			"longitude":              device.Longitude,
			"device_info":            device.DeviceInfo,
			"updated_at":             device.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrNotFound
	}

	return nil
}

// Delete implements repositories.DeviceRepository
func (r *DeviceRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return entities.ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	if result.DeletedCount == 0 {
		return entities.ErrNotFound
	}

	return nil
}

// BindPushToken implements repositories.DeviceRepository. Any current
// holder is cleared first; the unique index on push_token then guarantees
// that a concurrent bind of the same token leaves exactly one winner, with
// the loser surfacing entities.ErrTokenBound.
func (r *DeviceRepository) BindPushToken(ctx context.Context, deviceID, token string) error {
	if token == "" {
		return &entities.ValidationError{Field: "push_token", Reason: "push token is required"}
	}

	objectID, err := primitive.ObjectIDFromHex(deviceID)
	if err != nil {
		return entities.ErrNotFound
	}

	now := time.Now()

	// Clear the token from any other holder.
	_, err = r.collection.UpdateMany(ctx,
		bson.M{"push_token": token, "_id": bson.M{"$ne": objectID}},
		bson.M{
			"$unset": bson.M{"push_token": ""},
			"$set":   bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to clear push token: %w", err)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"push_token": token, "updated_at": now}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entities.ErrTokenBound
		}
		return fmt.Errorf("failed to bind push token: %w", err)
	}
	if result.MatchedCount == 0 {
		return entities.ErrNotFound
	}

	return nil
}
