package mongo

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
)

type OperatorRepository struct {
	collection *mongo.Collection
}

type operatorDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Email      string             `bson:"email"`
	Name       string             `bson:"name"`
	Role       entities.Role      `bson:"role"`
	SecretHash string             `bson:"secret_hash"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *operatorDoc) toEntity() *entities.Operator {
	return &entities.Operator{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// NewOperatorRepository creates a new MongoDB operator repository
func NewOperatorRepository(db *mongo.Database) repositories.OperatorRepository {
	return &OperatorRepository{
		collection: db.Collection("operators"),
	}
}

// Create implements repositories.OperatorRepository
func (r *OperatorRepository) Create(ctx context.Context, operator *entities.Operator, secret string) error {
	if err := operator.Validate(); err != nil {
		return err
	}
	if secret == "" {
		return &entities.ValidationError{Field: "secret", Reason: "secret is required"}
	}

	now := time.Now()
	operator.CreatedAt = now
	operator.UpdatedAt = now

	doc := operatorDoc{
		Email:      operator.Email,
		Name:       operator.Name,
		Role:       operator.Role,
		SecretHash: hashSecret(secret),
		CreatedAt:  operator.CreatedAt,
		UpdatedAt:  operator.UpdatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &entities.ValidationError{Field: "email", Reason: "email is already registered"}
		}
		return fmt.Errorf("failed to create operator: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		operator.ID = oid.Hex()
	}

	return nil
}

// GetByID implements repositories.OperatorRepository
func (r *OperatorRepository) GetByID(ctx context.Context, id string) (*entities.Operator, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entities.ErrNotFound
	}

	var doc operatorDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get operator %s: %w", id, err)
	}

	return doc.toEntity(), nil
}

// GetByEmail implements repositories.OperatorRepository
func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*entities.Operator, error) {
	var doc operatorDoc
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get operator by email: %w", err)
	}

	return doc.toEntity(), nil
}

// Authenticate validates operator credentials (email + secret)
func (r *OperatorRepository) Authenticate(ctx context.Context, email, secret string) (*entities.Operator, error) {
	var doc operatorDoc
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up operator: %w", err)
	}

	supplied := hashSecret(secret)
	if subtle.ConstantTimeCompare([]byte(doc.SecretHash), []byte(supplied)) != 1 {
		return nil, entities.ErrUnauthorized
	}

	return doc.toEntity(), nil
}
