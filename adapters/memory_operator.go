package adapters

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wicaksana/garda/domain/entities"
)

// MemoryOperatorRepository is an in-memory implementation of
// OperatorRepository.
type MemoryOperatorRepository struct {
	mu        sync.RWMutex
	operators map[string]*entities.Operator // id -> operator
	emails    map[string]*entities.Operator // email -> operator
	secrets   map[string]string             // email -> secret
}

// NewMemoryOperatorRepository creates a new in-memory operator repository
func NewMemoryOperatorRepository() *MemoryOperatorRepository {
	return &MemoryOperatorRepository{
		operators: make(map[string]*entities.Operator),
		emails:    make(map[string]*entities.Operator),
		secrets:   make(map[string]string),
	}
}

// Create implements OperatorRepository interface
func (m *MemoryOperatorRepository) Create(ctx context.Context, operator *entities.Operator, secret string) error {
	if err := operator.Validate(); err != nil {
		return err
	}
	if secret == "" {
		return &entities.ValidationError{Field: "secret", Reason: "secret is required"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[operator.Email]; exists {
		return &entities.ValidationError{Field: "email", Reason: "email is already registered"}
	}

	if operator.ID == "" {
		operator.ID = uuid.New().String()
	}

	now := time.Now()
	operator.CreatedAt = now
	operator.UpdatedAt = now

	operatorCopy := *operator
	m.operators[operator.ID] = &operatorCopy
	m.emails[operator.Email] = &operatorCopy
	m.secrets[operator.Email] = secret

	return nil
}

// GetByID implements OperatorRepository interface
func (m *MemoryOperatorRepository) GetByID(ctx context.Context, id string) (*entities.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	operator, exists := m.operators[id]
	if !exists {
		return nil, entities.ErrNotFound
	}

	operatorCopy := *operator
	return &operatorCopy, nil
}

// GetByEmail implements OperatorRepository interface
func (m *MemoryOperatorRepository) GetByEmail(ctx context.Context, email string) (*entities.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	operator, exists := m.emails[email]
	if !exists {
		return nil, entities.ErrNotFound
	}

	operatorCopy := *operator
	return &operatorCopy, nil
}

// Authenticate validates operator credentials (email + secret)
func (m *MemoryOperatorRepository) Authenticate(ctx context.Context, email, secret string) (*entities.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, exists := m.secrets[email]
	if !exists {
		return nil, entities.ErrUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) != 1 {
		return nil, entities.ErrUnauthorized
	}

	operator, exists := m.emails[email]
	if !exists {
		return nil, entities.ErrUnauthorized
	}

	operatorCopy := *operator
	return &operatorCopy, nil
}
