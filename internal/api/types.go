package api

import (
	"time"

	"github.com/wicaksana/garda/domain/entities"
)

// LoginRequest represents the request payload for operator login
type LoginRequest struct {
	Email  string `json:"email" validate:"required"`
	Secret string `json:"secret" validate:"required"`
}

// LoginResponse represents the response payload for operator login
type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Operator  *entities.Operator `json:"operator"`
}

// CreateOperatorRequest represents the payload for provisioning an operator
type CreateOperatorRequest struct {
	Email  string        `json:"email" validate:"required"`
	Name   string        `json:"name" validate:"required"`
	Role   entities.Role `json:"role" validate:"required"`
	Secret string        `json:"secret" validate:"required"`
}

// CreateDeviceRequest represents the payload for registering a device
type CreateDeviceRequest struct {
	Name      string           `json:"name" validate:"required"`
	OwnerID   string           `json:"owner_id"`
	Status    *entities.Status `json:"status"`
	PushToken string           `json:"push_token" validate:"required"`
}

// RegisterDeviceRequest represents the payload for binding a push token
type RegisterDeviceRequest struct {
	PushToken string `json:"push_token" validate:"required"`
}

// SendCommandRequest represents the payload for a symbolic device command
type SendCommandRequest struct {
	Command string `json:"command" validate:"required"`
	Message string `json:"message,omitempty"`
}

// SendCommandResponse acknowledges a dispatched command
type SendCommandResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SuccessResponse is the generic acknowledgment body
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HealthResponse reports service status
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
