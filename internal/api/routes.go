package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
	"github.com/wicaksana/garda/internal/auth"
	"github.com/wicaksana/garda/usecase"
)

const operatorContextKey = "operator"

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, devices *usecase.DeviceService, operators repositories.OperatorRepository, logger *zap.Logger) {
	// Health check
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:      "ok",
			Environment: os.Getenv("ENVIRONMENT"),
		})
	})

	// Operator login
	e.POST("/auth/login", func(c echo.Context) error {
		return login(c, operators, logger)
	})

	authed := e.Group("", requireAuth(logger))

	// Operator provisioning (administrators only)
	authed.POST("/operators", func(c echo.Context) error {
		return createOperator(c, operators, logger)
	})

	// Device APIs
	authed.GET("/devices", func(c echo.Context) error {
		return listDevices(c, devices, logger)
	})
	authed.POST("/devices", func(c echo.Context) error {
		return createDevice(c, devices, logger)
	})
	authed.GET("/devices/:id", func(c echo.Context) error {
		return getDevice(c, devices, logger)
	})
	authed.PUT("/devices/:id", func(c echo.Context) error {
		return updateDevice(c, devices, logger)
	})
	authed.DELETE("/devices/:id", func(c echo.Context) error {
		return deleteDevice(c, devices, logger)
	})
	authed.POST("/devices/:id/register-device", func(c echo.Context) error {
		return registerDevice(c, devices, logger)
	})
	authed.POST("/devices/:id/send-command", func(c echo.Context) error {
		return sendCommand(c, devices, logger)
	})
}

// requireAuth extracts and validates the bearer credential and stores the
// calling operator in the request context.
func requireAuth(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			authHeader := c.Request().Header.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				token = authHeader[7:]
			}

			if token == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "missing_token",
					Message: "Bearer token is required in Authorization header",
				})
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "invalid_token",
					Message: "Invalid or expired token",
				})
			}

			c.Set(operatorContextKey, &entities.Operator{
				ID:   claims.OperatorID,
				Role: claims.Role,
			})
			return next(c)
		}
	}
}

func operatorFrom(c echo.Context) *entities.Operator {
	op, _ := c.Get(operatorContextKey).(*entities.Operator)
	return op
}

// writeError maps domain errors onto the HTTP error taxonomy.
func writeError(c echo.Context, logger *zap.Logger, err error) error {
	switch {
	case entities.IsValidation(err):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrUnknownCommand):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unknown_command",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrNoPushToken):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "no_push_token",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid credentials",
		})
	case errors.Is(err, entities.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Device not found",
		})
	case errors.Is(err, entities.ErrTokenBound):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "token_bound",
			Message: err.Error(),
		})
	default:
		logger.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
