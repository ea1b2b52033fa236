package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
	"github.com/wicaksana/garda/internal/auth"
)

func login(c echo.Context, operators repositories.OperatorRepository, logger *zap.Logger) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.Email == "" || req.Secret == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Email and secret are required",
		})
	}

	operator, err := operators.Authenticate(c.Request().Context(), req.Email, req.Secret)
	if err != nil {
		logger.Warn("Operator authentication failed",
			zap.String("email", req.Email),
			zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid credentials",
		})
	}

	token, expiresAt, err := auth.GenerateOperatorToken(operator)
	if err != nil {
		logger.Error("Failed to generate operator token",
			zap.String("operator_id", operator.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	logger.Info("Operator authenticated",
		zap.String("operator_id", operator.ID),
		zap.String("role", string(operator.Role)))

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Operator:  operator,
	})
}

func createOperator(c echo.Context, operators repositories.OperatorRepository, logger *zap.Logger) error {
	caller := operatorFrom(c)
	if caller.Role != entities.RoleAdministrator {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Only administrators can provision operators",
		})
	}

	var req CreateOperatorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	operator := &entities.Operator{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	}
	if err := operators.Create(c.Request().Context(), operator, req.Secret); err != nil {
		return writeError(c, logger, err)
	}

	logger.Info("Operator provisioned",
		zap.String("operator_id", operator.ID),
		zap.String("role", string(operator.Role)))

	return c.JSON(http.StatusCreated, operator)
}
