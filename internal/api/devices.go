package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/usecase"
)

func listDevices(c echo.Context, devices *usecase.DeviceService, logger *zap.Logger) error {
	result, err := devices.List(c.Request().Context(), operatorFrom(c))
	if err != nil {
		return writeError(c, logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

func createDevice(c echo.Context, devices *usecase.DeviceService, logger *zap.Logger) error {
	var req CreateDeviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	device, err := devices.Create(c.Request().Context(), operatorFrom(c), usecase.CreateDeviceInput{
		Name:      req.Name,
		OwnerID:   req.OwnerID,
		Status:    req.Status,
		PushToken: req.PushToken,
	})
	if err != nil {
		return writeError(c, logger, err)
	}

	return c.JSON(http.StatusCreated, device)
}

func getDevice(c echo.Context, devices *usecase.DeviceService, logger *zap.Logger) error {
	device, err := devices.Get(c.Request().Context(), operatorFrom(c), c.Param("id"))
	if err != nil {
		return writeError(c, logger, err)
	}
	return c.JSON(http.StatusOK, device)
}

func updateDevice(c echo.Context, devices *usecase.DeviceService, logger *zap.Logger) error {
	var patch entities.DevicePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	device, err := devices.Update(c.Request().Context(), operatorFrom(c), c.Param("id"), patch)
	if err != nil {
		return writeError(c, logger, err)
	}

	return c.JSON(http.StatusOK, device)
}

func deleteDevice(c echo.Context, devices *usecase.DeviceService, logger *zap.Logger) error {
	if err := devices.Delete(c.Request().Context(), operatorFrom(c), c.Param("id")); err != nil {
		return writeError(c, logger, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func registerDevice(c echo.Context, devices *usecase.DeviceService, logger *zap.Logger) error {
	var req RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	err := devices.RegisterPushToken(c.Request().Context(), operatorFrom(c), c.Param("id"), req.PushToken)
	if err != nil {
		return writeError(c, logger, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func sendCommand(c echo.Context, devices *usecase.DeviceService, logger *zap.Logger) error {
	var req SendCommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.Command == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_command",
			Message: "Command is required",
		})
	}

	_, message, err := devices.SendCommand(c.Request().Context(), operatorFrom(c),
		c.Param("id"), entities.Command(req.Command), req.Message)
	if err != nil {
		return writeError(c, logger, err)
	}

	return c.JSON(http.StatusOK, SendCommandResponse{Success: true, Message: message})
}
