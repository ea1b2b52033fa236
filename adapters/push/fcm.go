package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
)

const (
	defaultAPIURL  = "https://fcm.googleapis.com/fcm/send"
	defaultTimeout = 5 * time.Second
)

// FCMConfig holds configuration for the FCMSender adapter.
// Required fields:
// - ServerKey: the FCM server key
// Optional fields with defaults:
// - APIURL: the FCM send endpoint (default: "https://fcm.googleapis.com/fcm/send")
// - Timeout: the per-request timeout (default: 5s)
type FCMConfig struct {
	ServerKey string        // Required: FCM server key
	APIURL    string        // Optional: FCM send endpoint
	Timeout   time.Duration // Optional: per-request timeout
}

// FCMSender implements PushSender against the FCM HTTP send API
type FCMSender struct {
	serverKey string
	apiURL    string
	client    *http.Client
	logger    *zap.Logger
}

// Ensure FCMSender implements the PushSender interface
var _ repositories.PushSender = (*FCMSender)(nil)

// fcmNotification is the visible part of the push message
type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// fcmRequest represents the request payload for the FCM send API
type fcmRequest struct {
	To           string                    `json:"to"`
	Notification fcmNotification           `json:"notification"`
	Data         entities.PushNotification `json:"data"`
}

// ValidateFCMConfig validates the FCMConfig
func ValidateFCMConfig(config FCMConfig) error {
	if config.ServerKey == "" {
		return fmt.Errorf("FCM server key is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewFCMSender creates a new FCM push sender
func NewFCMSender(config FCMConfig, logger *zap.Logger) (*FCMSender, error) {
	if err := ValidateFCMConfig(config); err != nil {
		return nil, err
	}

	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &FCMSender{
		serverKey: config.ServerKey,
		apiURL:    apiURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}, nil
}

// Send delivers a notification to the device addressed by token
func (f *FCMSender) Send(ctx context.Context, token string, notification entities.PushNotification) error {
	request := fcmRequest{
		To: token,
		Notification: fcmNotification{
			Title: notification.DeviceName,
			Body:  notification.Body,
		},
		Data: notification,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", f.apiURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "key="+f.serverKey)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		f.logger.Error("Push provider returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}

	f.logger.Debug("Push delivered",
		zap.String("device_id", notification.DeviceID),
		zap.String("body", notification.Body))

	return nil
}

// NewFCMConfigFromEnv creates a new FCMConfig from environment variables
func NewFCMConfigFromEnv() FCMConfig {
	config := FCMConfig{
		ServerKey: os.Getenv("FCM_SERVER_KEY"),
		APIURL:    os.Getenv("FCM_API_URL"),
	}

	if timeoutStr := os.Getenv("FCM_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			config.Timeout = time.Duration(seconds) * time.Second
		}
	}

	return config
}
