package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/wicaksana/garda/adapters"
	mongoadapter "github.com/wicaksana/garda/adapters/mongo"
	"github.com/wicaksana/garda/adapters/push"
	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
	"github.com/wicaksana/garda/internal/api"
	"github.com/wicaksana/garda/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Storage: MongoDB when a URI is configured, in-memory otherwise.
	var (
		deviceRepo   repositories.DeviceRepository
		operatorRepo repositories.OperatorRepository
		mongoClient  *mongoadapter.Client
	)
	if os.Getenv("MONGODB_URI") != "" {
		client, err := mongoadapter.NewClient(logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = client

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoadapter.EnsureIndexes(ctx, client.Database); err != nil {
			cancel()
			logger.Fatal("Failed to create indexes", zap.Error(err))
		}
		cancel()

		deviceRepo = mongoadapter.NewDeviceRepository(client.Database)
		operatorRepo = mongoadapter.NewOperatorRepository(client.Database)
	} else {
		logger.Info("MONGODB_URI not set, using in-memory storage")
		deviceRepo = adapters.NewMemoryDeviceRepository()
		operatorRepo = adapters.NewMemoryOperatorRepository()
	}

	seedRootAdministrator(operatorRepo, logger)

	// Push sender: FCM when a server key is configured, mock otherwise.
	var sender repositories.PushSender
	if config := push.NewFCMConfigFromEnv(); config.ServerKey != "" {
		fcmSender, err := push.NewFCMSender(config, logger)
		if err != nil {
			logger.Fatal("Failed to configure push sender", zap.Error(err))
		}
		sender = fcmSender
	} else {
		logger.Info("FCM_SERVER_KEY not set, using mock push sender")
		sender = push.NewMockPushSender(logger)
	}

	// Initialize the push dispatcher and device service
	dispatcher := usecase.NewDispatcher(sender, logger)
	go dispatcher.Run()

	deviceService := usecase.NewDeviceService(deviceRepo, dispatcher, logger)

	// Initialize API routes
	api.InitRoutes(e, deviceService, operatorRepo, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	dispatcher.Stop()

	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// seedRootAdministrator registers the bootstrap administrator account so
// the API is reachable on a fresh store.
func seedRootAdministrator(operators repositories.OperatorRepository, logger *zap.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	secret := os.Getenv("ADMIN_SECRET")
	if email == "" || secret == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_SECRET not set, skipping administrator seed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := operators.GetByEmail(ctx, email); err == nil {
		return // already seeded
	}

	admin := &entities.Operator{
		Email: email,
		Name:  "Administrator",
		Role:  entities.RoleAdministrator,
	}
	if err := operators.Create(ctx, admin, secret); err != nil {
		logger.Error("Failed to seed administrator", zap.Error(err))
		return
	}

	logger.Info("Administrator seeded", zap.String("email", email))
}
