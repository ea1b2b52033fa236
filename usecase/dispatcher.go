package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wicaksana/garda/domain/entities"
	"github.com/wicaksana/garda/domain/repositories"
)

const (
	dispatchQueueSize = 64
	dispatchTimeout   = 5 * time.Second
)

// Notifier accepts notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(token string, notification entities.PushNotification)
}

type delivery struct {
	token        string
	notification entities.PushNotification
}

// Dispatcher drains a queue of push notifications in a background
// goroutine. Delivery is fire-and-forget: failures are logged and
// swallowed, and a slow provider is cut off by a bounded per-send timeout,
// so the state mutation that triggered the push is never blocked or
// rolled back.
type Dispatcher struct {
	sender repositories.PushSender
	logger *zap.Logger
	queue  chan delivery
	done   chan struct{}
}

// NewDispatcher creates a new push dispatcher
func NewDispatcher(sender repositories.PushSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger,
		queue:  make(chan delivery, dispatchQueueSize),
		done:   make(chan struct{}),
	}
}

// Run drains the queue until Stop is called. Call in a goroutine.
func (d *Dispatcher) Run() {
	defer close(d.done)

	for dv := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		err := d.sender.Send(ctx, dv.token, dv.notification)
		cancel()

		if err != nil {
			// Best-effort: the state change already committed.
			d.logger.Warn("Push delivery failed",
				zap.String("device_id", dv.notification.DeviceID),
				zap.String("body", dv.notification.Body),
				zap.Error(err))
			continue
		}

		d.logger.Info("Push delivered",
			zap.String("device_id", dv.notification.DeviceID),
			zap.String("body", dv.notification.Body))
	}
}

// Enqueue hands a notification to the dispatcher without blocking. When
// the queue is full the notification is dropped with a warning.
func (d *Dispatcher) Enqueue(token string, notification entities.PushNotification) {
	select {
	case d.queue <- delivery{token: token, notification: notification}:
	default:
		d.logger.Warn("Push queue full, dropping notification",
			zap.String("device_id", notification.DeviceID))
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	close(d.queue)
	<-d.done
}
