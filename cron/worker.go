package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bookwise/config"
	bookingRepo "bookwise/database/repository/booking"
	providerRepo "bookwise/database/repository/provider"
	"bookwise/models"
	"bookwise/services/calendar"
	"bookwise/services/tasks"
	"bookwise/utils"
)

// CalendarSyncWorker mirrors bookings into external calendars in the
// background, decoupled from the commit transaction. Remote failures
// are terminal for the task: the booking's sync status is set to
// failed and the task completes, so a flaky calendar never piles up
// retries against the queue.
type CalendarSyncWorker struct {
	Bookings  bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
	Calendar  calendar.Client
}

// InitCalendarSyncWorker runs the async worker in background.
func InitCalendarSyncWorker(w *CalendarSyncWorker) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCalendarEventCreate, w.handleEventCreate)
	mux.HandleFunc(tasks.TypeCalendarEventDelete, w.handleEventDelete)

	go func() {
		log.Println("[CalendarSyncWorker] starting async worker...")
		const maxAttempts = 5

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CalendarSyncWorker] attempt %d/%d failed to start worker: %v", attempt, maxAttempts, err)
				if attempt == maxAttempts {
					log.Fatal("[CalendarSyncWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func (w *CalendarSyncWorker) handleEventCreate(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p tasks.CalendarEventPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid calendar sync payload", zap.Error(err))
		return err
	}

	booking, err := w.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if booking == nil || !booking.IsActive() {
		// Cancelled before the worker got to it; nothing to mirror.
		return nil
	}

	integration, err := w.Providers.GetCalendarIntegration(ctx, booking.ProviderID)
	if err != nil {
		return err
	}
	if integration == nil {
		return w.Bookings.UpdateSyncState(ctx, booking.ID, "", models.SyncStatusFailed)
	}

	eventID, err := w.createWithRefresh(ctx, integration, booking)
	if err != nil {
		logger.Warn("calendar event create failed, marking booking sync failed",
			zap.String("bookingID", booking.ID), zap.Error(err))
		return w.Bookings.UpdateSyncState(ctx, booking.ID, "", models.SyncStatusFailed)
	}

	logger.Info("booking mirrored to external calendar",
		zap.String("bookingID", booking.ID), zap.String("eventID", eventID))
	return w.Bookings.UpdateSyncState(ctx, booking.ID, eventID, models.SyncStatusOK)
}

// createWithRefresh attempts the remote create, refreshing credentials
// at most once on an auth rejection.
func (w *CalendarSyncWorker) createWithRefresh(ctx context.Context, integration *models.CalendarIntegration, booking *models.Booking) (string, error) {
	eventID, err := w.Calendar.CreateEvent(ctx, integration, booking)
	if err == nil {
		return eventID, nil
	}
	if !errors.Is(err, calendar.ErrUnauthorized) {
		return "", err
	}
	if rerr := w.Calendar.RefreshCredentials(ctx, integration); rerr != nil {
		return "", rerr
	}
	return w.Calendar.CreateEvent(ctx, integration, booking)
}

func (w *CalendarSyncWorker) handleEventDelete(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p tasks.CalendarEventPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid calendar delete payload", zap.Error(err))
		return err
	}
	if p.EventID == "" {
		return nil
	}

	booking, err := w.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return nil
	}

	integration, err := w.Providers.GetCalendarIntegration(ctx, booking.ProviderID)
	if err != nil || integration == nil {
		return err
	}

	if derr := w.Calendar.DeleteEvent(ctx, integration, p.EventID); derr != nil {
		if errors.Is(derr, calendar.ErrUnauthorized) {
			if rerr := w.Calendar.RefreshCredentials(ctx, integration); rerr == nil {
				derr = w.Calendar.DeleteEvent(ctx, integration, p.EventID)
			}
		}
		if derr != nil {
			// Deletion is best-effort cleanup; log and move on.
			logger.Warn("calendar event delete failed",
				zap.String("bookingID", p.BookingID), zap.String("eventID", p.EventID), zap.Error(derr))
		}
	}
	return nil
}
