package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bookwise/models"
)

// Task types handled by the calendar sync worker.
const (
	TypeCalendarEventCreate = "calendar:event:create"
	TypeCalendarEventDelete = "calendar:event:delete"
)

// CalendarEventPayload identifies the booking a sync task works on.
type CalendarEventPayload struct {
	BookingID string `json:"bookingId"`
	EventID   string `json:"eventId,omitempty"`
}

// NewCalendarCreateTask builds the task that mirrors a booking into
// the provider's external calendar.
func NewCalendarCreateTask(bookingID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(CalendarEventPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.MaxRetry(2), asynq.Timeout(30 * time.Second)}
	return asynq.NewTask(TypeCalendarEventCreate, b), opts, nil
}

// NewCalendarDeleteTask builds the task that removes a mirrored event.
func NewCalendarDeleteTask(bookingID, eventID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(CalendarEventPayload{BookingID: bookingID, EventID: eventID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.MaxRetry(2), asynq.Timeout(30 * time.Second)}
	return asynq.NewTask(TypeCalendarEventDelete, b), opts, nil
}

// AsynqDispatcher enqueues calendar sync work onto the Redis-backed
// queue. It implements booking.SyncDispatcher.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func (d *AsynqDispatcher) EnqueueEventCreate(booking *models.Booking) error {
	task, opts, err := NewCalendarCreateTask(booking.ID)
	if err != nil {
		return err
	}
	_, err = d.Client.Enqueue(task, opts...)
	return err
}

func (d *AsynqDispatcher) EnqueueEventDelete(booking *models.Booking) error {
	task, opts, err := NewCalendarDeleteTask(booking.ID, booking.ExternalEventID)
	if err != nil {
		return err
	}
	_, err = d.Client.Enqueue(task, opts...)
	return err
}
