package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookwise/models"
	"bookwise/services/calendar"
	"bookwise/services/tasks"
)

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func (f *fakeBookingStore) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingStore) FindForProviderInRange(ctx context.Context, providerID string, from, to time.Time, statuses []string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		b.Status = status
	}
	return nil
}

func (f *fakeBookingStore) UpdateSyncState(ctx context.Context, id, externalEventID, syncStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		if externalEventID != "" {
			b.ExternalEventID = externalEventID
		}
		b.SyncStatus = syncStatus
	}
	return nil
}

func (f *fakeBookingStore) EnsureIndexes() error { return nil }

type fakeProviderStore struct {
	integration *models.CalendarIntegration
}

func (f *fakeProviderStore) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return nil, nil
}

func (f *fakeProviderStore) GetAvailabilityPolicy(ctx context.Context, providerID string) (*models.AvailabilityPolicy, error) {
	return nil, nil
}

func (f *fakeProviderStore) GetCalendarIntegration(ctx context.Context, providerID string) (*models.CalendarIntegration, error) {
	return f.integration, nil
}

func (f *fakeProviderStore) EnsureIndexes() error { return nil }

// fakeRemoteCalendar scripts CreateEvent outcomes call by call.
type fakeRemoteCalendar struct {
	createErrs   []error
	createCalls  int
	refreshCalls int
	refreshErr   error
	deleteErr    error
	deleteCalls  int
}

func (f *fakeRemoteCalendar) BusyIntervals(ctx context.Context, integration *models.CalendarIntegration, from, to time.Time) ([]models.Interval, error) {
	return nil, nil
}

func (f *fakeRemoteCalendar) CreateEvent(ctx context.Context, integration *models.CalendarIntegration, booking *models.Booking) (string, error) {
	call := f.createCalls
	f.createCalls++
	if call < len(f.createErrs) && f.createErrs[call] != nil {
		return "", f.createErrs[call]
	}
	return "evt-1", nil
}

func (f *fakeRemoteCalendar) DeleteEvent(ctx context.Context, integration *models.CalendarIntegration, eventID string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeRemoteCalendar) RefreshCredentials(ctx context.Context, integration *models.CalendarIntegration) error {
	f.refreshCalls++
	return f.refreshErr
}

func newTestWorker(t *testing.T) (*CalendarSyncWorker, *fakeBookingStore, *fakeProviderStore, *fakeRemoteCalendar) {
	t.Helper()
	bookings := &fakeBookingStore{bookings: map[string]*models.Booking{
		"bk-1": {
			ID:         "bk-1",
			ProviderID: "prov-1",
			Status:     models.BookingStatusConfirmed,
			SyncStatus: models.SyncStatusPending,
			Start:      time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
		},
	}}
	providers := &fakeProviderStore{
		integration: &models.CalendarIntegration{ProviderID: "prov-1", Active: true},
	}
	remote := &fakeRemoteCalendar{}
	worker := &CalendarSyncWorker{Bookings: bookings, Providers: providers, Calendar: remote}
	return worker, bookings, providers, remote
}

func createTask(t *testing.T, bookingID string) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewCalendarCreateTask(bookingID)
	require.NoError(t, err)
	return task
}

func TestHandleEventCreateSuccess(t *testing.T) {
	worker, bookings, _, remote := newTestWorker(t)

	require.NoError(t, worker.handleEventCreate(context.Background(), createTask(t, "bk-1")))

	stored, err := bookings.GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusOK, stored.SyncStatus)
	assert.Equal(t, "evt-1", stored.ExternalEventID)
	assert.Equal(t, 1, remote.createCalls)
	assert.Equal(t, 0, remote.refreshCalls)
}

func TestHandleEventCreateRefreshesOnceOnAuthFailure(t *testing.T) {
	worker, bookings, _, remote := newTestWorker(t)
	remote.createErrs = []error{calendar.ErrUnauthorized}

	require.NoError(t, worker.handleEventCreate(context.Background(), createTask(t, "bk-1")))

	stored, err := bookings.GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusOK, stored.SyncStatus)
	assert.Equal(t, 2, remote.createCalls, "auth failure gets exactly one retry after refresh")
	assert.Equal(t, 1, remote.refreshCalls)
}

func TestHandleEventCreateRemoteFailureMarksFailed(t *testing.T) {
	worker, bookings, _, remote := newTestWorker(t)
	remote.createErrs = []error{errors.New("remote down"), errors.New("remote down")}

	// A terminal remote failure completes the task; retrying the queue
	// will not fix a dead calendar.
	require.NoError(t, worker.handleEventCreate(context.Background(), createTask(t, "bk-1")))

	stored, err := bookings.GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusFailed, stored.SyncStatus)
	assert.Empty(t, stored.ExternalEventID)
	assert.Equal(t, 1, remote.createCalls, "non-auth failures are not retried in the handler")
}

func TestHandleEventCreateSkipsCancelledBooking(t *testing.T) {
	worker, bookings, _, remote := newTestWorker(t)
	require.NoError(t, bookings.UpdateStatus(context.Background(), "bk-1", models.BookingStatusCancelled))

	require.NoError(t, worker.handleEventCreate(context.Background(), createTask(t, "bk-1")))
	assert.Equal(t, 0, remote.createCalls)
}

func TestHandleEventCreateMissingIntegrationMarksFailed(t *testing.T) {
	worker, bookings, providers, remote := newTestWorker(t)
	providers.integration = nil

	require.NoError(t, worker.handleEventCreate(context.Background(), createTask(t, "bk-1")))

	stored, err := bookings.GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusFailed, stored.SyncStatus)
	assert.Equal(t, 0, remote.createCalls)
}

func TestHandleEventCreateUnknownBookingIsNoop(t *testing.T) {
	worker, _, _, remote := newTestWorker(t)

	require.NoError(t, worker.handleEventCreate(context.Background(), createTask(t, "missing")))
	assert.Equal(t, 0, remote.createCalls)
}

func TestHandleEventDeleteBestEffort(t *testing.T) {
	worker, _, _, remote := newTestWorker(t)
	remote.deleteErr = errors.New("remote down")

	task, _, err := tasks.NewCalendarDeleteTask("bk-1", "evt-1")
	require.NoError(t, err)

	assert.NoError(t, worker.handleEventDelete(context.Background(), task), "delete failures are logged, never retried")
	assert.Equal(t, 1, remote.deleteCalls)
}

func TestHandleEventDeleteWithoutEventIDIsNoop(t *testing.T) {
	worker, _, _, remote := newTestWorker(t)

	task, _, err := tasks.NewCalendarDeleteTask("bk-1", "")
	require.NoError(t, err)

	require.NoError(t, worker.handleEventDelete(context.Background(), task))
	assert.Equal(t, 0, remote.deleteCalls)
}
