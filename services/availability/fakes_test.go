package availability

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "bookwise/database/repository/booking"
	"bookwise/models"
)

type fakeProviderRepo struct {
	provider    *models.Provider
	integration *models.CalendarIntegration
}

func (f *fakeProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	if f.provider != nil && f.provider.ID == id {
		return f.provider, nil
	}
	return nil, nil
}

func (f *fakeProviderRepo) GetAvailabilityPolicy(ctx context.Context, providerID string) (*models.AvailabilityPolicy, error) {
	p, err := f.GetByID(ctx, providerID)
	if err != nil || p == nil {
		return nil, err
	}
	return &p.Policy, nil
}

func (f *fakeProviderRepo) GetCalendarIntegration(ctx context.Context, providerID string) (*models.CalendarIntegration, error) {
	return f.integration, nil
}

func (f *fakeProviderRepo) EnsureIndexes() error { return nil }

type fakeServiceRepo struct {
	services map[string]*models.Service
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	return f.services[id], nil
}

func (f *fakeServiceRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.services {
		if s.ProviderID == providerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeServiceRepo) EnsureIndexes() error { return nil }

// memBookingRepo is an in-memory BookingRepository with the same
// conflict-check semantics as the Mongo implementation: the overlap
// check and the insert happen under one lock.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (m *memBookingRepo) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	requested := booking.Interval()
	for _, existing := range m.bookings {
		if existing.ProviderID == booking.ProviderID && existing.IsActive() && requested.Overlaps(existing.Interval()) {
			return bookingRepo.ErrConflict
		}
	}
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *memBookingRepo) FindForProviderInRange(ctx context.Context, providerID string, from, to time.Time, statuses []string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.ProviderID != providerID {
			continue
		}
		if b.Start.Before(from) || !b.Start.Before(to) {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (m *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			b := m.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Status = status
			return nil
		}
	}
	return errors.New("booking not found")
}

func (m *memBookingRepo) UpdateSyncState(ctx context.Context, id, externalEventID, syncStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			if externalEventID != "" {
				m.bookings[i].ExternalEventID = externalEventID
			}
			m.bookings[i].SyncStatus = syncStatus
			return nil
		}
	}
	return errors.New("booking not found")
}

func (m *memBookingRepo) EnsureIndexes() error { return nil }

type fakeCalendar struct {
	busy []models.Interval
	err  error
}

func (f *fakeCalendar) BusyIntervals(ctx context.Context, integration *models.CalendarIntegration, from, to time.Time) ([]models.Interval, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.busy, nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, integration *models.CalendarIntegration, booking *models.Booking) (string, error) {
	return "evt-1", nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, integration *models.CalendarIntegration, eventID string) error {
	return nil
}

func (f *fakeCalendar) RefreshCredentials(ctx context.Context, integration *models.CalendarIntegration) error {
	return nil
}
