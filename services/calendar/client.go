package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"bookwise/config"
	"bookwise/models"
	"bookwise/utils"
)

// HTTPClient implements Client against a calendar that exposes an ICS
// feed for reads and a JSON REST API for event writes.
type HTTPClient struct {
	http *http.Client
}

// NewHTTPClient builds a client with the configured request timeout.
func NewHTTPClient() *HTTPClient {
	timeout := time.Duration(config.AppConfig.CalendarTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		http: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) BusyIntervals(ctx context.Context, integration *models.CalendarIntegration, from, to time.Time) ([]models.Interval, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, integration.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read calendar feed: %w", err)
	}

	return parseBusyIntervals(body, from, to)
}

// parseBusyIntervals extracts the VEVENT ranges intersecting [from, to).
// Events that fail to parse are skipped; a partially readable feed is
// still useful busy data.
func parseBusyIntervals(body []byte, from, to time.Time) ([]models.Interval, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar feed: %w", err)
	}

	logger := utils.GetLogger()
	window := models.Interval{Start: from, End: to}
	var intervals []models.Interval

	for _, ev := range cal.Events() {
		start, err := ev.GetStartAt()
		if err != nil {
			logger.Debug("skipping calendar event without readable start", zap.Error(err))
			continue
		}
		end, err := ev.GetEndAt()
		if err != nil || !end.After(start) {
			// No DTEND or zero length: treat as a point-in-time marker.
			continue
		}
		iv := models.Interval{Start: start, End: end}
		if iv.Overlaps(window) {
			intervals = append(intervals, iv)
		}
	}
	return intervals, nil
}

type eventRequest struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Notes   string    `json:"notes,omitempty"`
}

type eventResponse struct {
	ID string `json:"id"`
}

func (c *HTTPClient) CreateEvent(ctx context.Context, integration *models.CalendarIntegration, booking *models.Booking) (string, error) {
	payload, err := json.Marshal(eventRequest{
		Summary: fmt.Sprintf("Booking %s", booking.ID),
		Start:   booking.Start,
		End:     booking.End,
		Notes:   booking.Note,
	})
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	url := fmt.Sprintf("%s/calendars/%s/events", integration.APIBaseURL, integration.CalendarID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create calendar event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("calendar event create returned status %d", resp.StatusCode)
	}

	var created eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode event response: %w", err)
	}
	return created.ID, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, integration *models.CalendarIntegration, eventID string) error {
	url := fmt.Sprintf("%s/calendars/%s/events/%s", integration.APIBaseURL, integration.CalendarID, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		// A missing remote event is already the desired end state.
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("calendar event delete returned status %d", resp.StatusCode)
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *HTTPClient) RefreshCredentials(ctx context.Context, integration *models.CalendarIntegration) error {
	payload, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": integration.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, integration.APIBaseURL+"/oauth/token", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("refresh calendar credentials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("token refresh returned empty access token")
	}
	integration.AccessToken = token.AccessToken
	return nil
}
