package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"today-scheduler/core/errors"
	"today-scheduler/core/logger"
	scheduleEntity "today-scheduler/modules/schedule/entity"
	scheduleService "today-scheduler/modules/schedule/service"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"

	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// GoogleGateway reads busy intervals from the Google Calendar freeBusy API.
// Transient failures are retried with backoff here so the event lifecycle
// never retries on its own.
type GoogleGateway struct {
	// APIBase is overridable for tests.
	APIBase string
	client  *http.Client
}

func NewGoogleGateway() *GoogleGateway {
	return &GoogleGateway{
		APIBase: googleCalendarAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchBusyIntervals returns the calendar's busy ranges inside [from, to] as
// minute-of-day intervals.
func (g *GoogleGateway) FetchBusyIntervals(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]scheduleEntity.BusyInterval, error) {
	payload := map[string]any{
		"timeMin": from.UTC().Format(time.RFC3339),
		"timeMax": to.UTC().Format(time.RFC3339),
		"items": []map[string]string{
			{"id": calendarID},
		},
	}
	payloadJSON, _ := json.Marshal(payload)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := initialBackoff * time.Duration(1<<(attempt-2))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewAppError(errors.ErrCalendarUnavailable, "Calendar request cancelled", ctx.Err())
			}
		}

		intervals, retryable, err := g.fetchOnce(ctx, accessToken, calendarID, payloadJSON)
		if err == nil {
			return intervals, nil
		}

		lastErr = err
		if !retryable {
			break
		}
		logger.Warn("GoogleGateway:FetchBusyIntervals:Retry",
			"calendar", calendarID, "attempt", attempt, "error", err)
	}

	return nil, errors.NewAppError(errors.ErrCalendarUnavailable, "Google Calendar free/busy lookup failed", lastErr)
}

func (g *GoogleGateway) fetchOnce(ctx context.Context, accessToken, calendarID string, payloadJSON []byte) ([]scheduleEntity.BusyInterval, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.APIBase+"/freeBusy", strings.NewReader(string(payloadJSON)))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		retryable := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("google freeBusy status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, err
	}

	var intervals []scheduleEntity.BusyInterval
	if cal, ok := result.Calendars[calendarID]; ok {
		for _, busyRange := range cal.Busy {
			start, err := time.Parse(time.RFC3339, busyRange.Start)
			if err != nil {
				return nil, false, fmt.Errorf("bad busy start %q: %w", busyRange.Start, err)
			}
			end, err := time.Parse(time.RFC3339, busyRange.End)
			if err != nil {
				return nil, false, fmt.Errorf("bad busy end %q: %w", busyRange.End, err)
			}
			intervals = append(intervals, scheduleEntity.BusyInterval{
				Start: scheduleService.ToMinuteOfDay(start),
				End:   scheduleService.ToMinuteOfDay(end),
			})
		}
	}

	return intervals, false, nil
}
