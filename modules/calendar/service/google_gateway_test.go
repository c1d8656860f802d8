package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"today-scheduler/core/errors"
	scheduleEntity "today-scheduler/modules/schedule/entity"
)

func testWindow() (time.Time, time.Time) {
	from := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}

func TestFetchBusyIntervals(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		resp := map[string]any{
			"calendars": map[string]any{
				"alice@example.com": map[string]any{
					"busy": []map[string]string{
						{"start": "2026-05-11T09:00:00Z", "end": "2026-05-11T10:00:00Z"},
						{"start": "2026-05-11T09:30:00Z", "end": "2026-05-11T11:00:00Z"},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	gw := NewGoogleGateway()
	gw.APIBase = srv.URL

	from, to := testWindow()
	intervals, err := gw.FetchBusyIntervals(context.Background(), "tok-123", "alice@example.com", from, to)
	if err != nil {
		t.Fatalf("FetchBusyIntervals returned error: %v", err)
	}

	want := []scheduleEntity.BusyInterval{
		{Start: 540, End: 600},
		{Start: 570, End: 660},
	}
	if len(intervals) != len(want) {
		t.Fatalf("got %d intervals, want %d", len(intervals), len(want))
	}
	for i := range want {
		if intervals[i] != want[i] {
			t.Errorf("interval %d = %v, want %v", i, intervals[i], want[i])
		}
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer token", gotAuth)
	}
}

func TestFetchBusyIntervals_EmptyCalendar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"calendars": map[string]any{}})
	}))
	defer srv.Close()

	gw := NewGoogleGateway()
	gw.APIBase = srv.URL

	from, to := testWindow()
	intervals, err := gw.FetchBusyIntervals(context.Background(), "tok", "bob@example.com", from, to)
	if err != nil {
		t.Fatalf("FetchBusyIntervals returned error: %v", err)
	}
	if len(intervals) != 0 {
		t.Errorf("expected no intervals, got %v", intervals)
	}
}

func TestFetchBusyIntervals_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"calendars": map[string]any{
				"c@example.com": map[string]any{
					"busy": []map[string]string{
						{"start": "2026-05-11T14:00:00Z", "end": "2026-05-11T15:00:00Z"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	gw := NewGoogleGateway()
	gw.APIBase = srv.URL

	from, to := testWindow()
	intervals, err := gw.FetchBusyIntervals(context.Background(), "tok", "c@example.com", from, to)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	if len(intervals) != 1 || intervals[0].Start != 840 {
		t.Errorf("unexpected intervals: %v", intervals)
	}
}

func TestFetchBusyIntervals_DoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	gw := NewGoogleGateway()
	gw.APIBase = srv.URL

	from, to := testWindow()
	_, err := gw.FetchBusyIntervals(context.Background(), "bad-token", "c@example.com", from, to)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt for a client error, got %d", calls)
	}

	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCalendarUnavailable {
		t.Errorf("expected CALENDAR_UNAVAILABLE, got %v", err)
	}
}
