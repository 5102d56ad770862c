package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"loom/internal/config"
	"loom/internal/notifications"
)

type recordedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newRecordingServer(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]recordedRequest, len(requests))
		copy(out, requests)
		return out
	}
}

func enabledConfig(topic string) *config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	cfg.Notifications.Plan = true
	cfg.Notifications.Apply = true
	cfg.Notifications.Degraded = true
	cfg.Notifications.Errors = true
	return &cfg
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyPlanComputed(context.Background(), 3, 1, 0); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	server, recorded := newRecordingServer(t)
	svc := notifications.NewService(enabledConfig(server.URL))
	ctx := context.Background()

	if err := svc.NotifyPlanComputed(ctx, 3, 2, 1); err != nil {
		t.Fatalf("NotifyPlanComputed: %v", err)
	}
	if err := svc.NotifyPlanApplied(ctx, 3, 2, 0); err != nil {
		t.Fatalf("NotifyPlanApplied: %v", err)
	}
	if err := svc.NotifyDegradedFetch(ctx, "realign plan"); err != nil {
		t.Fatalf("NotifyDegradedFetch: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "apply"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	requests := recorded()
	if len(requests) != 4 {
		t.Fatalf("recorded %d requests, want 4", len(requests))
	}
	if requests[0].title != "Loom - Plan Computed" {
		t.Fatalf("plan title = %q", requests[0].title)
	}
	if requests[0].body != "Plan ready: 3 new posts, 2 cancellations, 1 priorities skipped" {
		t.Fatalf("plan body = %q", requests[0].body)
	}
	if requests[1].tags != "loom,plan,applied" {
		t.Fatalf("apply tags = %q", requests[1].tags)
	}
	if requests[2].priority != "high" {
		t.Fatalf("degraded priority = %q, want high", requests[2].priority)
	}
	if requests[3].body != "Error with apply: boom" {
		t.Fatalf("error body = %q", requests[3].body)
	}
}

func TestNtfyServiceHonorsEventToggles(t *testing.T) {
	server, recorded := newRecordingServer(t)
	cfg := enabledConfig(server.URL)
	cfg.Notifications.Plan = false
	svc := notifications.NewService(cfg)

	if err := svc.NotifyPlanComputed(context.Background(), 1, 0, 0); err != nil {
		t.Fatalf("NotifyPlanComputed: %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}

	requests := recorded()
	if len(requests) != 1 {
		t.Fatalf("recorded %d requests, want only the test notification", len(requests))
	}
	if requests[0].title != "Loom - Test" {
		t.Fatalf("title = %q", requests[0].title)
	}
}

func TestNtfyServiceSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	svc := notifications.NewService(enabledConfig(server.URL))
	if err := svc.NotifyError(context.Background(), errors.New("boom"), ""); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}
