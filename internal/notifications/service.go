package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loom/internal/config"
)

const userAgent = "Loom-Go/0.1.0"

// Service defines the notification surface exposed to the planning and apply
// workflows.
type Service interface {
	NotifyPlanComputed(ctx context.Context, posts, toCancel, skipped int) error
	NotifyPlanApplied(ctx context.Context, created, cancelled, failed int) error
	NotifyDraftPushed(ctx context.Context, platform, scheduledFor string) error
	NotifyDegradedFetch(ctx context.Context, operation string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		plan:     cfg.Notifications.Plan,
		apply:    cfg.Notifications.Apply,
		degraded: cfg.Notifications.Degraded,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	plan     bool
	apply    bool
	degraded bool
	errors   bool
}

func (n *ntfyService) NotifyPlanComputed(ctx context.Context, posts, toCancel, skipped int) error {
	if !n.plan {
		return nil
	}
	message := fmt.Sprintf("Plan ready: %d new posts, %d cancellations", posts, toCancel)
	if skipped > 0 {
		message = fmt.Sprintf("%s, %d priorities skipped", message, skipped)
	}
	data := payload{
		title:   "Loom - Plan Computed",
		message: message,
		tags:    []string{"loom", "plan", "computed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPlanApplied(ctx context.Context, created, cancelled, failed int) error {
	if !n.apply {
		return nil
	}
	var title, message string
	if failed == 0 {
		title = "Loom - Plan Applied"
		message = fmt.Sprintf("Applied plan: %d created, %d cancelled", created, cancelled)
	} else {
		title = "Loom - Plan Applied (with errors)"
		message = fmt.Sprintf("Applied plan: %d created, %d cancelled, %d failed. Re-plan before retrying.", created, cancelled, failed)
	}
	data := payload{
		title:   title,
		message: message,
		tags:    []string{"loom", "plan", "applied"},
	}
	if failed > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDraftPushed(ctx context.Context, platform, scheduledFor string) error {
	if !n.apply {
		return nil
	}
	platform = strings.TrimSpace(platform)
	data := payload{
		title:   "Loom - Draft Pushed",
		message: fmt.Sprintf("Booked on %s for %s", platform, strings.TrimSpace(scheduledFor)),
		tags:    []string{"loom", "draft", "pushed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDegradedFetch(ctx context.Context, operation string) error {
	if !n.degraded {
		return nil
	}
	operation = strings.TrimSpace(operation)
	if operation == "" {
		operation = "calendar"
	}
	data := payload{
		title:    "Loom - Degraded",
		message:  fmt.Sprintf("Booking service unreachable during %s. Results built from local data only.", operation),
		tags:     []string{"loom", "degraded", "warning"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Loom - Error",
		message:  builder.String(),
		tags:     []string{"loom", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Loom - Test",
		message:  "Notification system test",
		tags:     []string{"loom", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPlanComputed(context.Context, int, int, int) error  { return nil }
func (noopService) NotifyPlanApplied(context.Context, int, int, int) error   { return nil }
func (noopService) NotifyDraftPushed(context.Context, string, string) error  { return nil }
func (noopService) NotifyDegradedFetch(context.Context, string) error        { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
