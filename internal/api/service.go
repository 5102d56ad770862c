package api

import (
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"loom/internal/booking"
	"loom/internal/calendar"
	"loom/internal/config"
	"loom/internal/drafts"
	"loom/internal/logging"
	"loom/internal/notifications"
	"loom/internal/realign"
	"loom/internal/schedule"
	"loom/internal/slotfinder"
)

// Service wires the engine components into caller-facing workflows. It owns
// no background work; every method runs to completion in the caller's
// context.
type Service struct {
	cfg      *config.Config
	gateway  booking.Gateway
	schedule *schedule.Store
	builder  *calendar.Builder
	finder   *slotfinder.Finder
	planner  *realign.Planner
	drafts   *drafts.Store
	notifier notifications.Service
	logger   *slog.Logger

	lock     *flock.Flock
	lockPath string
}

// New constructs a fully wired service from configuration: HTTP gateway,
// schedule store, draft database, and ntfy notifier.
func New(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("api service requires config")
	}
	gateway, err := booking.New(cfg.Booking.BaseURL, cfg.Booking.APIToken,
		time.Duration(cfg.Booking.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	store, err := drafts.Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewWith(cfg, gateway, store, notifications.NewService(cfg), logger), nil
}

// NewWith constructs a service around explicit dependencies. Tests use this
// form to substitute the gateway and notifier.
func NewWith(cfg *config.Config, gateway booking.Gateway, store *drafts.Store, notifier notifications.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	scheduleStore := schedule.NewStore(cfg.Paths.SchedulePath)
	builder := calendar.NewBuilder(gateway, store, scheduleStore, logger)
	finder := slotfinder.New(scheduleStore, builder, cfg.Planner.LookaheadDays, logger)
	planner := realign.New(gateway, scheduleStore, builder, finder, store, cfg.Planner.PopulationScope, logger)

	lockPath := filepath.Join(cfg.Paths.DataDir, "loom.lock")
	return &Service{
		cfg:      cfg,
		gateway:  gateway,
		schedule: scheduleStore,
		builder:  builder,
		finder:   finder,
		planner:  planner,
		drafts:   store,
		notifier: notifier,
		logger:   logging.WithComponent(logger, "api"),
		lock:     flock.New(lockPath),
		lockPath: lockPath,
	}
}

// Drafts exposes the draft store for CLI draft management commands.
func (s *Service) Drafts() *drafts.Store {
	return s.drafts
}

// Schedule exposes the slot plan store.
func (s *Service) Schedule() *schedule.Store {
	return s.schedule
}

// Notifier exposes the notification service.
func (s *Service) Notifier() notifications.Service {
	return s.notifier
}

// Close releases the draft database.
func (s *Service) Close() error {
	if s == nil || s.drafts == nil {
		return nil
	}
	return s.drafts.Close()
}
