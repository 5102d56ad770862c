package api

import (
	"context"
	"fmt"
	"log/slog"

	"loom/internal/logging"
	"loom/internal/realign"
	"loom/internal/services"
)

// Apply executes a realignment plan against the booking service:
// cancellations first, then creates, one attempt each. Per-operation
// failures are collected in the result rather than aborting the run; the
// caller re-plans from a fresh fetch after a partial apply instead of
// retrying the stale plan. A host-wide lock serializes writers.
func (s *Service) Apply(ctx context.Context, plan *realign.Plan) (*ApplyResult, error) {
	if plan == nil || plan.Empty() {
		return &ApplyResult{}, nil
	}

	unlock, err := s.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &ApplyResult{}
	for _, id := range plan.ToCancel {
		if err := s.gateway.CancelPost(ctx, id); err != nil {
			result.Failed = append(result.Failed, ApplyFailure{
				Operation: "cancel",
				Target:    id,
				Error:     err.Error(),
			})
			s.logger.Warn("cancel failed", slog.String(logging.FieldPostID, id), logging.Error(err))
			continue
		}
		result.Cancelled = append(result.Cancelled, id)
	}

	for _, post := range plan.Posts {
		remoteID, err := s.gateway.CreatePost(ctx, post.Spec)
		if err != nil {
			result.Failed = append(result.Failed, ApplyFailure{
				Operation: "create",
				Target:    post.DraftID,
				Error:     err.Error(),
			})
			s.logger.Warn("create failed",
				slog.String(logging.FieldPlatform, post.Spec.Platform),
				slog.String("draft_id", post.DraftID),
				logging.Error(err))
			continue
		}
		result.Created = append(result.Created, remoteID)
		if post.DraftID != "" && s.drafts != nil {
			if err := s.drafts.MarkPushed(ctx, post.DraftID, remoteID); err != nil {
				s.logger.Warn("draft not marked pushed",
					slog.String("draft_id", post.DraftID),
					logging.Error(err))
			}
		}
	}

	s.logger.Info("plan applied",
		slog.Int("created", len(result.Created)),
		slog.Int("cancelled", len(result.Cancelled)),
		slog.Int("failed", len(result.Failed)))
	if s.notifier != nil {
		_ = s.notifier.NotifyPlanApplied(ctx, len(result.Created), len(result.Cancelled), len(result.Failed))
	}
	return result, nil
}

// acquireLock takes the host-wide apply lock without blocking. A held lock
// means another loom process is writing; the caller retries later.
func (s *Service) acquireLock() (func(), error) {
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire apply lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrTransient, "api", "apply",
			fmt.Sprintf("another apply is in progress (lock %s)", s.lockPath), nil)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release apply lock", logging.Error(err))
		}
	}, nil
}
