package api

import (
	"context"
	"fmt"
	"log/slog"

	"loom/internal/booking"
	"loom/internal/logging"
	"loom/internal/services"
)

// PushDraft books a single draft onto the remote service at its next free
// slot. The draft moves to pushed on success. Platforms without a schedule
// are a validation error since no slot can be chosen for them.
func (s *Service) PushDraft(ctx context.Context, draftID string) (*PushResult, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	candidate, err := s.finder.Next(ctx, draft.Platform, draft.ContentType)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, services.Wrap(services.ErrValidation, "api", "push",
			fmt.Sprintf("no schedule configured for platform %q", draft.Platform), nil)
	}

	spec := booking.PostSpec{
		Platform:     candidate.Platform,
		Account:      draft.Account,
		Content:      draft.Content,
		ContentType:  draft.ContentType,
		ScheduledFor: candidate.ISO(),
	}
	remoteID, err := s.gateway.CreatePost(ctx, spec)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.MarkPushed(ctx, draft.ID, remoteID); err != nil {
		s.logger.Warn("draft not marked pushed", slog.String("draft_id", draft.ID), logging.Error(err))
	}

	s.logger.Info("draft pushed",
		slog.String("draft_id", draft.ID),
		slog.String(logging.FieldPlatform, candidate.Platform),
		slog.String(logging.FieldPostID, remoteID),
		slog.Time("at", candidate.At))
	if s.notifier != nil {
		_ = s.notifier.NotifyDraftPushed(ctx, candidate.Platform, candidate.ISO())
	}
	return &PushResult{
		PostID:       remoteID,
		DraftID:      draft.ID,
		Platform:     candidate.Platform,
		Slot:         candidate.Slot,
		ScheduledFor: candidate.ISO(),
	}, nil
}
