package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"loom/internal/textutil"
)

const draftColumns = "id, platform, account, content, content_type, status, planned_for, remote_id, created_at, updated_at"

// Add stores a new draft and returns it with id and timestamps populated.
func (s *Store) Add(ctx context.Context, draft Draft) (*Draft, error) {
	draft.Platform = strings.ToLower(strings.TrimSpace(draft.Platform))
	draft.Content = strings.TrimSpace(draft.Content)
	draft.ContentType = strings.ToLower(strings.TrimSpace(draft.ContentType))
	if draft.Platform == "" {
		return nil, errors.New("draft platform required")
	}
	if draft.Content == "" {
		return nil, errors.New("draft content required")
	}
	if draft.Status == "" {
		draft.Status = StatusDraft
	}
	if !draft.Status.Valid() {
		return nil, fmt.Errorf("invalid draft status %q", draft.Status)
	}

	draft.ID = uuid.NewString()
	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	_, err := s.execWithRetry(ctx,
		`INSERT INTO drafts (`+draftColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, draft.Platform, draft.Account, draft.Content, draft.ContentType,
		string(draft.Status), encodeTime(draft.PlannedFor), draft.RemoteID,
		draft.CreatedAt.Format(time.RFC3339), draft.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}
	return &draft, nil
}

// Get returns the draft with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+draftColumns+` FROM drafts WHERE id = ?`, id)
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

// List returns drafts, optionally filtered by status, ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, *draft)
	}
	return out, rows.Err()
}

// Planned returns drafts with a local target time but no remote booking yet.
// These are the local-only commitments the calendar builder merges.
func (s *Store) Planned(ctx context.Context) ([]Draft, error) {
	return s.List(ctx, StatusPlanned)
}

// Matching returns unscheduled drafts whose content matches any of the
// keywords, optionally restricted to the given platforms, in creation order.
// This is the content pool the planner fills priority shortfalls from.
func (s *Store) Matching(ctx context.Context, keywords []string, platforms []string) ([]Draft, error) {
	candidates, err := s.List(ctx, StatusDraft)
	if err != nil {
		return nil, err
	}

	platformSet := make(map[string]struct{}, len(platforms))
	for _, platform := range platforms {
		platform = strings.ToLower(strings.TrimSpace(platform))
		if platform != "" {
			platformSet[platform] = struct{}{}
		}
	}

	var out []Draft
	for _, draft := range candidates {
		if len(platformSet) > 0 {
			if _, ok := platformSet[draft.Platform]; !ok {
				continue
			}
		}
		if len(keywords) > 0 && !textutil.ContainsKeyword(draft.Content, keywords) {
			continue
		}
		out = append(out, draft)
	}
	return out, nil
}

// Plan records a local target time for the draft and moves it to planned.
func (s *Store) Plan(ctx context.Context, id string, at time.Time) error {
	return s.transition(ctx, id,
		`UPDATE drafts SET status = ?, planned_for = ?, updated_at = ? WHERE id = ? AND status IN (?, ?)`,
		string(StatusPlanned), at.Format(time.RFC3339), nowRFC3339(), id, string(StatusDraft), string(StatusPlanned))
}

// MarkPushed records the remote id after a successful create and moves the
// draft to pushed. Only drafts and planned drafts can be pushed.
func (s *Store) MarkPushed(ctx context.Context, id, remoteID string) error {
	return s.transition(ctx, id,
		`UPDATE drafts SET status = ?, remote_id = ?, updated_at = ? WHERE id = ? AND status IN (?, ?)`,
		string(StatusPushed), remoteID, nowRFC3339(), id, string(StatusDraft), string(StatusPlanned))
}

// Cancel withdraws a draft that was never pushed.
func (s *Store) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id,
		`UPDATE drafts SET status = ?, planned_for = NULL, updated_at = ? WHERE id = ? AND status IN (?, ?)`,
		string(StatusCancelled), nowRFC3339(), id, string(StatusDraft), string(StatusPlanned))
}

// Remove deletes a draft outright.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove draft: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) transition(ctx context.Context, id, query string, args ...any) error {
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if affected == 0 {
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("draft %s: transition not allowed from current status", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (*Draft, error) {
	var (
		draft      Draft
		status     string
		plannedFor sql.NullString
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&draft.ID, &draft.Platform, &draft.Account, &draft.Content,
		&draft.ContentType, &status, &plannedFor, &draft.RemoteID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	draft.Status = Status(status)
	if plannedFor.Valid && plannedFor.String != "" {
		at, err := time.Parse(time.RFC3339, plannedFor.String)
		if err != nil {
			return nil, fmt.Errorf("parse planned_for: %w", err)
		}
		draft.PlannedFor = &at
	}
	var err error
	if draft.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if draft.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &draft, nil
}

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
