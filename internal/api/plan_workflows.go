package api

import (
	"context"

	"loom/internal/classify"
	"loom/internal/realign"
)

// ComputePlan runs the realignment planner for the given priorities. The
// returned plan is a proposal; Apply executes it.
func (s *Service) ComputePlan(ctx context.Context, priorities []realign.Priority, classifier *classify.Map) (*realign.Plan, error) {
	plan, err := s.planner.Build(ctx, priorities, classifier)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if plan.Degraded {
			_ = s.notifier.NotifyDegradedFetch(ctx, "realign plan")
		}
		_ = s.notifier.NotifyPlanComputed(ctx, len(plan.Posts), len(plan.ToCancel), plan.Skipped)
	}
	return plan, nil
}
