package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/api"
	"loom/internal/classify"
	"loom/internal/realign"
)

func newRealignCommand(ctx *commandContext) *cobra.Command {
	realignCmd := &cobra.Command{
		Use:   "realign",
		Short: "Plan and apply content realignment",
	}

	realignCmd.AddCommand(newRealignPlanCommand(ctx))
	realignCmd.AddCommand(newRealignApplyCommand(ctx))
	return realignCmd
}

func loadPlanInputs(prioritiesPath, classifyPath string) ([]realign.Priority, *classify.Map, error) {
	priorities, err := realign.LoadPriorities(prioritiesPath)
	if err != nil {
		return nil, nil, err
	}
	classifier := classify.New()
	if strings.TrimSpace(classifyPath) != "" {
		classifier, err = classify.LoadFile(classifyPath)
		if err != nil {
			return nil, nil, err
		}
	}
	return priorities, classifier, nil
}

func newRealignPlanCommand(ctx *commandContext) *cobra.Command {
	var prioritiesPath, classifyPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a realignment plan without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			priorities, classifier, err := loadPlanInputs(prioritiesPath, classifyPath)
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				plan, err := svc.ComputePlan(cmd.Context(), priorities, classifier)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.FromPlan(plan))
				}
				printPlan(cmd, plan)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&prioritiesPath, "priorities", "p", "", "Priorities file (TOML)")
	cmd.Flags().StringVar(&classifyPath, "classify", "", "Classification file (TOML)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	_ = cmd.MarkFlagRequired("priorities")
	return cmd
}

func newRealignApplyCommand(ctx *commandContext) *cobra.Command {
	var prioritiesPath, classifyPath string
	var jsonOutput, yes bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Compute a realignment plan and execute it",
		RunE: func(cmd *cobra.Command, args []string) error {
			priorities, classifier, err := loadPlanInputs(prioritiesPath, classifyPath)
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				plan, err := svc.ComputePlan(cmd.Context(), priorities, classifier)
				if err != nil {
					return err
				}
				if plan.Empty() {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to apply")
					return nil
				}
				if !jsonOutput {
					printPlan(cmd, plan)
				}
				if !yes {
					if !confirm(cmd, fmt.Sprintf("Apply %d creates and %d cancellations?", len(plan.Posts), len(plan.ToCancel))) {
						fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
						return nil
					}
				}

				result, err := svc.Apply(cmd.Context(), plan)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				printApplyResult(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&prioritiesPath, "priorities", "p", "", "Priorities file (TOML)")
	cmd.Flags().StringVar(&classifyPath, "classify", "", "Classification file (TOML)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	var answer string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printPlan(cmd *cobra.Command, plan *realign.Plan) {
	out := cmd.OutOrStdout()
	if plan.Degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: booking service unreachable; plan computed from local data only")
	}

	if len(plan.Posts) > 0 {
		rows := make([][]string, 0, len(plan.Posts))
		for _, post := range plan.Posts {
			rows = append(rows, []string{
				displayPlatform(post.Spec.Platform),
				post.Spec.ScheduledFor,
				post.Slot,
				truncateContent(post.Spec.Content, 48),
			})
		}
		fmt.Fprintln(out, "New posts:")
		fmt.Fprintln(out, renderTable(
			[]string{"Platform", "Scheduled", "Slot", "Content"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}
	if len(plan.ToCancel) > 0 {
		fmt.Fprintf(out, "Cancellations: %s\n", strings.Join(plan.ToCancel, ", "))
	}
	fmt.Fprintf(out, "Fetched %d posts, %d unmatched, %d priorities skipped\n",
		plan.TotalFetched, plan.Unmatched, plan.Skipped)
}

func printApplyResult(cmd *cobra.Command, result *api.ApplyResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %d posts, cancelled %d\n", len(result.Created), len(result.Cancelled))
	if result.Partial() {
		for _, failure := range result.Failed {
			fmt.Fprintf(out, "Failed %s of %s: %s\n", failure.Operation, failure.Target, failure.Error)
		}
		fmt.Fprintln(out, "Plan applied partially; re-run `loom realign plan` before retrying")
	}
}
