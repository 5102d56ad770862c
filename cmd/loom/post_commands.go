package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"loom/internal/api"
	"loom/internal/drafts"
)

func newPostCommand(ctx *commandContext) *cobra.Command {
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Manage local post drafts",
	}

	postCmd.AddCommand(newPostAddCommand(ctx))
	postCmd.AddCommand(newPostListCommand(ctx))
	postCmd.AddCommand(newPostPlanCommand(ctx))
	postCmd.AddCommand(newPostPushCommand(ctx))
	postCmd.AddCommand(newPostCancelCommand(ctx))
	postCmd.AddCommand(newPostRemoveCommand(ctx))
	return postCmd
}

func newPostAddCommand(ctx *commandContext) *cobra.Command {
	var platform, account, content, contentType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a draft post",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				draft, err := svc.Drafts().Add(cmd.Context(), drafts.Draft{
					Platform:    platform,
					Account:     account,
					Content:     content,
					ContentType: contentType,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Draft %s added for %s\n", draft.ID, displayPlatform(draft.Platform))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Target platform")
	cmd.Flags().StringVarP(&account, "account", "a", "", "Target account")
	cmd.Flags().StringVarP(&content, "message", "m", "", "Post content")
	cmd.Flags().StringVarP(&contentType, "type", "t", "", "Content type")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newPostListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List draft posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				var statuses []drafts.Status
				if statusFilter != "" {
					status := drafts.Status(statusFilter)
					if !status.Valid() {
						return fmt.Errorf("unknown status %q", statusFilter)
					}
					statuses = append(statuses, status)
				}
				items, err := svc.Drafts().List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.FromDrafts(items))
				}
				printDrafts(cmd, items)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Filter by status (draft, planned, pushed, cancelled)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func printDrafts(cmd *cobra.Command, items []drafts.Draft) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No drafts")
		return
	}

	rows := make([][]string, 0, len(items))
	for _, draft := range items {
		planned := ""
		if draft.PlannedFor != nil {
			planned = draft.PlannedFor.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			draft.ID,
			displayPlatform(draft.Platform),
			string(draft.Status),
			planned,
			truncateContent(draft.Content, 40),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Platform", "Status", "Planned", "Content"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

func newPostPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <id> <time>",
		Short: "Record a local target time for a draft",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := time.Parse(time.RFC3339, args[1])
			if err != nil {
				return fmt.Errorf("invalid time %q (use RFC3339)", args[1])
			}
			return ctx.withService(func(svc *api.Service) error {
				if err := svc.Drafts().Plan(cmd.Context(), args[0], at); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Draft %s planned for %s\n", args[0], at.Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newPostPushCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "push <id>",
		Short: "Book a draft at its next free slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				result, err := svc.PushDraft(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booked %s on %s at %s (post %s)\n",
					result.DraftID, displayPlatform(result.Platform), result.ScheduledFor, result.PostID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}

func newPostCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Withdraw a draft that has not been pushed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				if err := svc.Drafts().Cancel(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Draft %s cancelled\n", args[0])
				return nil
			})
		},
	}
}

func newPostRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				if err := svc.Drafts().Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Draft %s removed\n", args[0])
				return nil
			})
		},
	}
}
