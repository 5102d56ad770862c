package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"loom/internal/api"
	"loom/internal/schedule"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect the slot plan",
	}

	scheduleCmd.AddCommand(newScheduleShowCommand(ctx))
	scheduleCmd.AddCommand(newScheduleCheckCommand(ctx))
	return scheduleCmd
}

func newScheduleShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show configured platforms and slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				plan, err := svc.Schedule().Load()
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, scheduleDocument(plan))
				}
				printSchedule(cmd, plan)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newScheduleCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Re-read and validate the slot plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				svc.Schedule().Clear()
				plan, err := svc.Schedule().Load()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				platforms := plan.Platforms()
				if len(platforms) == 0 {
					fmt.Fprintln(out, "Slot plan is valid but defines no platforms")
					return nil
				}
				fmt.Fprintf(out, "Slot plan is valid: %d platforms (%s)\n",
					len(platforms), strings.Join(platforms, ", "))
				return nil
			})
		},
	}
}

type slotSummary struct {
	Name         string   `json:"name"`
	Days         []string `json:"days"`
	At           string   `json:"at"`
	ContentTypes []string `json:"contentTypes,omitempty"`
}

type platformSummary struct {
	Platform string        `json:"platform"`
	Timezone string        `json:"timezone"`
	Slots    []slotSummary `json:"slots"`
}

func scheduleDocument(plan *schedule.Plan) []platformSummary {
	out := make([]platformSummary, 0)
	for _, key := range plan.Platforms() {
		platform := plan.Platform(key)
		if platform == nil {
			continue
		}
		summary := platformSummary{Platform: key, Timezone: platform.Timezone}
		for _, slot := range platform.Slots {
			summary.Slots = append(summary.Slots, slotSummary{
				Name:         slot.Name,
				Days:         dayNames(slot.Days),
				At:           fmt.Sprintf("%02d:%02d", slot.Hour, slot.Minute),
				ContentTypes: slot.ContentTypes,
			})
		}
		out = append(out, summary)
	}
	return out
}

func printSchedule(cmd *cobra.Command, plan *schedule.Plan) {
	out := cmd.OutOrStdout()
	platforms := plan.Platforms()
	if len(platforms) == 0 {
		fmt.Fprintln(out, "No platforms configured")
		return
	}

	var rows [][]string
	for _, key := range platforms {
		platform := plan.Platform(key)
		if platform == nil {
			continue
		}
		for _, slot := range platform.Slots {
			rows = append(rows, []string{
				displayPlatform(key),
				platform.Timezone,
				slot.Name,
				strings.Join(dayNames(slot.Days), ","),
				fmt.Sprintf("%02d:%02d", slot.Hour, slot.Minute),
				strings.Join(slot.ContentTypes, ","),
			})
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Platform", "Timezone", "Slot", "Days", "At", "Types"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
}

func dayNames(days []time.Weekday) []string {
	out := make([]string, 0, len(days))
	for _, day := range days {
		out = append(out, strings.ToLower(day.String()[:3]))
	}
	return out
}
