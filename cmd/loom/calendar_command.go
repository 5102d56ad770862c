package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/api"
)

func newCalendarCommand(ctx *commandContext) *cobra.Command {
	var fromFlag, toFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the merged posting calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDateFlag(fromFlag)
			if err != nil {
				return err
			}
			to, err := parseDateFlag(toFlag)
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.Service) error {
				view, err := svc.Calendar(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				printCalendar(cmd, view)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Window start (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Window end (YYYY-MM-DD or RFC3339)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func printCalendar(cmd *cobra.Command, view *api.CalendarView) {
	out := cmd.OutOrStdout()
	if view.Degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: booking service unreachable; showing local entries only")
	}
	if len(view.Entries) == 0 {
		fmt.Fprintln(out, "No scheduled posts")
		return
	}

	rows := make([][]string, 0, len(view.Entries))
	for _, entry := range view.Entries {
		rows = append(rows, []string{
			displayPlatform(entry.Platform),
			entry.At,
			entry.Origin,
			entry.ID,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Platform", "Scheduled", "Origin", "ID"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
}
