package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/api"
)

func newNextSlotCommand(ctx *commandContext) *cobra.Command {
	var contentType string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "next-slot <platform>",
		Short: "Find the next free posting slot for a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				view, err := svc.NextSlot(cmd.Context(), args[0], contentType)
				if err != nil {
					return err
				}
				if view == nil {
					return fmt.Errorf("no schedule configured for platform %q", args[0])
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s slot %q\n", displayPlatform(view.Platform), view.At, view.Slot)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&contentType, "type", "t", "", "Content type the slot must accept")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}
