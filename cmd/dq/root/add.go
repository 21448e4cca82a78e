package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dailyquest/internal/ui"
)

func newAddCmd() *cobra.Command {
	var pin bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a daily task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := a.begin(ctx, cmd); err != nil {
				return err
			}

			task, err := a.svc.CreateTask(ctx, a.userID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if pin {
				if task, err = a.svc.PinTask(ctx, a.userID, task.ID, true); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), task.Title, ui.Muted.Render("#"+shortID(task.ID)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pin, "pin", "p", false, "Pin the task to the top of the list")
	return cmd
}
