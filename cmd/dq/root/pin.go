package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/ui"
)

func newPinCmd(pinned bool) *cobra.Command {
	use, short, verb := "pin <task>", "Pin a task to the top of the list", "Pinned"
	if !pinned {
		use, short, verb = "unpin <task>", "Unpin a task", "Unpinned"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			task, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			task, err = a.svc.PinTask(ctx, a.userID, task.ID, pinned)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.H2.Render(ui.IconPin+" "+verb), task.Title)
			return nil
		},
	}

	return cmd
}
