package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/ui"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List today's tasks (pinned first)",
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

			tasks, err := a.svc.ListTasks(ctx, a.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			today := a.svc.Today()
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests for "+today))
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No tasks yet. Try `dq add \"Workout\"` or `dq blueprints`."))
				return nil
			}
			for i, t := range tasks {
				pin := "  "
				if t.Pinned {
					pin = ui.IconPin
				}
				fmt.Fprintf(out, "%2d. %s %s %s  %s %s\n",
					i+1, ui.TaskMark(t.IsCompleted(today)), pin, t.Title,
					ui.Streak(t.Streak), ui.Muted.Render("#"+shortID(t.ID)))
			}
			return nil
		},
	}

	return cmd
}
