package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dailyquest/internal/ui"
)

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <task> <new title>",
		Short: "Rename a task (its streak is kept)",
		Args:  cobra.MinimumNArgs(2),
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
			before := task.Title
			task, err = a.svc.RenameTask(ctx, a.userID, task.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s\n", ui.H2.Render("✎ Renamed"), ui.Muted.Render(before), task.Title)
			return nil
		},
	}

	return cmd
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete a task.

If the task was completed today, the completion is undone first so its XP
and coins are taken back.`,
		Args: exactlyOne("task"),
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
			res, err := a.svc.DeleteTask(ctx, a.userID, task.ID)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s %s", ui.Warn.Render("🗑 Deleted"), task.Title)
			if res.Reversed {
				line += " " + ui.Muted.Render(fmt.Sprintf("(today's completion undone, now %d XP / %d coins)", res.Stats.XP, res.Stats.Coins))
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	return cmd
}
