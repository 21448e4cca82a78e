package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dailyquest/internal/engine"
	"dailyquest/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <task>",
		Short: "Complete a task for today",
		Long: `Complete a task for today.

<task> is the position shown by "dq list", a task id or a unique id prefix.
Completing a task grows its streak and earns XP and coins. Completing it
again on the same day changes nothing.`,
		Args: exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, args[0], false)
		},
	}

	return cmd
}

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <task>",
		Short: "Undo today's completion of a task",
		Long: `Undo today's completion of a task.

This will:
- Deduct the XP and coins the completion earned (never below zero)
- Shorten the streak by one
- Remove today's completion marker

Only a completion made today can be undone.`,
		Args: exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, args[0], true)
		},
	}

	return cmd
}

func runToggle(cmd *cobra.Command, ref string, undo bool) error {
	ctx := context.Background()
	a, cleanup, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := a.begin(ctx, cmd); err != nil {
		return err
	}

	task, err := a.resolveTask(ctx, ref)
	if err != nil {
		return err
	}
	var res *engine.ToggleResult
	if undo {
		res, err = a.svc.UndoTask(ctx, a.userID, task.ID)
	} else {
		res, err = a.svc.CompleteTask(ctx, a.userID, task.ID)
	}
	if err != nil {
		return err
	}
	printToggle(cmd.OutOrStdout(), res)
	return nil
}

func printToggle(w io.Writer, res *engine.ToggleResult) {
	if res.Outcome == engine.OutcomeNoOp {
		state := "not completed today"
		if res.Completed {
			state = "already completed today"
		}
		fmt.Fprintf(w, "%s %s is %s\n", ui.Muted.Render(ui.IconInfo), res.Task.Title, state)
		return
	}

	if res.Completed {
		fmt.Fprintf(w, "%s %s  %s XP  %s coins  %s\n",
			ui.Good.Render(ui.IconDone+" Completed"), res.Task.Title,
			ui.Signed(res.XPDelta), ui.Signed(res.CoinsDelta), ui.Streak(res.Task.Streak))
	} else {
		fmt.Fprintf(w, "%s %s  %s XP  %s coins\n",
			ui.Warn.Render("↩ Undone"), res.Task.Title,
			ui.Signed(res.XPDelta), ui.Signed(res.CoinsDelta))
	}
	if res.LevelUp {
		fmt.Fprintf(w, "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
	} else if res.LevelAfter < res.LevelBefore {
		fmt.Fprintln(w, ui.Warn.Render(ui.IconWarn+fmt.Sprintf(" Level decreased to %d", res.LevelAfter)))
	}
	for _, rw := range res.Rewards {
		fmt.Fprintf(w, "%s %s %s\n", ui.Gold.Render(ui.IconGift+" Reward:"), rw.Label, ui.Muted.Render(rw.ValidWindow))
	}
}
