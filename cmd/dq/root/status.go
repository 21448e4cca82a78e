package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/engine"
	"dailyquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP, coins and today's progress",
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

			st, err := a.svc.Status(ctx, a.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			toNext := st.LevelSpan - st.LevelInto
			if toNext < 0 {
				toNext = 0
			}

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, st.Profile.Username))
			fmt.Fprintln(out, ui.LabelValue("Level", st.Stats.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d %s %s", st.Stats.XP,
				ui.ProgressBar(st.LevelInto, st.LevelSpan, 20), ui.Muted.Render(fmt.Sprintf("(%d to go)", toNext)))))
			fmt.Fprintln(out, ui.LabelValue("Coins", ui.Gold.Render(fmt.Sprintf("%s %d", ui.IconCoin, st.Stats.Coins))))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📅 "+st.Today))
			fmt.Fprintf(out, "- %s %d/%d\n", ui.Key.Render("Done today:"), st.CompletedToday, st.TotalTasks)
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Best streak:"), ui.Streak(st.BestStreak))
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("Open rewards:"), st.OpenRewards)
			if st.Session.Mood != "" {
				fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Mood:"), st.Session.Mood)
			}
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Board:"), lockedStr(st.Session.Locked))

			rules := a.svc.Rules()
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("+%d XP and %d coins per completion%s", rules.XPPerCompletion, rules.CoinsBase, bonusStr(rules))))
			return nil
		},
	}

	return cmd
}

func lockedStr(locked bool) string {
	if locked {
		return ui.Warn.Render(ui.IconLock + " locked")
	}
	return ui.Good.Render("unlocked")
}

func bonusStr(r engine.Rules) string {
	if r.StreakBonusPerDay <= 0 {
		return ""
	}
	return fmt.Sprintf(" (+%d per streak day)", r.StreakBonusPerDay)
}
