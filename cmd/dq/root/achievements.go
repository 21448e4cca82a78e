package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show earned and pending achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := a.svc.Achievements(ctx, a.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			earned := 0
			for _, ach := range list {
				if ach.Earned {
					earned++
				}
			}
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Achievements (%d/%d)", earned, len(list))))
			for _, ach := range list {
				if ach.Earned {
					fmt.Fprintf(out, "%s %s %s\n", ach.Icon, ui.Good.Render(ach.Name), ui.Muted.Render(ach.Description))
					continue
				}
				fmt.Fprintf(out, "%s %s %s\n", ui.IconLock, ui.Muted.Render(ach.Name), ui.Muted.Render(ach.Description))
			}
			return nil
		},
	}

	return cmd
}
