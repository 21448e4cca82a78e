package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/engine"
	"dailyquest/internal/ui"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top users by XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := a.svc.Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Leaderboard"))
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, e := range entries {
				name := e.Username
				if e.UserID == a.userID {
					name = ui.Gold.Render(name + " (you)")
				}
				fmt.Fprintf(out, "%2d. %s  L%d  %d XP  %s %d\n", e.Rank, name, e.Level, e.XP, ui.IconCoin, e.Coins)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", engine.DefaultLeaderboardSize, "Number of entries")
	return cmd
}
