package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dailyquest/internal/engine"
	"dailyquest/internal/ui"
)

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "List rewards earned by leveling up",
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

			rewards, err := a.svc.Inventory(ctx, a.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconGift, "Rewards"))
			if len(rewards) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing yet. Level up to scratch a card."))
				return nil
			}
			now := time.Now()
			for i, rw := range rewards {
				fmt.Fprintf(out, "%2d. %s %s  %s %s\n",
					i+1, rw.Label, ui.Muted.Render(rw.ValidWindow),
					ui.RewardStatus(rw.Redeemed, now.After(rw.ExpiresAt)),
					ui.Muted.Render("#"+shortID(rw.ID)))
			}
			return nil
		},
	}

	return cmd
}

func newRedeemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redeem <reward>",
		Short: "Redeem a reward before it expires",
		Args:  exactlyOne("reward"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rw, err := a.resolveReward(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.RedeemReward(ctx, a.userID, rw.ID)
			if err != nil {
				return err
			}
			if res.Outcome == engine.OutcomeNoOp {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s was already redeemed\n", ui.Muted.Render(ui.IconInfo), res.Reward.Label)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s. Enjoy!\n", ui.Gold.Render(ui.IconTrophy+" Redeemed"), res.Reward.Label)
			return nil
		},
	}

	return cmd
}
