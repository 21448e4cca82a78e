package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/storage"
	"dailyquest/internal/ui"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start today's session (runs the daily reset once per day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.svc.RegisterProfile(ctx, storage.Profile{UserID: a.userID, Email: a.env.Email}); err != nil {
				return err
			}
			res, err := a.svc.StartSession(ctx, a.userID)
			if err != nil {
				return err
			}
			if !res.Reset {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Session already started today. %s\n", ui.Muted.Render(ui.IconInfo), res.Session.Mood)
				return nil
			}
			printSession(cmd.OutOrStdout(), res)
			return nil
		},
	}

	return cmd
}

func newUnlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Unlock today's board so tasks can be completed",
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

			if _, err := a.svc.Unlock(ctx, a.userID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconBolt+" Unlocked. Go get it."))
			return nil
		},
	}

	return cmd
}
