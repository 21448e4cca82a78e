package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/engine"
	"dailyquest/internal/ui"
)

func newBlueprintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blueprints",
		Short: "List ready-made tasks and whether your level unlocks them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := a.svc.Blueprints(ctx, a.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Blueprints"))
			for _, bp := range list {
				line := fmt.Sprintf("- %s %s %s %s", bp.Icon, bp.Title, ui.Muted.Render(bp.Code), ui.BlueprintStatus(string(bp.Status)))
				if bp.Status == engine.BlueprintLocked {
					line += " " + ui.Muted.Render(fmt.Sprintf("(level %d)", bp.MinLevel))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	return cmd
}

func newAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <blueprint>",
		Short: "Accept a blueprint and add its task",
		Args:  exactlyOne("blueprint"),
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

			task, err := a.svc.AcceptBlueprint(ctx, a.userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s %s\n",
				ui.Good.Render(ui.IconScroll+" Accepted"), ui.Muted.Render(args[0]),
				task.Title, ui.Muted.Render("#"+shortID(task.ID)))
			return nil
		},
	}

	return cmd
}
