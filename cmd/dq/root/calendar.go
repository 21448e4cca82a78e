package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailyquest/internal/engine"
	"dailyquest/internal/storage"
	"dailyquest/internal/ui"
)

func newCalendarCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show completions per day (default: the last 7 days)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var days []storage.DayCount
			if from == "" && to == "" {
				days, err = a.svc.WeekStrip(ctx, a.userID)
			} else {
				if to == "" {
					to = a.svc.Today()
				}
				days, err = a.svc.Calendar(ctx, a.userID, from, to)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading("📅", "Calendar"))
			total := 0
			for _, d := range days {
				t, _ := engine.ParseDay(d.Day)
				fmt.Fprintf(out, "%s %s %s %d\n", ui.Muted.Render(t.Format("Mon")), d.Day, ui.Heat(d.Count), d.Count)
				total += d.Count
			}
			fmt.Fprintln(out, ui.LabelValue("Total", total))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD, default today)")
	return cmd
}
