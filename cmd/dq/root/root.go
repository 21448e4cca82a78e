package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dailyquest/internal/ui"
)

const Version = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "dq",
	Short:         "Dailyquest: daily habits with XP, coins and streaks",
	Long:          "Dailyquest is a CLI/TUI daily task tracker. Completing a task grows its streak and earns XP and coins; missed days can cost you.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine events to stderr")

	rootCmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newDoCmd(),
		newUndoCmd(),
		newPinCmd(true),
		newPinCmd(false),
		newRenameCmd(),
		newRmCmd(),
		newStatusCmd(),
		newStartCmd(),
		newUnlockCmd(),
		newRewardsCmd(),
		newRedeemCmd(),
		newCalendarCmd(),
		newLeaderboardCmd(),
		newAchievementsCmd(),
		newBlueprintsCmd(),
		newAcceptCmd(),
		newBoardCmd(),
		newServeCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
