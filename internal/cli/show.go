package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/daemon"
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(historyCmd)
}

var balanceCmd = &cobra.Command{
	Use:   "balance <user>",
	Short: "Show a user's points, level, and points to next level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		summary, err := d.Engine.Summary(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Points: %d\nLevel: %d (%d to next level)\nBadges: %d/%d\n",
			summary.TotalPoints, summary.Level, summary.PointsToNext,
			summary.BadgesEarned, summary.TotalBadges)
		return nil
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges <user>",
	Short: "List a user's earned badges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		badges, err := d.Engine.Badges(args[0])
		if err != nil {
			return err
		}
		if len(badges) == 0 {
			fmt.Println("No badges yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BADGE\tDESCRIPTION\tEARNED")
		for _, b := range badges {
			fmt.Fprintf(w, "%s\t%s\t%s\n", b.BadgeID, b.Description, b.EarnedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <user>",
	Short: "Show progress toward the next milestones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		progress, err := d.Engine.AchievementProgress(args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LADDER\tCURRENT\tTARGET\tPROGRESS")
		for _, name := range []string{"books", "tasks", "points"} {
			p, ok := progress[name]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\n", name, p.Current, p.Target, p.Percentage)
		}
		return w.Flush()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <user>",
	Short: "Show a user's recent point grants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		grants, err := d.Engine.History(args[0], 25)
		if err != nil {
			return err
		}
		if len(grants) == 0 {
			fmt.Println("No grants yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tPOINTS\tSOURCE\tDESCRIPTION")
		for _, g := range grants {
			fmt.Fprintf(w, "%s\t%+d\t%s\t%s\n",
				g.Date.Format("2006-01-02 15:04"), g.Points, g.Source, g.Description)
		}
		return w.Flush()
	},
}
