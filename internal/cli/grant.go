package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/reward"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/daemon"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/domain"
)

func init() {
	grantCmd.Flags().StringVar(&grantSource, "source", "admin", "Grant source (nook, hook, admin, system, quotes)")
	grantCmd.Flags().StringVar(&grantCategory, "category", "general", "Grant category")
	grantCmd.Flags().StringVar(&grantDescription, "description", "", "Grant description")
	grantCmd.Flags().StringVar(&grantGoalType, "goal", "", "Goal type (adds the fixed goal bonus)")
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(registerCmd)
}

var (
	grantSource      string
	grantCategory    string
	grantDescription string
	grantGoalType    string
)

var grantCmd = &cobra.Command{
	Use:   "grant <user> <points>",
	Short: "Record a point grant for a user",
	Args:  cobra.ExactArgs(2),
	RunE:  runGrant,
}

func runGrant(cmd *cobra.Command, args []string) error {
	var points int64
	if _, err := fmt.Sscanf(args[1], "%d", &points); err != nil {
		return fmt.Errorf("invalid points %q", args[1])
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	grant, err := d.Engine.Grant(reward.GrantRequest{
		UserID:      args[0],
		Points:      points,
		Source:      domain.GrantSource(grantSource),
		Description: grantDescription,
		Category:    grantCategory,
		GoalType:    domain.GoalType(grantGoalType),
	})
	if err != nil {
		return err
	}

	balance, err := d.Engine.Balance(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Granted %+d points to %s (balance: %d)\n", grant.Points, args[0], balance)
	return nil
}

var registerCmd = &cobra.Command{
	Use:   "register <user>",
	Short: "Register a user and pay the welcome grant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		created, err := d.Engine.Register(args[0])
		if err != nil {
			return err
		}
		if !created {
			fmt.Printf("User %s already registered.\n", args[0])
			return nil
		}
		fmt.Printf("Registered %s.\n", args[0])
		return nil
	},
}
