package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/daemon"
)

func init() {
	rootCmd.AddCommand(shopCmd)
	shopCmd.AddCommand(shopItemsCmd)
	shopCmd.AddCommand(shopBuyCmd)
	shopCmd.AddCommand(shopOwnedCmd)
}

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Browse and buy from the points shop",
}

var shopItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List the shop catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOST\tTYPE")
		for _, item := range d.Shop.Items() {
			fmt.Fprintf(w, "%s\t%s %s\t%d\t%s\n", item.ID, item.Icon, item.Name, item.Cost, item.Type)
		}
		return w.Flush()
	},
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <user> <item>",
	Short: "Purchase a shop item with points",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		purchase, err := d.Shop.Purchase(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Purchased %s for %d points.\n", purchase.ItemName, purchase.Cost)
		if r := purchase.MysteryReward; r != nil {
			switch {
			case r.Points > 0:
				fmt.Printf("Mystery box: %d points!\n", r.Points)
			default:
				fmt.Printf("Mystery box: %s!\n", r.ItemID)
			}
		}
		return nil
	},
}

var shopOwnedCmd = &cobra.Command{
	Use:   "owned <user>",
	Short: "List a user's purchases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		purchases, err := d.Shop.Owned(args[0])
		if err != nil {
			return err
		}
		if len(purchases) == 0 {
			fmt.Println("No purchases yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tCOST\tTYPE\tPURCHASED")
		for _, p := range purchases {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", p.ItemName, p.Cost, p.Type, p.PurchasedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}
