package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSubsCmd() *cobra.Command {
	subsCmd := &cobra.Command{
		Use:   "subs",
		Short: "Inspect and reconcile EventSub subscriptions",
	}

	subsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List remote EventSub subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			resp, err := a.twitchClient.GetEventSubscriptions(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "GetEventSubscriptions")
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Type", "Status", "Broadcaster ID", "Created"})

			for _, sub := range resp.Data {
				table.Append([]string{
					sub.ID,
					sub.Type,
					sub.Status,
					sub.Condition.BroadcasterUserID,
					sub.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}

			table.Render()
			fmt.Printf("total: %d, cost: %d/%d\n", resp.Total, resp.TotalCost, resp.MaxTotalCost)

			return nil
		},
	})

	subsCmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Converge remote subscriptions with the tracked user list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if err := a.eventsub.Reconcile(cmd.Context()); err != nil {
				return errors.Wrap(err, "Reconcile")
			}

			fmt.Println("Reconcile complete")

			return nil
		},
	})

	return subsCmd
}
