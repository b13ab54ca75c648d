package commands

import (
	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
)

func newSubscriptionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subscription", "subs"},
		Short:   "Manage subscriptions",
	}
	cmd.AddCommand(newSubscriptionsListCmd(a))
	cmd.AddCommand(newSubscriptionsGetCmd(a))
	cmd.AddCommand(newSubscriptionsCancelCmd(a))
	return cmd
}

func newSubscriptionsListCmd(a *app) *cobra.Command {
	var (
		lf         listFlags
		customerID string
		status     string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params orb.SubscriptionListParams
			lf.apply(&params.PageParams)
			if customerID != "" {
				params.SetCustomerID(customerID)
			}
			if status != "" {
				params.SetStatus(orb.SubscriptionStatus(status))
			}
			page, err := a.client.Subscriptions.List(cmd.Context(), params)
			return printList(a, lf.all, page, err)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&customerID, "customer", "", "Only subscriptions of this customer ID")
	cmd.Flags().StringVar(&status, "status", "", "Only subscriptions in this status (active|ended|upcoming)")
	return cmd
}

func newSubscriptionsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <subscription-id>",
		Short: "Show a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.client.Subscriptions.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.print(sub)
		},
	}
}

func newSubscriptionsCancelCmd(a *app) *cobra.Command {
	var cancelOption, date string
	cmd := &cobra.Command{
		Use:   "cancel <subscription-id>",
		Short: "Cancel a subscription",
		Long: `Cancel a subscription at the end of its term, immediately, or on a
requested date given with --date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := orb.NewSubscriptionCancelParams(orb.SubscriptionCancelOption(cancelOption))
			if date != "" {
				t, err := parseTime(date)
				if err != nil {
					return err
				}
				params.SetCancellationDate(t)
			}
			if err := params.Validate(); err != nil {
				return err
			}
			sub, err := a.client.Subscriptions.Cancel(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			a.out.success("cancelled subscription %s", args[0])
			return a.out.print(sub)
		},
	}
	cmd.Flags().StringVar(&cancelOption, "option", string(orb.SubscriptionCancelOptionEndOfSubscriptionTerm),
		"When to cancel (end_of_subscription_term|immediate|requested_date)")
	cmd.Flags().StringVar(&date, "date", "", "Cancellation date for requested_date")
	return cmd
}
