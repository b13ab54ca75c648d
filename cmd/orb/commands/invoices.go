package commands

import (
	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
)

func newInvoicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"invoice"},
		Short:   "Manage invoices",
	}
	cmd.AddCommand(newInvoicesListCmd(a))
	cmd.AddCommand(newInvoicesGetCmd(a))
	cmd.AddCommand(newInvoicesIssueCmd(a))
	cmd.AddCommand(newInvoicesVoidCmd(a))
	return cmd
}

func newInvoicesListCmd(a *app) *cobra.Command {
	var (
		lf         listFlags
		customerID string
		status     []string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params orb.InvoiceListParams
			lf.apply(&params.PageParams)
			if customerID != "" {
				params.SetCustomerID(customerID)
			}
			if len(status) > 0 {
				statuses := make([]orb.InvoiceStatus, len(status))
				for i, s := range status {
					statuses[i] = orb.InvoiceStatus(s)
					if !statuses[i].IsKnown() {
						a.out.warn("unknown invoice status %q", s)
					}
				}
				params.SetStatus(statuses...)
			}
			page, err := a.client.Invoices.List(cmd.Context(), params)
			return printList(a, lf.all, page, err)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&customerID, "customer", "", "Only invoices of this customer ID")
	cmd.Flags().StringSliceVar(&status, "status", nil, "Only invoices in these statuses")
	return cmd
}

func newInvoicesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <invoice-id>",
		Short: "Show an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invoice, err := a.client.Invoices.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.print(invoice)
		},
	}
}

func newInvoicesIssueCmd(a *app) *cobra.Command {
	var sync bool
	cmd := &cobra.Command{
		Use:   "issue <invoice-id>",
		Short: "Issue a draft invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params orb.InvoiceIssueParams
			if sync {
				params.SetSynchronous(true)
			}
			invoice, err := a.client.Invoices.Issue(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			a.out.success("issued invoice %s", args[0])
			return a.out.print(invoice)
		},
	}
	cmd.Flags().BoolVar(&sync, "sync", false, "Wait for the payment provider sync")
	return cmd
}

func newInvoicesVoidCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "void <invoice-id>",
		Short: "Void an issued invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invoice, err := a.client.Invoices.Void(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.out.success("voided invoice %s", args[0])
			return a.out.print(invoice)
		},
	}
}
