package commands

import (
	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
)

func newLedgerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect customer credit ledgers",
	}

	var (
		lf        listFlags
		entryType string
		currency  string
	)
	list := &cobra.Command{
		Use:   "list <customer-id>",
		Short: "List the credit ledger entries of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params orb.CustomerCreditLedgerListParams
			lf.apply(&params.PageParams)
			if entryType != "" {
				params.SetEntryType(orb.LedgerEntryType(entryType))
			}
			if currency != "" {
				params.SetCurrency(currency)
			}
			page, err := a.client.Customers.Credits.Ledger.List(cmd.Context(), args[0], params)
			return printList(a, lf.all, page, err)
		},
	}
	lf.register(list)
	list.Flags().StringVar(&entryType, "entry-type", "", "Only entries of this type, e.g. increment")
	list.Flags().StringVar(&currency, "currency", "", "Only entries in this currency")

	cmd.AddCommand(list)
	return cmd
}
