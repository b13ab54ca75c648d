package commands

import (
	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
)

func newPricesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prices",
		Aliases: []string{"price"},
		Short:   "Inspect prices",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params orb.PriceListParams
			lf.apply(&params.PageParams)
			page, err := a.client.Prices.List(cmd.Context(), params)
			return printList(a, lf.all, page, err)
		},
	}
	lf.register(list)

	get := &cobra.Command{
		Use:   "get <price-id>",
		Short: "Show a price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := a.client.Prices.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			warnUnknown(a, []orb.Price{*price})
			return a.out.print(price)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
