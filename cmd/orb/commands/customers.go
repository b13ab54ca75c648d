package commands

import (
	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
)

func newCustomersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers",
	}
	cmd.AddCommand(newCustomersListCmd(a))
	cmd.AddCommand(newCustomersGetCmd(a))
	cmd.AddCommand(newCustomersCreateCmd(a))
	cmd.AddCommand(newCustomersDeleteCmd(a))
	return cmd
}

func newCustomersListCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params orb.CustomerListParams
			lf.apply(&params.PageParams)
			page, err := a.client.Customers.List(cmd.Context(), params)
			return printList(a, lf.all, page, err)
		},
	}
	lf.register(cmd)
	return cmd
}

func newCustomersGetCmd(a *app) *cobra.Command {
	var external bool
	cmd := &cobra.Command{
		Use:   "get <customer-id>",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				customer *orb.Customer
				err      error
			)
			if external {
				customer, err = a.client.Customers.GetByExternalID(cmd.Context(), args[0])
			} else {
				customer, err = a.client.Customers.Get(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return a.out.print(customer)
		},
	}
	cmd.Flags().BoolVar(&external, "external", false, "Look the customer up by external_customer_id")
	return cmd
}

func newCustomersCreateCmd(a *app) *cobra.Command {
	var (
		name, email, externalID, currency string
		data                              []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Long: `Create a customer.

Fields without a flag can be set with -d, as key=value for strings or
key:=json for other values:

  orb customers create --name Acme --email billing@acme.test \
    -d billing_address.country=DE -d metadata:='{"tier":"gold"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := orb.NewCustomerNewParams(name, email)
			if externalID != "" {
				params.SetExternalCustomerID(externalID)
			}
			if currency != "" {
				params.SetCurrency(currency)
			}
			if err := params.Validate(); err != nil {
				return err
			}
			opts, err := dataOptions(data)
			if err != nil {
				return err
			}
			customer, err := a.client.Customers.New(cmd.Context(), params, opts...)
			if err != nil {
				return err
			}
			return a.out.print(customer)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Customer name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Billing email (required)")
	cmd.Flags().StringVar(&externalID, "external-id", "", "External customer ID")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency code")
	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "Extra body field, key=value or key:=json")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCustomersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <customer-id>",
		Short: "Delete a customer with its subscriptions and invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Customers.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.out.success("deleted customer %s", args[0])
			return nil
		},
	}
}
