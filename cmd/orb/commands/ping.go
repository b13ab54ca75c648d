package commands

import (
	"github.com/spf13/cobra"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.TopLevel.Ping(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.print(res)
		},
	}
}
