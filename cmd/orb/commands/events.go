package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
)

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Ingest and search usage events",
	}
	cmd.AddCommand(newEventsIngestCmd(a))
	cmd.AddCommand(newEventsSearchCmd(a))
	return cmd
}

func newEventsIngestCmd(a *app) *cobra.Command {
	var (
		debug      bool
		backfillID string
	)
	cmd := &cobra.Command{
		Use:   "ingest <file|->",
		Short: "Ingest a batch of events",
		Long: `Ingest a batch of events read from a file, or from stdin with "-".

The input is a JSON array of events or an object with an "events" array.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			events, err := orb.ParseEvents(data)
			if err != nil {
				return err
			}
			for i, event := range events {
				if err := event.Validate(); err != nil {
					return fmt.Errorf("event %d: %w", i, err)
				}
			}

			params := orb.NewEventIngestParams(events...)
			if debug {
				params.SetDebug(true)
			}
			if backfillID != "" {
				params.SetBackfillID(backfillID)
			}
			res, err := a.client.Events.Ingest(cmd.Context(), params)
			if err != nil {
				return err
			}

			failed, err := res.ValidationFailed()
			if err != nil {
				return err
			}
			for _, f := range failed {
				key, _ := f.IdempotencyKey()
				reasons, _ := f.ValidationErrors()
				a.out.warn("event %s rejected: %v", key, reasons)
			}
			a.out.success("ingested %d of %d events", len(events)-len(failed), len(events))
			return a.out.print(res)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Ask for the ingested and duplicate keys")
	cmd.Flags().StringVar(&backfillID, "backfill-id", "", "Ingest into this backfill")
	return cmd
}

func newEventsSearchCmd(a *app) *cobra.Command {
	var (
		ids      []string
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Look up events by ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := orb.NewEventSearchParams(ids...)
			if from != "" {
				t, err := parseTime(from)
				if err != nil {
					return err
				}
				params.SetTimeframeStart(t)
			}
			if to != "" {
				t, err := parseTime(to)
				if err != nil {
					return err
				}
				params.SetTimeframeEnd(t)
			}
			res, err := a.client.Events.Search(cmd.Context(), params)
			if err != nil {
				return err
			}
			return a.out.print(res)
		},
	}
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Event IDs to look up")
	cmd.Flags().StringVar(&from, "from", "", "Start of the timeframe")
	cmd.Flags().StringVar(&to, "to", "", "End of the timeframe")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
