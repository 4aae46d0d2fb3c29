package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fjod/go_cart/storefront/internal/incident"
)

func incidentsCmd(a *app) *cobra.Command {
	var flush bool

	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "List checkouts that were paid but have no order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flush {
				if !a.publisher.Enabled() {
					return fmt.Errorf("no kafka brokers configured (STOREFRONT_KAFKA_BROKERS)")
				}
				n, err := a.publisher.Flush(ctx)
				if err != nil {
					return err
				}
				a.printf("published %d incident(s)\n", n)
			}

			all, err := a.journal.List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				a.printf("no incidents\n")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tTRANSACTION\tUSER\tAMOUNT\tPUBLISHED\tREASON")
			for _, inc := range all {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%t\t%s\n",
					inc.ID, inc.CreatedAt.Format(time.RFC3339), inc.TransactionID, inc.UserID,
					inc.Amount.StringFixed(2), inc.Published, inc.Reason)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&flush, "flush", false, "publish unpublished incidents to kafka first")
	cmd.AddCommand(incidentsWatchCmd(a))
	return cmd
}

func incidentsWatchCmd(a *app) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow incidents published to kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kc := a.cfg.Kafka
			if len(kc.Brokers) == 0 {
				return fmt.Errorf("no kafka brokers configured (STOREFRONT_KAFKA_BROKERS)")
			}

			w := incident.NewWatcher(incident.NewKafkaReader(kc.IncidentTopic, group, kc.Brokers...))
			defer func() { _ = w.Close() }()

			return w.Run(cmd.Context(), func(inc incident.Incident) {
				a.printf("%s transaction=%d user=%d amount=%s reason=%q\n",
					inc.CreatedAt.Format(time.RFC3339), inc.TransactionID, inc.UserID, inc.Amount.StringFixed(2), inc.Reason)
			})
		},
	}

	cmd.Flags().StringVar(&group, "group", "storefront-incidents", "kafka consumer group")
	return cmd
}
