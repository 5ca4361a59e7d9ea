package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"document-qa-be/internal/config"
	"document-qa-be/pkg/events"
	pktNats "document-qa-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var durable string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print document events relayed to NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.App.NatsURL == "" {
				return errors.New("NATS_URL is not set")
			}

			sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			out := cmd.OutOrStdout()
			consumeCtx, err := sub.Subscribe(cmd.Context(), pktNats.Subject(">"), durable,
				func(ctx context.Context, event events.Event) error {
					payload, err := json.Marshal(event.Payload())
					if err != nil {
						return err
					}
					label := color.GreenString(event.EventType())
					if event.EventType() == events.DocumentDeleted {
						label = color.RedString(event.EventType())
					}
					fmt.Fprintf(out, "%s %s %s\n", event.Timestamp().Local().Format("15:04:05"), label, payload)
					return nil
				})
			if err != nil {
				return err
			}
			defer consumeCtx.Stop()

			color.Cyan("Watching %s (Ctrl+C to stop)", pktNats.Subject(">"))
			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&durable, "durable", "", "durable consumer name to resume from")
	return cmd
}
