package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"algotix/internal/events"
	"algotix/internal/ticketing"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <event-id>",
		Short: "Check on-chain that the connected wallet holds a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireAuth(ctx); err != nil {
				return err
			}
			ev, err := eventArg(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			account := a.walletManager().Reconnect(ctx)
			if !account.Present() {
				fmt.Fprintln(out, "Please connect your wallet first!")
				return nil
			}
			fmt.Fprintf(out, "Checking %s for %s...\n", shortAddress(string(account)), ev.Title)
			ok, err := a.tickets().CheckTicket(ctx, string(account))
			switch {
			case err != nil:
				a.log.Error(ctx, "verification failed", "event", ev.ID, "error", err)
				fmt.Fprintln(out, "Verification failed.")
			case ok:
				fmt.Fprintln(out, "Verified On-Chain")
			default:
				fmt.Fprintln(out, "Not Found")
			}
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show Algorand node status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			client := a.tickets()
			if !watch {
				st, err := client.Status(ctx)
				if err != nil {
					a.log.Warn(ctx, "failed to fetch algo status", "error", err)
				}
				fmt.Fprintln(out, formatStatus(st))
				return nil
			}

			p := ticketing.NewPoller(client, a.cfg.StatusPollInterval, a.log)
			p.OnUpdate(func(st ticketing.Status) { fmt.Fprintln(out, formatStatus(st)) })
			p.Start(ctx)
			<-ctx.Done()
			p.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling until interrupted")
	return cmd
}

func formatStatus(st ticketing.Status) string {
	if !st.Connected {
		return "Algorand node: disconnected"
	}
	return fmt.Sprintf("Algorand node: connected | app %d | asset %d | round %d", st.AppID, st.AssetID, st.LastRound)
}

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List upcoming events",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ev := range events.All() {
				fmt.Fprintln(cmd.OutOrStdout(), ev.String())
			}
			return nil
		},
	}
}

func eventArg(s string) (events.Event, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return events.Event{}, fmt.Errorf("invalid event id %q", s)
	}
	ev, ok := events.Find(id)
	if !ok {
		return events.Event{}, fmt.Errorf("no event with id %d", id)
	}
	return ev, nil
}
