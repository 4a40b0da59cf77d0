package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"algotix/internal/analytics"
	"algotix/internal/assistant"
)

func newInsightCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insight <event-id>",
		Short: "Ask the assistant why an event is worth attending",
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
			asst, err := a.chatAssistant()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ev.Title, asst.Insight(ctx, ev))
			return nil
		},
	}
}

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the AlgoTix assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			st, err := a.requireAuth(ctx)
			if err != nil {
				return err
			}
			asst, err := a.chatAssistant()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			// A wallet-side disconnect ends the conversation, like a page reload.
			w := a.walletManager()
			w.OnSessionEnded(func() {
				fmt.Fprintln(out, "\nWallet session ended. Closing chat.")
				cancel()
			})
			if acct := w.Reconnect(ctx); acct.Present() {
				fmt.Fprintf(out, "Wallet: %s\n", shortAddress(string(acct)))
			}

			fmt.Fprintln(out, assistant.Greeting(st.DisplayName(ctx)))
			fmt.Fprintln(out, "Type /reset to start over, /quit to leave.")
			return chatLoop(ctx, cmd, asst)
		},
	}
}

func chatLoop(ctx context.Context, cmd *cobra.Command, asst *assistant.Assistant) error {
	out := cmd.OutOrStdout()
	lines := make(chan string)
	go func() {
		defer close(lines)
		s := bufio.NewScanner(cmd.InOrStdin())
		for s.Scan() {
			select {
			case lines <- s.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			asst.History().Reset(chatSessionID)
			fmt.Fprintln(out, "Conversation reset.")
			continue
		}
		fmt.Fprintln(out, asst.Chat(ctx, chatSessionID, line))
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize assistant usage for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := time.Now().UTC()
			if day != "" {
				t, err := time.Parse("2006-01-02", day)
				if err != nil {
					return fmt.Errorf("invalid --day %q, want YYYY-MM-DD", day)
				}
				target = t
			}
			rec, err := a.interactions()
			if err != nil {
				return err
			}
			evs, err := rec.LoadInteractions()
			if err != nil {
				return fmt.Errorf("load interactions: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), analytics.AnalyzeDay(evs, target).Summary())
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "UTC day as YYYY-MM-DD (default today)")
	return cmd
}
