package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWalletCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the Pera Wallet connection",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "connect",
			Short: "Pair a wallet over WalletConnect",
			RunE: func(cmd *cobra.Command, args []string) error {
				printAccount(cmd, string(a.walletManager().Connect(cmd.Context())))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reconnect",
			Short: "Resume the saved wallet session",
			RunE: func(cmd *cobra.Command, args []string) error {
				printAccount(cmd, string(a.walletManager().Reconnect(cmd.Context())))
				return nil
			},
		},
		&cobra.Command{
			Use:   "disconnect",
			Short: "End the wallet session",
			RunE: func(cmd *cobra.Command, args []string) error {
				a.walletManager().Disconnect(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Wallet disconnected.")
				return nil
			},
		},
	)
	return cmd
}

func printAccount(cmd *cobra.Command, account string) {
	if account == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Wallet not connected.")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Connected: %s\n", shortAddress(account))
}

// shortAddress renders ABCDEF...WXYZ.
func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
