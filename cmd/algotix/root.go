package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "algotix",
		Short:         "AlgoTix: event tickets on Algorand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetIn(a.in)

	root.AddCommand(
		newLoginCmd(a),
		newSignupCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newNameCmd(a),
		newWalletCmd(a),
		newVerifyCmd(a),
		newStatusCmd(a),
		newEventsCmd(a),
		newInsightCmd(a),
		newChatCmd(a),
		newStatsCmd(a),
	)
	return root
}
