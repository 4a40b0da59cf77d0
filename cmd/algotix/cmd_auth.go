package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"algotix/internal/authclient"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to AlgoTix",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitAuth(cmd, a, authclient.ModeLogin, authclient.Credentials{Email: email, Password: password})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an AlgoTix account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitAuth(cmd, a, authclient.ModeSignup, authclient.Credentials{Name: name, Email: email, Password: password})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func submitAuth(cmd *cobra.Command, a *app, mode authclient.Mode, creds authclient.Credentials) error {
	ctx := cmd.Context()
	if creds.Password == "" {
		creds.Password = prompt(cmd, "Password: ")
	}
	client, err := a.authClient(ctx)
	if err != nil {
		return err
	}
	user, err := client.Submit(ctx, mode, creds)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", firstNonEmpty(user.Name, user.Email))
	return nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and disconnect the wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.sessionStore(ctx)
			if err != nil {
				return err
			}
			a.walletManager().Disconnect(ctx)
			if err := st.Logout(ctx); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.requireAuth(ctx)
			if err != nil {
				return err
			}
			user, err := st.User(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Display name: %s\n", st.DisplayName(ctx))
			if user != nil {
				fmt.Fprintf(out, "Email:        %s\n", user.Email)
			}
			return nil
		},
	}
}

func newNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "name [display-name]",
		Short: "Show or change the display name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.sessionStore(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := st.SetDisplayName(ctx, args[0]); err != nil {
					return fmt.Errorf("save display name: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.DisplayName(ctx))
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, label string) string {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
