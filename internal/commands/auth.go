package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var username, password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password is required")
			}

			tok, err := a.client.Login(cmd.Context(), username, password, remember)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", username)
			if tok.ExpiresAt != nil {
				fmt.Fprintf(out, "Session expires %s\n", tok.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	_ = cmd.MarkFlagRequired("username")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the token across sessions")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			id, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nServer: %s\n", id.Username, a.transport.BaseURL())
			return nil
		}),
	}
}
