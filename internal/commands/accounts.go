package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerctl/internal/accounts"
	"github.com/cleared-dev/ledgerctl/internal/model"
)

func newAccountsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(a),
		newAccountsCreateCommand(a),
		newAccountsUpdateCommand(a),
		newAccountsDeleteCommand(a),
		newAccountsExportCommand(a),
	)
	return cmd
}

func newAccountsListCommand(a *app) *cobra.Command {
	var accountType string
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts grouped by type",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			svc, err := accounts.Load(cmd.Context(), a.client)
			if err != nil {
				return err
			}

			var list []model.Account
			if accountType != "" {
				list = svc.ByType(model.AccountType(accountType))
			} else {
				for _, g := range svc.Grouped() {
					list = append(list, g.Accounts...)
				}
			}

			var rows [][]string
			for _, acct := range list {
				if activeOnly && !acct.IsActive {
					continue
				}
				rows = append(rows, []string{
					strconv.FormatInt(acct.ID, 10),
					acct.Name,
					acct.Type.Label(),
					acct.Currency,
					yesNo(acct.IsActive),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts")
				return nil
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TYPE", "CURRENCY", "ACTIVE"}, rows)
			return nil
		}),
	}

	cmd.Flags().StringVar(&accountType, "type", "", "only accounts of this type")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active accounts")
	return cmd
}

type accountFlags struct {
	name     string
	typ      string
	currency string
	inactive bool
}

func (f *accountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "account name")
	cmd.Flags().StringVar(&f.typ, "type", string(model.AccountTypeCash), "account type (cash, liability, debt, investment, other_asset)")
	cmd.Flags().StringVar(&f.currency, "currency", "USD", "ISO currency code")
	cmd.Flags().BoolVar(&f.inactive, "inactive", false, "mark the account inactive")
}

// apply copies the flags the user set onto in.
func (f *accountFlags) apply(cmd *cobra.Command, in *model.AccountInput) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = f.name
	}
	if flags.Changed("type") {
		in.Type = model.AccountType(f.typ)
	}
	if flags.Changed("currency") {
		in.Currency = f.currency
	}
	if flags.Changed("inactive") {
		in.IsActive = !f.inactive
	}
	if !in.Type.Known() {
		return fmt.Errorf("--type: unknown account type %q", in.Type)
	}
	return nil
}

func newAccountsCreateCommand(a *app) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			in := model.AccountInput{Name: f.name, Type: model.AccountType(f.typ), Currency: f.currency, IsActive: !f.inactive}
			if err := f.apply(cmd, &in); err != nil {
				return err
			}
			acct, err := a.client.CreateAccount(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %d (%s)\n", acct.ID, acct.Name)
			return nil
		}),
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountsUpdateCommand(a *app) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an account",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := accounts.Load(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			current, ok := svc.Get(id)
			if !ok {
				return fmt.Errorf("account %d not found", id)
			}

			in := current.Input()
			if err := f.apply(cmd, &in); err != nil {
				return err
			}
			acct, err := a.client.UpdateAccount(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated account %d (%s)\n", id, acct.Name)
			return nil
		}),
	}

	f.register(cmd)
	return cmd
}

func newAccountsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteAccount(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %d\n", id)
			return nil
		}),
	}
}

func newAccountsExportCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all accounts as CSV",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return accounts.WriteAccounts(w, list)
			})
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
