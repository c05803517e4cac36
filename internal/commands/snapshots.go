package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerctl/internal/accounts"
	"github.com/cleared-dev/ledgerctl/internal/api"
	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

func newSnapshotsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshots",
		Aliases: []string{"snapshot"},
		Short:   "Record account balances as of a date",
	}
	cmd.AddCommand(
		newSnapshotsListCommand(a),
		newSnapshotsCreateCommand(a),
		newSnapshotsUpdateCommand(a),
		newSnapshotsDeleteCommand(a),
	)
	return cmd
}

func newSnapshotsListCommand(a *app) *cobra.Command {
	var account int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List balance snapshots",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			svc, err := accounts.Load(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			snaps, err := a.client.ListSnapshots(cmd.Context(), api.SnapshotFilter{AccountID: account})
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots")
				return nil
			}

			rows := make([][]string, 0, len(snaps))
			for _, s := range snaps {
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10),
					s.AsOf,
					svc.Name(s.AccountID),
					formatMoney(s.Amount, svc.Currency(s.AccountID)),
					s.Note,
				})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "AS OF", "ACCOUNT", "BALANCE", "NOTE"}, rows)
			return nil
		}),
	}

	cmd.Flags().Int64Var(&account, "account", 0, "only this account")
	return cmd
}

func newSnapshotsCreateCommand(a *app) *cobra.Command {
	var account int64
	var asOf, amount, note string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record an account's balance",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			d, err := parseDate("as-of", asOf)
			if err != nil {
				return err
			}
			amt, err := parseDecimal("amount", amount)
			if err != nil {
				return err
			}
			snap, err := a.client.CreateSnapshot(cmd.Context(), model.SnapshotInput{
				AccountID: account,
				AsOf:      d,
				Amount:    amt,
				Note:      note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created snapshot %d\n", snap.ID)
			return nil
		}),
	}

	cmd.Flags().Int64Var(&account, "account", 0, "account id")
	cmd.Flags().StringVar(&asOf, "as-of", today(), "balance date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amount, "amount", "", "balance; negative for money owed")
	cmd.Flags().StringVar(&note, "note", "", "note")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newSnapshotsUpdateCommand(a *app) *cobra.Command {
	var asOf, amount, note string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a snapshot's date, balance or note",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch wire.SnapshotPatch
			flags := cmd.Flags()
			if flags.Changed("as-of") {
				d, err := parseDate("as-of", asOf)
				if err != nil {
					return err
				}
				patch.AsOf = &d
			}
			if flags.Changed("amount") {
				amt, err := parseDecimal("amount", amount)
				if err != nil {
					return err
				}
				patch.Amount = &amt
			}
			if flags.Changed("note") {
				patch.Note = &note
			}
			if patch.AsOf == nil && patch.Amount == nil && patch.Note == nil {
				return errors.New("nothing to update; set --as-of, --amount or --note")
			}

			if _, err := a.client.UpdateSnapshot(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated snapshot %d\n", id)
			return nil
		}),
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "balance date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amount, "amount", "", "balance")
	cmd.Flags().StringVar(&note, "note", "", "note")
	return cmd
}

func newSnapshotsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteSnapshot(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %d\n", id)
			return nil
		}),
	}
}
