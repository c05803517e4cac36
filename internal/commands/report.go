package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Server-computed reports",
	}
	cmd.AddCommand(newBalanceSheetCommand(a))
	return cmd
}

func newBalanceSheetCommand(a *app) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Show assets, liabilities and net worth",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if asOf != "" {
				if _, err := parseDate("as-of", asOf); err != nil {
					return err
				}
			}
			bs, err := a.client.BalanceSheet(cmd.Context(), 0, asOf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Balance sheet as of %s\n\n", bs.AsOf)
			for _, g := range bs.Groups {
				if len(g.Accounts) == 0 {
					continue
				}
				rows := make([][]string, 0, len(g.Accounts)+1)
				for _, acct := range g.Accounts {
					rows = append(rows, []string{acct.Name, acct.Type.Label(), formatMoney(acct.Balance, acct.Currency)})
				}
				rows = append(rows, []string{"Total", "", formatMoney(g.Total, "")})
				fmt.Fprintln(out, g.Label)
				printTable(out, []string{"ACCOUNT", "TYPE", "BALANCE"}, rows)
			}
			fmt.Fprintf(out, "Assets:      %s\n", formatMoney(bs.Totals.Assets, ""))
			fmt.Fprintf(out, "Liabilities: %s\n", formatMoney(bs.Totals.Liabilities, ""))
			fmt.Fprintf(out, "Net worth:   %s\n", formatMoney(bs.Totals.NetWorth, ""))
			return nil
		}),
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "report date (YYYY-MM-DD, default today on the server)")
	return cmd
}
