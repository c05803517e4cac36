package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerctl/internal/accounts"
	"github.com/cleared-dev/ledgerctl/internal/api"
	"github.com/cleared-dev/ledgerctl/internal/importer"
	"github.com/cleared-dev/ledgerctl/internal/journal"
	"github.com/cleared-dev/ledgerctl/internal/model"
)

func newTransactionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage income and expense transactions",
	}
	cmd.AddCommand(
		newTransactionsListCommand(a),
		newTransactionsCreateCommand(a),
		newTransactionsUpdateCommand(a),
		newTransactionsDeleteCommand(a),
		newTransactionsExportCommand(a),
		newTransactionsImportCommand(a),
	)
	return cmd
}

type filterFlags struct {
	account  int64
	category int64
	kind     string
	from     string
	to       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.account, "account", 0, "only this account")
	cmd.Flags().Int64Var(&f.category, "category", 0, "only this category")
	cmd.Flags().StringVar(&f.kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&f.from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last date (YYYY-MM-DD)")
}

func (f *filterFlags) filter() (api.TransactionFilter, error) {
	for flag, v := range map[string]string{"from": f.from, "to": f.to} {
		if v == "" {
			continue
		}
		if _, err := parseDate(flag, v); err != nil {
			return api.TransactionFilter{}, err
		}
	}
	return api.TransactionFilter{
		AccountID:  f.account,
		CategoryID: f.category,
		Kind:       model.TransactionKind(f.kind),
		DateFrom:   f.from,
		DateTo:     f.to,
	}, nil
}

func newTransactionsListCommand(a *app) *cobra.Command {
	var f filterFlags
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transaction rows, newest first",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			filter, err := f.filter()
			if err != nil {
				return err
			}
			filter.Page = page
			filter.PageSize = pageSize

			svc, err := accounts.Load(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			p, err := a.client.ListTransactions(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(p.Rows) == 0 {
				fmt.Fprintln(out, "No transactions")
				return nil
			}
			rows := make([][]string, 0, len(p.Rows))
			for _, r := range p.Rows {
				account := r.AccountName
				if account == "" {
					account = svc.Name(r.AccountID)
				}
				rows = append(rows, []string{
					strconv.FormatInt(r.TransactionID, 10),
					r.OccurredOn,
					account,
					r.CategoryName,
					formatMoney(r.Amount, svc.Currency(r.AccountID)),
					r.Description,
				})
			}
			printTable(out, []string{"ID", "DATE", "ACCOUNT", "CATEGORY", "AMOUNT", "DESCRIPTION"}, rows)
			fmt.Fprintf(out, "Page %d: %d of %d rows\n", max(page, 1), len(p.Rows), p.Total)
			return nil
		}),
	}

	f.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "rows per page")
	return cmd
}

type transactionFlags struct {
	kind        string
	date        string
	account     int64
	category    int64
	amount      string
	description string
	note        string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", string(model.TransactionKindExpense), "income or expense")
	cmd.Flags().StringVar(&f.date, "date", today(), "date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&f.account, "account", 0, "account id")
	cmd.Flags().Int64Var(&f.category, "category", 0, "category id")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount; the sign is taken from --kind")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.note, "note", "", "note")
}

func (f *transactionFlags) apply(cmd *cobra.Command, in *model.TransactionInput) error {
	flags := cmd.Flags()
	if flags.Changed("kind") {
		in.Kind = model.TransactionKind(f.kind)
	}
	if in.Kind != model.TransactionKindIncome && in.Kind != model.TransactionKindExpense {
		return fmt.Errorf("--kind: must be income or expense, got %q", in.Kind)
	}
	if flags.Changed("date") {
		d, err := parseDate("date", f.date)
		if err != nil {
			return err
		}
		in.OccurredOn = d
	}
	if flags.Changed("account") {
		in.AccountID = f.account
	}
	if flags.Changed("category") {
		in.CategoryID = f.category
	}
	if flags.Changed("amount") {
		amt, err := parseDecimal("amount", f.amount)
		if err != nil {
			return err
		}
		in.Amount = amt
	}
	if flags.Changed("description") {
		in.Description = f.description
	}
	if flags.Changed("note") {
		in.Note = f.note
	}
	return nil
}

func newTransactionsCreateCommand(a *app) *cobra.Command {
	var f transactionFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record an income or expense",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			in := model.TransactionInput{Kind: model.TransactionKind(f.kind), OccurredOn: f.date}
			if err := f.apply(cmd, &in); err != nil {
				return err
			}
			row, err := a.client.CreateTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created transaction %d (%s)\n", row.TransactionID, row.Amount.StringFixed(2))
			return nil
		}),
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTransactionsUpdateCommand(a *app) *cobra.Command {
	var f transactionFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			row, err := a.client.GetTransaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			in := model.TransactionInput{
				Kind:        model.KindOf(row.Amount),
				OccurredOn:  row.OccurredOn,
				AccountID:   row.AccountID,
				CategoryID:  row.CategoryID,
				Amount:      row.Amount.Abs(),
				Description: row.Description,
				Note:        row.Note,
			}
			if err := f.apply(cmd, &in); err != nil {
				return err
			}
			if err := a.client.UpdateTransaction(cmd.Context(), id, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %d\n", id)
			return nil
		}),
	}

	f.register(cmd)
	return cmd
}

func newTransactionsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteTransaction(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		}),
	}
}

func newTransactionsExportCommand(a *app) *cobra.Command {
	var f filterFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every matching transaction row as CSV",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			filter, err := f.filter()
			if err != nil {
				return err
			}
			svc := journal.NewService(a.client, a.log)
			var n int
			err = writeOutput(cmd, output, func(w io.Writer) error {
				var err error
				n, err = svc.Export(cmd.Context(), w, filter)
				return err
			})
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", n, output)
			}
			return nil
		}),
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newTransactionsImportCommand(a *app) *cobra.Command {
	var dryRun bool
	var format string
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create transactions from a CSV file",
		Long: "Create transactions from a file written by 'transactions export', or from a\n" +
			"bank statement with --format (e.g. chase) plus --account, --income-category\n" +
			"and --expense-category.",
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var parser importer.Parser
			if format != "" {
				registry := importer.DefaultRegistry()
				if parser = registry.Get(format); parser == nil {
					return fmt.Errorf("--format: unknown format %q (known: %s)", format, strings.Join(registry.Formats(), ", "))
				}
				if err := opts.Validate(); err != nil {
					return err
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			var inputs []model.TransactionInput
			if parser != nil {
				inputs, err = parser.Parse(f, opts)
			} else {
				inputs, err = journal.ReadInputs(f)
			}
			if err != nil {
				return err
			}

			accts, err := accounts.Load(cmd.Context(), a.client)
			if err != nil {
				return err
			}

			res, err := journal.NewService(a.client, a.log).ImportInputs(cmd.Context(), inputs, journal.ImportOptions{
				Accounts: accts,
				DryRun:   dryRun,
			})
			out := cmd.OutOrStdout()
			if len(res.Created) > 0 {
				fmt.Fprintf(out, "Imported %d transactions\n", len(res.Created))
			}
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(out, "Dry run: %d rows valid, nothing sent\n", len(inputs))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without creating anything")
	cmd.Flags().StringVar(&format, "format", "", "bank statement format (default: export format)")
	cmd.Flags().Int64Var(&opts.AccountID, "account", 0, "account the statement belongs to")
	cmd.Flags().Int64Var(&opts.IncomeCategoryID, "income-category", 0, "category for credits")
	cmd.Flags().Int64Var(&opts.ExpenseCategoryID, "expense-category", 0, "category for debits")
	return cmd
}

func newTransferCommand(a *app) *cobra.Command {
	var from, to int64
	var amount, date, description, note string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if from == to {
				return errors.New("--from and --to must differ")
			}
			amt, err := parseDecimal("amount", amount)
			if err != nil {
				return err
			}
			if !amt.IsPositive() {
				return fmt.Errorf("--amount must be positive, got %s", amt)
			}
			d, err := parseDate("date", date)
			if err != nil {
				return err
			}

			txID, err := a.client.CreateTransfer(cmd.Context(), model.Transfer{
				OccurredOn:    d,
				FromAccountID: from,
				ToAccountID:   to,
				Amount:        amt,
				Description:   description,
				Note:          note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transfer as transaction %d\n", txID)
			return nil
		}),
	}

	cmd.Flags().Int64Var(&from, "from", 0, "source account id")
	cmd.Flags().Int64Var(&to, "to", 0, "destination account id")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to move")
	cmd.Flags().StringVar(&date, "date", today(), "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&note, "note", "", "note")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
