package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerctl/internal/api"
	"github.com/cleared-dev/ledgerctl/internal/model"
)

func newLotsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lots",
		Short: "Inspect investment lots",
	}
	cmd.AddCommand(newLotsListCommand(a))
	return cmd
}

func newLotsListCommand(a *app) *cobra.Command {
	var security int64
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lots with their allocated and remaining quantities",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if status != "" && status != string(model.LotOpen) && status != string(model.LotClosed) {
				return fmt.Errorf("--status: must be open or closed, got %q", status)
			}
			lots, err := a.client.ListLots(cmd.Context(), api.LotFilter{
				SecurityID: security,
				Status:     model.LotStatus(status),
			})
			if err != nil {
				return err
			}
			if len(lots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No lots")
				return nil
			}

			rows := make([][]string, 0, len(lots))
			for _, l := range lots {
				rows = append(rows, []string{
					strconv.FormatInt(l.LotID, 10),
					l.OccurredOn,
					l.SecurityTicker,
					l.Quantity.String(),
					l.AllocatedQuantity.String(),
					l.RemainingQuantity.String(),
					l.Price.StringFixed(2),
					string(l.Status),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"LOT", "DATE", "SECURITY", "QTY", "SOLD", "REMAINING", "COST/UNIT", "STATUS"}, rows)
			return nil
		}),
	}

	cmd.Flags().Int64Var(&security, "security", 0, "only lots of this security")
	cmd.Flags().StringVar(&status, "status", "", "open or closed")
	return cmd
}

// tradeFlags are shared by buy and sell.
type tradeFlags struct {
	date          string
	security      int64
	cashAccount   int64
	investAccount int64
	quantity      string
	price         string
	fee           string
	feeCategory   int64
	tax           string
	taxCategory   int64
	description   string
	note          string
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", today(), "trade date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&f.security, "security", 0, "security id")
	cmd.Flags().Int64Var(&f.cashAccount, "cash-account", 0, "cash account id")
	cmd.Flags().Int64Var(&f.investAccount, "investment-account", 0, "investment account id")
	cmd.Flags().StringVar(&f.quantity, "quantity", "", "units traded")
	cmd.Flags().StringVar(&f.price, "price", "", "price per unit")
	cmd.Flags().StringVar(&f.fee, "fee", "", "fee")
	cmd.Flags().Int64Var(&f.feeCategory, "fee-category", 0, "category for the fee")
	cmd.Flags().StringVar(&f.tax, "tax", "", "tax")
	cmd.Flags().Int64Var(&f.taxCategory, "tax-category", 0, "category for the tax")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.note, "note", "", "note")
}

type tradeValues struct {
	date                     string
	quantity, price          decimal.Decimal
	fee, tax                 decimal.Decimal
	feeCategory, taxCategory *int64
}

func (f *tradeFlags) parse() (tradeValues, error) {
	var v tradeValues
	var err error
	if v.date, err = parseDate("date", f.date); err != nil {
		return v, err
	}
	if v.quantity, err = parseDecimal("quantity", f.quantity); err != nil {
		return v, err
	}
	if v.price, err = parseDecimal("price", f.price); err != nil {
		return v, err
	}
	if v.fee, err = parseDecimal("fee", f.fee); err != nil {
		return v, err
	}
	if v.tax, err = parseDecimal("tax", f.tax); err != nil {
		return v, err
	}
	v.feeCategory = optionalID(f.feeCategory)
	v.taxCategory = optionalID(f.taxCategory)
	return v, nil
}

type buyFlags struct {
	tradeFlags
	ticker string
	name   string
}

func (f *buyFlags) register(cmd *cobra.Command) {
	f.tradeFlags.register(cmd)
	cmd.Flags().StringVar(&f.ticker, "ticker", "", "ticker of a new security")
	cmd.Flags().StringVar(&f.name, "name", "", "name of a new security")
}

func (f *buyFlags) buy() (model.Buy, error) {
	v, err := f.parse()
	if err != nil {
		return model.Buy{}, err
	}
	return model.Buy{
		OccurredOn:          v.date,
		SecurityID:          f.security,
		SecurityTicker:      strings.TrimSpace(f.ticker),
		SecurityName:        strings.TrimSpace(f.name),
		CashAccountID:       f.cashAccount,
		InvestmentAccountID: f.investAccount,
		Quantity:            v.quantity,
		Price:               v.price,
		Fee:                 v.fee,
		FeeCategoryID:       v.feeCategory,
		Tax:                 v.tax,
		TaxCategoryID:       v.taxCategory,
		Description:         f.description,
		Note:                f.note,
	}, nil
}

func markTradeRequired(cmd *cobra.Command) {
	for _, name := range []string{"cash-account", "investment-account", "quantity", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func newBuyCommand(a *app) *cobra.Command {
	var f buyFlags

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Record a purchase, opening a lot",
		Long: "Record a purchase. Identify the security with --security, or with\n" +
			"--ticker and --name to have the server create it.",
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			b, err := f.buy()
			if err != nil {
				return err
			}
			res, err := a.client.CreateBuy(cmd.Context(), b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened lot %d: %s @ %s, cost %s (transaction %d)\n",
				res.LotID, res.Quantity, res.Price.StringFixed(2), res.CostAmount.StringFixed(2), res.TransactionID)
			return nil
		}),
	}

	f.register(cmd)
	markTradeRequired(cmd)
	cmd.AddCommand(newBuyUpdateCommand(a), newBuyDeleteCommand(a))
	return cmd
}

func newBuyUpdateCommand(a *app) *cobra.Command {
	var f buyFlags

	cmd := &cobra.Command{
		Use:   "update <lot-id>",
		Short: "Replace the details of a recorded buy",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			lotID, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := f.buy()
			if err != nil {
				return err
			}
			res, err := a.client.UpdateBuy(cmd.Context(), lotID, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated lot %d: %s @ %s, cost %s\n",
				lotID, res.Quantity, res.Price.StringFixed(2), res.CostAmount.StringFixed(2))
			return nil
		}),
	}

	f.register(cmd)
	markTradeRequired(cmd)
	return cmd
}

func newBuyDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <lot-id>",
		Short: "Delete a buy and its lot",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			lotID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteBuy(cmd.Context(), lotID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted lot %d\n", lotID)
			return nil
		}),
	}
}

// parseAllocations parses LOT=QTY pairs.
func parseAllocations(pairs []string) ([]model.SaleAllocation, error) {
	allocs := make([]model.SaleAllocation, 0, len(pairs))
	for _, pair := range pairs {
		lot, qty, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("--alloc %q: want LOT=QTY", pair)
		}
		lotID, err := parseID(strings.TrimSpace(lot))
		if err != nil {
			return nil, fmt.Errorf("--alloc %q: %w", pair, err)
		}
		q, err := decimal.NewFromString(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("--alloc %q: invalid quantity", pair)
		}
		allocs = append(allocs, model.SaleAllocation{LotID: lotID, Quantity: q})
	}
	return allocs, nil
}

func newSellCommand(a *app) *cobra.Command {
	var f tradeFlags
	var allocSpecs []string

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Record a sale drawn from specific lots",
		Long: "Record a sale. Every unit sold must be drawn from a lot with --alloc LOT=QTY;\n" +
			"the allocations must add up to --quantity (which defaults to their sum).",
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			v, err := f.parse()
			if err != nil {
				return err
			}
			allocs, err := parseAllocations(allocSpecs)
			if err != nil {
				return err
			}
			if len(allocs) == 0 {
				return errors.New("at least one --alloc LOT=QTY is required")
			}

			sale := model.Sale{
				OccurredOn:          v.date,
				SecurityID:          f.security,
				CashAccountID:       f.cashAccount,
				InvestmentAccountID: f.investAccount,
				Quantity:            v.quantity,
				Price:               v.price,
				Fee:                 v.fee,
				FeeCategoryID:       v.feeCategory,
				Tax:                 v.tax,
				TaxCategoryID:       v.taxCategory,
				Description:         f.description,
				Note:                f.note,
				Allocations:         allocs,
			}
			if !cmd.Flags().Changed("quantity") {
				sale.Quantity = sale.AllocatedQuantity()
			}

			// The pre-check reads the lots' last-known state.
			if _, err := a.client.ListLots(cmd.Context(), api.LotFilter{SecurityID: f.security}); err != nil {
				return err
			}
			res, err := a.client.CreateSale(cmd.Context(), sale)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded sale %d: %s @ %s, proceeds %s, cost basis %s (transaction %d)\n",
				res.SaleID, res.Quantity, res.Price.StringFixed(2),
				res.GrossAmount.StringFixed(2), res.CostAmount.StringFixed(2), res.TransactionID)
			return nil
		}),
	}

	f.register(cmd)
	cmd.Flags().StringArrayVar(&allocSpecs, "alloc", nil, "allocation LOT=QTY (repeatable)")
	for _, name := range []string{"security", "cash-account", "investment-account", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
