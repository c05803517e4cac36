package wire

import "github.com/cleared-dev/ledgerctl/internal/model"

// MapBalanceSheet normalizes a balance sheet report.
func MapBalanceSheet(r Record) model.BalanceSheet {
	totals, _ := r.Object("Totals", "totals")
	groups := r.Objects("Groups", "groups")

	bs := model.BalanceSheet{
		LedgerID: r.Int("LedgerID", "ledger_id", "ledgerId"),
		AsOf:     r.Date("AsOf", "as_of", "asOf"),
		Totals: model.BalanceSheetTotals{
			Assets:      totals.Decimal("Assets", "assets"),
			Liabilities: totals.Decimal("Liabilities", "liabilities"),
			NetWorth:    totals.Decimal("NetWorth", "net_worth", "netWorth"),
		},
		Groups: make([]model.BalanceSheetGroup, 0, len(groups)),
	}
	for _, g := range groups {
		accts := g.Objects("Accounts", "accounts")
		group := model.BalanceSheetGroup{
			Key:      g.String("Key", "key"),
			Label:    g.String("Label", "label"),
			Total:    g.Decimal("Total", "total"),
			Accounts: make([]model.BalanceSheetAccount, 0, len(accts)),
		}
		for _, a := range accts {
			group.Accounts = append(group.Accounts, model.BalanceSheetAccount{
				ID:       a.Int("ID", "id"),
				Name:     a.String("Name", "name"),
				Type:     model.AccountType(a.String("Type", "type")),
				Currency: a.String("Currency", "currency"),
				IsActive: a.Bool("IsActive", "is_active", "isActive"),
				Balance:  a.Decimal("Balance", "balance"),
			})
		}
		bs.Groups = append(bs.Groups, group)
	}
	return bs
}
