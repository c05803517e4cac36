package model

import "github.com/shopspring/decimal"

// Balance sheet group keys.
const (
	GroupAsset     = "asset"
	GroupLiability = "liability"
	GroupOther     = "other"
)

// BalanceSheet is a server-computed balance sheet. Treat as immutable.
type BalanceSheet struct {
	LedgerID int64
	AsOf     string
	Totals   BalanceSheetTotals
	Groups   []BalanceSheetGroup
}

// BalanceSheetTotals are the headline figures.
type BalanceSheetTotals struct {
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	NetWorth    decimal.Decimal
}

// BalanceSheetGroup is a named subtotal and its member accounts.
type BalanceSheetGroup struct {
	Key      string
	Label    string
	Total    decimal.Decimal
	Accounts []BalanceSheetAccount
}

// BalanceSheetAccount is an account's balance within a group.
type BalanceSheetAccount struct {
	ID       int64
	Name     string
	Type     AccountType
	Currency string
	IsActive bool
	Balance  decimal.Decimal
}

// Group returns the group with the given key.
func (b BalanceSheet) Group(key string) (BalanceSheetGroup, bool) {
	for _, g := range b.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return BalanceSheetGroup{}, false
}
