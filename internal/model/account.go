package model

import "time"

// AccountType classifies ledger accounts.
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeLiability  AccountType = "liability"
	AccountTypeReceivable AccountType = "debt"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOtherAsset AccountType = "other_asset"
)

// AccountTypes lists the closed set of account types in display order.
var AccountTypes = []AccountType{
	AccountTypeCash,
	AccountTypeLiability,
	AccountTypeReceivable,
	AccountTypeInvestment,
	AccountTypeOtherAsset,
}

var accountTypeLabels = map[AccountType]string{
	AccountTypeCash:       "Cash",
	AccountTypeLiability:  "Liability",
	AccountTypeReceivable: "Receivable",
	AccountTypeInvestment: "Investment",
	AccountTypeOtherAsset: "Other Asset",
}

// Known reports whether t is one of AccountTypes.
func (t AccountType) Known() bool {
	_, ok := accountTypeLabels[t]
	return ok
}

// Label returns the display label, or the raw value for unknown types.
func (t AccountType) Label() string {
	if l, ok := accountTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// FormatAccountType returns the display label for a raw account type value.
func FormatAccountType(value string) string {
	return AccountType(value).Label()
}

// Account is the canonical account record.
type Account struct {
	ID        int64
	Name      string
	Type      AccountType // unknown wire values are kept as-is
	Currency  string
	IsActive  bool
	CreatedAt *time.Time
}

// AccountInput is what a user edits when creating or updating an account.
type AccountInput struct {
	Name     string
	Type     AccountType
	Currency string
	IsActive bool
}

// Input returns the editable subset of a.
func (a Account) Input() AccountInput {
	return AccountInput{Name: a.Name, Type: a.Type, Currency: a.Currency, IsActive: a.IsActive}
}
