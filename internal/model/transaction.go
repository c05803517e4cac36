package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates (occurred_on, as_of).
const DateLayout = "2006-01-02"

// TransactionKind is the user-facing direction of a transaction.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// SignedAmount applies the sign convention: income is +|amount|, expense is
// -|amount|. The sign of the input is ignored.
func SignedAmount(kind TransactionKind, amount decimal.Decimal) decimal.Decimal {
	if kind == TransactionKindExpense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// KindOf returns the kind implied by the sign of a stored amount.
func KindOf(amount decimal.Decimal) TransactionKind {
	if amount.IsNegative() {
		return TransactionKindExpense
	}
	return TransactionKindIncome
}

// TransactionRow is one line of a transaction as listed by the server.
// Amount is signed: positive = inflow, negative = outflow.
type TransactionRow struct {
	TransactionID int64
	LineID        int64
	OccurredOn    string
	AccountID     int64
	AccountName   string
	CategoryID    int64
	CategoryName  string
	CategoryKind  CategoryKind
	Amount        decimal.Decimal
	Description   string
	Note          string
	CreatedAt     *time.Time
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Rows  []TransactionRow
	Total int64
}

// TransactionInput is a transaction form: the user picks a kind and enters
// an unsigned magnitude.
type TransactionInput struct {
	Kind        TransactionKind
	OccurredOn  string
	AccountID   int64
	CategoryID  int64
	Amount      decimal.Decimal
	Description string
	Note        string
}

// Transfer moves Amount from one account to another. It is write-only; the
// server answers with the id of the transaction it created.
type Transfer struct {
	LedgerID      int64
	OccurredOn    string
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Description   string
	Note          string
}
