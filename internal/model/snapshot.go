package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshot asserts an account's absolute balance as of a date. It is
// independent of transaction history.
type AccountSnapshot struct {
	ID        int64
	LedgerID  int64
	AccountID int64
	AsOf      string
	Amount    decimal.Decimal
	Note      string
	CreatedAt *time.Time
}

// SnapshotInput is what a user edits when recording a snapshot.
type SnapshotInput struct {
	AccountID int64
	AsOf      string
	Amount    decimal.Decimal
	Note      string
}
