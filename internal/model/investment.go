package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// LotStatus is the open/closed state of a lot.
type LotStatus string

const (
	LotOpen   LotStatus = "open"
	LotClosed LotStatus = "closed"
)

// ParseLotStatus maps any value other than "closed" to LotOpen, so an
// unrecognized status leaves a lot sellable.
func ParseLotStatus(s string) LotStatus {
	if s == string(LotClosed) {
		return LotClosed
	}
	return LotOpen
}

// ErrLotInconsistent reports a lot whose quantities or status disagree.
var ErrLotInconsistent = errors.New("lot state inconsistent")

// QuantityTolerance is the slack allowed when comparing lot quantities.
// The server keeps quantities in float64, so its sums drift in the last
// digits.
var QuantityTolerance = decimal.New(1, -8)

// withinTolerance reports whether a and b differ by at most
// QuantityTolerance.
func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(QuantityTolerance)
}

// ExceedsTolerance reports whether qty is larger than limit by more than
// QuantityTolerance.
func ExceedsTolerance(qty, limit decimal.Decimal) bool {
	return qty.GreaterThan(limit.Add(QuantityTolerance))
}

func belowTolerance(q decimal.Decimal) bool {
	return q.LessThan(QuantityTolerance.Neg())
}

// Lot is a cost-basis lot opened by a buy and consumed by sales.
//
// AllocatedQuantity + RemainingQuantity == Quantity, both are non-negative,
// and Status is LotClosed exactly when RemainingQuantity is zero. All three
// hold within QuantityTolerance.
type Lot struct {
	LotID             int64
	LedgerID          int64
	SecurityID        int64
	SecurityTicker    string
	SecurityName      string
	Quantity          decimal.Decimal
	Price             decimal.Decimal // cost price per unit, fees included
	TradePrice        decimal.Decimal // execution price per unit
	Fee               decimal.Decimal
	Tax               decimal.Decimal
	TransactionLineID int64
	TransactionID     int64
	OccurredOn        string
	AllocatedQuantity decimal.Decimal
	RemainingQuantity decimal.Decimal
	Status            LotStatus
}

// OpenLot returns a fresh lot with nothing allocated.
func OpenLot(lotID int64, quantity decimal.Decimal) Lot {
	return Lot{
		LotID:             lotID,
		Quantity:          quantity,
		AllocatedQuantity: decimal.Zero,
		RemainingQuantity: quantity,
		Status:            statusFor(quantity),
	}
}

// Check verifies the lot invariants. A closed lot may carry a remainder
// within QuantityTolerance of zero; an open lot must have some quantity
// left.
func (l Lot) Check() error {
	switch {
	case belowTolerance(l.AllocatedQuantity):
		return fmt.Errorf("%w: lot %d allocated quantity %s is negative", ErrLotInconsistent, l.LotID, l.AllocatedQuantity)
	case belowTolerance(l.RemainingQuantity):
		return fmt.Errorf("%w: lot %d remaining quantity %s is negative", ErrLotInconsistent, l.LotID, l.RemainingQuantity)
	case !withinTolerance(l.AllocatedQuantity.Add(l.RemainingQuantity), l.Quantity):
		return fmt.Errorf("%w: lot %d allocated %s + remaining %s != quantity %s",
			ErrLotInconsistent, l.LotID, l.AllocatedQuantity, l.RemainingQuantity, l.Quantity)
	case l.Status == LotClosed && l.RemainingQuantity.GreaterThan(QuantityTolerance),
		l.Status == LotOpen && !l.RemainingQuantity.IsPositive():
		return fmt.Errorf("%w: lot %d is %s with remaining quantity %s",
			ErrLotInconsistent, l.LotID, l.Status, l.RemainingQuantity)
	}
	return nil
}

// Settled returns the lot with float noise removed: quantities within
// QuantityTolerance of zero become zero, and the status follows.
func (l Lot) Settled() Lot {
	if withinTolerance(l.AllocatedQuantity, decimal.Zero) {
		l.AllocatedQuantity = decimal.Zero
	}
	if withinTolerance(l.RemainingQuantity, decimal.Zero) {
		l.RemainingQuantity = decimal.Zero
	}
	l.Status = statusFor(l.RemainingQuantity)
	return l
}

// Allocate consumes qty from the lot. Allocation only grows; qty must be
// positive and no larger than the remaining quantity, within
// QuantityTolerance. A remainder within tolerance of zero closes the lot.
func (l *Lot) Allocate(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("lot %d: allocation quantity %s must be positive", l.LotID, qty)
	}
	if ExceedsTolerance(qty, l.RemainingQuantity) {
		return fmt.Errorf("lot %d: allocation quantity %s exceeds remaining %s", l.LotID, qty, l.RemainingQuantity)
	}
	l.AllocatedQuantity = l.AllocatedQuantity.Add(qty)
	l.RemainingQuantity = l.RemainingQuantity.Sub(qty)
	if withinTolerance(l.RemainingQuantity, decimal.Zero) {
		l.RemainingQuantity = decimal.Zero
	}
	l.Status = statusFor(l.RemainingQuantity)
	return nil
}

func statusFor(remaining decimal.Decimal) LotStatus {
	if remaining.IsPositive() {
		return LotOpen
	}
	return LotClosed
}

// Buy opens a lot. Either SecurityID or SecurityTicker+SecurityName must be
// set; the server resolves or creates the security.
type Buy struct {
	LedgerID            int64
	OccurredOn          string
	SecurityID          int64
	SecurityTicker      string
	SecurityName        string
	CashAccountID       int64
	InvestmentAccountID int64
	Quantity            decimal.Decimal
	Price               decimal.Decimal
	Fee                 decimal.Decimal
	FeeCategoryID       *int64
	Tax                 decimal.Decimal
	TaxCategoryID       *int64
	Description         string
	Note                string
}

// HasSecurity reports whether the buy identifies its security.
func (b Buy) HasSecurity() bool {
	return b.SecurityID > 0 || (b.SecurityTicker != "" && b.SecurityName != "")
}

// BuyResult carries the server's figures for a recorded buy.
type BuyResult struct {
	TransactionID int64
	LotID         int64
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	GrossAmount   decimal.Decimal // quantity × price
	CostAmount    decimal.Decimal // gross + fee + tax
	Fee           decimal.Decimal
	Tax           decimal.Decimal
}

// SaleAllocation attributes part of a sale to one lot.
type SaleAllocation struct {
	LotID    int64
	Quantity decimal.Decimal
}

// Sale disposes of Quantity units drawn from one or more lots.
type Sale struct {
	LedgerID            int64
	OccurredOn          string
	SecurityID          int64
	CashAccountID       int64
	InvestmentAccountID int64
	Quantity            decimal.Decimal
	Price               decimal.Decimal
	Fee                 decimal.Decimal
	FeeCategoryID       *int64
	Tax                 decimal.Decimal
	TaxCategoryID       *int64
	Description         string
	Note                string
	Allocations         []SaleAllocation
}

// AllocatedQuantity sums the allocation quantities.
func (s Sale) AllocatedQuantity() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range s.Allocations {
		sum = sum.Add(a.Quantity)
	}
	return sum
}

// SaleResult carries the server's figures for a recorded sale. CostAmount
// is the cost basis drawn from the allocated lots.
type SaleResult struct {
	TransactionID int64
	SaleID        int64
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	GrossAmount   decimal.Decimal
	CostAmount    decimal.Decimal
	Fee           decimal.Decimal
	Tax           decimal.Decimal
}
