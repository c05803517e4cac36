package investment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// ErrInvalidSale wraps every sale rejected before submission.
var ErrInvalidSale = errors.New("invalid sale")

// ValidationError describes a single allocation rule a sale breaks. LotID is
// zero for rules about the sale as a whole.
type ValidationError struct {
	LotID       int64
	Description string
}

func (e ValidationError) Error() string {
	if e.LotID == 0 {
		return e.Description
	}
	return fmt.Sprintf("lot %d: %s", e.LotID, e.Description)
}

// LotLookup returns the last-known state of a lot.
type LotLookup func(lotID int64) (model.Lot, bool)

// ValidateSale checks a sale's allocations against the last-known lots:
// there is at least one allocation, every quantity is positive, the
// quantities sum to the sale quantity, and no lot is asked for more than it
// has remaining, within model.QuantityTolerance. Allocations naming the same lot are summed before the
// remaining check. Violations are joined and wrapped by ErrInvalidSale.
func ValidateSale(sale model.Sale, lookup LotLookup) error {
	var errs []error

	if len(sale.Allocations) == 0 {
		errs = append(errs, ValidationError{Description: "sale has no allocations"})
	}

	perLot := make(map[int64]decimal.Decimal)
	var order []int64
	for _, a := range sale.Allocations {
		if !a.Quantity.IsPositive() {
			errs = append(errs, ValidationError{
				LotID:       a.LotID,
				Description: fmt.Sprintf("allocation quantity %s must be positive", a.Quantity),
			})
		}
		if _, seen := perLot[a.LotID]; !seen {
			order = append(order, a.LotID)
			perLot[a.LotID] = decimal.Zero
		}
		perLot[a.LotID] = perLot[a.LotID].Add(a.Quantity)
	}

	if len(sale.Allocations) > 0 {
		if sum := sale.AllocatedQuantity(); !sum.Equal(sale.Quantity) {
			errs = append(errs, ValidationError{
				Description: fmt.Sprintf("allocations sum to %s, sale quantity is %s", sum, sale.Quantity),
			})
		}
	}

	for _, id := range order {
		lot, ok := lookup(id)
		if !ok {
			errs = append(errs, ValidationError{LotID: id, Description: "lot not loaded; list lots first"})
			continue
		}
		if want := perLot[id]; model.ExceedsTolerance(want, lot.RemainingQuantity) {
			errs = append(errs, ValidationError{
				LotID:       id,
				Description: fmt.Sprintf("allocation %s exceeds remaining %s", want, lot.RemainingQuantity),
			})
		}
		if sale.SecurityID != 0 && lot.SecurityID != 0 && lot.SecurityID != sale.SecurityID {
			errs = append(errs, ValidationError{
				LotID:       id,
				Description: fmt.Sprintf("lot holds security %d, sale is for %d", lot.SecurityID, sale.SecurityID),
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSale, errors.Join(errs...))
}

// ErrInvalidBuy wraps every buy rejected before submission.
var ErrInvalidBuy = errors.New("invalid buy")

// ValidateBuy checks that a buy names its security and has a positive
// quantity and a non-negative price.
func ValidateBuy(b model.Buy) error {
	var errs []error
	if !b.HasSecurity() {
		errs = append(errs, errors.New("security id or ticker and name required"))
	}
	if !b.Quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("quantity %s must be positive", b.Quantity))
	}
	if b.Price.IsNegative() {
		errs = append(errs, fmt.Errorf("price %s must not be negative", b.Price))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidBuy, errors.Join(errs...))
}
