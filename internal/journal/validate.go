package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// ValidationError describes one rejected import row.
type ValidationError struct {
	Row         int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Description)
}

// AccountChecker tests whether an account ID exists.
type AccountChecker interface {
	Exists(id int64) bool
}

// ValidateInputs checks import rows before anything is sent. Rows are
// numbered as in the CSV file, header included. A nil accounts skips the
// account check.
func ValidateInputs(inputs []model.TransactionInput, accounts AccountChecker) []ValidationError {
	var errs []ValidationError
	hundred := decimal.NewFromInt(100)

	for i, in := range inputs {
		row := i + 2
		fail := func(format string, args ...any) {
			errs = append(errs, ValidationError{Row: row, Description: fmt.Sprintf(format, args...)})
		}

		if in.Kind != model.TransactionKindIncome && in.Kind != model.TransactionKindExpense {
			fail("kind %q must be income or expense", in.Kind)
		}

		if _, err := time.Parse(model.DateLayout, in.OccurredOn); err != nil {
			fail("occurred_on %q is not a YYYY-MM-DD date", in.OccurredOn)
		}

		if in.AccountID <= 0 {
			fail("account_id is required")
		} else if accounts != nil && !accounts.Exists(in.AccountID) {
			fail("unknown account %d", in.AccountID)
		}

		if in.CategoryID <= 0 {
			fail("category_id is required")
		}

		if in.Amount.IsZero() {
			fail("amount must not be zero")
		} else if !in.Amount.Mul(hundred).Equal(in.Amount.Mul(hundred).Floor()) {
			fail("amount %s has more than 2 decimal places", in.Amount)
		}
	}

	return errs
}
